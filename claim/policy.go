package claim

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Operation names a privileged contract operation.
type Operation string

const (
	OpDistributeFees        Operation = "distributeFees"
	OpUpdateFeePayoutScheme Operation = "updateFeePayoutScheme"
)

// Policy decides who may run privileged operations. A refusal should wrap
// ErrUnauthorized.
type Policy interface {
	Authorize(caller common.Address, op Operation) error
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(caller common.Address, op Operation) error

// Authorize calls f.
func (f PolicyFunc) Authorize(caller common.Address, op Operation) error { return f(caller, op) }

// Unrestricted lets anyone run every operation.
func Unrestricted() Policy {
	return PolicyFunc(func(common.Address, Operation) error { return nil })
}

// OnlyAdmin restricts privileged operations to admin.
func OnlyAdmin(admin common.Address) Policy {
	return PolicyFunc(func(caller common.Address, op Operation) error {
		if caller != admin {
			return fmt.Errorf("%w: %s may not call %s", ErrUnauthorized, caller.Hex(), op)
		}
		return nil
	})
}
