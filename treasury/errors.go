package treasury

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	// ErrTransferFailed indicates a recipient could not be paid; the whole distribution was undone.
	ErrTransferFailed = errors.New("treasury: transfer failed")

	// ErrNoScheme indicates there is no payout scheme to distribute by.
	ErrNoScheme = errors.New("treasury: no payout scheme set")

	// ErrRecipientRefused indicates a recipient that does not accept funds.
	ErrRecipientRefused = errors.New("treasury: recipient refuses funds")
)

// TransferError names the recipient whose payment failed. It matches
// ErrTransferFailed under errors.Is and unwraps to the payee's error.
type TransferError struct {
	Recipient common.Address
	Amount    *uint256.Int
	Err       error

	// CompensationErr is set when undoing earlier payments also failed.
	CompensationErr error
}

func (e *TransferError) Error() string {
	msg := fmt.Sprintf("%v: recipient %s amount %s: %v", ErrTransferFailed, e.Recipient.Hex(), e.Amount.Dec(), e.Err)
	if e.CompensationErr != nil {
		msg += fmt.Sprintf(" (compensation: %v)", e.CompensationErr)
	}
	return msg
}

// Is reports whether target is ErrTransferFailed.
func (e *TransferError) Is(target error) bool { return target == ErrTransferFailed }

// Unwrap returns the payee's error.
func (e *TransferError) Unwrap() error { return e.Err }
