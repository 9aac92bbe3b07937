// Package payout holds the fee payout scheme: an ordered list of recipients
// with basis-point shares that must add up to exactly 100%.
package payout

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// WholeBasisPoints is 100% expressed in basis points.
const WholeBasisPoints = 10000

// Entry is one recipient's slot in a payout scheme.
type Entry struct {
	Recipient common.Address
	Share     uint64 // basis points, 1..10000
}

// Scheme is an ordered payout scheme. Order decides which recipient is paid
// first; amounts do not depend on it.
type Scheme []Entry

// Recipients returns the recipient column of the scheme.
func (s Scheme) Recipients() []common.Address {
	out := make([]common.Address, len(s))
	for i := range s {
		out[i] = s[i].Recipient
	}
	return out
}

// Shares returns the share column of the scheme.
func (s Scheme) Shares() []uint64 {
	out := make([]uint64, len(s))
	for i := range s {
		out[i] = s[i].Share
	}
	return out
}

// Clone returns a copy that does not alias s.
func (s Scheme) Clone() Scheme {
	if s == nil {
		return nil
	}
	out := make(Scheme, len(s))
	copy(out, s)
	return out
}

// Payout is a single recipient's cut of a distribution.
type Payout struct {
	Recipient common.Address
	Share     uint64
	Amount    *uint256.Int
}
