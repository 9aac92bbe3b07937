package payout

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// New builds a scheme from parallel recipient and share lists and validates it.
func New(recipients []common.Address, shares []uint64) (Scheme, error) {
	if len(recipients) != len(shares) {
		return nil, fmt.Errorf("%w: %d recipients, %d shares", ErrLengthMismatch, len(recipients), len(shares))
	}
	s := make(Scheme, len(recipients))
	for i := range recipients {
		s[i] = Entry{Recipient: recipients[i], Share: shares[i]}
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the scheme invariants: at least one entry, every share in
// 1..10000, no zero-address recipient, and shares summing to exactly 10000.
func Validate(s Scheme) error {
	if len(s) == 0 {
		return ErrEmptyScheme
	}
	var total uint64
	for i, e := range s {
		if e.Share == 0 || e.Share > WholeBasisPoints {
			return fmt.Errorf("%w: entry %d has %d", ErrShareOutOfRange, i, e.Share)
		}
		if e.Recipient == (common.Address{}) {
			return fmt.Errorf("%w: entry %d", ErrZeroRecipient, i)
		}
		// Each share is at most 10000, so the running total cannot overflow.
		total += e.Share
	}
	if total != WholeBasisPoints {
		return fmt.Errorf("%w: got %d", ErrSharesDoNotSumToWhole, total)
	}
	return nil
}

// ValidateConservation checks that the payouts plus the undistributed
// remainder add back up to the balance they were cut from.
func ValidateConservation(payouts []Payout, remainder, balance *uint256.Int) error {
	total := new(uint256.Int).Set(remainder)
	for _, p := range payouts {
		if _, overflow := total.AddOverflow(total, p.Amount); overflow {
			return fmt.Errorf("%w: payout total overflows", ErrConservationViolation)
		}
	}
	if !total.Eq(balance) {
		return fmt.Errorf("%w: paid+remainder=%s balance=%s", ErrConservationViolation, total.Dec(), balance.Dec())
	}
	return nil
}
