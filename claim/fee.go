package claim

import (
	"fmt"

	"github.com/holiman/uint256"
)

// FeeSchedule prices a claim batch at a fixed fee per token.
type FeeSchedule struct {
	unit uint256.Int
}

// NewFeeSchedule returns a schedule charging unit per token. A nil unit is a
// zero fee.
func NewFeeSchedule(unit *uint256.Int) FeeSchedule {
	var f FeeSchedule
	if unit != nil {
		f.unit.Set(unit)
	}
	return f
}

// Unit returns a copy of the per-token fee.
func (f FeeSchedule) Unit() *uint256.Int {
	return new(uint256.Int).Set(&f.unit)
}

// IsFree reports whether claims cost nothing.
func (f FeeSchedule) IsFree() bool { return f.unit.IsZero() }

// Required returns unit * batchSize.
func (f FeeSchedule) Required(batchSize int) (*uint256.Int, error) {
	if batchSize < 0 {
		return nil, fmt.Errorf("%w: negative batch size %d", ErrIncorrectFee, batchSize)
	}
	total, overflow := new(uint256.Int).MulOverflow(&f.unit, uint256.NewInt(uint64(batchSize)))
	if overflow {
		return nil, fmt.Errorf("%w: %s x %d", ErrFeeOverflow, f.unit.Dec(), batchSize)
	}
	return total, nil
}

// Validate checks that supplied is exactly the fee for batchSize tokens. A
// nil payment counts as zero.
func (f FeeSchedule) Validate(supplied *uint256.Int, batchSize int) error {
	required, err := f.Required(batchSize)
	if err != nil {
		return err
	}
	if supplied == nil {
		supplied = new(uint256.Int)
	}
	if !supplied.Eq(required) {
		return fmt.Errorf("%w: got %s, want %s", ErrIncorrectFee, supplied.Dec(), required.Dec())
	}
	return nil
}
