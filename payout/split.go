package payout

import "github.com/holiman/uint256"

var wholeBP = uint256.NewInt(WholeBasisPoints)

// Split cuts balance into per-recipient payouts: floor(balance*share/10000)
// for each entry, all computed from the same starting balance. The leftover
// from truncation is returned as remainder and is not assigned to anyone.
func Split(balance *uint256.Int, s Scheme) ([]Payout, *uint256.Int, error) {
	if err := Validate(s); err != nil {
		return nil, nil, err
	}
	if balance == nil {
		balance = new(uint256.Int)
	}

	payouts := make([]Payout, len(s))
	paid := new(uint256.Int)
	for i, e := range s {
		// share <= 10000, so the quotient never exceeds balance.
		amount, _ := new(uint256.Int).MulDivOverflow(balance, uint256.NewInt(e.Share), wholeBP)
		payouts[i] = Payout{Recipient: e.Recipient, Share: e.Share, Amount: amount}
		paid.Add(paid, amount)
	}
	remainder := new(uint256.Int).Sub(balance, paid)
	return payouts, remainder, nil
}

// Total sums the payout amounts.
func Total(payouts []Payout) *uint256.Int {
	total := new(uint256.Int)
	for _, p := range payouts {
		total.Add(total, p.Amount)
	}
	return total
}
