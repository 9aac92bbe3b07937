package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/ledger"
	"github.com/JayWelsh/claim-against-nft/payout"
)

// Report describes a completed distribution.
type Report struct {
	ID          uuid.UUID
	Balance     *uint256.Int // balance before the distribution
	Payouts     []payout.Payout
	Distributed *uint256.Int
	Remainder   *uint256.Int // left in the balance for the next distribution
	Scheme      payout.Scheme
}

// Distributor drains the ledger's fee balance to the active payout scheme.
type Distributor struct {
	store ledger.Store
	payee Payee
}

// NewDistributor returns a distributor paying through payee.
func NewDistributor(store ledger.Store, payee Payee) *Distributor {
	return &Distributor{store: store, payee: payee}
}

// Distribute pays every scheme entry floor(balance*share/10000), in scheme
// order, and deducts what was paid from the balance. It is all or nothing:
// the first failed payment aborts the ledger transaction, reverses earlier
// payments made outside the ledger, and returns a *TransferError naming the
// recipient. If every payment goes through but the ledger transaction still
// fails to commit, the payments are reversed as well. The truncation
// remainder stays in the balance.
func (d *Distributor) Distribute(ctx context.Context) (*Report, error) {
	var (
		report *Report
		paid   []payout.Payout // payments not yet reversed
	)
	err := d.store.Update(func(tx ledger.Tx) error {
		paid = nil
		balance, err := tx.Balance()
		if err != nil {
			return err
		}
		scheme, err := tx.Scheme()
		if err != nil {
			return err
		}
		if len(scheme) == 0 {
			return ErrNoScheme
		}

		payouts, remainder, err := payout.Split(balance, scheme)
		if err != nil {
			return err
		}
		if err := payout.ValidateConservation(payouts, remainder, balance); err != nil {
			return err
		}

		for i, p := range payouts {
			if err := d.payee.Pay(ctx, tx, p.Recipient, p.Amount); err != nil {
				paid = nil
				return &TransferError{
					Recipient:       p.Recipient,
					Amount:          p.Amount,
					Err:             err,
					CompensationErr: d.compensate(ctx, payouts[:i]),
				}
			}
			paid = payouts[:i+1]
		}

		if err := tx.SetBalance(remainder); err != nil {
			return err
		}
		report = &Report{
			ID:          uuid.New(),
			Balance:     balance,
			Payouts:     payouts,
			Distributed: payout.Total(payouts),
			Remainder:   remainder,
			Scheme:      scheme,
		}
		return nil
	})
	if err != nil {
		if cerr := d.compensate(ctx, paid); cerr != nil {
			err = errors.Join(err, fmt.Errorf("compensation: %w", cerr))
		}
		return nil, err
	}
	return report, nil
}

// compensate reverses completed payments, newest first, when the payee
// supports it.
func (d *Distributor) compensate(ctx context.Context, done []payout.Payout) error {
	rev, ok := d.payee.(Reverser)
	if !ok || len(done) == 0 {
		return nil
	}
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		if err := rev.Reverse(ctx, done[i].Recipient, done[i].Amount); err != nil {
			errs = append(errs, fmt.Errorf("reverse %s: %w", done[i].Recipient.Hex(), err))
		}
	}
	return errors.Join(errs...)
}
