package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/oracle"
	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

// Ledger is the claim ledger over a Store.
type Ledger struct {
	store Store
}

// New returns a ledger backed by store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Store returns the backing store.
func (l *Ledger) Store() Store { return l.store }

// Claim checks every ID in ids against the oracle and the existing records,
// then records the whole batch for claimant and adds payment to the
// distributable balance. Nothing is written unless every ID passes.
//
// For each ID, in order: the oracle must report claimant as owner
// (ErrNotOwner), and the ID must be unclaimed, including by an earlier
// position in the same batch (ErrAlreadyClaimed).
func (l *Ledger) Claim(ctx context.Context, owners oracle.OwnerOracle, claimant common.Address, ids []token.ID, payment *uint256.Int) error {
	if len(ids) == 0 {
		return ErrEmptyBatch
	}
	if claimant == (common.Address{}) {
		return ErrZeroClaimant
	}

	return l.store.Update(func(tx Tx) error {
		seen := make(map[token.ID]struct{}, len(ids))
		for _, id := range ids {
			owner, err := owners.OwnerOf(ctx, id)
			if err != nil {
				return fmt.Errorf("%w: token %s: %w", ErrOwnerLookup, id.Dec(), err)
			}
			if owner != claimant {
				return fmt.Errorf("%w: token %s", ErrNotOwner, id.Dec())
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s (repeated in batch)", ErrAlreadyClaimed, id.Dec())
			}
			if _, claimed, err := tx.ClaimantOf(id); err != nil {
				return err
			} else if claimed {
				return fmt.Errorf("%w: %s", ErrAlreadyClaimed, id.Dec())
			}
			seen[id] = struct{}{}
		}

		for _, id := range ids {
			if err := tx.RecordClaim(id, claimant); err != nil {
				return err
			}
		}

		if payment == nil || payment.IsZero() {
			return nil
		}
		balance, err := tx.Balance()
		if err != nil {
			return err
		}
		if _, overflow := balance.AddOverflow(balance, payment); overflow {
			return ErrBalanceOverflow
		}
		return tx.SetBalance(balance)
	})
}

// ClaimCount returns the number of distinct tokens ever claimed.
func (l *Ledger) ClaimCount() (uint64, error) {
	var n uint64
	err := l.store.View(func(tx Tx) error {
		var err error
		n, err = tx.ClaimCount()
		return err
	})
	return n, err
}

// ClaimantClaimCount returns how many tokens claimant has claimed; zero if none.
func (l *Ledger) ClaimantClaimCount(claimant common.Address) (uint64, error) {
	var n uint64
	err := l.store.View(func(tx Tx) error {
		var err error
		n, err = tx.ClaimantClaimCount(claimant)
		return err
	})
	return n, err
}

// ClaimedTokenIDs returns claimant's token IDs in claim order; empty if none.
func (l *Ledger) ClaimedTokenIDs(claimant common.Address) ([]token.ID, error) {
	var ids []token.ID
	err := l.store.View(func(tx Tx) error {
		var err error
		ids, err = tx.ClaimedTokenIDs(claimant)
		return err
	})
	if ids == nil && err == nil {
		ids = []token.ID{}
	}
	return ids, err
}

// ClaimantOf returns the claimant recorded for id and whether there is one.
func (l *Ledger) ClaimantOf(id token.ID) (common.Address, bool, error) {
	var (
		addr common.Address
		ok   bool
	)
	err := l.store.View(func(tx Tx) error {
		var err error
		addr, ok, err = tx.ClaimantOf(id)
		return err
	})
	return addr, ok, err
}

// Balance returns the distributable fee balance.
func (l *Ledger) Balance() (*uint256.Int, error) {
	var b *uint256.Int
	err := l.store.View(func(tx Tx) error {
		var err error
		b, err = tx.Balance()
		return err
	})
	return b, err
}

// Scheme returns the active payout scheme, or nil if none is set.
func (l *Ledger) Scheme() (payout.Scheme, error) {
	var s payout.Scheme
	err := l.store.View(func(tx Tx) error {
		var err error
		s, err = tx.Scheme()
		return err
	})
	return s, err
}

// SetScheme validates s and makes it the active payout scheme.
func (l *Ledger) SetScheme(s payout.Scheme) error {
	if err := payout.Validate(s); err != nil {
		return err
	}
	return l.store.Update(func(tx Tx) error {
		return tx.SetScheme(s)
	})
}

// InitScheme sets s as the active scheme only if the store has none yet,
// and returns the scheme that ends up active.
func (l *Ledger) InitScheme(s payout.Scheme) (payout.Scheme, error) {
	if err := payout.Validate(s); err != nil {
		return nil, err
	}
	var active payout.Scheme
	err := l.store.Update(func(tx Tx) error {
		current, err := tx.Scheme()
		if err != nil {
			return err
		}
		if len(current) > 0 {
			active = current
			return nil
		}
		active = s.Clone()
		return tx.SetScheme(s)
	})
	return active, err
}

// Credits returns the total credited to addr by distributions.
func (l *Ledger) Credits(addr common.Address) (*uint256.Int, error) {
	var c *uint256.Int
	err := l.store.View(func(tx Tx) error {
		var err error
		c, err = tx.Credits(addr)
		return err
	})
	return c, err
}
