// Package ledger records which tokens have been claimed, by whom, and the
// fee balance and payout scheme that go with them. All state lives behind a
// Store; every change runs inside one Update call and is applied in full or
// not at all.
package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

// Tx is access to ledger state inside a single atomic unit. Writes are only
// allowed in transactions opened by Store.Update.
type Tx interface {
	// ClaimantOf returns the recorded claimant of id and whether one exists.
	ClaimantOf(id token.ID) (common.Address, bool, error)

	// RecordClaim records claimant against id, appends id to the claimant's
	// sequence and bumps the global count. It refuses an ID that is already
	// recorded with ErrAlreadyClaimed.
	RecordClaim(id token.ID, claimant common.Address) error

	// ClaimCount returns the number of distinct tokens ever claimed.
	ClaimCount() (uint64, error)

	// ClaimantClaimCount returns how many tokens claimant has claimed.
	ClaimantClaimCount(claimant common.Address) (uint64, error)

	// ClaimedTokenIDs returns claimant's token IDs in claim order.
	ClaimedTokenIDs(claimant common.Address) ([]token.ID, error)

	// Balance returns the distributable fee balance.
	Balance() (*uint256.Int, error)

	// SetBalance replaces the distributable fee balance.
	SetBalance(balance *uint256.Int) error

	// Scheme returns the active payout scheme, or nil if none was set.
	Scheme() (payout.Scheme, error)

	// SetScheme replaces the active payout scheme.
	SetScheme(s payout.Scheme) error

	// Credits returns the amount credited to addr by past distributions.
	Credits(addr common.Address) (*uint256.Int, error)

	// Credit adds amount to addr's credited total.
	Credit(addr common.Address, amount *uint256.Int) error
}

// Store owns ledger state and hands out transactions over it.
type Store interface {
	// View runs fn in a read-only transaction.
	View(fn func(Tx) error) error

	// Update runs fn in a read-write transaction. If fn returns an error,
	// nothing fn wrote is kept.
	Update(fn func(Tx) error) error

	// Close releases the store.
	Close() error
}
