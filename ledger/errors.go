package ledger

import "errors"

var (
	// ErrEmptyBatch indicates a claim with no token IDs.
	ErrEmptyBatch = errors.New("ledger: no token IDs provided")

	// ErrNotOwner indicates the claimant does not own a token in the batch.
	ErrNotOwner = errors.New("ledger: claimant does not own specified token")

	// ErrAlreadyClaimed indicates a token in the batch has already been claimed against.
	ErrAlreadyClaimed = errors.New("ledger: token with provided ID has already been claimed against")

	// ErrOwnerLookup indicates the ownership oracle could not answer.
	ErrOwnerLookup = errors.New("ledger: ownership lookup failed")

	// ErrZeroClaimant indicates a claim by the zero address.
	ErrZeroClaimant = errors.New("ledger: claimant must not be the zero address")

	// ErrReadOnly indicates a write attempted inside a read-only transaction.
	ErrReadOnly = errors.New("ledger: transaction is read-only")

	// ErrBalanceOverflow indicates a credit would overflow a 256-bit balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")

	// ErrCorruptRecord indicates a stored record could not be decoded.
	ErrCorruptRecord = errors.New("ledger: corrupt record")

	// ErrClosed indicates use of a closed store.
	ErrClosed = errors.New("ledger: store is closed")
)
