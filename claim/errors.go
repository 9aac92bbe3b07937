package claim

import (
	"errors"

	"github.com/JayWelsh/claim-against-nft/ledger"
	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/treasury"
	"github.com/JayWelsh/claim-against-nft/window"
)

// Errors surfaced by the contract. Several are the underlying package's
// sentinel so errors.Is works against either name.
var (
	// ErrEmptyBatch indicates a claim with no token IDs.
	ErrEmptyBatch = ledger.ErrEmptyBatch

	// ErrWindowNotOpen indicates a claim before the window opens.
	ErrWindowNotOpen = window.ErrNotOpen

	// ErrWindowClosed indicates a claim at or after the window closes.
	ErrWindowClosed = window.ErrClosed

	// ErrNotOwner indicates the caller does not own a token in the batch.
	ErrNotOwner = ledger.ErrNotOwner

	// ErrAlreadyClaimed indicates a token in the batch was already claimed against.
	ErrAlreadyClaimed = ledger.ErrAlreadyClaimed

	// ErrTransferFailed indicates a payout recipient could not be paid.
	ErrTransferFailed = treasury.ErrTransferFailed

	// ErrEmptyScheme, ErrLengthMismatch, ErrShareOutOfRange and
	// ErrSharesDoNotSumToWhole are payout scheme validation failures.
	ErrEmptyScheme           = payout.ErrEmptyScheme
	ErrLengthMismatch        = payout.ErrLengthMismatch
	ErrShareOutOfRange       = payout.ErrShareOutOfRange
	ErrSharesDoNotSumToWhole = payout.ErrSharesDoNotSumToWhole
)

var (
	// ErrIncorrectFee indicates the payment is not exactly unit fee times batch size.
	ErrIncorrectFee = errors.New("claim: incorrect claim fee provided")

	// ErrFeeOverflow indicates unit fee times batch size does not fit in 256 bits.
	ErrFeeOverflow = errors.New("claim: required fee overflows")

	// ErrUnauthorized indicates the caller may not perform a privileged operation.
	ErrUnauthorized = errors.New("claim: caller is not authorized")

	// ErrFeesDisabled indicates a fee operation on the fee-free variant.
	ErrFeesDisabled = errors.New("claim: fees are disabled for this claim")

	// ErrMissingOracle indicates construction without an ownership oracle.
	ErrMissingOracle = errors.New("claim: ownership oracle is required")

	// ErrMissingStore indicates construction without a ledger store.
	ErrMissingStore = errors.New("claim: ledger store is required")
)
