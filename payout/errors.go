package payout

import "errors"

var (
	// ErrEmptyScheme indicates a scheme with no entries.
	ErrEmptyScheme = errors.New("payout: scheme must contain at least one entry")

	// ErrLengthMismatch indicates the recipient and share lists differ in length.
	ErrLengthMismatch = errors.New("payout: recipient and share lists differ in length")

	// ErrShareOutOfRange indicates a share of zero or above 10000 basis points.
	ErrShareOutOfRange = errors.New("payout: share must be between 1 and 10000 basis points")

	// ErrSharesDoNotSumToWhole indicates the shares do not add up to 10000 basis points.
	ErrSharesDoNotSumToWhole = errors.New("payout: shares must sum to 10000 basis points")

	// ErrZeroRecipient indicates an entry pays the zero address.
	ErrZeroRecipient = errors.New("payout: recipient must not be the zero address")

	// ErrInvalidSchemeData indicates an encoded scheme is malformed.
	ErrInvalidSchemeData = errors.New("payout: invalid scheme data")

	// ErrTooManyEntries indicates a scheme too large to encode.
	ErrTooManyEntries = errors.New("payout: too many entries")

	// ErrConservationViolation indicates a split created or lost funds.
	ErrConservationViolation = errors.New("payout: split does not conserve the balance")
)
