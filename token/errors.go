package token

import "errors"

var (
	// ErrInvalidID indicates a token identifier could not be parsed.
	ErrInvalidID = errors.New("token: invalid token ID")

	// ErrInvalidKey indicates a stored token key has the wrong length.
	ErrInvalidKey = errors.New("token: invalid token key")
)
