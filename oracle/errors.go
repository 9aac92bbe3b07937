package oracle

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("oracle: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("oracle: invalid response")

	// ErrCallReverted indicates the ownerOf call reverted, typically for a token that does not exist.
	ErrCallReverted = errors.New("oracle: contract call reverted")

	// ErrNonexistentToken indicates the token has never been minted.
	ErrNonexistentToken = errors.New("oracle: token does not exist")

	// ErrTokenExists indicates an attempt to mint an ID that is already owned.
	ErrTokenExists = errors.New("oracle: token already minted")

	// ErrNotTokenOwner indicates a transfer from an address that does not own the token.
	ErrNotTokenOwner = errors.New("oracle: transfer from non-owner")

	// ErrZeroAddress indicates a mint or transfer to the zero address.
	ErrZeroAddress = errors.New("oracle: zero address")

	// ErrMissingRPCURL indicates no RPC endpoint could be resolved.
	ErrMissingRPCURL = errors.New("oracle: RPC URL is required")
)
