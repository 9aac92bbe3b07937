// Package oracle answers "who currently owns token X" for the claim ledger.
// The ledger only ever reads ownership; minting and transfers happen
// elsewhere (Registry offers them for local setups and tests).
package oracle

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/JayWelsh/claim-against-nft/token"
)

// OwnerOracle reports the current owner of a token. Implementations must
// return a strongly consistent answer: the ledger acts on it immediately.
type OwnerOracle interface {
	OwnerOf(ctx context.Context, id token.ID) (common.Address, error)
}

// OwnerFunc adapts a plain function to OwnerOracle.
type OwnerFunc func(ctx context.Context, id token.ID) (common.Address, error)

// OwnerOf calls f.
func (f OwnerFunc) OwnerOf(ctx context.Context, id token.ID) (common.Address, error) {
	return f(ctx, id)
}
