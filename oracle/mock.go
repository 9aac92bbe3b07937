package oracle

import (
	"context"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/JayWelsh/claim-against-nft/token"
)

// Mock is a test double for OwnerOracle.
// OwnerOfFn must be set before OwnerOf is called.
type Mock struct {
	OwnerOfFn func(ctx context.Context, id token.ID) (common.Address, error)

	calls atomic.Int64
}

var _ OwnerOracle = (*Mock)(nil)

func (m *Mock) OwnerOf(ctx context.Context, id token.ID) (common.Address, error) {
	m.calls.Add(1)
	return m.OwnerOfFn(ctx, id)
}

// Calls returns how many lookups were made.
func (m *Mock) Calls() int64 { return m.calls.Load() }
