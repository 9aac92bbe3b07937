package oracle

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/JayWelsh/claim-against-nft/token"
)

// Registry is an in-memory token registry. It mints sequential IDs starting
// at 1 and supports transfers, which is enough to stand in for a deployed
// collection in local runs and tests.
type Registry struct {
	mu       sync.RWMutex
	owners   map[token.ID]common.Address
	balances map[common.Address]uint64
	next     uint64
}

var _ OwnerOracle = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		owners:   make(map[token.ID]common.Address),
		balances: make(map[common.Address]uint64),
		next:     1,
	}
}

// Mint assigns the next sequential ID to owner and returns it.
func (r *Registry) Mint(owner common.Address) (token.ID, error) {
	if owner == (common.Address{}) {
		return token.ID{}, ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := token.NewID(r.next)
		r.next++
		if _, taken := r.owners[id]; !taken {
			r.owners[id] = owner
			r.balances[owner]++
			return id, nil
		}
	}
}

// MintID assigns a specific ID to owner.
func (r *Registry) MintID(id token.ID, owner common.Address) error {
	if owner == (common.Address{}) {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.owners[id]; taken {
		return fmt.Errorf("%w: %s", ErrTokenExists, id.Dec())
	}
	r.owners[id] = owner
	r.balances[owner]++
	return nil
}

// Transfer moves id from one owner to another.
func (r *Registry) Transfer(from, to common.Address, id token.ID) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNonexistentToken, id.Dec())
	}
	if owner != from {
		return fmt.Errorf("%w: token %s is owned by %s", ErrNotTokenOwner, id.Dec(), owner.Hex())
	}
	r.owners[id] = to
	r.balances[from]--
	r.balances[to]++
	return nil
}

// OwnerOf returns the current owner of id.
func (r *Registry) OwnerOf(_ context.Context, id token.ID) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[id]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNonexistentToken, id.Dec())
	}
	return owner, nil
}

// BalanceOf returns how many tokens owner holds.
func (r *Registry) BalanceOf(owner common.Address) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[owner]
}

// TotalSupply returns the number of minted tokens.
func (r *Registry) TotalSupply() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.owners))
}
