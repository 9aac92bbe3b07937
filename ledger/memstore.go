package ledger

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

// MemStore is an in-memory Store. Writers are serialized; each Update stages
// its writes in a change-set that is applied only when fn returns nil.
type MemStore struct {
	mu     sync.RWMutex
	closed bool

	claims  map[token.ID]common.Address
	index   map[common.Address][]token.ID
	count   uint64
	balance uint256.Int
	scheme  payout.Scheme
	credits map[common.Address]uint256.Int
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		claims:  make(map[token.ID]common.Address),
		index:   make(map[common.Address][]token.ID),
		credits: make(map[common.Address]uint256.Int),
	}
}

// View runs fn against the committed state.
func (s *MemStore) View(fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&memTx{store: s})
}

// Update runs fn against a staged change-set and commits it if fn succeeds.
func (s *MemStore) Update(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	tx := &memTx{store: s, writable: true, pending: newChangeSet()}
	if err := fn(tx); err != nil {
		return err
	}
	tx.pending.apply(s)
	return nil
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// changeSet is the staged output of one Update.
type changeSet struct {
	claims    map[token.ID]common.Address
	order     []token.ID
	balance   *uint256.Int
	scheme    payout.Scheme
	schemeSet bool
	credits   map[common.Address]uint256.Int
}

func newChangeSet() *changeSet {
	return &changeSet{
		claims:  make(map[token.ID]common.Address),
		credits: make(map[common.Address]uint256.Int),
	}
}

func (c *changeSet) apply(s *MemStore) {
	for _, id := range c.order {
		claimant := c.claims[id]
		s.claims[id] = claimant
		s.index[claimant] = append(s.index[claimant], id)
		s.count++
	}
	if c.balance != nil {
		s.balance = *c.balance
	}
	if c.schemeSet {
		s.scheme = c.scheme
	}
	for addr, v := range c.credits {
		s.credits[addr] = v
	}
}

type memTx struct {
	store    *MemStore
	writable bool
	pending  *changeSet
}

func (tx *memTx) ClaimantOf(id token.ID) (common.Address, bool, error) {
	if tx.pending != nil {
		if c, ok := tx.pending.claims[id]; ok {
			return c, true, nil
		}
	}
	c, ok := tx.store.claims[id]
	return c, ok, nil
}

func (tx *memTx) RecordClaim(id token.ID, claimant common.Address) error {
	if !tx.writable {
		return ErrReadOnly
	}
	if _, ok, _ := tx.ClaimantOf(id); ok {
		return fmt.Errorf("%w: %s", ErrAlreadyClaimed, id.Dec())
	}
	tx.pending.claims[id] = claimant
	tx.pending.order = append(tx.pending.order, id)
	return nil
}

func (tx *memTx) ClaimCount() (uint64, error) {
	n := tx.store.count
	if tx.pending != nil {
		n += uint64(len(tx.pending.order))
	}
	return n, nil
}

func (tx *memTx) ClaimantClaimCount(claimant common.Address) (uint64, error) {
	ids, err := tx.ClaimedTokenIDs(claimant)
	return uint64(len(ids)), err
}

func (tx *memTx) ClaimedTokenIDs(claimant common.Address) ([]token.ID, error) {
	committed := tx.store.index[claimant]
	ids := make([]token.ID, len(committed), len(committed)+1)
	copy(ids, committed)
	if tx.pending != nil {
		for _, id := range tx.pending.order {
			if tx.pending.claims[id] == claimant {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (tx *memTx) Balance() (*uint256.Int, error) {
	if tx.pending != nil && tx.pending.balance != nil {
		return tx.pending.balance.Clone(), nil
	}
	return tx.store.balance.Clone(), nil
}

func (tx *memTx) SetBalance(balance *uint256.Int) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.pending.balance = amountOrZero(balance).Clone()
	return nil
}

func (tx *memTx) Scheme() (payout.Scheme, error) {
	if tx.pending != nil && tx.pending.schemeSet {
		return tx.pending.scheme.Clone(), nil
	}
	return tx.store.scheme.Clone(), nil
}

func (tx *memTx) SetScheme(s payout.Scheme) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.pending.scheme = s.Clone()
	tx.pending.schemeSet = true
	return nil
}

func (tx *memTx) Credits(addr common.Address) (*uint256.Int, error) {
	if tx.pending != nil {
		if v, ok := tx.pending.credits[addr]; ok {
			return v.Clone(), nil
		}
	}
	v := tx.store.credits[addr]
	return v.Clone(), nil
}

func (tx *memTx) Credit(addr common.Address, amount *uint256.Int) error {
	if !tx.writable {
		return ErrReadOnly
	}
	current, _ := tx.Credits(addr)
	if _, overflow := current.AddOverflow(current, amountOrZero(amount)); overflow {
		return fmt.Errorf("%w: credits for %s", ErrBalanceOverflow, addr.Hex())
	}
	tx.pending.credits[addr] = *current
	return nil
}

func amountOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
