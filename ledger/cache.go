package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	gocache "github.com/patrickmn/go-cache"

	"github.com/JayWelsh/claim-against-nft/token"
)

// CachedReader serves claimant lookups from memory once a token is known to
// be claimed. A recorded claim never changes, so positive answers can be
// cached freely; "unclaimed" answers always go to the store.
type CachedReader struct {
	ledger *Ledger
	cache  *gocache.Cache
}

// NewCachedReader wraps l with a cache whose entries expire after ttl.
func NewCachedReader(l *Ledger, ttl, cleanupInterval time.Duration) *CachedReader {
	return &CachedReader{ledger: l, cache: gocache.New(ttl, cleanupInterval)}
}

// ClaimantOf behaves like Ledger.ClaimantOf.
func (r *CachedReader) ClaimantOf(id token.ID) (common.Address, bool, error) {
	key := string(token.Key(id))
	if v, found := r.cache.Get(key); found {
		return v.(common.Address), true, nil
	}
	addr, ok, err := r.ledger.ClaimantOf(id)
	if err != nil || !ok {
		return addr, ok, err
	}
	r.cache.SetDefault(key, addr)
	return addr, true, nil
}

// Len returns the number of cached entries.
func (r *CachedReader) Len() int { return r.cache.ItemCount() }

// Flush drops every cached entry.
func (r *CachedReader) Flush() { r.cache.Flush() }
