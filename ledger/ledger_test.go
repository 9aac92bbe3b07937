package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayWelsh/claim-against-nft/oracle"
	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

func makeAddr(seed byte) common.Address {
	var addr common.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

// storeFactories returns one constructor per Store implementation so every
// behavioural test runs against both.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"mem": func() Store { return NewMemStore() },
		"bolt": func() Store {
			s, err := OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, l *Ledger)) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, New(open()))
		})
	}
}

// ownedBy returns an oracle where token i is owned by owners[i].
func ownedBy(owners map[uint64]common.Address) oracle.OwnerOracle {
	r := oracle.NewRegistry()
	for id, owner := range owners {
		if err := r.MintID(token.NewID(id), owner); err != nil {
			panic(err)
		}
	}
	return r
}

func snapshot(t *testing.T, l *Ledger, addrs ...common.Address) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	n, err := l.ClaimCount()
	require.NoError(t, err)
	out["total"] = n
	b, err := l.Balance()
	require.NoError(t, err)
	out["balance"] = b.Dec()
	for _, a := range addrs {
		ids, err := l.ClaimedTokenIDs(a)
		require.NoError(t, err)
		out[a.Hex()] = token.Strings(ids)
	}
	return out
}

func TestLedger_EmptyReads(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		n, err := l.ClaimCount()
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = l.ClaimantClaimCount(makeAddr(1))
		require.NoError(t, err)
		assert.Zero(t, n)

		ids, err := l.ClaimedTokenIDs(makeAddr(1))
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)

		_, ok, err := l.ClaimantOf(token.NewID(1))
		require.NoError(t, err)
		assert.False(t, ok)

		b, err := l.Balance()
		require.NoError(t, err)
		assert.True(t, b.IsZero())

		s, err := l.Scheme()
		require.NoError(t, err)
		assert.Empty(t, s)
	})
}

func TestLedger_ClaimRecordsBatchInOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		alice, bob := makeAddr(0xA1), makeAddr(0xB0)
		owners := ownedBy(map[uint64]common.Address{1: alice, 2: alice, 3: alice, 4: bob})
		ctx := context.Background()

		require.NoError(t, l.Claim(ctx, owners, alice, token.NewIDs(3, 1), uint256.NewInt(20)))
		require.NoError(t, l.Claim(ctx, owners, bob, token.NewIDs(4), uint256.NewInt(10)))
		require.NoError(t, l.Claim(ctx, owners, alice, token.NewIDs(2), uint256.NewInt(10)))

		ids, err := l.ClaimedTokenIDs(alice)
		require.NoError(t, err)
		assert.Equal(t, token.NewIDs(3, 1, 2), ids)

		n, err := l.ClaimantClaimCount(alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), n)

		total, err := l.ClaimCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)

		for id, want := range map[uint64]common.Address{1: alice, 2: alice, 3: alice, 4: bob} {
			got, ok, err := l.ClaimantOf(token.NewID(id))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}

		b, err := l.Balance()
		require.NoError(t, err)
		assert.Equal(t, uint64(40), b.Uint64())
	})
}

func TestLedger_ClaimRejections(t *testing.T) {
	alice, bob := makeAddr(0xA1), makeAddr(0xB0)

	tests := []struct {
		name    string
		who     common.Address
		ids     []token.ID
		wantErr error
	}{
		{"empty batch", alice, nil, ErrEmptyBatch},
		{"zero claimant", common.Address{}, token.NewIDs(1), ErrZeroClaimant},
		{"not owner", bob, token.NewIDs(1), ErrNotOwner},
		{"not owner later in batch", alice, token.NewIDs(2, 5), ErrNotOwner},
		{"already claimed", alice, token.NewIDs(2, 1), ErrAlreadyClaimed},
		{"duplicate in batch", alice, token.NewIDs(2, 2), ErrAlreadyClaimed},
		{"unknown token", alice, token.NewIDs(2, 99), ErrOwnerLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, l *Ledger) {
				owners := ownedBy(map[uint64]common.Address{1: alice, 2: alice, 3: alice, 5: bob})
				ctx := context.Background()
				require.NoError(t, l.Claim(ctx, owners, alice, token.NewIDs(1), uint256.NewInt(7)))
				before := snapshot(t, l, alice, bob)

				err := l.Claim(ctx, owners, tt.who, tt.ids, uint256.NewInt(7))
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, snapshot(t, l, alice, bob))

				_, ok, err := l.ClaimantOf(token.NewID(2))
				require.NoError(t, err)
				assert.False(t, ok, "rejected batch must not leave partial claims")
			})
		})
	}
}

func TestLedger_OracleErrorIsWrapped(t *testing.T) {
	boom := errors.New("node down")
	m := &oracle.Mock{OwnerOfFn: func(context.Context, token.ID) (common.Address, error) {
		return common.Address{}, boom
	}}
	forEachStore(t, func(t *testing.T, l *Ledger) {
		err := l.Claim(context.Background(), m, makeAddr(1), token.NewIDs(1), nil)
		assert.ErrorIs(t, err, ErrOwnerLookup)
		assert.ErrorIs(t, err, boom)
	})
}

func TestLedger_InvariantsHoldAcrossClaimants(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		reg := oracle.NewRegistry()
		var holders []common.Address
		for i := 1; i <= 5; i++ {
			a := makeAddr(byte(i))
			holders = append(holders, a)
			for j := 0; j < i; j++ {
				_, err := reg.Mint(a)
				require.NoError(t, err)
			}
		}
		// Tokens were minted sequentially: holder i owns the next i IDs.
		next := uint64(1)
		for i, a := range holders {
			var ids []token.ID
			for j := 0; j <= i; j++ {
				ids = append(ids, token.NewID(next))
				next++
			}
			require.NoError(t, l.Claim(context.Background(), reg, a, ids, nil))
		}

		var sum uint64
		seen := map[token.ID]bool{}
		for _, a := range holders {
			n, err := l.ClaimantClaimCount(a)
			require.NoError(t, err)
			ids, err := l.ClaimedTokenIDs(a)
			require.NoError(t, err)
			assert.Equal(t, n, uint64(len(ids)))
			sum += n
			for _, id := range ids {
				assert.False(t, seen[id], "token %s appears twice", id.Dec())
				seen[id] = true
			}
		}
		total, err := l.ClaimCount()
		require.NoError(t, err)
		assert.Equal(t, total, sum)
		assert.Equal(t, uint64(15), total)
	})
}

func TestLedger_RaceForSameToken(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		owner := makeAddr(0x01)
		owners := ownedBy(map[uint64]common.Address{1: owner})

		var wins, losses atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := l.Claim(context.Background(), owners, owner, token.NewIDs(1), uint256.NewInt(1))
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, ErrAlreadyClaimed):
					losses.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), wins.Load())
		assert.Equal(t, int64(15), losses.Load())
		b, err := l.Balance()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), b.Uint64())
	})
}

func TestLedger_BalanceOverflowRollsBack(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		owner := makeAddr(0x01)
		owners := ownedBy(map[uint64]common.Address{1: owner, 2: owner})
		max := new(uint256.Int).SetAllOne()

		require.NoError(t, l.Claim(context.Background(), owners, owner, token.NewIDs(1), max))
		err := l.Claim(context.Background(), owners, owner, token.NewIDs(2), uint256.NewInt(1))
		assert.ErrorIs(t, err, ErrBalanceOverflow)

		_, ok, err := l.ClaimantOf(token.NewID(2))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLedger_Scheme(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		initial := payout.Scheme{{Recipient: makeAddr(0xAA), Share: 9000}, {Recipient: makeAddr(0xBB), Share: 1000}}
		active, err := l.InitScheme(initial)
		require.NoError(t, err)
		assert.Equal(t, initial, active)

		// A second init keeps what is stored.
		other := payout.Scheme{{Recipient: makeAddr(0xCC), Share: 10000}}
		active, err = l.InitScheme(other)
		require.NoError(t, err)
		assert.Equal(t, initial, active)

		require.NoError(t, l.SetScheme(other))
		got, err := l.Scheme()
		require.NoError(t, err)
		assert.Equal(t, other, got)

		err = l.SetScheme(payout.Scheme{{Recipient: makeAddr(0xCC), Share: 5000}})
		assert.ErrorIs(t, err, payout.ErrSharesDoNotSumToWhole)
		got, err = l.Scheme()
		require.NoError(t, err)
		assert.Equal(t, other, got)
	})
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			sentinel := errors.New("abort")
			err := s.Update(func(tx Tx) error {
				require.NoError(t, tx.RecordClaim(token.NewID(1), makeAddr(1)))
				require.NoError(t, tx.SetBalance(uint256.NewInt(5)))
				require.NoError(t, tx.Credit(makeAddr(2), uint256.NewInt(3)))
				require.NoError(t, tx.SetScheme(payout.Scheme{{Recipient: makeAddr(2), Share: 10000}}))

				// Writes are visible inside the transaction.
				n, err := tx.ClaimCount()
				require.NoError(t, err)
				assert.Equal(t, uint64(1), n)
				return sentinel
			})
			assert.ErrorIs(t, err, sentinel)

			l := New(s)
			n, err := l.ClaimCount()
			require.NoError(t, err)
			assert.Zero(t, n)
			c, err := l.Credits(makeAddr(2))
			require.NoError(t, err)
			assert.True(t, c.IsZero())
			sch, err := l.Scheme()
			require.NoError(t, err)
			assert.Empty(t, sch)
		})
	}
}

func TestStore_ViewIsReadOnly(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			err := s.View(func(tx Tx) error {
				return tx.RecordClaim(token.NewID(1), makeAddr(1))
			})
			assert.ErrorIs(t, err, ErrReadOnly)
			err = s.View(func(tx Tx) error { return tx.SetBalance(uint256.NewInt(1)) })
			assert.ErrorIs(t, err, ErrReadOnly)
			err = s.View(func(tx Tx) error { return tx.Credit(makeAddr(1), uint256.NewInt(1)) })
			assert.ErrorIs(t, err, ErrReadOnly)
		})
	}
}

func TestStore_RecordClaimNeverReassigns(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			require.NoError(t, s.Update(func(tx Tx) error {
				return tx.RecordClaim(token.NewID(1), makeAddr(1))
			}))
			err := s.Update(func(tx Tx) error {
				return tx.RecordClaim(token.NewID(1), makeAddr(2))
			})
			assert.ErrorIs(t, err, ErrAlreadyClaimed)

			addr, ok, err := New(s).ClaimantOf(token.NewID(1))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, makeAddr(1), addr)
		})
	}
}

func TestLedger_Credits(t *testing.T) {
	forEachStore(t, func(t *testing.T, l *Ledger) {
		require.NoError(t, l.Store().Update(func(tx Tx) error {
			if err := tx.Credit(makeAddr(1), uint256.NewInt(4)); err != nil {
				return err
			}
			return tx.Credit(makeAddr(1), uint256.NewInt(6))
		}))
		c, err := l.Credits(makeAddr(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(10), c.Uint64())

		err = l.Store().Update(func(tx Tx) error {
			return tx.Credit(makeAddr(1), new(uint256.Int).SetAllOne())
		})
		assert.ErrorIs(t, err, ErrBalanceOverflow)
	})
}

func TestMemStore_Closed(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.View(func(Tx) error { return nil }), ErrClosed)
	assert.ErrorIs(t, s.Update(func(Tx) error { return nil }), ErrClosed)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "ledger.db")
	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	owner := makeAddr(0x01)
	owners := ownedBy(map[uint64]common.Address{1: owner, 2: owner})
	l := New(s)
	require.NoError(t, l.Claim(context.Background(), owners, owner, token.NewIDs(2, 1), uint256.NewInt(9)))
	require.NoError(t, l.SetScheme(payout.Scheme{{Recipient: makeAddr(0xAA), Share: 10000}}))
	require.NoError(t, s.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()
	l = New(s)

	ids, err := l.ClaimedTokenIDs(owner)
	require.NoError(t, err)
	assert.Equal(t, token.NewIDs(2, 1), ids)
	b, err := l.Balance()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), b.Uint64())
	sch, err := l.Scheme()
	require.NoError(t, err)
	assert.Equal(t, payout.Scheme{{Recipient: makeAddr(0xAA), Share: 10000}}, sch)
}

func TestBoltStore_OrderBeyondByteBoundary(t *testing.T) {
	s, err := OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer s.Close()

	owner := makeAddr(0x01)
	reg := oracle.NewRegistry()
	var ids []token.ID
	for i := 0; i < 300; i++ {
		id, err := reg.Mint(owner)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	// Claim in reverse so insertion order differs from numeric order.
	l := New(s)
	for i := len(ids) - 1; i >= 0; i-- {
		require.NoError(t, l.Claim(context.Background(), reg, owner, ids[i:i+1], nil))
	}
	got, err := l.ClaimedTokenIDs(owner)
	require.NoError(t, err)
	require.Len(t, got, 300)
	assert.Equal(t, ids[len(ids)-1], got[0])
	assert.Equal(t, ids[0], got[299])
}

// --- CachedReader tests ---

func TestCachedReader_CachesOnlyClaimed(t *testing.T) {
	l := New(NewMemStore())
	r := NewCachedReader(l, time.Minute, time.Minute)

	_, ok, err := r.ClaimantOf(token.NewID(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, r.Len())

	owner := makeAddr(0x01)
	require.NoError(t, l.Claim(context.Background(), ownedBy(map[uint64]common.Address{1: owner}), owner, token.NewIDs(1), nil))

	addr, ok, err := r.ClaimantOf(token.NewID(1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, owner, addr)
	assert.Equal(t, 1, r.Len())

	// Served from cache even once the store is closed.
	require.NoError(t, l.Store().Close())
	addr, ok, err = r.ClaimantOf(token.NewID(1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, owner, addr)

	r.Flush()
	_, _, err = r.ClaimantOf(token.NewID(1))
	assert.ErrorIs(t, err, ErrClosed)
}
