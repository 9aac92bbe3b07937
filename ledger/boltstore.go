package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.etcd.io/bbolt"

	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

var (
	bucketClaims         = []byte("claims")          // token key -> claimant
	bucketClaimantTokens = []byte("claimant_tokens") // claimant + seq -> token key
	bucketClaimantCounts = []byte("claimant_counts") // claimant -> count
	bucketCredits        = []byte("credits")         // recipient -> credited total
	bucketMeta           = []byte("meta")

	keyClaimCount = []byte("claim_count")
	keyBalance    = []byte("balance")
	keyScheme     = []byte("scheme")
)

// BoltStore persists ledger state in a bbolt database. bbolt allows one
// writer at a time and rolls back an Update whose callback fails, which is
// exactly the atomic unit the ledger needs.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketClaims, bucketClaimantTokens, bucketClaimantCounts, bucketCredits, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// View runs fn in a bbolt read transaction.
func (s *BoltStore) View(fn func(Tx) error) error {
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// Update runs fn in a bbolt read-write transaction.
func (s *BoltStore) Update(fn func(Tx) error) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

type boltTx struct {
	tx *bbolt.Tx
}

func (b *boltTx) writable() error {
	if !b.tx.Writable() {
		return ErrReadOnly
	}
	return nil
}

func (b *boltTx) ClaimantOf(id token.ID) (common.Address, bool, error) {
	v := b.tx.Bucket(bucketClaims).Get(token.Key(id))
	if v == nil {
		return common.Address{}, false, nil
	}
	if len(v) != common.AddressLength {
		return common.Address{}, false, fmt.Errorf("%w: claimant of %s has %d bytes", ErrCorruptRecord, id.Dec(), len(v))
	}
	return common.BytesToAddress(v), true, nil
}

func (b *boltTx) RecordClaim(id token.ID, claimant common.Address) error {
	if err := b.writable(); err != nil {
		return err
	}
	claims := b.tx.Bucket(bucketClaims)
	key := token.Key(id)
	if claims.Get(key) != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyClaimed, id.Dec())
	}
	if err := claims.Put(key, claimant.Bytes()); err != nil {
		return fmt.Errorf("boltstore: put claim: %w", err)
	}

	n, err := b.ClaimantClaimCount(claimant)
	if err != nil {
		return err
	}
	// Composite key: claimant + sequence number keeps claim order under a prefix scan.
	seqKey := make([]byte, common.AddressLength+8)
	copy(seqKey, claimant.Bytes())
	binary.BigEndian.PutUint64(seqKey[common.AddressLength:], n)
	if err := b.tx.Bucket(bucketClaimantTokens).Put(seqKey, key); err != nil {
		return fmt.Errorf("boltstore: put claimant token: %w", err)
	}
	if err := b.tx.Bucket(bucketClaimantCounts).Put(claimant.Bytes(), u64(n+1)); err != nil {
		return fmt.Errorf("boltstore: put claimant count: %w", err)
	}

	total, err := b.ClaimCount()
	if err != nil {
		return err
	}
	if err := b.tx.Bucket(bucketMeta).Put(keyClaimCount, u64(total+1)); err != nil {
		return fmt.Errorf("boltstore: put claim count: %w", err)
	}
	return nil
}

func (b *boltTx) ClaimCount() (uint64, error) {
	return readU64(b.tx.Bucket(bucketMeta).Get(keyClaimCount))
}

func (b *boltTx) ClaimantClaimCount(claimant common.Address) (uint64, error) {
	return readU64(b.tx.Bucket(bucketClaimantCounts).Get(claimant.Bytes()))
}

func (b *boltTx) ClaimedTokenIDs(claimant common.Address) ([]token.ID, error) {
	prefix := claimant.Bytes()
	ids := []token.ID{}
	c := b.tx.Bucket(bucketClaimantTokens).Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		id, err := token.FromKey(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (b *boltTx) Balance() (*uint256.Int, error) {
	return readAmount(b.tx.Bucket(bucketMeta).Get(keyBalance))
}

func (b *boltTx) SetBalance(balance *uint256.Int) error {
	if err := b.writable(); err != nil {
		return err
	}
	word := amountOrZero(balance).Bytes32()
	if err := b.tx.Bucket(bucketMeta).Put(keyBalance, word[:]); err != nil {
		return fmt.Errorf("boltstore: put balance: %w", err)
	}
	return nil
}

func (b *boltTx) Scheme() (payout.Scheme, error) {
	data := b.tx.Bucket(bucketMeta).Get(keyScheme)
	if data == nil {
		return nil, nil
	}
	s, err := payout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return s, nil
}

func (b *boltTx) SetScheme(s payout.Scheme) error {
	if err := b.writable(); err != nil {
		return err
	}
	data, err := payout.Encode(s)
	if err != nil {
		return err
	}
	if err := b.tx.Bucket(bucketMeta).Put(keyScheme, data); err != nil {
		return fmt.Errorf("boltstore: put scheme: %w", err)
	}
	return nil
}

func (b *boltTx) Credits(addr common.Address) (*uint256.Int, error) {
	return readAmount(b.tx.Bucket(bucketCredits).Get(addr.Bytes()))
}

func (b *boltTx) Credit(addr common.Address, amount *uint256.Int) error {
	if err := b.writable(); err != nil {
		return err
	}
	current, err := b.Credits(addr)
	if err != nil {
		return err
	}
	if _, overflow := current.AddOverflow(current, amountOrZero(amount)); overflow {
		return fmt.Errorf("%w: credits for %s", ErrBalanceOverflow, addr.Hex())
	}
	word := current.Bytes32()
	if err := b.tx.Bucket(bucketCredits).Put(addr.Bytes(), word[:]); err != nil {
		return fmt.Errorf("boltstore: put credit: %w", err)
	}
	return nil
}

func u64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func readU64(v []byte) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: counter has %d bytes", ErrCorruptRecord, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func readAmount(v []byte) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if len(v) != 32 {
		return nil, fmt.Errorf("%w: amount has %d bytes", ErrCorruptRecord, len(v))
	}
	return new(uint256.Int).SetBytes(v), nil
}
