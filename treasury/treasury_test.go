package treasury

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayWelsh/claim-against-nft/ledger"
	"github.com/JayWelsh/claim-against-nft/payout"
)

func makeAddr(seed byte) common.Address {
	var addr common.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

var (
	recipientA = makeAddr(0xAA)
	recipientB = makeAddr(0xBB)
	ninetyTen  = payout.Scheme{{Recipient: recipientA, Share: 9000}, {Recipient: recipientB, Share: 1000}}
)

func fund(t *testing.T, s ledger.Store, balance uint64, scheme payout.Scheme) {
	t.Helper()
	require.NoError(t, s.Update(func(tx ledger.Tx) error {
		if err := tx.SetBalance(uint256.NewInt(balance)); err != nil {
			return err
		}
		if scheme == nil {
			return nil
		}
		return tx.SetScheme(scheme)
	}))
}

func stores(t *testing.T) map[string]ledger.Store {
	t.Helper()
	bolt, err := ledger.OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]ledger.Store{"mem": ledger.NewMemStore(), "bolt": bolt}
}

func TestDistribute_NinetyTen(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fund(t, s, 1001, ninetyTen)
			l := ledger.New(s)

			report, err := NewDistributor(s, NewCreditPayee()).Distribute(context.Background())
			require.NoError(t, err)
			assert.NotEqual(t, [16]byte{}, [16]byte(report.ID))
			assert.Equal(t, uint64(1001), report.Balance.Uint64())
			require.Len(t, report.Payouts, 2)
			assert.Equal(t, uint64(900), report.Payouts[0].Amount.Uint64())
			assert.Equal(t, uint64(100), report.Payouts[1].Amount.Uint64())
			assert.Equal(t, uint64(1000), report.Distributed.Uint64())
			assert.Equal(t, uint64(1), report.Remainder.Uint64())

			a, err := l.Credits(recipientA)
			require.NoError(t, err)
			assert.Equal(t, uint64(900), a.Uint64())
			b, err := l.Credits(recipientB)
			require.NoError(t, err)
			assert.Equal(t, uint64(100), b.Uint64())

			bal, err := l.Balance()
			require.NoError(t, err)
			assert.Equal(t, uint64(1), bal.Uint64(), "remainder carries over")
		})
	}
}

func TestDistribute_RemainderCarriesIntoNextRound(t *testing.T) {
	s := ledger.NewMemStore()
	fund(t, s, 9, ninetyTen)
	d := NewDistributor(s, NewCreditPayee())

	r1, err := d.Distribute(context.Background())
	require.NoError(t, err)
	// floor(9*0.9)=8, floor(9*0.1)=0
	assert.Equal(t, uint64(1), r1.Remainder.Uint64())

	require.NoError(t, s.Update(func(tx ledger.Tx) error {
		bal, err := tx.Balance()
		if err != nil {
			return err
		}
		return tx.SetBalance(bal.AddUint64(bal, 9))
	}))
	r2, err := d.Distribute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), r2.Balance.Uint64())
	assert.Equal(t, uint64(9), r2.Payouts[0].Amount.Uint64())
	assert.Equal(t, uint64(1), r2.Payouts[1].Amount.Uint64())
	assert.True(t, r2.Remainder.IsZero())
}

func TestDistribute_FailureLeavesStateUntouched(t *testing.T) {
	for _, refuse := range []common.Address{recipientA, recipientB} {
		for name, s := range stores(t) {
			t.Run(name+"/"+refuse.Hex()[:6], func(t *testing.T) {
				fund(t, s, 1000, ninetyTen)
				payee := NewCreditPayee()
				payee.Refuse(refuse)

				_, err := NewDistributor(s, payee).Distribute(context.Background())
				require.ErrorIs(t, err, ErrTransferFailed)
				assert.ErrorIs(t, err, ErrRecipientRefused)

				var te *TransferError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, refuse, te.Recipient)

				l := ledger.New(s)
				bal, err := l.Balance()
				require.NoError(t, err)
				assert.Equal(t, uint64(1000), bal.Uint64())
				for _, r := range []common.Address{recipientA, recipientB} {
					c, err := l.Credits(r)
					require.NoError(t, err)
					assert.True(t, c.IsZero())
				}

				// Retrying after the recipient accepts again succeeds in full.
				payee.Accept(refuse)
				_, err = NewDistributor(s, payee).Distribute(context.Background())
				require.NoError(t, err)
				bal, err = l.Balance()
				require.NoError(t, err)
				assert.True(t, bal.IsZero())
			})
		}
	}
}

// externalPayee keeps its own books outside the ledger and can undo payments.
type externalPayee struct {
	mu        sync.Mutex
	paid      map[common.Address]uint64
	failOn    common.Address
	reversals []common.Address
}

func (p *externalPayee) Pay(_ context.Context, _ ledger.Tx, to common.Address, amount *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if to == p.failOn {
		return errors.New("recipient rejected transfer")
	}
	p.paid[to] += amount.Uint64()
	return nil
}

func (p *externalPayee) Reverse(_ context.Context, to common.Address, amount *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid[to] -= amount.Uint64()
	p.reversals = append(p.reversals, to)
	return nil
}

func TestDistribute_ReversesExternalPayments(t *testing.T) {
	c := makeAddr(0xCC)
	scheme := payout.Scheme{
		{Recipient: recipientA, Share: 5000},
		{Recipient: recipientB, Share: 3000},
		{Recipient: c, Share: 2000},
	}
	s := ledger.NewMemStore()
	fund(t, s, 100, scheme)
	payee := &externalPayee{paid: map[common.Address]uint64{}, failOn: c}

	_, err := NewDistributor(s, payee).Distribute(context.Background())
	require.ErrorIs(t, err, ErrTransferFailed)

	var te *TransferError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, c, te.Recipient)
	assert.NoError(t, te.CompensationErr)
	assert.Equal(t, []common.Address{recipientB, recipientA}, payee.reversals)
	assert.Zero(t, payee.paid[recipientA])
	assert.Zero(t, payee.paid[recipientB])

	bal, err := ledger.New(s).Balance()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal.Uint64())
}

// failingCommitStore runs the callback but reports a commit failure after it
// succeeds, discarding its writes.
type failingCommitStore struct {
	*ledger.MemStore
	err error
}

func (s *failingCommitStore) Update(fn func(ledger.Tx) error) error {
	return s.MemStore.Update(func(tx ledger.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		return s.err
	})
}

func TestDistribute_CommitFailureReversesPayments(t *testing.T) {
	mem := ledger.NewMemStore()
	fund(t, mem, 1000, ninetyTen)
	diskFull := errors.New("disk full")
	s := &failingCommitStore{MemStore: mem, err: diskFull}
	payee := &externalPayee{paid: map[common.Address]uint64{}}

	report, err := NewDistributor(s, payee).Distribute(context.Background())
	require.ErrorIs(t, err, diskFull)
	assert.NotErrorIs(t, err, ErrTransferFailed)
	assert.Nil(t, report)

	assert.Equal(t, []common.Address{recipientB, recipientA}, payee.reversals)
	assert.Zero(t, payee.paid[recipientA])
	assert.Zero(t, payee.paid[recipientB])

	bal, err := ledger.New(mem).Balance()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal.Uint64())
}

func TestDistribute_NoScheme(t *testing.T) {
	s := ledger.NewMemStore()
	fund(t, s, 10, nil)
	_, err := NewDistributor(s, NewCreditPayee()).Distribute(context.Background())
	assert.ErrorIs(t, err, ErrNoScheme)
}

func TestDistribute_ZeroBalance(t *testing.T) {
	s := ledger.NewMemStore()
	fund(t, s, 0, ninetyTen)
	var calls int
	payee := PayeeFunc(func(_ context.Context, _ ledger.Tx, _ common.Address, amount *uint256.Int) error {
		calls++
		assert.True(t, amount.IsZero())
		return nil
	})
	report, err := NewDistributor(s, payee).Distribute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, report.Distributed.IsZero())
}

func TestTransferError_Message(t *testing.T) {
	err := &TransferError{
		Recipient:       recipientA,
		Amount:          uint256.NewInt(5),
		Err:             errors.New("nope"),
		CompensationErr: errors.New("undo failed"),
	}
	msg := err.Error()
	assert.Contains(t, msg, recipientA.Hex())
	assert.Contains(t, msg, "amount 5")
	assert.Contains(t, msg, "undo failed")
}
