// Package claim is the claim contract: holders of a collection claim once
// against each token they own while the claim window is open, optionally
// paying a fixed fee per token that is later split among payout recipients.
package claim

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/JayWelsh/claim-against-nft/ledger"
	"github.com/JayWelsh/claim-against-nft/oracle"
	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
	"github.com/JayWelsh/claim-against-nft/treasury"
	"github.com/JayWelsh/claim-against-nft/window"
)

// DefaultCacheTTL is how long TokenIDToClaimant answers are cached.
const DefaultCacheTTL = 30 * time.Minute

// Params are the construction parameters of a contract.
type Params struct {
	Window window.Window
	Owners oracle.OwnerOracle
	Store  ledger.Store

	// Fee variant only.
	UnitFee    *uint256.Int
	Recipients []common.Address
	Shares     []uint64

	// Payee delivers distributions. Defaults to a treasury.CreditPayee.
	Payee treasury.Payee
}

// Contract serves claims and fee distribution over a ledger store.
type Contract struct {
	window      window.Window
	fees        FeeSchedule
	feesEnabled bool
	owners      oracle.OwnerOracle
	ledger      *ledger.Ledger
	reader      *ledger.CachedReader
	distributor *treasury.Distributor

	clock    Clock
	logger   *zap.Logger
	policy   Policy
	bus      EventBus.Bus
	metrics  *Metrics
	cacheTTL time.Duration
}

// NewWithFee builds the fee variant. The initial payout scheme is validated
// and installed unless the store already holds one, in which case the stored
// scheme stays active.
func NewWithFee(p Params, opts ...Option) (*Contract, error) {
	scheme, err := payout.New(p.Recipients, p.Shares)
	if err != nil {
		return nil, err
	}
	c, err := newContract(p, true, opts)
	if err != nil {
		return nil, err
	}
	active, err := c.ledger.InitScheme(scheme)
	if err != nil {
		return nil, err
	}
	payee := p.Payee
	if payee == nil {
		payee = treasury.NewCreditPayee()
	}
	c.distributor = treasury.NewDistributor(p.Store, payee)

	balance, err := c.ledger.Balance()
	if err != nil {
		return nil, err
	}
	c.metrics.setBalance(balance)
	c.logger.Info("claim contract ready",
		zap.String("unit_fee", c.fees.Unit().Dec()),
		zap.Time("opens_at", c.window.OpensAt()),
		zap.Time("closes_at", c.window.ClosesAt()),
		zap.Int("recipients", len(active)),
	)
	return c, nil
}

// NewWithoutFee builds the fee-free variant. Claims must carry no payment,
// and the fee fields of p are ignored.
func NewWithoutFee(p Params, opts ...Option) (*Contract, error) {
	c, err := newContract(p, false, opts)
	if err != nil {
		return nil, err
	}
	c.logger.Info("claim contract ready",
		zap.Time("opens_at", c.window.OpensAt()),
		zap.Time("closes_at", c.window.ClosesAt()),
	)
	return c, nil
}

func newContract(p Params, withFee bool, opts []Option) (*Contract, error) {
	if p.Owners == nil {
		return nil, ErrMissingOracle
	}
	if p.Store == nil {
		return nil, ErrMissingStore
	}
	if p.Window.Duration() <= 0 {
		return nil, window.ErrInvalidWindow
	}

	c := &Contract{
		window:      p.Window,
		feesEnabled: withFee,
		owners:      p.Owners,
		ledger:      ledger.New(p.Store),
		cacheTTL:    DefaultCacheTTL,
	}
	if withFee {
		c.fees = NewFeeSchedule(p.UnitFee)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = ClockFunc(time.Now)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.policy == nil {
		c.policy = Unrestricted()
	}
	if c.bus == nil {
		c.bus = EventBus.New()
	}
	c.reader = ledger.NewCachedReader(c.ledger, c.cacheTTL, 2*c.cacheTTL)
	return c, nil
}

// ClaimAgainstTokenIDs records a claim by caller against every token in ids.
// Checks run in this order: non-empty batch, claim window, exact fee, then
// per token ownership and prior claims. The batch is recorded in full or not
// at all.
func (c *Contract) ClaimAgainstTokenIDs(ctx context.Context, caller common.Address, ids []token.ID, payment *uint256.Int) (err error) {
	defer func() {
		if err != nil {
			c.metrics.rejected(err)
			c.logger.Debug("claim rejected",
				zap.String("claimant", caller.Hex()),
				zap.Int("token_count", len(ids)),
				zap.Error(err),
			)
		}
	}()

	if len(ids) == 0 {
		return ErrEmptyBatch
	}
	now := c.clock.Now()
	if err := c.window.Check(now); err != nil {
		return err
	}
	if err := c.fees.Validate(payment, len(ids)); err != nil {
		return err
	}
	if err := c.ledger.Claim(ctx, c.owners, caller, ids, payment); err != nil {
		return err
	}

	evt := ClaimEvent{
		BatchID:  uuid.New(),
		Claimant: caller,
		TokenIDs: append([]token.ID(nil), ids...),
		Payment:  new(uint256.Int),
		At:       now,
	}
	if payment != nil {
		evt.Payment.Set(payment)
	}

	balance, balanceErr := c.ledger.Balance()
	if balanceErr != nil {
		c.logger.Warn("read balance for metrics", zap.Error(balanceErr))
	}
	c.metrics.claimed(len(ids), balance)
	c.logger.Info("claim recorded",
		zap.Stringer("batch_id", evt.BatchID),
		zap.String("claimant", caller.Hex()),
		zap.Int("token_count", len(ids)),
		zap.String("payment", evt.Payment.Dec()),
	)
	c.bus.Publish(TopicClaimBatch, evt)
	return nil
}

// ClaimCount returns the number of tokens claimed against so far.
func (c *Contract) ClaimCount() (uint64, error) {
	return c.ledger.ClaimCount()
}

// ClaimantClaimCount returns how many tokens claimant has claimed against.
func (c *Contract) ClaimantClaimCount(claimant common.Address) (uint64, error) {
	return c.ledger.ClaimantClaimCount(claimant)
}

// ClaimantToClaimedTokenIDs returns claimant's claimed token IDs in claim
// order. The slice is empty, not nil, for an address with no claims.
func (c *Contract) ClaimantToClaimedTokenIDs(claimant common.Address) ([]token.ID, error) {
	return c.ledger.ClaimedTokenIDs(claimant)
}

// TokenIDToClaimant returns who claimed against id. The address is zero and
// ok is false if nobody has.
func (c *Contract) TokenIDToClaimant(id token.ID) (addr common.Address, ok bool, err error) {
	return c.reader.ClaimantOf(id)
}

// DistributeFees pays out the accumulated fees by the active scheme.
func (c *Contract) DistributeFees(ctx context.Context, caller common.Address) (*treasury.Report, error) {
	if !c.feesEnabled {
		return nil, ErrFeesDisabled
	}
	if err := c.policy.Authorize(caller, OpDistributeFees); err != nil {
		return nil, err
	}

	report, err := c.distributor.Distribute(ctx)
	if err != nil {
		c.metrics.distributed(err, nil)
		c.logger.Warn("fee distribution failed", zap.String("caller", caller.Hex()), zap.Error(err))
		return nil, err
	}
	c.metrics.distributed(nil, report.Remainder)
	c.logger.Info("fees distributed",
		zap.Stringer("distribution_id", report.ID),
		zap.String("balance", report.Balance.Dec()),
		zap.String("distributed", report.Distributed.Dec()),
		zap.String("remainder", report.Remainder.Dec()),
		zap.Int("recipients", len(report.Payouts)),
	)
	c.bus.Publish(TopicFeesDistributed, DistributedEvent{
		DistributionID: report.ID,
		Caller:         caller,
		Payouts:        report.Payouts,
		Distributed:    report.Distributed,
		Remainder:      report.Remainder,
		At:             c.clock.Now(),
	})
	return report, nil
}

// UpdateFeePayoutScheme replaces the payout scheme with the entries built
// from the parallel recipients and shares lists.
func (c *Contract) UpdateFeePayoutScheme(ctx context.Context, caller common.Address, recipients []common.Address, shares []uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.feesEnabled {
		return ErrFeesDisabled
	}
	if err := c.policy.Authorize(caller, OpUpdateFeePayoutScheme); err != nil {
		return err
	}
	scheme, err := payout.New(recipients, shares)
	if err != nil {
		return err
	}
	if err := c.ledger.SetScheme(scheme); err != nil {
		return err
	}

	c.logger.Info("payout scheme updated",
		zap.String("caller", caller.Hex()),
		zap.Int("recipients", len(scheme)),
	)
	c.bus.Publish(TopicSchemeUpdated, SchemeUpdatedEvent{
		UpdatedBy: caller,
		Scheme:    scheme.Clone(),
		At:        c.clock.Now(),
	})
	return nil
}

// FeePayoutScheme returns the active payout scheme; nil on the fee-free variant.
func (c *Contract) FeePayoutScheme() (payout.Scheme, error) {
	if !c.feesEnabled {
		return nil, nil
	}
	return c.ledger.Scheme()
}

// Balance returns the fees collected and not yet distributed.
func (c *Contract) Balance() (*uint256.Int, error) { return c.ledger.Balance() }

// Credits returns what distributions have credited to addr.
func (c *Contract) Credits(addr common.Address) (*uint256.Int, error) { return c.ledger.Credits(addr) }

// UnitFee returns the per-token fee; zero on the fee-free variant.
func (c *Contract) UnitFee() *uint256.Int { return c.fees.Unit() }

// FeesEnabled reports whether this is the fee variant.
func (c *Contract) FeesEnabled() bool { return c.feesEnabled }

// Window returns the claim window.
func (c *Contract) Window() window.Window { return c.window }

// Events returns the bus contract events are published on.
func (c *Contract) Events() EventBus.Bus { return c.bus }
