package claim

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JayWelsh/claim-against-nft/ledger"
)

// Metrics holds the contract's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	claims        prometheus.Counter
	batches       prometheus.Counter
	rejections    *prometheus.CounterVec
	distributions *prometheus.CounterVec
	balance       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		claims: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nftclaim_claims_total",
			Help: "Tokens claimed against.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nftclaim_claim_batches_total",
			Help: "Committed claim batches.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nftclaim_claim_rejections_total",
			Help: "Rejected claim batches by reason.",
		}, []string{"reason"}),
		distributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nftclaim_distributions_total",
			Help: "Fee distribution attempts by result.",
		}, []string{"result"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nftclaim_distributable_balance_wei",
			Help: "Fees awaiting distribution, in wei.",
		}),
	}
	for _, c := range []prometheus.Collector{m.claims, m.batches, m.rejections, m.distributions, m.balance} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) claimed(n int, balance *uint256.Int) {
	if m == nil {
		return
	}
	m.claims.Add(float64(n))
	m.batches.Inc()
	m.setBalance(balance)
}

func (m *Metrics) rejected(err error) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(rejectionReason(err)).Inc()
}

func (m *Metrics) distributed(err error, balance *uint256.Int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.distributions.WithLabelValues(result).Inc()
	if err == nil {
		m.setBalance(balance)
	}
}

func (m *Metrics) setBalance(balance *uint256.Int) {
	if m == nil || balance == nil {
		return
	}
	f, _ := new(big.Float).SetInt(balance.ToBig()).Float64()
	m.balance.Set(f)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyBatch):
		return "empty_batch"
	case errors.Is(err, ErrWindowNotOpen):
		return "window_not_open"
	case errors.Is(err, ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, ErrIncorrectFee), errors.Is(err, ErrFeeOverflow):
		return "incorrect_fee"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, ledger.ErrOwnerLookup):
		return "owner_lookup"
	default:
		return "other"
	}
}
