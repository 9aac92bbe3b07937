package claim

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Clock supplies the time claims are checked against.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures a Contract.
type Option func(*Contract)

// WithClock sets the clock. Defaults to time.Now.
func WithClock(c Clock) Option {
	return func(k *Contract) { k.clock = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Contract) { k.logger = l }
}

// WithPolicy sets the authorization policy for privileged operations.
// Defaults to Unrestricted.
func WithPolicy(p Policy) Option {
	return func(k *Contract) { k.policy = p }
}

// WithEventBus publishes contract events on bus instead of a private one.
func WithEventBus(bus EventBus.Bus) Option {
	return func(k *Contract) { k.bus = bus }
}

// WithMetrics records contract activity in m.
func WithMetrics(m *Metrics) Option {
	return func(k *Contract) { k.metrics = m }
}

// WithCacheTTL sets how long claimant lookups stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(k *Contract) { k.cacheTTL = ttl }
}
