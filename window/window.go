// Package window implements the claim window gate: a half-open time interval
// [OpensAt, ClosesAt) fixed at construction.
package window

import (
	"fmt"
	"time"
)

// Window is an immutable claim window. The zero value is not usable; build
// one with New.
type Window struct {
	opensAt  time.Time
	closesAt time.Time
}

// New returns the window [opensAt, closesAt).
func New(opensAt, closesAt time.Time) (Window, error) {
	if !opensAt.Before(closesAt) {
		return Window{}, fmt.Errorf("%w: opens %s, closes %s",
			ErrInvalidWindow, opensAt.UTC().Format(time.RFC3339), closesAt.UTC().Format(time.RFC3339))
	}
	return Window{opensAt: opensAt, closesAt: closesAt}, nil
}

// FromUnix builds a window from unix-second timestamps.
func FromUnix(opensAt, closesAt int64) (Window, error) {
	return New(time.Unix(opensAt, 0), time.Unix(closesAt, 0))
}

// OpensAt returns the first instant at which claims are accepted.
func (w Window) OpensAt() time.Time { return w.opensAt }

// ClosesAt returns the first instant at which claims are rejected again.
func (w Window) ClosesAt() time.Time { return w.closesAt }

// Duration returns the length of the window.
func (w Window) Duration() time.Duration { return w.closesAt.Sub(w.opensAt) }

// Check reports whether now falls inside the window. A request at exactly
// ClosesAt is rejected.
func (w Window) Check(now time.Time) error {
	if now.Before(w.opensAt) {
		return ErrNotOpen
	}
	if !now.Before(w.closesAt) {
		return ErrClosed
	}
	return nil
}

// IsOpen is Check without the reason.
func (w Window) IsOpen(now time.Time) bool {
	return w.Check(now) == nil
}
