package window

import "errors"

var (
	// ErrInvalidWindow indicates the opening time is not strictly before the closing time.
	ErrInvalidWindow = errors.New("window: opening time must be before closing time")

	// ErrNotOpen indicates the claim window has not opened yet.
	ErrNotOpen = errors.New("window: claims have not yet opened")

	// ErrClosed indicates the claim window has closed.
	ErrClosed = errors.New("window: claims have closed")
)
