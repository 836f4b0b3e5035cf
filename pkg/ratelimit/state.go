// Package ratelimit paces outgoing BoardGameGeek requests.
//
// A Limiter admits at most a fixed number of requests in any trailing window
// (one minute by default). Acquire blocks until a slot frees up or the
// context is cancelled.
package ratelimit

import (
	"math"
	"time"
)

// State is a point-in-time snapshot of a sliding window limiter.
type State struct {
	// Limit is the number of requests admitted per window. Zero means unlimited.
	Limit int `json:"limit"`

	// InWindow is the number of grants still inside the trailing window.
	InWindow int `json:"in_window"`

	// OldestAt is when the oldest grant in the window was issued.
	// Zero if the window is empty.
	OldestAt time.Time `json:"oldest_at"`

	// NextSlotIn is how long the next caller would have to wait.
	NextSlotIn time.Duration `json:"next_slot_in"`
}

// IsUnlimited reports whether the limiter admits every request immediately.
func (s State) IsUnlimited() bool {
	return s.Limit <= 0
}

// Saturated returns true if the next Acquire would block.
func (s State) Saturated() bool {
	return !s.IsUnlimited() && s.InWindow >= s.Limit
}

// Remaining returns how many grants are available without waiting.
// An unlimited limiter reports math.MaxInt.
func (s State) Remaining() int {
	if s.IsUnlimited() {
		return math.MaxInt
	}
	if left := s.Limit - s.InWindow; left > 0 {
		return left
	}
	return 0
}
