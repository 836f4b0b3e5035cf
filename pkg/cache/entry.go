package cache

import "time"

// Entry is a cached payload together with its freshness bookkeeping.
type Entry struct {
	// Data is the raw response body
	Data []byte

	// StoredAt is when the payload was written
	StoredAt time.Time

	// TTL is how long the payload stays fresh. Zero or negative means no expiry.
	TTL time.Duration
}

// IsExpired reports whether the entry is stale at the given instant.
// An entry is still served at exactly StoredAt+TTL.
func (e *Entry) IsExpired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.StoredAt) > e.TTL
}

// Remaining returns the time left until expiry.
// Returns 0 if already expired or if the entry never expires.
func (e *Entry) Remaining(now time.Time) time.Duration {
	if e.TTL <= 0 {
		return 0
	}
	left := e.StoredAt.Add(e.TTL).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
