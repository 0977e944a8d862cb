// Package trust implements the origin trust store: time-bounded grants that
// allow a web origin to invoke protected bridge operations.
package trust

import "time"

// Entry is a single trust grant keyed by origin (scheme+host+port).
//
// Invariant: ExpiresAt == ApprovedAt + DurationDays days. An entry authorizes
// an origin iff now < ExpiresAt; expired entries are purged lazily on lookup
// and by List's full sweep.
type Entry struct {
	Origin       string
	ApprovedAt   time.Time
	ExpiresAt    time.Time
	DurationDays int
	UseCount     int64
	LastUsedAt   time.Time
}

// Expired reports whether the grant has lapsed at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Info is the operator-facing view of a grant returned by Store.List.
type Info struct {
	Origin     string    `json:"origin"`
	ApprovedAt time.Time `json:"approvedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	DaysLeft   int       `json:"daysLeft"`
	UseCount   int64     `json:"useCount"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}
