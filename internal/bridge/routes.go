package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/msalhab/deedbridge/internal/logging"
)

// RouteTable maps an in-flight request id to the origin that issued it, so
// the eventual reply can be targeted at exactly that origin. Routes that are
// never resolved (caller vanished mid-flight) are swept once they outlive
// the TTL.
type RouteTable struct {
	ttl    time.Duration
	logger logging.Logger

	mu     sync.Mutex
	routes map[string]pendingRoute

	// now is a seam for tests.
	now func() time.Time
}

type pendingRoute struct {
	origin    string
	createdAt time.Time
}

func NewRouteTable(ttl time.Duration, logger logging.Logger) *RouteTable {
	return &RouteTable{
		ttl:    ttl,
		logger: logger.With("module", "route_table"),
		routes: make(map[string]pendingRoute),
		now:    time.Now,
	}
}

// Register records the origin for requestID. A duplicate id overwrites the
// stale route; ids are caller-chosen and expected globally unique.
func (t *RouteTable) Register(requestID, origin string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[requestID] = pendingRoute{origin: origin, createdAt: t.now()}
}

// Resolve removes and returns the origin for requestID. ok is false when no
// route exists; the caller must treat that as an internal error and drop the
// reply rather than fall back to any broader target.
func (t *RouteTable) Resolve(requestID string) (origin string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.routes[requestID]
	if !ok {
		return "", false
	}
	delete(t.routes, requestID)
	return r.origin, true
}

// Sweep discards routes older than the TTL and returns how many were removed.
func (t *RouteTable) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	removed := 0
	for id, r := range t.routes {
		if r.createdAt.Before(cutoff) {
			delete(t.routes, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of outstanding routes.
func (t *RouteTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.routes)
}

// StartSweeper sweeps at the given interval until ctx is cancelled.
func (t *RouteTable) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := t.Sweep(); n > 0 {
					t.logger.Warn(ctx, "stale response routes swept", "count", n)
				}
			}
		}
	}()
}
