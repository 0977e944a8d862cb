package trust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msalhab/deedbridge/internal/common"
	"github.com/msalhab/deedbridge/internal/logging"
)

// Store is the authorization root: it answers "is this origin approved" and
// owns the lifecycle of trust grants. The in-memory view obtained through the
// repository is authoritative for the current process; persistence failures
// fail the current operation.
type Store struct {
	repo   Repository
	logger logging.Logger

	// now is a seam for tests.
	now func() time.Time
}

func NewStore(repo Repository, logger logging.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger.With("module", "trust_store"),
		now:    time.Now,
	}
}

// IsApproved reports whether origin holds an unexpired grant. A positive
// check bumps the grant's use counter and last-used instant. An expired
// grant encountered here is purged immediately.
func (s *Store) IsApproved(ctx context.Context, origin string) (bool, error) {
	entry, err := s.repo.Get(ctx, origin)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("trust lookup error: %w", err)
	}

	now := s.now()
	if entry.Expired(now) {
		if err := s.repo.Delete(ctx, origin); err != nil {
			return false, fmt.Errorf("expired entry purge error: %w", err)
		}
		s.logger.Info(ctx, "expired trust entry purged", "origin", origin)
		return false, nil
	}

	entry.UseCount++
	entry.LastUsedAt = now
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return false, fmt.Errorf("trust usage update error: %w", err)
	}
	return true, nil
}

// Approve creates or replaces the grant for origin with a fresh window of
// the given number of days.
func (s *Store) Approve(ctx context.Context, origin string, days int) (*Entry, error) {
	now := s.now()
	entry := &Entry{
		Origin:       origin,
		ApprovedAt:   now,
		ExpiresAt:    now.Add(time.Duration(days) * 24 * time.Hour),
		DurationDays: days,
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("trust approve error: %w", err)
	}

	s.logger.Info(ctx, "origin approved", "origin", origin, "days", days)
	return entry, nil
}

// Remove revokes the grant for origin.
func (s *Store) Remove(ctx context.Context, origin string) error {
	if err := s.repo.Delete(ctx, origin); err != nil {
		return fmt.Errorf("trust remove error: %w", err)
	}
	s.logger.Info(ctx, "origin revoked", "origin", origin)
	return nil
}

// Clear revokes every grant.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("trust clear error: %w", err)
	}
	s.logger.Info(ctx, "trust store cleared")
	return nil
}

// List sweeps expired grants and reports the remainder. DaysLeft is rounded
// up, so a grant expiring in one hour still shows a single day left.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("trust list error: %w", err)
	}

	now := s.now()
	var result []Info
	for i := range entries {
		e := &entries[i]
		if e.Expired(now) {
			if err := s.repo.Delete(ctx, e.Origin); err != nil {
				return nil, fmt.Errorf("expired entry purge error: %w", err)
			}
			continue
		}
		result = append(result, Info{
			Origin:     e.Origin,
			ApprovedAt: e.ApprovedAt,
			ExpiresAt:  e.ExpiresAt,
			DaysLeft:   daysLeft(e.ExpiresAt, now),
			UseCount:   e.UseCount,
			LastUsedAt: e.LastUsedAt,
		})
	}
	return result, nil
}

func daysLeft(expiresAt, now time.Time) int {
	const day = 24 * time.Hour
	left := expiresAt.Sub(now)
	days := int(left / day)
	if left%day > 0 {
		days++
	}
	return days
}
