package trust

import "context"

// Repository describes persistence operations for trust entries.
// Implementations are backed by SQLite (single-user hosts) or PostgreSQL
// (shared deployments).
type Repository interface {
	// Get returns the entry for origin, or common.ErrorNotFound.
	Get(ctx context.Context, origin string) (*Entry, error)

	// Upsert inserts a new entry or replaces an existing one by origin.
	Upsert(ctx context.Context, entry *Entry) error

	// Delete removes the entry for origin. Missing entries are not an error.
	Delete(ctx context.Context, origin string) error

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context) error

	// List returns all entries ordered by origin.
	List(ctx context.Context) ([]Entry, error)
}
