package trust

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msalhab/deedbridge/internal/common"
	"github.com/msalhab/deedbridge/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Instants are stored as unix seconds so the schema stays driver-neutral.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, origin string) (*Entry, error) {
	query := `SELECT origin, approved_at, expires_at, duration_days, use_count, last_used_at
	          FROM trusted_origins WHERE origin = ?`

	return scanEntry(r.db.QueryRowContext(ctx, query, origin))
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *Entry) error {
	query := `INSERT INTO trusted_origins (origin, approved_at, expires_at, duration_days, use_count, last_used_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(origin) DO UPDATE SET approved_at = excluded.approved_at,
	              expires_at = excluded.expires_at,
	              duration_days = excluded.duration_days,
	              use_count = excluded.use_count,
	              last_used_at = excluded.last_used_at`

	_, err := r.db.ExecContext(ctx, query,
		e.Origin, e.ApprovedAt.Unix(), e.ExpiresAt.Unix(), e.DurationDays, e.UseCount, unixOrZero(e.LastUsedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert trust entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, origin string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trusted_origins WHERE origin = ?`, origin); err != nil {
		return fmt.Errorf("failed to delete trust entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trusted_origins`); err != nil {
		return fmt.Errorf("failed to clear trust entries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Entry, error) {
	query := `SELECT origin, approved_at, expires_at, duration_days, use_count, last_used_at
	          FROM trusted_origins ORDER BY origin`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select trust entries: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntryRow(row rowScanner) (*Entry, error) {
	e := &Entry{}
	var approvedAt, expiresAt, lastUsedAt int64
	if err := row.Scan(&e.Origin, &approvedAt, &expiresAt, &e.DurationDays, &e.UseCount, &lastUsedAt); err != nil {
		return nil, err
	}
	e.ApprovedAt = time.Unix(approvedAt, 0).UTC()
	e.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	if lastUsedAt > 0 {
		e.LastUsedAt = time.Unix(lastUsedAt, 0).UTC()
	}
	return e, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	e, err := scanEntryRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
