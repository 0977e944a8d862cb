package trust

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msalhab/deedbridge/internal/common"
	"github.com/msalhab/deedbridge/internal/dbx"
)

// PostgresRepository implements Repository against PostgreSQL, for hosts that
// share one trust database between machines.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, origin string) (*Entry, error) {
	query := `SELECT origin, approved_at, expires_at, duration_days, use_count, last_used_at
	          FROM trusted_origins WHERE origin = $1`

	e, err := scanEntryRow(r.db.QueryRowContext(ctx, query, origin))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, e *Entry) error {
	query := `INSERT INTO trusted_origins (origin, approved_at, expires_at, duration_days, use_count, last_used_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (origin) DO UPDATE SET approved_at = excluded.approved_at,
	              expires_at = excluded.expires_at,
	              duration_days = excluded.duration_days,
	              use_count = excluded.use_count,
	              last_used_at = excluded.last_used_at`

	_, err := r.db.ExecContext(ctx, query,
		e.Origin, e.ApprovedAt.Unix(), e.ExpiresAt.Unix(), e.DurationDays, e.UseCount, unixOrZero(e.LastUsedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, origin string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trusted_origins WHERE origin = $1`, origin); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trusted_origins`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Entry, error) {
	query := `SELECT origin, approved_at, expires_at, duration_days, use_count, last_used_at
	          FROM trusted_origins ORDER BY origin`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
