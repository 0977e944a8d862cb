package trust

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) Repository {
	t.Helper()

	repo, db, err := OpenRepository(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repo
}

func sampleEntry(origin string) *Entry {
	now := time.Now().UTC().Truncate(time.Second)
	return &Entry{
		Origin:       origin,
		ApprovedAt:   now,
		ExpiresAt:    now.Add(60 * 24 * time.Hour),
		DurationDays: 60,
	}
}

func TestSQLiteUpsertAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	want := sampleEntry("https://example.org")
	require.NoError(t, repo.Upsert(ctx, want))

	got, err := repo.Get(ctx, "https://example.org")
	require.NoError(t, err)
	require.Equal(t, want.Origin, got.Origin)
	require.True(t, want.ApprovedAt.Equal(got.ApprovedAt))
	require.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	require.Equal(t, 60, got.DurationDays)
	require.Zero(t, got.UseCount)
	require.True(t, got.LastUsedAt.IsZero())
}

func TestSQLiteUpsertReplaces(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	e := sampleEntry("https://example.org")
	require.NoError(t, repo.Upsert(ctx, e))

	e.UseCount = 7
	e.LastUsedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Upsert(ctx, e))

	got, err := repo.Get(ctx, "https://example.org")
	require.NoError(t, err)
	require.EqualValues(t, 7, got.UseCount)
	require.True(t, e.LastUsedAt.Equal(got.LastUsedAt))
}

func TestSQLiteGetMissing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "https://missing.example")
	require.Error(t, err)
}

func TestSQLiteDeleteMissingIsNoop(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Delete(context.Background(), "https://missing.example"))
}

func TestSQLiteListOrdered(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleEntry("https://b.example")))
	require.NoError(t, repo.Upsert(ctx, sampleEntry("https://a.example")))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "https://a.example", entries[0].Origin)
	require.Equal(t, "https://b.example", entries[1].Origin)
}
