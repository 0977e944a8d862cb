package trust

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	repo, db, err := OpenRepository(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(repo, testLogger())
}

func TestApproveThenIsApproved(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)
	require.Equal(t, entry.ApprovedAt.Add(60*24*time.Hour), entry.ExpiresAt)

	ok, err := store.IsApproved(ctx, "https://example.org")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIsApprovedUnknownOrigin(t *testing.T) {
	store := setupStore(t)

	ok, err := store.IsApproved(context.Background(), "https://unknown.example")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsApprovedBumpsUsage(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ok, err := store.IsApproved(ctx, "https://example.org")
		require.NoError(t, err)
		require.True(t, ok)
	}

	entry, err := store.repo.Get(ctx, "https://example.org")
	require.NoError(t, err)
	require.EqualValues(t, 3, entry.UseCount)
	require.False(t, entry.LastUsedAt.IsZero())
}

func TestApprovalWindowBoundary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	store.now = func() time.Time { return base }

	_, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)

	// one second before expiry: still approved
	store.now = func() time.Time { return base.Add(60*24*time.Hour - time.Second) }
	ok, err := store.IsApproved(ctx, "https://example.org")
	require.NoError(t, err)
	require.True(t, ok)

	// at expiry: no longer approved, entry purged lazily
	store.now = func() time.Time { return base.Add(60 * 24 * time.Hour) }
	ok, err = store.IsApproved(ctx, "https://example.org")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = store.repo.Get(ctx, "https://example.org")
	require.Error(t, err)
}

func TestReapprovalResetsWindow(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	store.now = func() time.Time { return base }
	_, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(30 * 24 * time.Hour) }
	entry, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)
	require.Equal(t, base.Add(90*24*time.Hour), entry.ExpiresAt)
}

func TestRemoveRevokes(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Approve(ctx, "https://example.org", 60)
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, "https://example.org"))

	ok, err := store.IsApproved(ctx, "https://example.org")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearRevokesAll(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, origin := range []string{"https://a.example", "https://b.example"} {
		_, err := store.Approve(ctx, origin, 60)
		require.NoError(t, err)
	}
	require.NoError(t, store.Clear(ctx))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, infos)
}

func TestListSweepsExpiredAndRoundsUp(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	store.now = func() time.Time { return base }
	_, err := store.Approve(ctx, "https://fresh.example", 60)
	require.NoError(t, err)
	_, err = store.Approve(ctx, "https://stale.example", 1)
	require.NoError(t, err)

	// one hour left on the fresh grant's final day, stale grant lapsed
	store.now = func() time.Time { return base.Add(60*24*time.Hour - time.Hour) }

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, "https://fresh.example", infos[0].Origin)
	require.Equal(t, 1, infos[0].DaysLeft)

	// stale entry is gone from storage, not just hidden
	_, err = store.repo.Get(ctx, "https://stale.example")
	require.Error(t, err)
}
