package storage

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// newTestPostgresStore connects to the database named by TEST_DATABASE_URL
// and starts from an empty expenses table. Tests are skipped when the
// variable is unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres tests")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.pool.Exec(ctx, `TRUNCATE TABLE expenses`)
	require.NoError(t, err)

	return store
}

func TestPostgresStoreEnsureSchemaConcurrent(t *testing.T) {
	store := newTestPostgresStore(t)
	store.ready.Store(false)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			return store.EnsureSchema(context.Background())
		})
	}
	require.NoError(t, g.Wait())
	require.True(t, store.ready.Load())
}

func TestPostgresStoreCreateAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestPostgresStore(t)

	created, err := store.Create(ctx, testExpense("Coffee"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	second, err := store.Create(ctx, testExpense("Lunch"))
	require.NoError(t, err)
	require.NotEqual(t, created.ID, second.ID)

	expenses, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	require.Equal(t, "Lunch", expenses[0].Title)
	require.Equal(t, "Coffee", expenses[1].Title)
	require.True(t, expenses[0].Amount.Equal(decimal.NewFromFloat(4.5)),
		"amount = %s", expenses[0].Amount)
	require.Equal(t, "2026-02-01", expenses[0].OccurredAt.String())
}

func TestPostgresStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestPostgresStore(t)

	created, err := store.Create(ctx, testExpense("Coffee"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	require.NoError(t, store.Delete(ctx, created.ID))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	expenses, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, expenses)
}
