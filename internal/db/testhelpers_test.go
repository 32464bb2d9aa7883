package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/plantcalc/internal/testutil"
)

// setupTestDB starts a PostgreSQL testcontainer, applies migrations and
// returns a DB over a fresh pool. Cleanup is registered on t.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	dsn := testutil.SetupPostgres(t).DSN()

	if _, err := RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to test db: %v", err)
	}
	d := NewFromPool(pool)
	t.Cleanup(d.Close)
	return d
}
