// Package testutil provides camp fixtures and the Postgres helpers shared by
// integration tests. Database helpers skip the calling test when
// TEST_DATABASE_URL is not set, so unit tests run without a database.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/camp-directory/internal/database"
)

// DSNEnv names the environment variable holding the test database DSN.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool opens the camp store's pool against TEST_DATABASE_URL through
// database.Open, the same path the API server and campctl use. The pool is
// closed when the test and its subtests finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := database.Open(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB wraps a fresh pool in a *sql.DB for tests that drive goose
// directly, such as the migration round trip.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateForMain applies the camp migrations to the database at
// TEST_DATABASE_URL. It is meant for TestMain, where no *testing.T exists;
// it does nothing when the variable is unset.
func MigrateForMain() error {
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		return nil
	}
	ctx := context.Background()
	pool, err := database.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("testutil.MigrateForMain: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("testutil.MigrateForMain: %w", err)
	}
	return nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
