package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "retail.db"),
		Profile: ProfileLedger,
		Name:    "retail",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewAndMigrate(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	// Schema creates the transactions relation
	var name string
	err := db.Conn().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'transactions'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "transactions", name)

	// Migrate is safe to run again
	require.NoError(t, db.Migrate())

	_, err = db.Conn().Exec(
		`INSERT INTO transactions VALUES ('1', '2022-01-15', 'SELL', 'Item', 1, 10.0, 12.0)`)
	require.NoError(t, err)
}

func TestMigrateUnknownDatabaseName(t *testing.T) {
	db, err := New(Config{
		Path: filepath.Join(t.TempDir(), "other.db"),
		Name: "other",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// No schema registered for this name, nothing to apply
	require.NoError(t, db.Migrate())
}

func TestWithTransactionCommit(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO transactions VALUES ('1', '2022-01-15', 'SELL', 'Item', 1, 10.0, 12.0)`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO transactions VALUES ('1', '2022-01-15', 'SELL', 'Item', 1, 10.0, 12.0)`); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTransactionRecoversPanic(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction")
}

func TestHealthCheckAndMaintenance(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate())

	ctx := context.Background()
	require.NoError(t, db.QuickCheck(ctx))
	require.NoError(t, db.HealthCheck(ctx))
	require.NoError(t, db.WALCheckpoint(""))
}
