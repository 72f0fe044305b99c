package storage

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testDB opens a throwaway sqlite database with the full schema
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestMigrationsCoverAllTables(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"products", "stores", "prices", "ingestion_runs"} {
		require.True(t, db.gorm.Migrator().HasTable(table), "table %s should exist", table)
	}
}
