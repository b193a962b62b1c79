package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "timesheet.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"clients", "projects", "users", "time_entries"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	var indexName string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'one_active_entry_per_user'`).Scan(&indexName)
	require.NoError(t, err)
	assert.Equal(t, "one_active_entry_per_user", indexName)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestRollbackLast(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, RollbackLast(db))

	// The schema and its version record are gone.
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'time_entries'`).Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&count))
	assert.Equal(t, 0, count)

	// Nothing left to roll back.
	err := RollbackLast(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no applied migrations")

	// Reapplying restores the schema.
	require.NoError(t, RunMigrations(db))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'time_entries'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoadMigrations_OrderedByVersion(t *testing.T) {
	migrations, err := loadMigrations()

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
	assert.NotEmpty(t, migrations[0].Up)
	assert.NotEmpty(t, migrations[0].Down)
}
