package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.sql
var migrationFiles embed.FS

// Migration is one schema revision: the statements that introduce it and the
// statements that revert it.
type Migration struct {
	Version int
	Up      string
	Down    string
}

// RunMigrations applies every revision not yet recorded in the versions
// table, in version order. Safe to call on every startup.
func RunMigrations(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := runInTx(db, m.Up, "INSERT INTO migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// RollbackLast reverts the most recently applied revision and removes its
// version record. Fails when no revision has been applied.
func RollbackLast(db *sql.DB) error {
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&version); err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}
	if version == 0 {
		return fmt.Errorf("no applied migrations to roll back")
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, m := range migrations {
		if m.Version == version {
			if err := runInTx(db, m.Down, "DELETE FROM migrations WHERE version = ?", m.Version); err != nil {
				return fmt.Errorf("roll back migration %d: %w", m.Version, err)
			}
			return nil
		}
	}
	return fmt.Errorf("migration %d has no source file", version)
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// loadMigrations reads every embedded .up.sql file and pairs it with its
// .down.sql counterpart, sorted by version.
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		version := versionOf(entry.Name())
		if version == 0 {
			continue
		}

		up, err := migrationFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}
		down, err := migrationFiles.ReadFile(strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1))
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, Migration{Version: version, Up: string(up), Down: string(down)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// runInTx executes a revision's statements and its version bookkeeping in a
// single transaction so a failed revision leaves no partial schema.
func runInTx(db *sql.DB, stmts, record string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(stmts); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, version); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func versionOf(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
