package shared

import (
	"database/sql"
	"slices"
	"testing"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })
	return db
}

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("failed to read columns of %s: %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	return names
}

func appliedCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	return n
}

func TestMigrations(t *testing.T) {
	t.Run("Embedded Files Pair Up In Order", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected the sessions migration")
		}
		for i, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d needs both up and down SQL", m.Version)
			}
			if i > 0 && m.Version <= migrations[i-1].Version {
				t.Errorf("version %d sorted after %d", m.Version, migrations[i-1].Version)
			}
		}
	})

	t.Run("Session Schema", func(t *testing.T) {
		db := openMemory(t)
		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		got := columns(t, db, "sessions")
		for _, want := range []string{"id", "sequence", "role", "user_agent", "created_at", "updated_at", "expires_at"} {
			if !slices.Contains(got, want) {
				t.Errorf("sessions is missing column %q (have %v)", want, got)
			}
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM sessions_sequence WHERE id = 1").Scan(&seq); err != nil || seq != 0 {
			t.Errorf("sessions_sequence should start at 0, got %d (%v)", seq, err)
		}
	})

	t.Run("Role Constraint", func(t *testing.T) {
		db := openMemory(t)
		if err := RunMigrations(db); err != nil {
			t.Fatal(err)
		}

		insert := "INSERT INTO sessions (id, sequence, role, created_at, updated_at, expires_at) VALUES (?, ?, ?, datetime('now'), datetime('now'), datetime('now'))"
		if _, err := db.Exec(insert, GenerateID(), 1, "admin"); err != nil {
			t.Errorf("admin role rejected: %v", err)
		}
		if _, err := db.Exec(insert, GenerateID(), 2, "none"); err == nil {
			t.Error("expected the role check to reject an unauthenticated row")
		}
	})

	t.Run("Rerun Is A No-op", func(t *testing.T) {
		db := openMemory(t)
		for range 2 {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("RunMigrations() error = %v", err)
			}
		}
		migrations, _ := loadMigrations()
		if n := appliedCount(t, db); n != len(migrations) {
			t.Errorf("expected %d applied migrations, got %d", len(migrations), n)
		}
	})

	t.Run("Rollback Drops Sessions", func(t *testing.T) {
		db := openMemory(t)
		if err := RunMigrations(db); err != nil {
			t.Fatal(err)
		}
		before := appliedCount(t, db)

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("RollbackMigration() error = %v", err)
		}
		if after := appliedCount(t, db); after != before-1 {
			t.Errorf("applied migrations %d -> %d, want one fewer", before, after)
		}
		if cols := columns(t, db, "sessions"); len(cols) != 0 {
			t.Errorf("sessions should be gone, still has %v", cols)
		}
	})

	t.Run("OpenSessionStore Defaults To Memory", func(t *testing.T) {
		db, err := OpenSessionStore(SessionsConfig{})
		if err != nil {
			t.Fatalf("OpenSessionStore() error = %v", err)
		}
		defer db.Close()

		if cols := columns(t, db, "sessions"); len(cols) == 0 {
			t.Error("sessions table should exist")
		}
	})

	t.Run("removeComments", func(t *testing.T) {
		got := removeComments("-- heading\nCREATE TABLE x (id INTEGER); -- trailing\n\n")
		if got != "CREATE TABLE x (id INTEGER);" {
			t.Errorf("removeComments() = %q", got)
		}
	})
}
