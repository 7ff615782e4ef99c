package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_storage" {
			t.Errorf("expected first migration name create_storage, got %q", migrations[0].Name)
		}
	})

	t.Run("parseMigrationName", func(t *testing.T) {
		tests := []struct {
			file      string
			version   int
			name      string
			direction string
			ok        bool
		}{
			{"0000_create_storage_up.sql", 0, "create_storage", "up", true},
			{"0012_add_index_down.sql", 12, "add_index", "down", true},
			{"notes.sql", 0, "", "", false},
			{"abcd_create_up.sql", 0, "", "", false},
			{"0001_create_sideways.sql", 0, "", "", false},
		}

		for _, tt := range tests {
			t.Run(tt.file, func(t *testing.T) {
				version, name, direction, ok := parseMigrationName(tt.file)
				if ok != tt.ok {
					t.Fatalf("ok = %v, want %v", ok, tt.ok)
				}
				if !ok {
					return
				}
				if version != tt.version || name != tt.name || direction != tt.direction {
					t.Errorf("got (%d, %q, %q), want (%d, %q, %q)", version, name, direction, tt.version, tt.name, tt.direction)
				}
			})
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := "-- header\nCREATE TABLE a (x INT); -- trailing\n\nCREATE INDEX i ON a(x);\n"
		stmts := splitStatements(script)
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[0] != "CREATE TABLE a (x INT)" {
			t.Errorf("unexpected first statement %q", stmts[0])
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		applied, err := RunMigrations(db)
		if err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if applied == 0 {
			t.Error("expected at least one migration to be applied")
		}

		if _, err := db.Exec("SELECT 1 FROM kv_store LIMIT 1"); err != nil {
			t.Errorf("kv_store table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		statuses, err := Migrations(db)
		if err != nil {
			t.Fatalf("failed to list migrations: %v", err)
		}
		if statuses[len(statuses)-1].Applied {
			t.Error("expected latest migration to be rolled back")
		}

		if len(statuses) == 1 {
			if _, err := db.Exec("SELECT 1 FROM kv_store LIMIT 1"); err == nil {
				t.Error("kv_store table should be dropped after rollback")
			}
			if err := RollbackMigration(db); err == nil {
				t.Error("expected error rolling back with nothing applied")
			}
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if _, err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		applied, err := RunMigrations(db)
		if err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}
		if applied != 0 {
			t.Errorf("expected no pending migrations on second run, got %d", applied)
		}

		statuses, err := Migrations(db)
		if err != nil {
			t.Fatalf("failed to list migrations: %v", err)
		}
		for _, s := range statuses {
			if !s.Applied {
				t.Errorf("migration %d should be applied", s.Version)
			}
		}
	})

	t.Run("OpenDatabase", func(t *testing.T) {
		db, err := OpenDatabase(DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO kv_store (key, value) VALUES ('k', 'v')"); err != nil {
			t.Errorf("expected migrated kv_store table: %v", err)
		}
	})
}
