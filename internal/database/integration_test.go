package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"versequest/migrations"
)

func migratedDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := Initialize(path)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	db := migratedDB(t, ":memory:")
	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	tables := []string{"users", "sessions", "verses", "mastered_verses", "practice_attempts", "settings"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := migratedDB(t, ":memory:")

	applied, err := db.RunMigrations(migrations.FS)
	if err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("Expected no migrations on second run, got %v", applied)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	db := migratedDB(t, ":memory:")

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.ExecReturningID("INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)",
			"test@example.com", "Test", "hashedpass")
		return err
	})
	if err != nil {
		t.Fatalf("Committed transaction failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "test@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// A failing second insert rolls the first one back.
	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec("INSERT INTO users (email, name) VALUES (?, ?)", "test2@example.com", "Test2"); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO users (email, name) VALUES (?, ?)", "test@example.com", "Dup")
		return err
	})
	if err == nil {
		t.Fatal("Expected duplicate email to fail the transaction")
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "test2@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}

func TestUpsertSettingAndInsertIgnore(t *testing.T) {
	db := migratedDB(t, ":memory:")

	for _, value := range []string{"4", "6"} {
		if _, err := db.Exec(db.Dialect.UpsertSettingQuery(), "mask_interval", value); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	var value string
	if err := db.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?", "mask_interval").Scan(&value); err != nil {
		t.Fatalf("Failed to read setting: %v", err)
	}
	if value != "6" {
		t.Errorf("Expected setting 6, got %s", value)
	}

	insert := db.Dialect.InsertIgnore("INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)")
	res, err := db.Exec(insert, "mask_interval", "9")
	if err != nil {
		t.Fatalf("Insert ignore failed: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 0 {
		t.Errorf("Expected duplicate insert to be ignored, affected %d rows", n)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := migratedDB(t, filepath.Join(t.TempDir(), "concurrent.db"))

	_, err := db.Exec("INSERT INTO users (email, name) VALUES (?, ?)", "concurrent@example.com", "Concurrent")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var name string
			err := db.QueryRow("SELECT name FROM users WHERE email = ?", "concurrent@example.com").Scan(&name)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if name != "Concurrent" {
				t.Errorf("Expected name 'Concurrent', got '%s'", name)
			}
		}()
	}
	wg.Wait()
}
