package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func TestOpenMemoryRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "sessions", "tasks", "shopping_items", "sent_notifications"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil || fk != 1 {
		t.Errorf("foreign_keys = %d (err %v), want 1", fk, err)
	}
}

func TestOpenFileIsReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskminder.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (username, email, password_hash) VALUES ('a', 'a@example.com', 'x')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("users = %d, want 1 after reopen", n)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	insert := `INSERT INTO users (username, email, password_hash) VALUES (?, ?, 'x')`
	if _, err := db.Exec(insert, "alice", "alice@example.com"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = db.Exec(insert, "alice", "other@example.com")
	if !IsUniqueViolation(fmt.Errorf("create user: %w", err)) {
		t.Errorf("duplicate username: IsUniqueViolation(%v) = false", err)
	}

	_, err = db.Exec(`INSERT INTO tasks (user_id, title, due_date) VALUES (999, 't', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected foreign key failure")
	}
	if IsUniqueViolation(err) {
		t.Error("foreign key failure reported as unique violation")
	}
	if IsUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Error("plain error reported as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil reported as unique violation")
	}
}
