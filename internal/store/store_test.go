package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/taskminder/internal/database"
	"github.com/dukerupert/taskminder/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, us *UserStore, username string) *model.User {
	t.Helper()
	u, err := us.Create(username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}
