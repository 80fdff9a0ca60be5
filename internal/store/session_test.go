package store

import (
	"testing"
	"time"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db := setupTestDB(t)
	return NewSessionStore(db, time.Hour), NewUserStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	u := createTestUser(t, us, "alice")

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at = %v, want in the future", sess.ExpiresAt)
	}
}

func TestSessionDefaultTTL(t *testing.T) {
	ss := NewSessionStore(setupTestDB(t), 0)
	if ss.TTL() != DefaultSessionTTL {
		t.Errorf("ttl = %v, want %v", ss.TTL(), DefaultSessionTTL)
	}
}

func TestSessionGetByToken(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	u := createTestUser(t, us, "alice")
	created, _ := ss.Create(u.ID)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.ID != created.ID {
		t.Errorf("id = %d, want %d", sess.ID, created.ID)
	}
}

func TestSessionGetByTokenNotFound(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	sess, err := ss.GetByToken("nonexistent")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for nonexistent token")
	}
}

func TestSessionExpired(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	u := createTestUser(t, us, "alice")
	created, _ := ss.Create(u.ID)

	ss.db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().UTC().Add(-time.Minute), created.ID)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for expired session")
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	u := createTestUser(t, us, "alice")
	created, _ := ss.Create(u.ID)

	if err := ss.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionDeleteByUserID(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	u := createTestUser(t, us, "alice")
	ss.Create(u.ID)
	ss.Create(u.ID)

	if err := ss.DeleteByUserID(u.ID); err != nil {
		t.Fatalf("delete by user id: %v", err)
	}

	var count int
	ss.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, u.ID).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 sessions, got %d", count)
	}
}
