package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/taskminder/internal/auth"
)

func TestHandleWebSocketDeliversToUser(t *testing.T) {
	hub := NewHub(slog.Default())
	h := HandleWebSocket(hub, slog.Default())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithIdentity(r.Context(), auth.Identity{UserID: 1})
		h(w, r.WithContext(ctx))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.UserClientCount(1) == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.BroadcastTo(1, NewMessage("task", "updated", 3, nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "task_updated" || got.ID != 3 {
		t.Errorf("message = %+v", got)
	}
}

func TestHandleWebSocketRequiresAuth(t *testing.T) {
	hub := NewHub(slog.Default())
	req := httptest.NewRequest("GET", "/ws", nil)
	rec := httptest.NewRecorder()

	HandleWebSocket(hub, slog.Default())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleWebSocketDisconnectUserClosesConn(t *testing.T) {
	hub := NewHub(slog.Default())
	h := HandleWebSocket(hub, slog.Default())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: 2})))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.UserClientCount(2) == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.DisconnectUser(2)

	_, _, err = conn.Read(ctx)
	if ws.CloseStatus(err) != ws.StatusNormalClosure {
		t.Errorf("read err = %v, want normal closure", err)
	}
}
