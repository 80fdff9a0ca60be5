package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostmarkSend(t *testing.T) {
	var got postmarkPayload
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"abc"}`))
	}))
	defer srv.Close()

	p := NewPostmarkSender("test-token", "noreply@example.com", WithEndpoint(srv.URL))
	err := p.Send(context.Background(), Message{
		To:       "alice@example.com",
		Subject:  "Reminder: Dentist",
		TextBody: "Hello alice",
		Tag:      TagTaskReminder,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want %q", gotToken, "test-token")
	}
	want := postmarkPayload{
		From:          "noreply@example.com",
		To:            "alice@example.com",
		Subject:       "Reminder: Dentist",
		TextBody:      "Hello alice",
		Tag:           TagTaskReminder,
		MessageStream: "outbound",
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestPostmarkMessageStream(t *testing.T) {
	var got postmarkPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	p := NewPostmarkSender("tok", "noreply@example.com", WithEndpoint(srv.URL), WithMessageStream("reminders"))
	if err := p.Send(context.Background(), Message{To: "alice@example.com"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.MessageStream != "reminders" {
		t.Errorf("MessageStream = %q, want reminders", got.MessageStream)
	}
}

func TestPostmarkMissingToken(t *testing.T) {
	p := NewPostmarkSender("", "noreply@example.com")
	if err := p.Send(context.Background(), Message{To: "alice@example.com"}); err == nil {
		t.Fatal("expected error without a server token")
	}
}

func TestPostmarkAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid 'To' address"}`))
	}))
	defer srv.Close()

	p := NewPostmarkSender("tok", "noreply@example.com", WithEndpoint(srv.URL))
	err := p.Send(context.Background(), Message{To: "not-an-address"})

	var apiErr *PostmarkError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *PostmarkError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.ErrorCode != 300 {
		t.Errorf("apiErr = %+v, want status 422 code 300", apiErr)
	}
}

func TestPostmarkErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewPostmarkSender("tok", "noreply@example.com", WithEndpoint(srv.URL))
	err := p.Send(context.Background(), Message{To: "alice@example.com"})
	var apiErr *PostmarkError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503 PostmarkError", err)
	}
}

func TestPostmarkHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPostmarkSender("tok", "noreply@example.com", WithEndpoint(srv.URL))
	if err := p.Send(ctx, Message{To: "alice@example.com"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
