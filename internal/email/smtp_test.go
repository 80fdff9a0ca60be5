package email

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"
)

type smtpTranscript struct {
	mu       sync.Mutex
	commands []string
	data     []string
}

func (tr *smtpTranscript) snapshot() ([]string, []string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.commands...), append([]string(nil), tr.data...)
}

// fakeSMTP accepts one connection on loopback and answers just enough of
// the protocol for net/smtp. RCPT is refused when rejectRcpt is set.
func fakeSMTP(t *testing.T, rejectRcpt bool) (int, *smtpTranscript) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	tr := &smtpTranscript{}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			tr.mu.Lock()
			tr.commands = append(tr.commands, line)
			tr.mu.Unlock()

			verb, _, _ := strings.Cut(line, " ")
			switch strings.ToUpper(verb) {
			case "EHLO":
				tp.PrintfLine("250-fake")
				tp.PrintfLine("250 8BITMIME")
			case "MAIL":
				tp.PrintfLine("250 ok")
			case "RCPT":
				if rejectRcpt {
					tp.PrintfLine("550 no such user")
				} else {
					tp.PrintfLine("250 ok")
				}
			case "DATA":
				tp.PrintfLine("354 go ahead")
				lines, err := tp.ReadDotLines()
				if err != nil {
					return
				}
				tr.mu.Lock()
				tr.data = lines
				tr.mu.Unlock()
				tp.PrintfLine("250 queued")
			case "QUIT":
				tp.PrintfLine("221 bye")
				return
			default:
				tp.PrintfLine("502 not implemented")
			}
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port, tr
}

func TestSMTPSenderDelivers(t *testing.T) {
	port, tr := fakeSMTP(t, false)
	s := NewSMTPSender("127.0.0.1", port, "", "", "noreply@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Send(ctx, Message{
		To:       "alice@example.com",
		Subject:  "Reminder: Dentist",
		TextBody: "Hello alice\n.hidden line\n",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	commands, data := tr.snapshot()
	if len(commands) < 5 {
		t.Fatalf("commands = %q", commands)
	}
	if !strings.HasPrefix(commands[1], "MAIL FROM:<noreply@example.com>") {
		t.Errorf("MAIL = %q", commands[1])
	}
	if commands[2] != "RCPT TO:<alice@example.com>" {
		t.Errorf("RCPT = %q", commands[2])
	}
	if commands[3] != "DATA" || commands[len(commands)-1] != "QUIT" {
		t.Errorf("commands = %q, want DATA then QUIT", commands)
	}

	joined := strings.Join(data, "\n")
	for _, want := range []string{"Subject: Reminder: Dentist", "To: alice@example.com", "Hello alice", ".hidden line"} {
		if !strings.Contains(joined, want) {
			t.Errorf("message missing %q:\n%s", want, joined)
		}
	}
}

func TestSMTPSenderStripsHeaderBreaks(t *testing.T) {
	port, tr := fakeSMTP(t, false)
	s := NewSMTPSender("127.0.0.1", port, "", "", "noreply@example.com")

	task := "Pay rent\r\nBcc: evil@example.net\r\nX-Injected: yes"
	if err := s.Send(context.Background(), Message{To: "alice@example.com", Subject: "Reminder: " + task}); err != nil {
		t.Fatalf("send: %v", err)
	}

	_, data := tr.snapshot()
	for _, line := range data {
		if strings.HasPrefix(line, "Bcc:") || strings.HasPrefix(line, "X-Injected:") {
			t.Errorf("injected header line %q", line)
		}
	}
	if !strings.Contains(strings.Join(data, "\n"), "Subject: Reminder: Pay rent Bcc: evil@example.net X-Injected: yes") {
		t.Errorf("subject not folded onto one line:\n%s", strings.Join(data, "\n"))
	}
}

func TestSMTPSenderRecipientRejected(t *testing.T) {
	port, _ := fakeSMTP(t, true)
	s := NewSMTPSender("127.0.0.1", port, "", "", "noreply@example.com")

	err := s.Send(context.Background(), Message{To: "nobody@example.com", Subject: "Hi"})
	if err == nil || !strings.Contains(err.Error(), "rcpt") {
		t.Fatalf("err = %v, want rcpt failure", err)
	}
}

func TestSMTPSenderDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	s := NewSMTPSender("127.0.0.1", port, "", "", "noreply@example.com")
	if err := s.Send(context.Background(), Message{To: "alice@example.com"}); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	now := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	raw := string(buildMessage("noreply@example.com", Message{
		To:      "alice@example.com",
		Subject: "Reminder: Café",
	}, now))

	if !strings.Contains(raw, "Subject: =?utf-8?q?") {
		t.Errorf("non-ASCII subject not Q-encoded:\n%q", raw)
	}
	if strings.Contains(raw, "Café") {
		t.Errorf("raw UTF-8 left in header:\n%q", raw)
	}
}

func TestBuildMessageNormalisesBareCR(t *testing.T) {
	raw := string(buildMessage("noreply@example.com", Message{
		To:       "alice@example.com",
		Subject:  "Hi",
		TextBody: "one\rtwo\r\nthree",
	}, time.Now()))

	if !strings.HasSuffix(raw, "\r\n\r\none\r\ntwo\r\nthree") {
		t.Errorf("body not normalised:\n%q", raw)
	}
}
