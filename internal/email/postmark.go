package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultPostmarkURL = "https://api.postmarkapp.com/email"
	defaultStream      = "outbound"
)

// PostmarkSender delivers mail through Postmark's single-message endpoint.
type PostmarkSender struct {
	token    string
	from     string
	endpoint string
	stream   string
	client   *http.Client
}

type PostmarkOption func(*PostmarkSender)

func WithHTTPClient(c *http.Client) PostmarkOption {
	return func(p *PostmarkSender) {
		p.client = c
	}
}

// WithEndpoint points the sender at another API URL.
func WithEndpoint(url string) PostmarkOption {
	return func(p *PostmarkSender) {
		p.endpoint = url
	}
}

// WithMessageStream selects a Postmark message stream other than "outbound".
func WithMessageStream(stream string) PostmarkOption {
	return func(p *PostmarkSender) {
		if stream != "" {
			p.stream = stream
		}
	}
}

func NewPostmarkSender(token, from string, opts ...PostmarkOption) *PostmarkSender {
	p := &PostmarkSender{
		token:    token,
		from:     from,
		endpoint: defaultPostmarkURL,
		stream:   defaultStream,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PostmarkError is a non-2xx reply from the API.
type PostmarkError struct {
	Status    int
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (e *PostmarkError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postmark: status %d", e.Status)
	}
	return fmt.Sprintf("postmark: status %d, code %d: %s", e.Status, e.ErrorCode, e.Message)
}

type postmarkPayload struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody"`
	Tag           string `json:"Tag,omitempty"`
	MessageStream string `json:"MessageStream"`
}

func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if p.token == "" {
		return errors.New("postmark: missing server token")
	}

	body, err := json.Marshal(postmarkPayload{
		From:          p.from,
		To:            msg.To,
		Subject:       msg.Subject,
		TextBody:      msg.TextBody,
		Tag:           msg.Tag,
		MessageStream: p.stream,
	})
	if err != nil {
		return fmt.Errorf("marshal postmark payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build postmark request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("postmark request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &PostmarkError{Status: resp.StatusCode}
	// The body is informational; a malformed one still yields the status.
	json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
	return apiErr
}
