package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultMailgunURL = "https://api.mailgun.net"

// ErrNoRecipients is returned when Send is called without recipients.
var ErrNoRecipients = errors.New("no recipients")

// Mailgun sends messages through the Mailgun messages API.
type Mailgun struct {
	client  *retryablehttp.Client
	baseURL string
	domain  string
	apiKey  string
	from    string
}

// MailgunOption configures the Mailgun notifier.
type MailgunOption func(*Mailgun)

// WithBaseURL sets a custom API URL (for the EU region or testing).
func WithBaseURL(baseURL string) MailgunOption {
	return func(m *Mailgun) {
		if baseURL != "" {
			m.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) MailgunOption {
	return func(m *Mailgun) {
		m.client.RetryMax = n
	}
}

// NewMailgun creates a Mailgun notifier sending from the given address.
func NewMailgun(domain, apiKey, from string, opts ...MailgunOption) *Mailgun {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = time.Second
	client.RetryWaitMax = 30 * time.Second
	client.Logger = slog.Default()

	m := &Mailgun{
		client:  client,
		baseURL: defaultMailgunURL,
		domain:  domain,
		apiKey:  apiKey,
		from:    from,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send posts one message addressed to every recipient.
func (m *Mailgun) Send(ctx context.Context, subject, html string, to []string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	form := url.Values{}
	form.Set("from", m.from)
	form.Set("subject", subject)
	form.Set("html", html)
	for _, addr := range to {
		form.Add("to", addr)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", m.baseURL, m.domain)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending to mailgun: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailgun returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
