package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestMailgun_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v3/mg.example.com/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "api" || pass != "key-123" {
			t.Errorf("basic auth = %q/%q, want api/key-123", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("from"); got != "grind@example.com" {
			t.Errorf("from = %q", got)
		}
		if got := r.PostForm.Get("subject"); got != "Daily Grind" {
			t.Errorf("subject = %q", got)
		}
		if got := r.PostForm.Get("html"); got != "<p>hi</p>" {
			t.Errorf("html = %q", got)
		}
		if got := r.PostForm["to"]; len(got) != 2 || got[1] != "bob@example.com" {
			t.Errorf("to = %v", got)
		}
		w.Write([]byte(`{"id":"<1@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	defer server.Close()

	m := NewMailgun("mg.example.com", "key-123", "grind@example.com", WithBaseURL(server.URL+"/"))
	err := m.Send(context.Background(), "Daily Grind", "<p>hi</p>", []string{"alice@example.com", "bob@example.com"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestMailgun_SendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	m := NewMailgun("mg.example.com", "bad", "grind@example.com", WithBaseURL(server.URL), WithRetries(0))
	err := m.Send(context.Background(), "s", "b", []string{"alice@example.com"})
	if err == nil {
		t.Fatal("Send() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestMailgun_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	m := NewMailgun("mg.example.com", "key", "grind@example.com", WithBaseURL(server.URL), WithRetries(1))
	m.client.RetryWaitMin = 0
	m.client.RetryWaitMax = 0

	if err := m.Send(context.Background(), "s", "b", []string{"alice@example.com"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestMailgun_NoRecipients(t *testing.T) {
	m := NewMailgun("mg.example.com", "key", "grind@example.com")
	if err := m.Send(context.Background(), "s", "b", nil); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send() error = %v, want ErrNoRecipients", err)
	}
}
