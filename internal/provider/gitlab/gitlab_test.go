package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drewdunne/samwise/internal/provider"
)

func TestGitLabProvider_Name(t *testing.T) {
	p := New("test-token")
	if p.Name() != "gitlab" {
		t.Errorf("Name() = %q, want %q", p.Name(), "gitlab")
	}
}

func TestGitLabProvider_ListIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/issues") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("PRIVATE-TOKEN") != "test-token" {
			t.Errorf("missing or incorrect token header")
		}
		if got := r.URL.Query().Get("state"); got != "opened" {
			t.Errorf("state = %q, want %q", got, "opened")
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":               1001,
				"iid":              7,
				"state":            "opened",
				"title":            "Slow search",
				"web_url":          "https://gitlab.com/owner/repo/-/issues/7",
				"user_notes_count": 2,
				"labels":           []string{"bug", "active"},
				"created_at":       "2024-03-01T09:00:00Z",
				"updated_at":       "2024-03-02T09:00:00Z",
				"author":           map[string]string{"username": "bob"},
				"assignee":         map[string]string{"username": "alice"},
				"milestone":        map[string]interface{}{"id": 55, "iid": 2, "title": "v2"},
			},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	issues, err := p.ListIssues(context.Background(), "owner", "repo", provider.IssueStateOpen)
	if err != nil {
		t.Fatalf("ListIssues() error = %v", err)
	}

	if len(issues) != 1 {
		t.Fatalf("ListIssues() returned %d issues, want 1", len(issues))
	}

	i := issues[0]
	if i.Number == nil || *i.Number != 7 {
		t.Errorf("Number = %v, want 7 (iid)", i.Number)
	}
	if i.State == nil || *i.State != "opened" {
		t.Errorf("State = %v, want opened", i.State)
	}
	if i.Comments != 2 {
		t.Errorf("Comments = %d, want 2", i.Comments)
	}
	if i.Milestone == nil || i.Milestone.Title != "v2" || i.Milestone.Number != 2 {
		t.Errorf("Milestone = %+v, want v2 (#2)", i.Milestone)
	}
	if i.Assignee == nil || *i.Assignee != "alice" {
		t.Errorf("Assignee = %v, want alice", i.Assignee)
	}
	if len(i.Labels) != 2 || i.Labels[1] != "active" {
		t.Errorf("Labels = %v, want [bug active]", i.Labels)
	}
	if i.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestGitLabProvider_ListIssueEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/issues/7/resource_state_events") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "state": "reopened", "user": map[string]string{"username": "bob"}, "created_at": "2024-03-02T09:00:00Z"},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	events, err := p.ListIssueEvents(context.Background(), "owner", "repo", 7)
	if err != nil {
		t.Fatalf("ListIssueEvents() error = %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("ListIssueEvents() returned %d events, want 1", len(events))
	}
	if events[0].Type != "reopened" || events[0].Actor != "bob" {
		t.Errorf("events[0] = %+v, want reopened by bob", events[0])
	}
}

func TestGitLabProvider_ListMilestones(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/milestones") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 55, "iid": 2, "title": "v2"},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	milestones, err := p.ListMilestones(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("ListMilestones() error = %v", err)
	}

	if len(milestones) != 1 || milestones[0].Title != "v2" {
		t.Errorf("ListMilestones() = %+v, want [v2]", milestones)
	}
}

func TestGitLabProvider_PostComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/issues/7/notes") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "body": "note"})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	if err := p.PostComment(context.Background(), "owner", "repo", 7, "note"); err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
}
