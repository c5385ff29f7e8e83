package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/drewdunne/samwise/internal/provider"
)

func TestLinks(t *testing.T) {
	l := Links{WebURL: "https://github.com/", Owner: "acme", Repo: "docs"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"milestone", l.Milestone(3), "https://github.com/acme/docs/issues?milestone=3&state=open"},
		{"assigned", l.Assigned("amy"), "https://github.com/acme/docs/issues/assigned/amy"},
		{"assigned open", l.AssignedOpen("amy", ""), "https://github.com/acme/docs/issues/assigned/amy?state=open&page=1"},
		{"assigned label", l.AssignedOpen("amy", "code complete"), "https://github.com/acme/docs/issues/assigned/amy?state=open&page=1&labels=code+complete"},
		{"profile", l.Profile("amy"), "https://github.com/amy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func render(t *testing.T, d Digest, p PersonalSection) string {
	t.Helper()
	r, err := NewRenderer(Links{WebURL: "https://github.com", Owner: "acme", Repo: "docs"})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d, p); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestRender_Digest(t *testing.T) {
	issues := []issue.Snapshot{
		snap(1, inMilestone("v1"), updatedAt(recent), assignedTo("amy"), labeled("active")),
		snap(2, by("bob"), func(s *issue.Snapshot) { s.Title = "<script>alert(1)</script>" }),
	}
	milestones := []provider.Milestone{
		{Title: "v1", Number: 1, OpenIssues: 3, ClosedIssues: 1},
		{Title: "v2", Number: 2, OpenIssues: 1},
	}
	d := Build(issues, milestones, window)
	out := render(t, d, Personal("amy", issues))

	for _, want := range []string{
		"<h1>Grind for Monday, March 4</h1>",
		`<a href="https://github.com/acme/docs/issues?milestone=1&amp;state=open">v1</a>, 25%`,
		"<b>3</b> open, <b>1</b> closed, <b>0</b> resolved",
		"<h3>Active</h3>",
		`<li class="issue active">`,
		"(<i>active</i>)",
		"No activity today.",
		"Orphaned Issues",
		`<span class="orphanReason">No milestone</span> <span class="author">bob</span>`,
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		`<a href="https://github.com/acme/docs/issues/assigned/amy">amy</a>`,
		"1</a> issue, ",
		"labels=code",
		`Let's Talk About You, <a href="https://github.com/amy">amy</a>`,
		`Issues assigned to you (<span class="count">1</span>)`,
		`Issues mentioning you (<span class="count">0</span>)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered digest missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("issue titles must be escaped")
	}
	if !strings.Contains(out, "<style>") || !strings.Contains(out, ".meter") {
		t.Error("stylesheet should be inlined")
	}
}

func TestRender_StaleIssueNotMarkedActive(t *testing.T) {
	issues := []issue.Snapshot{snap(1, assignedTo("amy"))}
	out := render(t, Build(issues, nil, window), Personal("amy", issues))

	if !strings.Contains(out, `<li class="issue">`) {
		t.Error("stale issue should render without the active class")
	}
	if !strings.Contains(out, "(<i>no labels</i>)") {
		t.Error("unlabeled issue should render as no labels")
	}
	if !strings.Contains(out, "[<i>No milestone</i>]") {
		t.Error("issue without milestone should render No milestone tag")
	}
}
