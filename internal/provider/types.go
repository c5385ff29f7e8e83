package provider

import "time"

// IssueState selects which issues ListIssues returns.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// RawIssue is an issue as fetched from the tracker. Pointer fields may be
// absent depending on the upstream payload.
type RawIssue struct {
	Number      *int
	State       *string
	Title       string
	HTMLURL     string
	Milestone   *Milestone
	Assignee    *string // login
	Author      *string // login
	Labels      []string
	Comments    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	PullRequest bool
}

// RawEvent is an entry of an issue's audit trail.
type RawEvent struct {
	Actor     string
	Type      string // reopened, closed, mentioned, labeled, ...
	CreatedAt time.Time
}

// Milestone represents a tracker milestone.
type Milestone struct {
	Title        string
	Number       int
	OpenIssues   int
	ClosedIssues int
}
