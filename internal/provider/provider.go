package provider

import "context"

// IssueSource defines the issue tracker operations the sync and report pipelines need.
type IssueSource interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	// ListIssues returns every issue in the given state, following pagination.
	ListIssues(ctx context.Context, owner, repo string, state IssueState) ([]RawIssue, error)

	// ListIssueEvents returns the tracker's audit trail for one issue.
	ListIssueEvents(ctx context.Context, owner, repo string, number int) ([]RawEvent, error)

	// ListMilestones returns the open milestones of a repository.
	ListMilestones(ctx context.Context, owner, repo string) ([]Milestone, error)

	// PostComment posts a comment on an issue.
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}
