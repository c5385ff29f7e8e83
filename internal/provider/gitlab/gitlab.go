package gitlab

import (
	"context"
	"fmt"
	"net/url"

	"github.com/drewdunne/samwise/internal/provider"
	"github.com/xanzy/go-gitlab"
)

const perPage = 100

// GitLabProvider implements provider.IssueSource for GitLab.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (self-hosted instances, tests).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.client, _ = gitlab.NewClient(p.token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	}
}

// New creates a new GitLab provider.
func New(token string, opts ...Option) *GitLabProvider {
	client, _ := gitlab.NewClient(token)
	p := &GitLabProvider{client: client, token: token}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// projectPath encodes owner/repo for GitLab API.
func projectPath(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

// ListIssues returns every project issue in the given state.
func (p *GitLabProvider) ListIssues(ctx context.Context, owner, repo string, state provider.IssueState) ([]provider.RawIssue, error) {
	glState := "opened"
	if state == provider.IssueStateClosed {
		glState = "closed"
	}
	opts := &gitlab.ListProjectIssuesOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: perPage},
		State:       &glState,
	}

	var result []provider.RawIssue
	for {
		issues, resp, err := p.client.Issues.ListProjectIssues(projectPath(owner, repo), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing %s issues: %w", state, err)
		}

		for _, i := range issues {
			result = append(result, convertIssue(i))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

func convertIssue(i *gitlab.Issue) provider.RawIssue {
	number := i.IID
	state := i.State
	raw := provider.RawIssue{
		Number:   &number,
		State:    &state,
		Title:    i.Title,
		HTMLURL:  i.WebURL,
		Comments: i.UserNotesCount,
		Labels:   append([]string(nil), i.Labels...),
		ClosedAt: i.ClosedAt,
	}

	if i.CreatedAt != nil {
		raw.CreatedAt = *i.CreatedAt
	}
	if i.UpdatedAt != nil {
		raw.UpdatedAt = *i.UpdatedAt
	}
	if m := i.Milestone; m != nil {
		// GitLab does not report per-milestone issue counts on issues.
		raw.Milestone = &provider.Milestone{Title: m.Title, Number: m.IID}
	}
	if a := i.Assignee; a != nil {
		raw.Assignee = &a.Username
	}
	if u := i.Author; u != nil {
		raw.Author = &u.Username
	}

	return raw
}

// ListIssueEvents returns the state events (closed, reopened) of an issue.
func (p *GitLabProvider) ListIssueEvents(ctx context.Context, owner, repo string, number int) ([]provider.RawEvent, error) {
	opts := &gitlab.ListStateEventsOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: perPage},
	}

	var result []provider.RawEvent
	for {
		events, resp, err := p.client.ResourceStateEvents.ListIssueStateEvents(projectPath(owner, repo), number, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing issue events: %w", err)
		}

		for _, e := range events {
			ev := provider.RawEvent{Type: string(e.State)}
			if e.User != nil {
				ev.Actor = e.User.Username
			}
			if e.CreatedAt != nil {
				ev.CreatedAt = *e.CreatedAt
			}
			result = append(result, ev)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// ListMilestones returns the active milestones of a project. Issue counts
// are left zero; GitLab does not report them here.
func (p *GitLabProvider) ListMilestones(ctx context.Context, owner, repo string) ([]provider.Milestone, error) {
	active := "active"
	opts := &gitlab.ListMilestonesOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: perPage},
		State:       &active,
	}

	var result []provider.Milestone
	for {
		milestones, resp, err := p.client.Milestones.ListMilestones(projectPath(owner, repo), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("listing milestones: %w", err)
		}

		for _, m := range milestones {
			result = append(result, provider.Milestone{Title: m.Title, Number: m.IID})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// PostComment posts a note on an issue.
func (p *GitLabProvider) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := p.client.Notes.CreateIssueNote(projectPath(owner, repo), number, &gitlab.CreateIssueNoteOptions{
		Body: &body,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}
