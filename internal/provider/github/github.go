package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/drewdunne/samwise/internal/provider"
	"github.com/google/go-github/v60/github"
)

const perPage = 100

// GitHubProvider implements provider.IssueSource for GitHub.
type GitHubProvider struct {
	client *github.Client
	token  string
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(p *GitHubProvider) {
		p.client.BaseURL, _ = p.client.BaseURL.Parse(url + "/")
	}
}

// New creates a new GitHub provider.
func New(token string, opts ...Option) *GitHubProvider {
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	client := github.NewClient(httpClient)

	p := &GitHubProvider{
		client: client,
		token:  token,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// ListIssues returns every issue in the given state. GitHub lists pull
// requests as issues too; they are returned with PullRequest set.
func (p *GitHubProvider) ListIssues(ctx context.Context, owner, repo string, state provider.IssueState) ([]provider.RawIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       string(state),
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var result []provider.RawIssue
	for {
		issues, resp, err := p.client.Issues.ListByRepo(ctx, owner, repo, opts)
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

func convertIssue(i *github.Issue) provider.RawIssue {
	raw := provider.RawIssue{
		Number:      i.Number,
		State:       i.State,
		Title:       i.GetTitle(),
		HTMLURL:     i.GetHTMLURL(),
		Comments:    i.GetComments(),
		CreatedAt:   i.GetCreatedAt().Time,
		UpdatedAt:   i.GetUpdatedAt().Time,
		PullRequest: i.IsPullRequest(),
	}

	if m := i.Milestone; m != nil {
		raw.Milestone = &provider.Milestone{
			Title:        m.GetTitle(),
			Number:       m.GetNumber(),
			OpenIssues:   m.GetOpenIssues(),
			ClosedIssues: m.GetClosedIssues(),
		}
	}
	if a := i.Assignee; a != nil {
		raw.Assignee = a.Login
	}
	if u := i.User; u != nil {
		raw.Author = u.Login
	}
	if i.ClosedAt != nil {
		closed := i.ClosedAt.Time
		raw.ClosedAt = &closed
	}
	for _, l := range i.Labels {
		raw.Labels = append(raw.Labels, l.GetName())
	}

	return raw
}

// ListIssueEvents returns the audit trail of an issue.
func (p *GitHubProvider) ListIssueEvents(ctx context.Context, owner, repo string, number int) ([]provider.RawEvent, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var result []provider.RawEvent
	for {
		events, resp, err := p.client.Issues.ListIssueEvents(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issue events: %w", err)
		}

		for _, e := range events {
			result = append(result, provider.RawEvent{
				Actor:     e.GetActor().GetLogin(),
				Type:      e.GetEvent(),
				CreatedAt: e.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// ListMilestones returns the open milestones of a repository.
func (p *GitHubProvider) ListMilestones(ctx context.Context, owner, repo string) ([]provider.Milestone, error) {
	opts := &github.MilestoneListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var result []provider.Milestone
	for {
		milestones, resp, err := p.client.Issues.ListMilestones(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing milestones: %w", err)
		}

		for _, m := range milestones {
			result = append(result, provider.Milestone{
				Title:        m.GetTitle(),
				Number:       m.GetNumber(),
				OpenIssues:   m.GetOpenIssues(),
				ClosedIssues: m.GetClosedIssues(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// PostComment posts a comment on an issue.
func (p *GitHubProvider) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := p.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: &body,
	})
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}
