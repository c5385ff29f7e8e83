package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/drewdunne/samwise/internal/logging"
	"github.com/drewdunne/samwise/internal/metrics"
	"github.com/drewdunne/samwise/internal/provider"
	"github.com/drewdunne/samwise/internal/store"
	"github.com/google/uuid"
)

// Options configures a Syncer.
type Options struct {
	Owner               string
	Repo                string
	Interval            time.Duration
	Location            *time.Location // remark timestamps; UTC when nil
	IncludePullRequests bool
}

// Syncer mirrors a tracker's issues into the store, recording label and
// comment history and posting a remark for every observed change.
type Syncer struct {
	source provider.IssueSource
	store  store.Store
	opts   Options
}

// New creates a Syncer.
func New(source provider.IssueSource, st store.Store, opts Options) *Syncer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	return &Syncer{source: source, store: st, opts: opts}
}

// Run performs a sync pass immediately and then once per interval until
// ctx is cancelled. A failed pass is logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.Fields{Component: "samwise.syncer"})
	slog.InfoContext(ctx, "sync loop starting",
		"provider", s.source.Name(),
		"repo", s.opts.Owner+"/"+s.opts.Repo,
		"interval", s.opts.Interval)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		s.runPass(ctx)

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "sync loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Syncer) runPass(ctx context.Context) {
	start := time.Now()
	if err := s.Update(ctx); err != nil {
		slog.ErrorContext(ctx, "sync pass failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "updated", "took", time.Since(start).Round(time.Millisecond))
}

// Update runs one sync pass: all open issues, then all closed ones. Errors
// for a single issue are logged and skipped; only a failure to list issues
// aborts the pass.
func (s *Syncer) Update(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.Fields{
		Component: "samwise.syncer",
		RunID:     uuid.New().String(),
	})

	for _, state := range []provider.IssueState{provider.IssueStateOpen, provider.IssueStateClosed} {
		raws, err := s.source.ListIssues(ctx, s.opts.Owner, s.opts.Repo, state)
		if err != nil {
			metrics.PassFailed()
			return fmt.Errorf("listing %s issues: %w", state, err)
		}

		for _, raw := range raws {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if raw.PullRequest && !s.opts.IncludePullRequests {
				continue
			}

			metrics.IssueSeen()
			if _, err := s.ProcessIssue(ctx, raw); err != nil {
				metrics.IssueSkipped()
				slog.WarnContext(ctx, "skipping issue", "error", err)
			}
		}
	}

	metrics.PassCompleted()
	return nil
}

// ProcessIssue brings the stored snapshot of one fetched issue up to date.
// It returns issue.ChangeNone without touching the tracker or the store when
// the issue has not been updated since it was last stored.
func (s *Syncer) ProcessIssue(ctx context.Context, raw provider.RawIssue) (issue.ChangeKind, error) {
	cur, err := issue.Normalize(raw)
	if err != nil {
		return issue.ChangeNone, err
	}
	ctx = logging.WithFields(ctx, logging.Fields{Issue: logging.Ptr(cur.Number)})

	prev, err := s.store.FindByNumber(ctx, cur.Number)
	if err != nil {
		return issue.ChangeNone, fmt.Errorf("loading issue #%d: %w", cur.Number, err)
	}

	ch := issue.Diff(prev, cur)
	if ch.Kind == issue.ChangeNone {
		metrics.IssueUnchanged()
		return issue.ChangeNone, nil
	}

	events, err := s.source.ListIssueEvents(ctx, s.opts.Owner, s.opts.Repo, cur.Number)
	if err != nil {
		return issue.ChangeNone, fmt.Errorf("fetching events for issue #%d: %w", cur.Number, err)
	}
	cur.Events = issue.ConvertEvents(events)

	next := issue.Apply(prev, cur, ch)

	// Persist before posting: a stored UpdatedAt means the next pass skips
	// this issue, so a remark is never posted twice for one transition.
	if err := s.store.Upsert(ctx, next); err != nil {
		return issue.ChangeNone, fmt.Errorf("storing issue #%d: %w", cur.Number, err)
	}

	slog.InfoContext(ctx, "issue synced",
		"title", cur.Title,
		"state", cur.State,
		"change", ch.Kind.String())

	switch ch.Kind {
	case issue.ChangeNew:
		metrics.IssueNew()
	case issue.ChangeModified:
		metrics.IssueUpdated()
		s.remark(ctx, cur, ch.Delta)
	}

	return ch.Kind, nil
}

func (s *Syncer) remark(ctx context.Context, cur issue.Snapshot, d issue.Delta) {
	body, ok := issue.FormatRemark(d, cur.UpdatedAt.In(s.opts.Location))
	if !ok {
		return
	}

	if err := s.source.PostComment(ctx, s.opts.Owner, s.opts.Repo, cur.Number, body); err != nil {
		metrics.RemarkFailed()
		slog.WarnContext(ctx, "posting remark failed", "error", err)
		return
	}
	metrics.RemarkPosted()
}
