package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/drewdunne/samwise/internal/logging"
	"github.com/drewdunne/samwise/internal/metrics"
	"github.com/drewdunne/samwise/internal/notify"
	"github.com/drewdunne/samwise/internal/provider"
	"github.com/drewdunne/samwise/internal/store"
	"github.com/google/uuid"
)

// Options configures a Reporter.
type Options struct {
	Owner   string
	Repo    string
	Subject string
	Window  time.Duration
	Now     func() time.Time // defaults to time.Now
}

// Reporter builds the digest from the store and mails it to every recipient.
type Reporter struct {
	source   provider.IssueSource
	store    store.Store
	notifier notify.Notifier
	renderer *Renderer
	opts     Options
}

// NewReporter creates a Reporter.
func NewReporter(source provider.IssueSource, st store.Store, n notify.Notifier, r *Renderer, opts Options) *Reporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}
	return &Reporter{source: source, store: st, notifier: n, renderer: r, opts: opts}
}

// Prepare loads every stored snapshot and the open milestones and builds the digest.
func (r *Reporter) Prepare(ctx context.Context) (Digest, []issue.Snapshot, error) {
	issues, err := r.store.ListAll(ctx)
	if err != nil {
		return Digest{}, nil, fmt.Errorf("loading issues: %w", err)
	}
	milestones, err := r.source.ListMilestones(ctx, r.opts.Owner, r.opts.Repo)
	if err != nil {
		return Digest{}, nil, fmt.Errorf("listing milestones: %w", err)
	}

	w := issue.Window{Reference: r.opts.Now(), Length: r.opts.Window}
	return Build(issues, milestones, w), issues, nil
}

// Send mails the digest to every registered person, or only to the given
// one. A failed delivery does not stop the others; all failures are returned.
func (r *Reporter) Send(ctx context.Context, only *store.Person) error {
	ctx = logging.WithFields(ctx, logging.Fields{
		Component: "grind.reporter",
		RunID:     uuid.New().String(),
	})

	people, err := r.recipients(ctx, only)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		slog.WarnContext(ctx, "no recipients registered")
		return nil
	}

	digest, issues, err := r.Prepare(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, p := range people {
		slog.InfoContext(ctx, "sending digest", "login", p.Login, "email", p.Email)

		var buf bytes.Buffer
		if err := r.renderer.Render(&buf, digest, Personal(p.Login, issues)); err != nil {
			metrics.DigestFailed()
			errs = append(errs, fmt.Errorf("%s: %w", p.Login, err))
			continue
		}
		if err := r.notifier.Send(ctx, r.opts.Subject, buf.String(), []string{p.Email}); err != nil {
			metrics.DigestFailed()
			slog.ErrorContext(ctx, "sending digest failed", "login", p.Login, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Login, err))
			continue
		}
		metrics.DigestSent()
	}
	return errors.Join(errs...)
}

// Preview writes the digest as login would receive it.
func (r *Reporter) Preview(ctx context.Context, w io.Writer, login string) error {
	digest, issues, err := r.Prepare(ctx)
	if err != nil {
		return err
	}
	return r.renderer.Render(w, digest, Personal(login, issues))
}

func (r *Reporter) recipients(ctx context.Context, only *store.Person) ([]store.Person, error) {
	if only != nil {
		return []store.Person{*only}, nil
	}
	people, err := r.store.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading people: %w", err)
	}
	return people, nil
}
