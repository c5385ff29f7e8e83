package issue

import (
	"errors"
	"fmt"

	"github.com/drewdunne/samwise/internal/provider"
)

// ErrMalformed indicates a fetched issue lacks a field required to track it.
var ErrMalformed = errors.New("malformed issue")

// Normalize converts a fetched issue into a Snapshot with empty history.
// Only a missing number or state is an error; an absent milestone, assignee
// or author is carried as absent.
func Normalize(raw provider.RawIssue) (Snapshot, error) {
	if raw.Number == nil {
		return Snapshot{}, fmt.Errorf("%w: missing number", ErrMalformed)
	}
	if raw.State == nil {
		return Snapshot{}, fmt.Errorf("%w: issue #%d missing state", ErrMalformed, *raw.Number)
	}

	state, err := parseState(*raw.State)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: issue #%d: %v", ErrMalformed, *raw.Number, err)
	}

	s := Snapshot{
		Number:       *raw.Number,
		State:        state,
		Title:        raw.Title,
		HTMLURL:      raw.HTMLURL,
		CommentCount: raw.Comments,
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
		Labels:       make([]Label, 0, len(raw.Labels)),
	}

	if raw.Milestone != nil {
		s.Milestone = &Milestone{
			Title:        raw.Milestone.Title,
			Number:       raw.Milestone.Number,
			OpenIssues:   raw.Milestone.OpenIssues,
			ClosedIssues: raw.Milestone.ClosedIssues,
		}
	}
	if raw.Assignee != nil && *raw.Assignee != "" {
		s.Assignee = &User{Login: *raw.Assignee}
	}
	if raw.Author != nil {
		s.Author = *raw.Author
	}
	if raw.ClosedAt != nil {
		closed := *raw.ClosedAt
		s.ClosedAt = &closed
	}
	for _, name := range raw.Labels {
		s.Labels = append(s.Labels, Label{Name: name})
	}

	return s, nil
}

// ConvertEvents converts fetched audit-trail entries.
func ConvertEvents(raw []provider.RawEvent) []Event {
	events := make([]Event, len(raw))
	for i, e := range raw {
		events[i] = Event{Actor: e.Actor, Type: e.Type, CreatedAt: e.CreatedAt}
	}
	return events
}

func parseState(s string) (State, error) {
	switch s {
	case "open", "opened":
		return StateOpen, nil
	case "closed":
		return StateClosed, nil
	default:
		return "", fmt.Errorf("unknown state %q", s)
	}
}
