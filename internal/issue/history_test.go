package issue

import (
	"reflect"
	"testing"
	"time"
)

func TestApply_SeedsNewIssue(t *testing.T) {
	cur := snapshot(base.Add(time.Hour))
	cur.Labels = labels("bug", "active")
	cur.CommentCount = 3

	got := Apply(nil, cur, Diff(nil, cur))

	wantLabels := []LabelEvent{
		{Label: Label{Name: "bug"}, Action: LabelAdded, Timestamp: base},
		{Label: Label{Name: "active"}, Action: LabelAdded, Timestamp: base},
	}
	if !reflect.DeepEqual(got.LabelEvents, wantLabels) {
		t.Errorf("LabelEvents = %+v, want %+v", got.LabelEvents, wantLabels)
	}
	wantComments := []CommentEvent{{Count: 3, Timestamp: base}}
	if !reflect.DeepEqual(got.CommentEvents, wantComments) {
		t.Errorf("CommentEvents = %+v, want %+v", got.CommentEvents, wantComments)
	}
}

func TestApply_SeedsNoCommentEventWithoutComments(t *testing.T) {
	cur := snapshot(base)
	got := Apply(nil, cur, Diff(nil, cur))

	if len(got.CommentEvents) != 0 {
		t.Errorf("CommentEvents = %+v, want empty", got.CommentEvents)
	}
}

func TestApply_UnchangedIsIdempotent(t *testing.T) {
	cur := snapshot(base)
	cur.Labels = labels("bug")
	s := Apply(nil, cur, Diff(nil, cur))

	again := Apply(&s, s, Diff(&s, s))
	if !reflect.DeepEqual(again, s) {
		t.Errorf("Apply(Diff(S, S)) = %+v, want %+v", again, s)
	}
}

func TestApply_AppendsRemovalsBeforeAdditions(t *testing.T) {
	prev := snapshot(base)
	prev.Labels = labels("active")
	prev = Apply(nil, prev, Diff(nil, prev))

	updated := base.Add(2 * time.Hour)
	cur := snapshot(updated)
	cur.Labels = labels("resolved")
	cur.CommentCount = 2

	got := Apply(&prev, cur, Diff(&prev, cur))

	want := []LabelEvent{
		{Label: Label{Name: "active"}, Action: LabelAdded, Timestamp: base},
		{Label: Label{Name: "active"}, Action: LabelRemoved, Timestamp: updated},
		{Label: Label{Name: "resolved"}, Action: LabelAdded, Timestamp: updated},
	}
	if !reflect.DeepEqual(got.LabelEvents, want) {
		t.Errorf("LabelEvents = %+v, want %+v", got.LabelEvents, want)
	}
	if len(got.CommentEvents) != 1 || got.CommentEvents[0].Count != 2 || !got.CommentEvents[0].Timestamp.Equal(updated) {
		t.Errorf("CommentEvents = %+v, want one {2, %v}", got.CommentEvents, updated)
	}
}

func TestApply_ZeroCommentDeltaAppendsNothing(t *testing.T) {
	prev := snapshot(base)
	prev.CommentCount = 1
	prev = Apply(nil, prev, Diff(nil, prev))

	cur := snapshot(base.Add(time.Hour))
	cur.CommentCount = 1
	cur.Title = "Renamed"

	got := Apply(&prev, cur, Diff(&prev, cur))
	if len(got.CommentEvents) != 1 {
		t.Errorf("CommentEvents = %+v, want only the seeded entry", got.CommentEvents)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", got.Title, "Renamed")
	}
}

func TestApply_DoesNotMutateStoredHistory(t *testing.T) {
	prev := snapshot(base)
	prev = Apply(nil, prev, Diff(nil, prev))
	prev.LabelEvents = append(make([]LabelEvent, 0, 8), prev.LabelEvents...)

	cur := snapshot(base.Add(time.Hour))
	cur.Labels = labels("bug", "ui")
	Apply(&prev, cur, Diff(&prev, cur))

	if len(prev.LabelEvents) != 1 {
		t.Errorf("stored LabelEvents grew to %d entries", len(prev.LabelEvents))
	}
	if got := prev.LabelEvents[:cap(prev.LabelEvents)][1]; got.Label.Name != "" {
		t.Errorf("stored backing array was written: %+v", got)
	}
}

func TestReplayLabels_Reconciles(t *testing.T) {
	steps := [][]string{
		{"bug"},
		{"bug", "active"},
		{"active"},
		{"resolved", "active"},
		{},
		{"bug", "code complete"},
	}

	s := snapshot(base)
	s.Labels = labels(steps[0]...)
	s = Apply(nil, s, Diff(nil, s))

	for i, step := range steps[1:] {
		cur := snapshot(base.Add(time.Duration(i+1) * time.Hour))
		cur.Labels = labels(step...)
		s = Apply(&s, cur, Diff(&s, cur))

		if !Reconciles(s) {
			t.Fatalf("step %d: ReplayLabels() = %v, labels = %v", i+1, ReplayLabels(s.LabelEvents), s.LabelNames())
		}
	}

	if got := ReplayLabels(s.LabelEvents); !equal(got, []string{"bug", "code complete"}) {
		t.Errorf("ReplayLabels() = %v, want [bug code complete]", got)
	}
}

func TestReconciles_DetectsDrift(t *testing.T) {
	s := snapshot(base)
	s.LabelEvents = []LabelEvent{{Label: Label{Name: "ui"}, Action: LabelAdded, Timestamp: base}}

	if Reconciles(s) {
		t.Error("Reconciles() = true for a log that disagrees with the labels")
	}
}
