package issue

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRemark_Empty(t *testing.T) {
	if _, ok := FormatRemark(Delta{CommentDelta: 2}, base); ok {
		t.Error("FormatRemark() should suppress comment-only deltas")
	}
	if _, ok := FormatRemark(Delta{}, base); ok {
		t.Error("FormatRemark() should suppress empty deltas")
	}
}

func TestFormatRemark_Order(t *testing.T) {
	d := Delta{
		Milestone:     &Transition{From: "v1", To: "v2"},
		Assignee:      &Transition{From: "alice", To: "bob"},
		LabelsRemoved: labels("active"),
		LabelsAdded:   labels("resolved", "docs"),
		CommentDelta:  1,
	}
	at := time.Date(2024, 3, 4, 14, 7, 0, 0, time.UTC)

	body, ok := FormatRemark(d, at)
	if !ok {
		t.Fatal("FormatRemark() returned no remark")
	}

	want := strings.Join([]string{
		"Monday, March  4, 2:07 pm, UTC",
		"* _Milestone changed from_ v1 _to_ v2",
		"* _Assignee changed from_ @alice _to_ @bob",
		"* _Removed label_ **active**",
		"* _Added label_ **resolved**",
		"* _Added label_ **docs**",
	}, "\n")
	if body != want {
		t.Errorf("FormatRemark() =\n%s\nwant\n%s", body, want)
	}
}

func TestFormatRemark_MilestoneRemoved(t *testing.T) {
	prev := snapshot(base)
	cur := snapshot(base.Add(time.Minute))
	cur.Milestone = nil

	ch := Diff(&prev, cur)
	if ch.Delta.Milestone == nil || *ch.Delta.Milestone != (Transition{From: "v1", To: "none"}) {
		t.Fatalf("Milestone = %+v, want v1 -> none", ch.Delta.Milestone)
	}

	body, ok := FormatRemark(ch.Delta, cur.UpdatedAt)
	if !ok {
		t.Fatal("FormatRemark() returned no remark")
	}
	lines := strings.Split(body, "\n")
	if len(lines) != 2 {
		t.Fatalf("FormatRemark() produced %d lines, want 2: %q", len(lines), body)
	}
	if lines[1] != "* _Milestone changed from_ v1 _to_ none" {
		t.Errorf("line = %q", lines[1])
	}
}

func TestFormatRemark_UnassignedIsNotMentioned(t *testing.T) {
	body, _ := FormatRemark(Delta{Assignee: &Transition{From: "none", To: "carol"}}, base)
	if !strings.Contains(body, "_Assignee changed from_ none _to_ @carol") {
		t.Errorf("FormatRemark() = %q", body)
	}
}
