package issue

import "time"

// Category is the activity bucket an issue falls into for the digest.
type Category string

const (
	CategoryNew      Category = "new"
	CategoryReopened Category = "reopened"
	CategoryActive   Category = "active"
	CategoryResolved Category = "resolved"
	CategoryClosed   Category = "closed"
)

// Categories lists every category in digest display order.
var Categories = []Category{CategoryNew, CategoryReopened, CategoryActive, CategoryResolved, CategoryClosed}

// Label names with meaning to the classifier and the orphan rule.
const (
	LabelActive       = "active"
	LabelResolved     = "resolved"
	LabelCodeComplete = "code complete"
)

// StatusLabels are the labels of which an open issue must carry at least one.
var StatusLabels = []string{LabelActive, LabelResolved, LabelCodeComplete}

// Window is a trailing time window ending at Reference.
type Window struct {
	Reference time.Time
	Length    time.Duration
}

// Contains reports whether t lies within the window. The boundary is inclusive.
func (w Window) Contains(t time.Time) bool {
	return w.Reference.Sub(t) <= w.Length
}

// Classify returns the activity category of an issue. Rules are checked in
// order and the first match wins.
func Classify(s Snapshot, w Window) Category {
	if s.State == StateOpen {
		if addedLabelIn(s, LabelResolved, w) {
			return CategoryResolved
		}
		if w.Contains(s.CreatedAt) {
			return CategoryNew
		}
		if hasEventIn(s, "reopened", w) {
			return CategoryReopened
		}
	}
	if s.State == StateClosed && s.ClosedAt != nil && w.Contains(*s.ClosedAt) {
		return CategoryClosed
	}
	return CategoryActive
}

func addedLabelIn(s Snapshot, name string, w Window) bool {
	for _, e := range s.LabelEvents {
		if e.Action == LabelAdded && e.Label.Name == name && w.Contains(e.Timestamp) {
			return true
		}
	}
	return false
}

func hasEventIn(s Snapshot, eventType string, w Window) bool {
	for _, e := range s.Events {
		if e.Type == eventType && w.Contains(e.CreatedAt) {
			return true
		}
	}
	return false
}

// Orphan reasons.
const (
	ReasonNoMilestone = "No milestone"
	ReasonNoAssignee  = "No assignee"
	ReasonNoStatus    = "Needs status label"
)

// OrphanReason reports why an open issue would be hard to find: it lacks a
// milestone, an assignee or a status label. Closed issues are never orphans.
func OrphanReason(s Snapshot) (string, bool) {
	if s.State != StateOpen {
		return "", false
	}
	if s.Milestone == nil {
		return ReasonNoMilestone, true
	}
	if s.Assignee == nil {
		return ReasonNoAssignee, true
	}
	for _, name := range StatusLabels {
		if HasLabel(s, name) {
			return "", false
		}
	}
	return ReasonNoStatus, true
}
