package issue

// ChangeKind classifies the outcome of comparing two snapshots.
type ChangeKind int

const (
	// ChangeNone means the issue is unchanged upstream and must not be processed.
	ChangeNone ChangeKind = iota
	// ChangeNew means there is no stored snapshot; history is seeded.
	ChangeNew
	// ChangeModified means the issue was updated; Delta describes how.
	ChangeModified
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeNew:
		return "new"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Transition is a from/to pair. "none" stands for an absent value.
type Transition struct {
	From string
	To   string
}

// Delta describes every change detected between two snapshots of one issue.
type Delta struct {
	Milestone     *Transition
	Assignee      *Transition
	LabelsAdded   []Label
	LabelsRemoved []Label
	CommentDelta  int
}

// Empty reports whether the delta has nothing worth remarking on.
// Comment count changes alone do not count.
func (d Delta) Empty() bool {
	return d.Milestone == nil && d.Assignee == nil &&
		len(d.LabelsAdded) == 0 && len(d.LabelsRemoved) == 0
}

// Change is the result of Diff.
type Change struct {
	Kind  ChangeKind
	Delta Delta
}

// Diff compares the stored snapshot (nil when the issue has never been seen)
// against a freshly normalized one.
func Diff(prev *Snapshot, cur Snapshot) Change {
	if prev == nil {
		return Change{Kind: ChangeNew}
	}
	if prev.UpdatedAt.Equal(cur.UpdatedAt) {
		return Change{Kind: ChangeNone}
	}

	var d Delta
	if from, to := prev.MilestoneTitle(), cur.MilestoneTitle(); from != to {
		d.Milestone = &Transition{From: from, To: to}
	}
	if from, to := prev.AssigneeLogin(), cur.AssigneeLogin(); from != to {
		d.Assignee = &Transition{From: from, To: to}
	}
	d.LabelsRemoved = labelDifference(prev.Labels, cur.Labels)
	d.LabelsAdded = labelDifference(cur.Labels, prev.Labels)
	d.CommentDelta = cur.CommentCount - prev.CommentCount

	return Change{Kind: ChangeModified, Delta: d}
}

// labelDifference returns the labels of a whose names are not in b, in a's order.
func labelDifference(a, b []Label) []Label {
	in := make(map[string]struct{}, len(b))
	for _, l := range b {
		in[l.Name] = struct{}{}
	}

	var out []Label
	for _, l := range a {
		if _, ok := in[l.Name]; !ok {
			out = append(out, l)
		}
	}
	return out
}
