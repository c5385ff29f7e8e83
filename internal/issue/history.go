package issue

import "sort"

// Apply produces the next persisted state of an issue from the stored
// snapshot, the freshly normalized one and their Change.
//
// ChangeNone returns the stored snapshot untouched, so re-applying an
// already persisted transition never appends history twice.
func Apply(prev *Snapshot, cur Snapshot, ch Change) Snapshot {
	switch ch.Kind {
	case ChangeNone:
		if prev != nil {
			return *prev
		}
		return cur
	case ChangeNew:
		return seed(cur)
	}

	next := cur
	if prev != nil {
		next.LabelEvents = append([]LabelEvent(nil), prev.LabelEvents...)
		next.CommentEvents = append([]CommentEvent(nil), prev.CommentEvents...)
	} else {
		next.LabelEvents = nil
		next.CommentEvents = nil
	}

	for _, l := range ch.Delta.LabelsRemoved {
		next.LabelEvents = append(next.LabelEvents, LabelEvent{Label: l, Action: LabelRemoved, Timestamp: cur.UpdatedAt})
	}
	for _, l := range ch.Delta.LabelsAdded {
		next.LabelEvents = append(next.LabelEvents, LabelEvent{Label: l, Action: LabelAdded, Timestamp: cur.UpdatedAt})
	}
	if ch.Delta.CommentDelta != 0 {
		next.CommentEvents = append(next.CommentEvents, CommentEvent{Count: ch.Delta.CommentDelta, Timestamp: cur.UpdatedAt})
	}

	if next.LabelEvents == nil {
		next.LabelEvents = []LabelEvent{}
	}
	if next.CommentEvents == nil {
		next.CommentEvents = []CommentEvent{}
	}
	return next
}

// seed builds the history of an issue seen for the first time: every
// current label was added, and all existing comments arrived, at creation.
func seed(cur Snapshot) Snapshot {
	next := cur
	next.LabelEvents = make([]LabelEvent, 0, len(cur.Labels))
	for _, l := range cur.Labels {
		next.LabelEvents = append(next.LabelEvents, LabelEvent{Label: l, Action: LabelAdded, Timestamp: cur.CreatedAt})
	}
	next.CommentEvents = []CommentEvent{}
	if cur.CommentCount > 0 {
		next.CommentEvents = append(next.CommentEvents, CommentEvent{Count: cur.CommentCount, Timestamp: cur.CreatedAt})
	}
	return next
}

// ReplayLabels replays a label log in order and returns the resulting label
// names, sorted.
func ReplayLabels(events []LabelEvent) []string {
	set := make(map[string]struct{})
	for _, e := range events {
		switch e.Action {
		case LabelAdded:
			set[e.Label.Name] = struct{}{}
		case LabelRemoved:
			delete(set, e.Label.Name)
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reconciles reports whether replaying the label log reproduces the current labels.
func Reconciles(s Snapshot) bool {
	replayed := ReplayLabels(s.LabelEvents)
	current := s.LabelNames()
	sort.Strings(current)

	if len(replayed) != len(current) {
		return false
	}
	for i := range replayed {
		if replayed[i] != current[i] {
			return false
		}
	}
	return true
}
