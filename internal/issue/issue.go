package issue

import "time"

// State is the open/closed state of an issue.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// none stands in for an absent milestone or assignee when comparing snapshots.
const none = "none"

// Milestone is the milestone an issue belongs to.
type Milestone struct {
	Title        string `json:"title"`
	Number       int    `json:"number"`
	OpenIssues   int    `json:"open_issues"`
	ClosedIssues int    `json:"closed_issues"`
}

// User references a tracker account.
type User struct {
	Login string `json:"login"`
}

// Label is a label attached to an issue. Labels are compared by name.
type Label struct {
	Name string `json:"name"`
}

// LabelAction is the kind of label transition recorded in the history.
type LabelAction string

const (
	LabelAdded   LabelAction = "added"
	LabelRemoved LabelAction = "removed"
)

// LabelEvent records a label being added to or removed from an issue.
type LabelEvent struct {
	Label     Label       `json:"label"`
	Action    LabelAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}

// CommentEvent records the net change in comment count observed at Timestamp.
type CommentEvent struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is an entry from the tracker's own audit trail (reopened, mentioned, ...).
type Event struct {
	Actor     string    `json:"actor"`
	Type      string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the latest known state of one tracked issue together with
// the label and comment history observed so far.
type Snapshot struct {
	Number       int        `json:"number"`
	State        State      `json:"state"`
	Title        string     `json:"title"`
	HTMLURL      string     `json:"html_url"`
	Milestone    *Milestone `json:"milestone,omitempty"`
	Assignee     *User      `json:"assignee,omitempty"`
	Author       string     `json:"author"`
	Labels       []Label    `json:"labels"`
	CommentCount int        `json:"comments"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`

	// LabelEvents and CommentEvents only ever grow.
	LabelEvents   []LabelEvent   `json:"label_events"`
	CommentEvents []CommentEvent `json:"comment_events"`

	Events []Event `json:"events"`
}

// MilestoneTitle returns the milestone title, or "none" when there is no milestone.
func (s *Snapshot) MilestoneTitle() string {
	if s.Milestone == nil {
		return none
	}
	return s.Milestone.Title
}

// AssigneeLogin returns the assignee login, or "none" when unassigned.
func (s *Snapshot) AssigneeLogin() string {
	if s.Assignee == nil {
		return none
	}
	return s.Assignee.Login
}

// LabelNames returns the names of the current labels in order.
func (s *Snapshot) LabelNames() []string {
	names := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		names[i] = l.Name
	}
	return names
}

// HasLabel reports whether the issue currently carries the named label.
func HasLabel(s Snapshot, name string) bool {
	for _, l := range s.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}
