package issue

import (
	"fmt"
	"strings"
	"time"
)

// remarkTimeLayout renders e.g. "Monday, March  4, 2:07 pm, UTC".
const remarkTimeLayout = "Monday, January _2, 3:04 pm, MST"

// FormatRemark renders the comment posted back to the tracker for a delta.
// It returns false when the delta has nothing to remark on.
//
// The body is GitHub markdown source, not HTML, so nothing is escaped.
func FormatRemark(d Delta, at time.Time) (string, bool) {
	if d.Empty() {
		return "", false
	}

	lines := []string{at.Format(remarkTimeLayout)}

	if d.Milestone != nil {
		lines = append(lines, fmt.Sprintf("* _Milestone changed from_ %s _to_ %s", d.Milestone.From, d.Milestone.To))
	}
	if d.Assignee != nil {
		lines = append(lines, fmt.Sprintf("* _Assignee changed from_ %s _to_ %s", mention(d.Assignee.From), mention(d.Assignee.To)))
	}
	for _, l := range d.LabelsRemoved {
		lines = append(lines, fmt.Sprintf("* _Removed label_ **%s**", l.Name))
	}
	for _, l := range d.LabelsAdded {
		lines = append(lines, fmt.Sprintf("* _Added label_ **%s**", l.Name))
	}

	return strings.Join(lines, "\n"), true
}

func mention(login string) string {
	if login == none {
		return none
	}
	return "@" + login
}
