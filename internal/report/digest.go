package report

import (
	"math"
	"sort"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/drewdunne/samwise/internal/provider"
)

// Digest is the team-wide part of the daily report.
type Digest struct {
	Window     issue.Window
	Milestones []MilestoneSection
	Orphans    []Orphan
	Workload   []Workload
}

// MilestoneSection summarizes one open milestone.
type MilestoneSection struct {
	Title           string
	Number          int
	Open            int
	Closed          int
	Resolved        int
	PercentClosed   int
	PercentResolved int
	Activity        int
	Groups          []Group // categories with at least one issue, in display order
}

// Group is the set of issues of a milestone that fell into one category.
type Group struct {
	Category issue.Category
	Issues   []issue.Snapshot
}

// Orphan is an open issue missing a milestone, an assignee or a status label.
type Orphan struct {
	Issue  issue.Snapshot
	Reason string
}

// Workload counts the open issues assigned to one person.
type Workload struct {
	Assignee     string
	Total        int
	Active       int
	Resolved     int
	CodeComplete int
}

type activity map[string]map[issue.Category][]issue.Snapshot

// Build assembles the digest from every stored snapshot and the tracker's
// open milestones.
func Build(issues []issue.Snapshot, milestones []provider.Milestone, w issue.Window) Digest {
	byMilestone := bucket(issues, w)

	sections := make([]MilestoneSection, 0, len(milestones))
	for _, m := range milestones {
		sections = append(sections, milestoneSection(m, byMilestone[m.Title], issues))
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Activity > sections[j].Activity
	})

	return Digest{
		Window:     w,
		Milestones: sections,
		Orphans:    orphans(issues),
		Workload:   workload(issues),
	}
}

// bucket groups the issues updated in the window by milestone and category.
// Issues without a milestone carry no activity.
func bucket(issues []issue.Snapshot, w issue.Window) activity {
	out := make(activity)
	for _, s := range issues {
		if s.Milestone == nil || !w.Contains(s.UpdatedAt) {
			continue
		}
		cats, ok := out[s.Milestone.Title]
		if !ok {
			cats = make(map[issue.Category][]issue.Snapshot)
			out[s.Milestone.Title] = cats
		}
		c := issue.Classify(s, w)
		cats[c] = append(cats[c], s)
	}
	return out
}

func milestoneSection(m provider.Milestone, cats map[issue.Category][]issue.Snapshot, issues []issue.Snapshot) MilestoneSection {
	sec := MilestoneSection{
		Title:  m.Title,
		Number: m.Number,
		Open:   m.OpenIssues,
		Closed: m.ClosedIssues,
	}

	var storedOpen, storedClosed int
	for _, s := range issues {
		if s.Milestone == nil || s.Milestone.Title != m.Title {
			continue
		}
		switch s.State {
		case issue.StateOpen:
			storedOpen++
			if issue.HasLabel(s, issue.LabelResolved) {
				sec.Resolved++
			}
		case issue.StateClosed:
			storedClosed++
		}
	}
	if sec.Open == 0 && sec.Closed == 0 {
		sec.Open, sec.Closed = storedOpen, storedClosed
	}

	total := sec.Open + sec.Closed
	sec.PercentClosed = percent(sec.Closed, total)
	sec.PercentResolved = percent(sec.Resolved, total)

	for _, c := range issue.Categories {
		if len(cats[c]) == 0 {
			continue
		}
		sec.Activity += len(cats[c])
		sec.Groups = append(sec.Groups, Group{Category: c, Issues: cats[c]})
	}
	return sec
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

func orphans(issues []issue.Snapshot) []Orphan {
	var out []Orphan
	for _, s := range issues {
		if reason, ok := issue.OrphanReason(s); ok {
			out = append(out, Orphan{Issue: s, Reason: reason})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Issue.Author < out[j].Issue.Author
	})
	return out
}

func workload(issues []issue.Snapshot) []Workload {
	var out []Workload
	index := make(map[string]int)
	for _, s := range issues {
		if s.State != issue.StateOpen || s.Assignee == nil || s.Assignee.Login == "" {
			continue
		}
		i, ok := index[s.Assignee.Login]
		if !ok {
			i = len(out)
			index[s.Assignee.Login] = i
			out = append(out, Workload{Assignee: s.Assignee.Login})
		}
		w := &out[i]
		w.Total++
		if issue.HasLabel(s, issue.LabelActive) {
			w.Active++
		}
		if issue.HasLabel(s, issue.LabelResolved) {
			w.Resolved++
		}
		if issue.HasLabel(s, issue.LabelCodeComplete) {
			w.CodeComplete++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
