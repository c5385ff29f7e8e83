package report

import (
	"sort"

	"github.com/drewdunne/samwise/internal/issue"
)

// PersonalSection lists the open issues that concern one person, most
// recently updated first.
type PersonalSection struct {
	Login      string
	Assigned   []issue.Snapshot
	Mentioning []issue.Snapshot
	Opened     []issue.Snapshot
}

// Personal builds the personal section for login.
func Personal(login string, issues []issue.Snapshot) PersonalSection {
	open := make([]issue.Snapshot, 0, len(issues))
	for _, s := range issues {
		if s.State == issue.StateOpen {
			open = append(open, s)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].UpdatedAt.After(open[j].UpdatedAt)
	})

	p := PersonalSection{Login: login}
	for _, s := range open {
		if s.Assignee != nil && s.Assignee.Login == login {
			p.Assigned = append(p.Assigned, s)
		}
		if mentions(s, login) {
			p.Mentioning = append(p.Mentioning, s)
		}
		if s.Author == login {
			p.Opened = append(p.Opened, s)
		}
	}
	return p
}

func mentions(s issue.Snapshot, login string) bool {
	for _, e := range s.Events {
		if e.Type == "mentioned" && e.Actor == login {
			return true
		}
	}
	return false
}
