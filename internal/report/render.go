package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/drewdunne/samwise/internal/issue"
)

//go:embed templates/digest.html templates/style.css
var templateFS embed.FS

const dateLayout = "Monday, January 2"

// Links builds tracker URLs for the digest.
type Links struct {
	WebURL string
	Owner  string
	Repo   string
}

func (l Links) repo() string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(l.WebURL, "/"), l.Owner, l.Repo)
}

// Milestone returns the open-issues view of a milestone.
func (l Links) Milestone(number int) string {
	return fmt.Sprintf("%s/issues?milestone=%d&state=open", l.repo(), number)
}

// Assigned returns the issues assigned to login.
func (l Links) Assigned(login string) string {
	return l.repo() + "/issues/assigned/" + url.PathEscape(login)
}

// AssignedOpen returns the open issues assigned to login, optionally
// filtered to one label.
func (l Links) AssignedOpen(login, label string) string {
	u := l.Assigned(login) + "?state=open&page=1"
	if label != "" {
		u += "&labels=" + url.QueryEscape(label)
	}
	return u
}

// Profile returns the tracker profile of login.
func (l Links) Profile(login string) string {
	return strings.TrimSuffix(l.WebURL, "/") + "/" + url.PathEscape(login)
}

// Renderer renders a digest and a personal section into one HTML email body.
type Renderer struct {
	tmpl       *template.Template
	stylesheet template.CSS
	links      Links
}

// NewRenderer parses the embedded templates.
func NewRenderer(links Links) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/digest.html")
	if err != nil {
		return nil, fmt.Errorf("parsing digest template: %w", err)
	}
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet: %w", err)
	}
	return &Renderer{tmpl: tmpl, stylesheet: template.CSS(css), links: links}, nil
}

// Render writes the email body for one recipient.
func (r *Renderer) Render(w io.Writer, d Digest, p PersonalSection) error {
	if err := r.tmpl.ExecuteTemplate(w, "digest.html", r.page(d, p)); err != nil {
		return fmt.Errorf("rendering digest: %w", err)
	}
	return nil
}

type issueLine struct {
	Number    int
	Title     string
	URL       string
	Labels    string
	Milestone string
	Author    string
	Reason    string
	Active    bool
}

type groupView struct {
	Heading string
	Lines   []issueLine
}

type milestoneView struct {
	MilestoneSection
	URL    string
	Groups []groupView
}

type workloadView struct {
	Workload
	URL             string
	TotalURL        string
	ActiveURL       string
	CodeCompleteURL string
	ResolvedURL     string
}

type personalView struct {
	Login      string
	ProfileURL string
	Assigned   []issueLine
	Mentioning []issueLine
	Opened     []issueLine
}

type page struct {
	Stylesheet template.CSS
	Date       string
	Milestones []milestoneView
	Orphans    []issueLine
	Workload   []workloadView
	Personal   personalView
}

func (r *Renderer) page(d Digest, p PersonalSection) page {
	out := page{
		Stylesheet: r.stylesheet,
		Date:       d.Window.Reference.Format(dateLayout),
	}

	for _, m := range d.Milestones {
		mv := milestoneView{MilestoneSection: m, URL: r.links.Milestone(m.Number)}
		for _, g := range m.Groups {
			mv.Groups = append(mv.Groups, groupView{
				Heading: heading(g.Category),
				Lines:   lines(g.Issues, d.Window),
			})
		}
		out.Milestones = append(out.Milestones, mv)
	}

	for _, o := range d.Orphans {
		ol := line(o.Issue, d.Window)
		ol.Reason = o.Reason
		out.Orphans = append(out.Orphans, ol)
	}

	for _, wl := range d.Workload {
		out.Workload = append(out.Workload, workloadView{
			Workload:        wl,
			URL:             r.links.Assigned(wl.Assignee),
			TotalURL:        r.links.AssignedOpen(wl.Assignee, ""),
			ActiveURL:       r.links.AssignedOpen(wl.Assignee, issue.LabelActive),
			CodeCompleteURL: r.links.AssignedOpen(wl.Assignee, issue.LabelCodeComplete),
			ResolvedURL:     r.links.AssignedOpen(wl.Assignee, issue.LabelResolved),
		})
	}

	out.Personal = personalView{
		Login:      p.Login,
		ProfileURL: r.links.Profile(p.Login),
		Assigned:   lines(p.Assigned, d.Window),
		Mentioning: lines(p.Mentioning, d.Window),
		Opened:     lines(p.Opened, d.Window),
	}
	return out
}

func heading(c issue.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lines(issues []issue.Snapshot, w issue.Window) []issueLine {
	out := make([]issueLine, 0, len(issues))
	for _, s := range issues {
		out = append(out, line(s, w))
	}
	return out
}

func line(s issue.Snapshot, w issue.Window) issueLine {
	labels := "no labels"
	if len(s.Labels) > 0 {
		labels = strings.Join(s.LabelNames(), ", ")
	}
	milestone := issue.ReasonNoMilestone
	if s.Milestone != nil {
		milestone = s.Milestone.Title
	}
	return issueLine{
		Number:    s.Number,
		Title:     s.Title,
		URL:       s.HTMLURL,
		Labels:    labels,
		Milestone: milestone,
		Author:    s.Author,
		Active:    w.Contains(s.UpdatedAt),
	}
}
