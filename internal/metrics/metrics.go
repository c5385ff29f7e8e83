package metrics

import (
	"sync/atomic"
)

// Metrics tracks sync pipeline counters.
type Metrics struct {
	Passes          uint64 `json:"passes"`
	PassesFailed    uint64 `json:"passes_failed"`
	IssuesSeen      uint64 `json:"issues_seen"`
	IssuesNew       uint64 `json:"issues_new"`
	IssuesUpdated   uint64 `json:"issues_updated"`
	IssuesUnchanged uint64 `json:"issues_unchanged"`
	IssuesSkipped   uint64 `json:"issues_skipped"`
	RemarksPosted   uint64 `json:"remarks_posted"`
	RemarksFailed   uint64 `json:"remarks_failed"`
	DigestsSent     uint64 `json:"digests_sent"`
	DigestsFailed   uint64 `json:"digests_failed"`
}

var global = &Metrics{}

// PassCompleted increments the count of completed sync passes.
func PassCompleted() { atomic.AddUint64(&global.Passes, 1) }

// PassFailed increments the count of sync passes aborted by a listing error.
func PassFailed() { atomic.AddUint64(&global.PassesFailed, 1) }

// IssueSeen increments the count of fetched issues.
func IssueSeen() { atomic.AddUint64(&global.IssuesSeen, 1) }

// IssueNew increments the count of issues stored for the first time.
func IssueNew() { atomic.AddUint64(&global.IssuesNew, 1) }

// IssueUpdated increments the count of stored issues replaced after a change.
func IssueUpdated() { atomic.AddUint64(&global.IssuesUpdated, 1) }

// IssueUnchanged increments the count of issues not updated since they were stored.
func IssueUnchanged() { atomic.AddUint64(&global.IssuesUnchanged, 1) }

// IssueSkipped increments the count of issues skipped because of an error.
func IssueSkipped() { atomic.AddUint64(&global.IssuesSkipped, 1) }

// RemarkPosted increments the count of change summaries posted.
func RemarkPosted() { atomic.AddUint64(&global.RemarksPosted, 1) }

// RemarkFailed increments the count of change summaries that failed to post.
func RemarkFailed() { atomic.AddUint64(&global.RemarksFailed, 1) }

// DigestSent increments the count of digests mailed.
func DigestSent() { atomic.AddUint64(&global.DigestsSent, 1) }

// DigestFailed increments the count of digests that failed to send.
func DigestFailed() { atomic.AddUint64(&global.DigestsFailed, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		Passes:          atomic.LoadUint64(&global.Passes),
		PassesFailed:    atomic.LoadUint64(&global.PassesFailed),
		IssuesSeen:      atomic.LoadUint64(&global.IssuesSeen),
		IssuesNew:       atomic.LoadUint64(&global.IssuesNew),
		IssuesUpdated:   atomic.LoadUint64(&global.IssuesUpdated),
		IssuesUnchanged: atomic.LoadUint64(&global.IssuesUnchanged),
		IssuesSkipped:   atomic.LoadUint64(&global.IssuesSkipped),
		RemarksPosted:   atomic.LoadUint64(&global.RemarksPosted),
		RemarksFailed:   atomic.LoadUint64(&global.RemarksFailed),
		DigestsSent:     atomic.LoadUint64(&global.DigestsSent),
		DigestsFailed:   atomic.LoadUint64(&global.DigestsFailed),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.Passes, 0)
	atomic.StoreUint64(&global.PassesFailed, 0)
	atomic.StoreUint64(&global.IssuesSeen, 0)
	atomic.StoreUint64(&global.IssuesNew, 0)
	atomic.StoreUint64(&global.IssuesUpdated, 0)
	atomic.StoreUint64(&global.IssuesUnchanged, 0)
	atomic.StoreUint64(&global.IssuesSkipped, 0)
	atomic.StoreUint64(&global.RemarksPosted, 0)
	atomic.StoreUint64(&global.RemarksFailed, 0)
	atomic.StoreUint64(&global.DigestsSent, 0)
	atomic.StoreUint64(&global.DigestsFailed, 0)
}
