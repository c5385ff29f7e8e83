package syncer

import (
	"context"
	"fmt"

	"github.com/drewdunne/samwise/internal/issue"
	"github.com/drewdunne/samwise/internal/store"
)

// Drift describes a stored issue whose label log no longer replays to its labels.
type Drift struct {
	Number   int
	Labels   []string
	Replayed []string
}

// CheckHistory replays the label log of every stored snapshot and reports
// those that do not reconcile with their current labels.
func CheckHistory(ctx context.Context, st store.Store) ([]Drift, error) {
	snapshots, err := st.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}

	var drifts []Drift
	for _, s := range snapshots {
		if issue.Reconciles(s) {
			continue
		}
		drifts = append(drifts, Drift{
			Number:   s.Number,
			Labels:   s.LabelNames(),
			Replayed: issue.ReplayLabels(s.LabelEvents),
		})
	}
	return drifts, nil
}
