package evm

import (
	"github.com/obralink/avance/pkg/schedule"
)

// selectSnapshot picks the schedule snapshot to measure against: the
// baseline-flagged one when present, otherwise the most recently
// created one with hasBaseline=false so callers can surface the
// degraded confidence. A nil snapshot (no snapshots at all) is a valid
// empty state, not an error.
func selectSnapshot(snapshots []schedule.Snapshot) (*schedule.Snapshot, bool) {
	var latest *schedule.Snapshot
	for i := range snapshots {
		s := &snapshots[i]
		if s.IsBaseline {
			return s, true
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	return latest, false
}
