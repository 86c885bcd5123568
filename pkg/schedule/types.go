// Package schedule holds the planning-side domain model consumed by the
// earned-value engine: published schedule snapshots with their planned
// tasks, and the actual-progress records measured against them. The
// engine only reads these types; they are owned and persisted by the
// scheduling and valuation services upstream.
package schedule

import (
	"time"
)

// Project identifies the project a report is computed for.
type Project struct {
	ID   string `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// Snapshot is one published version of a project's schedule. At most one
// snapshot per project carries the baseline flag; the engine never
// mutates snapshots.
type Snapshot struct {
	ID         string        `json:"id"`
	ProjectID  string        `json:"project_id"`
	IsBaseline bool          `json:"is_baseline"`
	CreatedAt  time.Time     `json:"created_at"`
	Tasks      []PlannedTask `json:"tasks"`
}

// LeafTasks returns the tasks that carry plannable cost. Summary tasks
// (those referenced as a parent by any other task) are excluded so their
// rolled-up cost is not counted twice.
func (s *Snapshot) LeafTasks() []PlannedTask {
	hasChildren := make(map[string]bool, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ParentID != "" {
			hasChildren[t.ParentID] = true
		}
	}
	leaves := make([]PlannedTask, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if !hasChildren[t.ID] {
			leaves = append(leaves, t)
		}
	}
	return leaves
}

// Anomaly records a malformed input that was skipped rather than
// aborting the computation. Anomalies never produce partial numeric
// results; the offending item simply does not contribute.
type Anomaly struct {
	Stage  string `json:"stage"`
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// Day truncates a timestamp to its UTC calendar day. All bucket math in
// the engine operates on day granularity.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a through b
// inclusive. A zero-length interval (a == b) counts as one day.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a))/(24*time.Hour)) + 1
}
