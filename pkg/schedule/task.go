package schedule

import (
	"time"

	"github.com/obralink/avance/pkg/finance"
)

// PlannedTask is a leaf unit of planned work: a date interval and the
// lump cost budgeted for it. Start and End are inclusive calendar days;
// Start == End is a single-day task.
type PlannedTask struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ParentID    string        `json:"parent_id,omitempty"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	PlannedCost finance.Money `json:"planned_cost"`
}

// DateAnomaly reports why the task's date interval cannot be used for
// distribution, or "" when the interval is valid. Missing and inverted
// intervals are skip-and-continue conditions, never fatal.
func (t *PlannedTask) DateAnomaly() string {
	switch {
	case t.Start.IsZero() || t.End.IsZero():
		return "missing planned date"
	case Day(t.End).Before(Day(t.Start)):
		return "inverted date range"
	}
	return ""
}

// Duration returns the task length in calendar days (inclusive).
// Only meaningful when DateAnomaly() is empty.
func (t *PlannedTask) Duration() int {
	return DaysBetween(t.Start, t.End)
}
