package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obralink/avance/pkg/finance"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeafTasks_ExcludesSummaries(t *testing.T) {
	snap := Snapshot{Tasks: []PlannedTask{
		{ID: "phase-1", PlannedCost: finance.FromUnits(1000)}, // summary, rolled-up cost
		{ID: "t1", ParentID: "phase-1", PlannedCost: finance.FromUnits(600)},
		{ID: "t2", ParentID: "phase-1", PlannedCost: finance.FromUnits(400)},
	}}

	leaves := snap.LeafTasks()
	require.Len(t, leaves, 2)
	assert.Equal(t, "t1", leaves[0].ID)
	assert.Equal(t, "t2", leaves[1].ID)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, DaysBetween(date(2026, 3, 2), date(2026, 3, 8)))
	assert.Equal(t, 1, DaysBetween(date(2026, 3, 2), date(2026, 3, 2)), "zero-length task is a single day")
}

func TestTaskDateAnomaly(t *testing.T) {
	ok := PlannedTask{Start: date(2026, 1, 1), End: date(2026, 1, 5)}
	assert.Empty(t, ok.DateAnomaly())

	missing := PlannedTask{End: date(2026, 1, 5)}
	assert.Equal(t, "missing planned date", missing.DateAnomaly())

	inverted := PlannedTask{Start: date(2026, 1, 5), End: date(2026, 1, 1)}
	assert.Equal(t, "inverted date range", inverted.DateAnomaly())
}

func TestNormalizeActuals_Valuation(t *testing.T) {
	records := []ActualProgress{{
		ID:          "v1",
		Kind:        SourceValuation,
		PeriodStart: date(2026, 1, 1),
		PeriodEnd:   date(2026, 1, 31),
		Amount:      finance.FromUnits(350),
	}}

	incs, anomalies := NormalizeActuals(records, nil, DatePeriodEnd)
	require.Len(t, incs, 1)
	assert.Empty(t, anomalies)
	assert.Equal(t, date(2026, 1, 31), incs[0].Date)
	assert.Equal(t, finance.FromUnits(350), incs[0].Amount)

	incs, _ = NormalizeActuals(records, nil, DatePeriodStart)
	assert.Equal(t, date(2026, 1, 1), incs[0].Date)
}

func TestNormalizeActuals_Advance(t *testing.T) {
	tasks := map[string]PlannedTask{
		"t1": {ID: "t1", PlannedCost: finance.FromUnits(1000)},
	}
	records := []ActualProgress{
		{ID: "a1", Kind: SourceAdvance, TaskID: "t1", Date: date(2026, 2, 10), Percent: 0.25},
		{ID: "a2", Kind: SourceAdvance, TaskID: "missing", Date: date(2026, 2, 11), Percent: 0.5},
		{ID: "a3", Kind: SourceAdvance, TaskID: "t1", Percent: 0.5}, // no date
	}

	incs, anomalies := NormalizeActuals(records, tasks, DatePeriodEnd)
	require.Len(t, incs, 1)
	assert.Equal(t, finance.FromUnits(250), incs[0].Amount)

	require.Len(t, anomalies, 2)
	assert.Equal(t, "unknown task reference", anomalies[0].Reason)
	assert.Equal(t, "missing effective date", anomalies[1].Reason)
}

func TestNormalizeActuals_NegativeValueSkipped(t *testing.T) {
	records := []ActualProgress{{
		ID: "v1", Kind: SourceValuation, PeriodEnd: date(2026, 1, 31),
		Amount: finance.FromUnits(-50),
	}}
	incs, anomalies := NormalizeActuals(records, nil, DatePeriodEnd)
	assert.Empty(t, incs)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "negative valuation amount", anomalies[0].Reason)
}
