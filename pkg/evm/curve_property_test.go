//go:build property
// +build property

// Package evm_test contains property-based tests for the curve
// invariants: monotonicity, boundedness, budget conservation and
// idempotence over randomized schedules and actuals.
package evm_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/obralink/avance/pkg/evm"
	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
)

var anchor = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

// genInputs builds a snapshot with up to 8 leaf tasks and up to 8
// valuations from flat integer slices, keeping generation simple and
// shrinkable.
func buildInputs(costs []int64, offsets []int, spans []int, valuations []int64, valDays []int) ([]schedule.Snapshot, []schedule.ActualProgress) {
	var tasks []schedule.PlannedTask
	for i := range costs {
		off, span := 0, 0
		if i < len(offsets) {
			off = offsets[i] % 60
		}
		if i < len(spans) {
			span = spans[i] % 30
		}
		start := anchor.AddDate(0, 0, off)
		tasks = append(tasks, schedule.PlannedTask{
			ID:          string(rune('a' + i)),
			Start:       start,
			End:         start.AddDate(0, 0, span),
			PlannedCost: finance.Money(costs[i] % 1_000_000),
		})
	}
	snaps := []schedule.Snapshot{{ID: "s", IsBaseline: true, CreatedAt: anchor, Tasks: tasks}}

	var actuals []schedule.ActualProgress
	for i := range valuations {
		day := 0
		if i < len(valDays) {
			day = valDays[i] % 90
		}
		actuals = append(actuals, schedule.ActualProgress{
			ID:        string(rune('A' + i)),
			Kind:      schedule.SourceValuation,
			PeriodEnd: anchor.AddDate(0, 0, day),
			Amount:    finance.Money(valuations[i] % 500_000),
		})
	}
	return snaps, actuals
}

func TestCurveInvariantProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	project := schedule.Project{ID: "p", Code: "P-1", Name: "prop"}
	opts := evm.Options{AsOf: anchor.AddDate(0, 0, 120)}

	nonNeg := gen.Int64Range(0, 1_000_000)

	properties.Property("curves are monotone and bounded by BAC", prop.ForAll(
		func(costs []int64, offsets []int, spans []int, vals []int64, valDays []int) bool {
			snaps, actuals := buildInputs(costs, offsets, spans, vals, valDays)
			res, _ := evm.Compute(project, snaps, actuals, opts)
			for i, w := range res.Weeks {
				if w.PVAcum > res.BAC || w.EVAcum > res.BAC {
					return false
				}
				if i > 0 && (w.PVAcum < res.Weeks[i-1].PVAcum || w.EVAcum < res.Weeks[i-1].EVAcum) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, nonNeg),
		gen.SliceOfN(6, gen.IntRange(0, 59)),
		gen.SliceOfN(6, gen.IntRange(0, 29)),
		gen.SliceOfN(6, nonNeg),
		gen.SliceOfN(6, gen.IntRange(0, 89)),
	))

	properties.Property("BAC equals the sum of leaf planned costs", prop.ForAll(
		func(costs []int64) bool {
			snaps, _ := buildInputs(costs, nil, nil, nil, nil)
			res, _ := evm.Compute(project, snaps, nil, opts)
			var want finance.Money
			for _, t := range snaps[0].Tasks {
				want += t.PlannedCost
			}
			return res.BAC == want
		},
		gen.SliceOfN(8, nonNeg),
	))

	properties.Property("identical inputs yield bit-identical output", prop.ForAll(
		func(costs []int64, vals []int64) bool {
			snaps, actuals := buildInputs(costs, nil, nil, vals, nil)
			r1, _ := evm.Compute(project, snaps, actuals, opts)
			r2, _ := evm.Compute(project, snaps, actuals, opts)
			b1, err1 := json.Marshal(r1)
			b2, err2 := json.Marshal(r2)
			return err1 == nil && err2 == nil && string(b1) == string(b2)
		},
		gen.SliceOfN(5, nonNeg),
		gen.SliceOfN(5, nonNeg),
	))

	properties.TestingRun(t)
}
