package evm

import (
	"time"

	"github.com/obralink/avance/pkg/schedule"
)

// Compute runs the full Curve-S pipeline for one project: snapshot
// selection, planned-value distribution, week bucketing, actual-value
// aggregation, cumulative accumulation and index derivation, assembled
// into a fresh Result.
//
// Malformed individual inputs are skipped and returned as anomalies;
// they never abort the computation or leave partial numbers behind.
// Empty inputs (no snapshots, no leaf tasks, no actuals) produce a
// well-formed empty result. Resolving the project itself is the
// caller's job: by the time Compute runs, an unknown project has
// already been rejected upstream.
func Compute(project schedule.Project, snapshots []schedule.Snapshot, actuals []schedule.ActualProgress, opts Options) (*Result, []schedule.Anomaly) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = LinearDistribution{}
	}
	policy := opts.ValuationDate
	if policy == "" {
		policy = schedule.DatePeriodEnd
	}

	snapshot, hasBaseline := selectSnapshot(snapshots)

	var leaves []schedule.PlannedTask
	if snapshot != nil {
		leaves = snapshot.LeafTasks()
	}
	planned, bac, anomalies := distributePlanned(leaves, strategy)

	taskIndex := make(map[string]schedule.PlannedTask, len(leaves))
	for _, t := range leaves {
		taskIndex[t.ID] = t
	}
	earned, normAnomalies := schedule.NormalizeActuals(actuals, taskIndex, policy)
	anomalies = append(anomalies, normAnomalies...)

	actualDates := make([]time.Time, len(earned))
	for i, inc := range earned {
		actualDates[i] = inc.Date
	}

	buckets := buildBuckets(planned, actualDates, asOf)
	buckets = aggregateActuals(buckets, earned)
	accumulate(buckets, bac)
	if buckets == nil {
		buckets = []WeekBucket{} // wire contract: weeks serializes as [], never null
	}

	return &Result{
		Project:     project,
		HasBaseline: hasBaseline,
		BAC:         bac,
		Weeks:       buckets,
		EVM:         summarize(bac, buckets, asOf),
	}, anomalies
}
