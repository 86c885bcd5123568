package evm

import (
	"github.com/obralink/avance/pkg/schedule"
)

// aggregateActuals sums normalized actual-progress increments into the
// buckets whose windows contain their effective dates. An increment
// dated after the last bucket — late-arriving billing on a closed
// project — extends the series with empty buckets rather than being
// dropped. Source kinds are not distinguished here: everything was
// normalized to money upstream.
func aggregateActuals(buckets []WeekBucket, incs []schedule.MoneyIncrement) []WeekBucket {
	for _, inc := range incs {
		if len(buckets) == 0 {
			buckets = makeBuckets(schedule.Day(inc.Date), 1)
		}
		anchor := buckets[0].Start
		i := bucketIndex(anchor, inc.Date)
		for i >= len(buckets) {
			buckets = append(buckets, newBucket(anchor, len(buckets)))
		}
		buckets[i].EVIncrement += inc.Amount
	}
	return buckets
}
