package evm

import (
	"fmt"
	"time"

	"github.com/obralink/avance/pkg/schedule"
)

const bucketDays = 7

// buildBuckets lays out the week axis and sums the planned increments
// into it. Week 0 starts at the earliest relevant date — not at a
// calendar-week boundary — so the bucket count is deterministic and
// independent of locale or timezone. The axis extends through the later
// of the last relevant date and the cutoff, so an in-progress project
// with no future planned work still shows "today". No relevant dates at
// all yields an empty series, which is a valid terminal state.
func buildBuckets(planned []schedule.MoneyIncrement, actualDates []time.Time, cutoff time.Time) []WeekBucket {
	var earliest, latest time.Time
	observe := func(d time.Time) {
		d = schedule.Day(d)
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}
	for _, inc := range planned {
		observe(inc.Date)
	}
	for _, d := range actualDates {
		observe(d)
	}
	if earliest.IsZero() {
		return nil
	}
	if c := schedule.Day(cutoff); c.After(latest) {
		latest = c
	}

	n := (schedule.DaysBetween(earliest, latest) + bucketDays - 1) / bucketDays
	buckets := makeBuckets(earliest, n)

	for _, inc := range planned {
		i := bucketIndex(earliest, inc.Date)
		buckets[i].PVIncrement += inc.Amount
	}
	return buckets
}

// makeBuckets builds n consecutive empty week buckets anchored at the
// given day.
func makeBuckets(anchor time.Time, n int) []WeekBucket {
	buckets := make([]WeekBucket, n)
	for i := range buckets {
		buckets[i] = newBucket(anchor, i)
	}
	return buckets
}

func newBucket(anchor time.Time, i int) WeekBucket {
	start := anchor.AddDate(0, 0, i*bucketDays)
	return WeekBucket{
		Index: i,
		Start: start,
		End:   start.AddDate(0, 0, bucketDays-1),
		Label: weekLabel(i, start),
	}
}

func bucketIndex(anchor, date time.Time) int {
	i := (schedule.DaysBetween(anchor, date) - 1) / bucketDays
	if i < 0 {
		return 0
	}
	return i
}

func weekLabel(index int, start time.Time) string {
	return fmt.Sprintf("Sem %02d (%s)", index+1, start.Format("02/01/2006"))
}
