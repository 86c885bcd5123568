package evm

import (
	"time"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
)

// accumulate walks the buckets in index order turning increments into
// running cumulative totals, clamped to BAC. The clamp guards against
// duplicate or overlapping actual records inflating EV past the budget
// ceiling, and against rounding drift in PV. Monotonicity holds
// structurally: increments are never negative and clamping only ever
// reduces a value, never reorders.
func accumulate(buckets []WeekBucket, bac finance.Money) {
	var pv, ev finance.Money
	for i := range buckets {
		pv = (pv + buckets[i].PVIncrement).Min(bac)
		ev = (ev + buckets[i].EVIncrement).Min(bac)
		buckets[i].PVAcum = pv
		buckets[i].EVAcum = ev
	}
}

// summarize derives the earned-value indices through the cutoff:
// totals come from the last bucket whose window ends on or before the
// cutoff (zero when none does). SPI stays nil when planned value is
// zero — an indeterminate index, not a zero one.
func summarize(bac finance.Money, buckets []WeekBucket, cutoff time.Time) Summary {
	var pvTotal, evTotal finance.Money
	day := schedule.Day(cutoff)
	for _, b := range buckets {
		if b.End.After(day) {
			break
		}
		pvTotal = b.PVAcum
		evTotal = b.EVAcum
	}

	s := Summary{
		BAC:     bac,
		PVTotal: pvTotal,
		EVTotal: evTotal,
		SV:      evTotal - pvTotal,
	}
	if spi, ok := evTotal.Ratio(pvTotal); ok {
		s.SPI = &spi
	}
	return s
}
