package schedule

import (
	"math"
	"time"

	"github.com/obralink/avance/pkg/finance"
)

// SourceKind distinguishes where an actual-progress observation came
// from. Once normalized to money the engine treats both kinds the same.
type SourceKind string

const (
	// SourceValuation is an approved billing event (valorización):
	// money earned over a billing period.
	SourceValuation SourceKind = "approved-valuation"
	// SourceAdvance is a recorded percent-complete advance against a
	// single planned task.
	SourceAdvance SourceKind = "advance-percentage"
)

// DatePolicy selects which end of a valuation's billing period counts
// as the date the money was earned. The upstream interface does not pin
// this down, so it stays configurable rather than hard-coded; period
// end is the conservative default pending product confirmation.
type DatePolicy string

const (
	DatePeriodEnd   DatePolicy = "period_end"
	DatePeriodStart DatePolicy = "period_start"
)

// ActualProgress is one immutable actual-progress observation. Exactly
// one of the kind-specific field groups is meaningful:
//   - SourceValuation: PeriodStart, PeriodEnd, Amount
//   - SourceAdvance: TaskID, Date, Percent (fraction in [0,1])
type ActualProgress struct {
	ID          string        `json:"id"`
	Kind        SourceKind    `json:"kind"`
	PeriodStart time.Time     `json:"period_start,omitzero"`
	PeriodEnd   time.Time     `json:"period_end,omitzero"`
	Amount      finance.Money `json:"amount,omitempty"`
	TaskID      string        `json:"task_id,omitempty"`
	Date        time.Time     `json:"date,omitzero"`
	Percent     float64       `json:"percent,omitempty"`
}

// MoneyIncrement is an actual-progress observation normalized to a
// money value earned on a single effective day.
type MoneyIncrement struct {
	Date   time.Time
	Amount finance.Money
}

// NormalizeActuals converts heterogeneous actual-progress records into
// money increments keyed by effective date. Advances are priced against
// the planned cost of the task they reference, looked up in tasks.
// Records with a missing effective date, an unknown task reference, or
// a negative value are skipped and reported as anomalies; accumulated
// values stay monotone because no negative increment ever leaves here.
func NormalizeActuals(records []ActualProgress, tasks map[string]PlannedTask, policy DatePolicy) ([]MoneyIncrement, []Anomaly) {
	increments := make([]MoneyIncrement, 0, len(records))
	var anomalies []Anomaly

	skip := func(r ActualProgress, reason string) {
		anomalies = append(anomalies, Anomaly{Stage: "normalize", Ref: r.ID, Reason: reason})
	}

	for _, r := range records {
		switch r.Kind {
		case SourceValuation:
			date := r.PeriodEnd
			if policy == DatePeriodStart {
				date = r.PeriodStart
			}
			if date.IsZero() {
				skip(r, "missing effective date")
				continue
			}
			if r.Amount.IsNegative() {
				skip(r, "negative valuation amount")
				continue
			}
			increments = append(increments, MoneyIncrement{Date: Day(date), Amount: r.Amount})

		case SourceAdvance:
			if r.Date.IsZero() {
				skip(r, "missing effective date")
				continue
			}
			task, ok := tasks[r.TaskID]
			if !ok {
				skip(r, "unknown task reference")
				continue
			}
			if r.Percent < 0 {
				skip(r, "negative advance percentage")
				continue
			}
			value := finance.Money(math.Round(float64(task.PlannedCost) * r.Percent))
			increments = append(increments, MoneyIncrement{Date: Day(r.Date), Amount: value})

		default:
			skip(r, "unknown source kind")
		}
	}
	return increments, anomalies
}
