// Package evm implements the earned-value computation engine: it turns
// a project's planned schedule snapshot and its approved actual-progress
// records into a week-bucketed cumulative Curve S (planned value vs
// earned value) with summary schedule-performance indices.
//
// The engine is a pure, synchronous pipeline. It performs no I/O,
// retains no state between invocations, and is safe to call
// concurrently; fetching the inputs (and their timeouts or
// cancellation) is the caller's concern.
package evm

import (
	"time"

	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
)

// WeekBucket is one row of the output series: a fixed 7-day window with
// the planned and earned increments that landed in it and the running
// cumulative totals through it.
type WeekBucket struct {
	Index       int           `json:"index"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Label       string        `json:"weekLabel"`
	PVIncrement finance.Money `json:"pvIncrement"`
	EVIncrement finance.Money `json:"evIncrement"`
	PVAcum      finance.Money `json:"pvAcum"`
	EVAcum      finance.Money `json:"evAcum"`
}

// Summary carries the earned-value indices through the report cutoff.
// SPI is nil when planned value at the cutoff is zero: the index is
// indeterminate, never NaN or a numeric sentinel.
type Summary struct {
	BAC     finance.Money `json:"bac"`
	PVTotal finance.Money `json:"pvTotal"`
	EVTotal finance.Money `json:"evTotal"`
	SV      finance.Money `json:"sv"`
	SPI     *float64      `json:"spi"`
}

// Result is the engine's sole output, a fresh value object per call.
// Field names follow the reporting wire contract and must stay stable.
type Result struct {
	Project     schedule.Project `json:"proyecto"`
	HasBaseline bool             `json:"hasBaseline"`
	BAC         finance.Money    `json:"bac"`
	Weeks       []WeekBucket     `json:"weeks"`
	EVM         Summary          `json:"evm"`
}

// Options tunes a single computation. The zero value is usable: cutoff
// "now", linear distribution, period-end valuation dates.
type Options struct {
	// AsOf is the report cutoff; zero means time.Now().
	AsOf time.Time
	// Strategy spreads each task's lump cost over its date interval.
	// Nil selects LinearDistribution.
	Strategy DistributionStrategy
	// ValuationDate picks which end of a valuation's billing period is
	// its effective date. Empty selects schedule.DatePeriodEnd.
	ValuationDate schedule.DatePolicy
}

// DistributionStrategy converts one planned task into per-day planned
// increments. Implementations must return increments summing exactly to
// the task's planned cost and must not emit negative amounts. Only
// tasks with a valid date interval reach a strategy.
type DistributionStrategy interface {
	Name() string
	Distribute(task schedule.PlannedTask) []schedule.MoneyIncrement
}

// LinearDistribution spreads cost evenly across the task's calendar
// days. It is the only strategy the source data supports: tasks carry a
// lump cost and a date interval, nothing that would justify a weighted
// curve. Front- or back-loaded strategies can slot in here later
// without reshaping the pipeline.
type LinearDistribution struct{}

func (LinearDistribution) Name() string { return "linear" }

func (LinearDistribution) Distribute(task schedule.PlannedTask) []schedule.MoneyIncrement {
	days := task.Duration()
	parts := task.PlannedCost.SplitDays(days)
	incs := make([]schedule.MoneyIncrement, len(parts))
	start := schedule.Day(task.Start)
	for i, amount := range parts {
		incs[i] = schedule.MoneyIncrement{
			Date:   start.AddDate(0, 0, i),
			Amount: amount,
		}
	}
	return incs
}
