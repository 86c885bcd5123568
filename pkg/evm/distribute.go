package evm

import (
	"github.com/obralink/avance/pkg/finance"
	"github.com/obralink/avance/pkg/schedule"
)

// distributePlanned spreads every leaf task's planned cost across its
// date interval and sums the budget at completion. Tasks with unusable
// dates or a negative cost are skipped and reported as anomalies;
// their cost still counts toward BAC because the budget exists whether
// or not the task's dates parse. Zero-cost tasks contribute nothing
// and are not anomalies.
func distributePlanned(leaves []schedule.PlannedTask, strategy DistributionStrategy) (incs []schedule.MoneyIncrement, bac finance.Money, anomalies []schedule.Anomaly) {
	for _, task := range leaves {
		if task.PlannedCost.IsNegative() {
			anomalies = append(anomalies, schedule.Anomaly{
				Stage: "distribute", Ref: task.ID, Reason: "negative planned cost",
			})
			continue
		}
		bac += task.PlannedCost

		if reason := task.DateAnomaly(); reason != "" {
			anomalies = append(anomalies, schedule.Anomaly{
				Stage: "distribute", Ref: task.ID, Reason: reason,
			})
			continue
		}
		if task.PlannedCost.IsZero() {
			continue
		}
		incs = append(incs, strategy.Distribute(task)...)
	}
	return incs, bac, anomalies
}
