// dashboard.go
package main

import (
	"github.com/aquastat/water_dashboard/domain/models"
)

// Compute is the single recomputation entry point: dataset + selection in,
// filtered table and every chart view out. It is pure, so the serving
// layer can call it on each control change without any shared state.
func Compute(ds *models.Dataset, sel models.FilterSelection) models.DashboardResult {
	filtered := ApplyFilters(ds, sel)
	return models.DashboardResult{
		Filtered:         filtered,
		MonthlyByArea:    AggregateMonthlyByArea(filtered),
		MonthlyBreakdown: AggregateMonthlyBreakdown(filtered),
		LeakageByArea:    AggregateLeakageByArea(filtered),
		Scatter:          BuildScatterView(filtered),
		Histogram:        BuildHistogramView(filtered),
		Violin:           BuildViolinView(filtered),
	}
}
