// filter_engine.go
package main

import (
	"github.com/aquastat/water_dashboard/domain/models"
)

// leakageFactor is the assumed-loss heuristic: 5% of monthly consumption.
const leakageFactor = 0.05

// epsilonFloor replaces non-positive consumption values before they feed
// log- or size-scaled chart encodings. It never touches the raw rows or
// the summed aggregates.
const epsilonFloor = 1e-5

type rowMatcher func(models.Record) bool

// selectionMatchers builds one predicate per constrained dimension.
// Dimensions with an empty value set contribute nothing, so they impose
// no constraint. The row passes when every predicate passes, which makes
// the filter an AND across dimensions and order-independent.
func selectionMatchers(sel models.FilterSelection) []rowMatcher {
	matchers := []rowMatcher{}
	if len(sel.UserIDs) > 0 {
		set := toSet(sel.UserIDs)
		matchers = append(matchers, func(r models.Record) bool { return set[r.UserID] })
	}
	if len(sel.AreaCodes) > 0 {
		set := toSet(sel.AreaCodes)
		matchers = append(matchers, func(r models.Record) bool { return set[r.AreaCode] })
	}
	if len(sel.DeviceIDs) > 0 {
		set := toSet(sel.DeviceIDs)
		matchers = append(matchers, func(r models.Record) bool { return set[r.DeviceID] })
	}
	if len(sel.WaterUsages) > 0 {
		set := toSet(sel.WaterUsages)
		matchers = append(matchers, func(r models.Record) bool { return set[r.WaterUsage] })
	}
	if len(sel.Years) > 0 {
		set := toIntSet(sel.Years)
		matchers = append(matchers, func(r models.Record) bool { return set[r.Year] })
	}
	if len(sel.Months) > 0 {
		set := toIntSet(sel.Months)
		matchers = append(matchers, func(r models.Record) bool { return set[r.Month] })
	}
	if len(sel.Days) > 0 {
		set := toIntSet(sel.Days)
		matchers = append(matchers, func(r models.Record) bool { return set[r.Day] })
	}
	return matchers
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func toIntSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func filterRows(rows []models.Record, matchers []rowMatcher) []models.Record {
	out := []models.Record{}
	for _, r := range rows {
		pass := true
		for _, match := range matchers {
			if !match(r) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

// ApplyFilters produces a new filtered table from the dataset. The
// dataset is never mutated; a zero-row result is valid. Leakage and the
// epsilon-floored copies are computed per surviving row.
func ApplyFilters(ds *models.Dataset, sel models.FilterSelection) models.FilteredTable {
	rows := filterRows(ds.Rows, selectionMatchers(sel))

	table := models.FilteredTable{
		Rows:           rows,
		Leakage:        make([]float64, len(rows)),
		FlooredMonthly: make([]float64, len(rows)),
		FlooredDaily:   make([]float64, len(rows)),
	}
	for i, r := range rows {
		table.Leakage[i] = r.Monthly * leakageFactor
		table.FlooredMonthly[i] = floorPositive(r.Monthly)
		table.FlooredDaily[i] = floorPositive(r.Daily)
	}
	return table
}

func floorPositive(v float64) float64 {
	if v > 0 {
		return v
	}
	return epsilonFloor
}
