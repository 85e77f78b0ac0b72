// filter_resolver.go
package main

import (
	"sort"
	"strconv"

	"github.com/aquastat/water_dashboard/domain/models"
)

// ResolveSelection mirrors the sidebar control pair: a "select all"
// checkbox plus a multi-pick list. With the checkbox set the picks are
// ignored and the full option set wins. Otherwise the picks pass through
// as given; an empty pick list means "no constraint", not "match nothing".
func ResolveSelection(available []string, picks []string, selectAll bool) []string {
	if selectAll {
		out := make([]string, len(available))
		copy(out, available)
		return out
	}
	return picks
}

// ResolveIntSelection is the same resolver for the calendar dimensions.
func ResolveIntSelection(available []int, picks []int, selectAll bool) []int {
	if selectAll {
		out := make([]int, len(available))
		copy(out, available)
		return out
	}
	return picks
}

// DimensionOptions are the distinct values the sidebar offers per
// dimension, computed from the full dataset (not the filtered view).
type DimensionOptions struct {
	UserIDs     []string
	AreaCodes   []string
	DeviceIDs   []string
	WaterUsages []string
	Years       []int
	Months      []int
	Days        []int
}

func CollectOptions(ds *models.Dataset) DimensionOptions {
	return DimensionOptions{
		UserIDs:     uniqueStrings(ds, func(r models.Record) string { return r.UserID }),
		AreaCodes:   uniqueStrings(ds, func(r models.Record) string { return r.AreaCode }),
		DeviceIDs:   uniqueStrings(ds, func(r models.Record) string { return r.DeviceID }),
		WaterUsages: uniqueStrings(ds, func(r models.Record) string { return r.WaterUsage }),
		Years:       uniqueInts(ds, func(r models.Record) int { return r.Year }),
		Months:      uniqueInts(ds, func(r models.Record) int { return r.Month }),
		Days:        uniqueInts(ds, func(r models.Record) int { return r.Day }),
	}
}

func uniqueStrings(ds *models.Dataset, key func(models.Record) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range ds.Rows {
		v := key(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func uniqueInts(ds *models.Dataset, key func(models.Record) int) []int {
	seen := map[int]bool{}
	out := []int{}
	for _, r := range ds.Rows {
		v := key(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func parseIntPicks(values []string) []int {
	out := []int{}
	for _, v := range values {
		if n, err := strconv.Atoi(v); err == nil {
			out = append(out, n)
		}
	}
	return out
}
