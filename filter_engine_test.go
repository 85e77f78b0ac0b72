package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquastat/water_dashboard/domain/models"
)

func testDataset() *models.Dataset {
	ts1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ts2 := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	return &models.Dataset{
		Source:      "test",
		Fingerprint: "test",
		Rows: []models.Record{
			{UserID: "User 1", AreaCode: "A", DeviceID: "Device 1", WaterUsage: "Drinking",
				Time: ts1, Monthly: 10, Daily: 2, Hourly: 0.5, Year: 2024, Month: 5, Day: 1},
			{UserID: "User 2", AreaCode: "A", DeviceID: "Device 2", WaterUsage: "Cooking",
				Time: ts1, Monthly: 20, Daily: 4, Hourly: 1.5, Year: 2024, Month: 5, Day: 1},
			{UserID: "User 3", AreaCode: "B", DeviceID: "Device 3", WaterUsage: "Drinking",
				Time: ts2, Monthly: -5, Daily: 0, Hourly: 2.5, Year: 2024, Month: 6, Day: 2},
		},
	}
}

func TestApplyFiltersNoConstraints(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{})
	assert.Equal(t, 3, filtered.Len())
}

func TestApplyFiltersSingleDimension(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{AreaCodes: []string{"A"}})
	require.Equal(t, 2, filtered.Len())
	for _, r := range filtered.Rows {
		assert.Equal(t, "A", r.AreaCode)
	}
}

func TestApplyFiltersAndAcrossDimensions(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{
		AreaCodes:   []string{"A"},
		WaterUsages: []string{"Drinking"},
	})
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "User 1", filtered.Rows[0].UserID)
}

func TestApplyFiltersEmptyResultIsValid(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{AreaCodes: []string{"Z"}})
	assert.Equal(t, 0, filtered.Len())
	assert.Empty(t, filtered.Leakage)
}

func TestApplyFiltersDoesNotMutateDataset(t *testing.T) {
	ds := testDataset()
	before := make([]models.Record, len(ds.Rows))
	copy(before, ds.Rows)

	ApplyFilters(ds, models.FilterSelection{AreaCodes: []string{"A"}})
	ApplyFilters(ds, models.FilterSelection{})

	assert.Equal(t, before, ds.Rows)
}

// Applying the dimension predicates in any order must select the same
// rows.
func TestFilterCommutativity(t *testing.T) {
	ds := testDataset()
	sel := models.FilterSelection{
		UserIDs:     []string{"User 1", "User 2", "User 3"},
		AreaCodes:   []string{"A", "B"},
		WaterUsages: []string{"Drinking"},
		Years:       []int{2024},
		Months:      []int{5, 6},
	}
	matchers := selectionMatchers(sel)
	require.Len(t, matchers, 5)

	want := filterRows(ds.Rows, matchers)
	require.NotEmpty(t, want)

	permute(matchers, func(order []rowMatcher) {
		assert.Equal(t, want, filterRows(ds.Rows, order))
	})
}

// permute calls fn with every permutation of matchers.
func permute(matchers []rowMatcher, fn func([]rowMatcher)) {
	var rec func(k int)
	rec = func(k int) {
		if k == len(matchers) {
			fn(matchers)
			return
		}
		for i := k; i < len(matchers); i++ {
			matchers[k], matchers[i] = matchers[i], matchers[k]
			rec(k + 1)
			matchers[k], matchers[i] = matchers[i], matchers[k]
		}
	}
	rec(0)
}

// An empty selection set on a dimension must behave exactly like
// selecting every available value of that dimension.
func TestEmptySelectionEqualsSelectAll(t *testing.T) {
	ds := testDataset()
	options := CollectOptions(ds)

	full := models.FilterSelection{
		UserIDs:     options.UserIDs,
		AreaCodes:   options.AreaCodes,
		DeviceIDs:   options.DeviceIDs,
		WaterUsages: options.WaterUsages,
		Years:       options.Years,
		Months:      options.Months,
		Days:        options.Days,
	}
	want := ApplyFilters(ds, full)

	variants := []models.FilterSelection{
		{AreaCodes: options.AreaCodes, DeviceIDs: options.DeviceIDs, WaterUsages: options.WaterUsages,
			Years: options.Years, Months: options.Months, Days: options.Days}, // users empty
		{UserIDs: options.UserIDs, DeviceIDs: options.DeviceIDs, WaterUsages: options.WaterUsages,
			Years: options.Years, Months: options.Months, Days: options.Days}, // areas empty
		{}, // everything empty
	}
	for i, variant := range variants {
		assert.Equal(t, want.Rows, ApplyFilters(ds, variant).Rows, "variant %d", i)
	}
}

func TestLeakageDerivation(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{})
	require.Equal(t, 3, filtered.Len())

	assert.Equal(t, []float64{0.5, 1.0, -0.25}, filtered.Leakage)
	for i, r := range filtered.Rows {
		assert.Equal(t, r.Monthly*0.05, filtered.Leakage[i])
	}
}

func TestEpsilonFloorScoping(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{})
	require.Equal(t, 3, filtered.Len())

	// the floored copies are strictly positive
	for i := range filtered.Rows {
		assert.Greater(t, filtered.FlooredMonthly[i], 0.0)
		assert.Greater(t, filtered.FlooredDaily[i], 0.0)
	}
	assert.Equal(t, []float64{10, 20, 1e-5}, filtered.FlooredMonthly)
	assert.Equal(t, []float64{2, 4, 1e-5}, filtered.FlooredDaily)

	// the raw rows keep their true values, including non-positive ones
	assert.Equal(t, -5.0, filtered.Rows[2].Monthly)
	assert.Equal(t, 0.0, filtered.Rows[2].Daily)
}
