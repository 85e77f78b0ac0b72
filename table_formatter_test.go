package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquastat/water_dashboard/domain/models"
)

func TestGenerateFilteredTable(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{})
	out := GenerateFilteredTable(filtered)

	assert.Contains(t, out, "USER_ID")
	assert.Contains(t, out, "LEAKAGE")
	assert.Contains(t, out, "User 1")
	assert.Contains(t, out, "2024-05-01 00:00:00")
	// true values survive into the tabular display, floors do not apply
	assert.Contains(t, out, "-5.000")
	assert.Contains(t, out, "-0.250")
}

func TestGenerateFilteredTableEmpty(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{AreaCodes: []string{"Z"}})
	out := GenerateFilteredTable(filtered)

	// the header still renders for a zero-row result
	assert.Contains(t, out, "USER_ID")
	assert.NotContains(t, out, "User 1")
}

func TestGenerateFilteredTableHTML(t *testing.T) {
	ds := testDataset()
	filtered := ApplyFilters(ds, models.FilterSelection{AreaCodes: []string{"A"}})
	out := GenerateFilteredTableHTML(filtered)

	assert.True(t, strings.Contains(out, "<table"))
	assert.Contains(t, out, "User 1")
	assert.NotContains(t, out, "User 3")
}
