package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionFromQuery(t *testing.T) {
	ds := testDataset()
	options := CollectOptions(ds)

	r := httptest.NewRequest("GET", "/?area=A&all_user=1&month=5&month=6", nil)
	sel := selectionFromQuery(r, options)

	assert.Equal(t, options.UserIDs, sel.UserIDs)
	assert.Equal(t, []string{"A"}, sel.AreaCodes)
	assert.Equal(t, []int{5, 6}, sel.Months)
	assert.Empty(t, sel.DeviceIDs)
	assert.Empty(t, sel.Years)
	assert.Empty(t, sel.Days)
}

func TestHandleDashboard(t *testing.T) {
	registerDataset(defaultDatasetID, testDataset())

	w := httptest.NewRecorder()
	handleDashboard(w, httptest.NewRequest("GET", "/?area=A", nil))

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Showing 2 rows of filtered data.")
	assert.Contains(t, body, "Select All Area Code")
	assert.Contains(t, body, "User 1")
	assert.NotContains(t, body, "User 3</td>")
}

func TestHandleDashboardUnknownDataset(t *testing.T) {
	w := httptest.NewRecorder()
	handleDashboard(w, httptest.NewRequest("GET", "/?dataset=missing", nil))
	assert.Equal(t, 404, w.Code)
}

func TestHandleCharts(t *testing.T) {
	registerDataset(defaultDatasetID, testDataset())

	w := httptest.NewRecorder()
	handleCharts(w, httptest.NewRequest("GET", "/charts", nil))

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Water Distribution Flowchart")
}

func TestDatasetRegistryFingerprintReuse(t *testing.T) {
	ds := testDataset()
	ds.Fingerprint = "fp-abc"
	registerDataset("abc", ds)

	id, found := findDatasetByFingerprint(ds.Fingerprint)
	require.NotNil(t, found)
	assert.Equal(t, "abc", id)

	_, found = findDatasetByFingerprint("nope")
	assert.Nil(t, found)
}
