package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSelection(t *testing.T) {
	available := []string{"A", "B", "C"}

	// select-all wins over picks
	assert.Equal(t, available, ResolveSelection(available, []string{"B"}, true))

	// picks pass through as given
	assert.Equal(t, []string{"B"}, ResolveSelection(available, []string{"B"}, false))

	// empty picks stay empty: no constraint, not "match nothing"
	assert.Empty(t, ResolveSelection(available, nil, false))
}

func TestResolveSelectionCopies(t *testing.T) {
	available := []string{"A", "B"}
	resolved := ResolveSelection(available, nil, true)
	resolved[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, available)
}

func TestResolveIntSelection(t *testing.T) {
	available := []int{2023, 2024}
	assert.Equal(t, available, ResolveIntSelection(available, []int{2024}, true))
	assert.Equal(t, []int{2024}, ResolveIntSelection(available, []int{2024}, false))
	assert.Empty(t, ResolveIntSelection(available, nil, false))
}

func TestCollectOptions(t *testing.T) {
	options := CollectOptions(testDataset())

	assert.Equal(t, []string{"User 1", "User 2", "User 3"}, options.UserIDs)
	assert.Equal(t, []string{"A", "B"}, options.AreaCodes)
	assert.Equal(t, []string{"Cooking", "Drinking"}, options.WaterUsages)
	assert.Equal(t, []int{2024}, options.Years)
	assert.Equal(t, []int{5, 6}, options.Months)
}

func TestParseIntPicks(t *testing.T) {
	assert.Equal(t, []int{5, 6}, parseIntPicks([]string{"5", "6", "junk"}))
	assert.Empty(t, parseIntPicks(nil))
}
