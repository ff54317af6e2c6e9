package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDiscoveryResults(t *testing.T) {
	items := []*DiscoveryResult{
		{ID: "far", DistanceKm: 12.5, MatchPercentage: 90},
		{ID: "near", DistanceKm: 1.2, MatchPercentage: 20},
		{ID: "mid", DistanceKm: 5.0, MatchPercentage: 55},
	}

	sortDiscoveryResults(items, SortByDistance)
	assert.Equal(t, "near", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "far", items[2].ID)

	sortDiscoveryResults(items, SortByCompatibility)
	assert.Equal(t, "far", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "near", items[2].ID)
}

func TestSortDiscoveryResultsStableOnTies(t *testing.T) {
	// Pool enumeration is in ID order; equal scores must keep that order.
	items := []*DiscoveryResult{
		{ID: "a", MatchPercentage: 50},
		{ID: "b", MatchPercentage: 50},
		{ID: "c", MatchPercentage: 50},
	}

	sortDiscoveryResults(items, SortByCompatibility)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
}

func TestSortRecommendations(t *testing.T) {
	items := []*RecommendationResult{
		{ID: "low", CompatibilityScore: 10},
		{ID: "high", CompatibilityScore: 88},
		{ID: "mid", CompatibilityScore: 42},
	}

	sortRecommendations(items)
	assert.Equal(t, "high", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "low", items[2].ID)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name          string
		limit, offset int
		wantPage      []int
		wantTotal     int
	}{
		{"first page", 2, 0, []int{1, 2}, 5},
		{"middle page", 2, 2, []int{3, 4}, 5},
		{"short last page", 2, 4, []int{5}, 5},
		{"offset past end", 2, 10, []int{}, 5},
		{"limit beyond total", 100, 0, []int{1, 2, 3, 4, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := paginate(items, tt.limit, tt.offset)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page, total := paginate([]string{}, 20, 0)
	assert.Empty(t, page)
	assert.Zero(t, total)
}
