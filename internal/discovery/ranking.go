package discovery

import "sort"

// Supported feed sort keys.
const (
	SortByDistance      = "distance"
	SortByCompatibility = "compatibility"
)

// sortDiscoveryResults orders a discovery page: nearest first, or highest
// match first. The sort is stable and the pool is enumerated in ID order, so
// ties resolve the same way on every call.
func sortDiscoveryResults(items []*DiscoveryResult, sortBy string) {
	if sortBy == SortByCompatibility {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MatchPercentage > items[j].MatchPercentage
		})
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DistanceKm < items[j].DistanceKm
	})
}

// sortRecommendations orders a recommendation page by compatibility
// descending.
func sortRecommendations(items []*RecommendationResult) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CompatibilityScore > items[j].CompatibilityScore
	})
}

// paginate slices one page out of the full ranked list and reports the
// pre-slice total for the client's pager. An offset past the end yields an
// empty page.
func paginate[T any](items []T, limit, offset int) ([]T, int) {
	total := len(items)
	if offset >= total {
		return []T{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total
}
