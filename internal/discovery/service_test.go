package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *fakeRepo) Service {
	return NewService(repo, NewEngine(repo), NewExclusionResolver(repo, nil))
}

func discoveryData(t *testing.T, page *FeedPage) []*DiscoveryResult {
	t.Helper()
	data, ok := page.Data.([]*DiscoveryResult)
	require.True(t, ok)
	return data
}

func recommendationData(t *testing.T, page *FeedPage) []*RecommendationResult {
	t.Helper()
	data, ok := page.Data.([]*RecommendationResult)
	require.True(t, ok)
	return data
}

func defaultDiscoveryParams() *DiscoveryParams {
	return &DiscoveryParams{
		DistanceKm: DefaultRadiusKm,
		SortBy:     SortByDistance,
		Limit:      DefaultPageSize,
	}
}

func TestDiscoverRequiresLocation(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	delete(repo.locations, "viewer")

	svc := newTestService(repo)
	_, err := svc.Discover(context.Background(), "viewer", defaultDiscoveryParams())
	assert.ErrorIs(t, err, ErrLocationNotSet)
}

func TestDiscoverRadiusAndOrdering(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, []string{"a"}, nil)
	repo.addUser("u-near", 25, 0, 0.05, []string{"a"}, nil)  // ~5.6 km
	repo.addUser("u-mid", 26, 0, 0.1, []string{"a"}, nil)    // ~11 km
	repo.addUser("u-far", 27, 0, 1.0, []string{"a"}, nil)    // ~111 km, outside radius

	svc := newTestService(repo)
	page, err := svc.Discover(context.Background(), "viewer", defaultDiscoveryParams())
	require.NoError(t, err)

	data := discoveryData(t, page)
	require.Len(t, data, 2)
	assert.Equal(t, "u-near", data[0].ID)
	assert.Equal(t, "u-mid", data[1].ID)
	assert.Equal(t, 2, page.Total)

	// viewer never appears in their own feed
	for _, item := range data {
		assert.NotEqual(t, "viewer", item.ID)
	}
}

func TestDiscoverSortByCompatibility(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, []string{"a", "b"}, nil)
	repo.addUser("u-close-low", 25, 0, 0.01, []string{"z"}, nil)
	repo.addUser("u-far-high", 26, 0, 0.15, []string{"a", "b"}, nil)

	svc := newTestService(repo)
	params := defaultDiscoveryParams()
	params.SortBy = SortByCompatibility

	page, err := svc.Discover(context.Background(), "viewer", params)
	require.NoError(t, err)

	data := discoveryData(t, page)
	require.Len(t, data, 2)
	assert.Equal(t, "u-far-high", data[0].ID)
	assert.Greater(t, data[0].MatchPercentage, data[1].MatchPercentage)
}

func TestDiscoverHidesExcludedUsers(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	repo.addUser("u-blocked", 25, 0, 0.01, nil, nil)
	repo.addUser("u-matched", 26, 0, 0.01, nil, nil)
	repo.addUser("u-reported", 27, 0, 0.01, nil, nil)
	repo.addUser("u-clean", 28, 0, 0.01, nil, nil)
	repo.blocked["viewer"] = []string{"u-blocked"}
	repo.matched["viewer"] = []string{"u-matched"}
	repo.reported["viewer"] = []string{"u-reported"}

	svc := newTestService(repo)
	page, err := svc.Discover(context.Background(), "viewer", defaultDiscoveryParams())
	require.NoError(t, err)

	data := discoveryData(t, page)
	require.Len(t, data, 1)
	assert.Equal(t, "u-clean", data[0].ID)
}

func TestDiscoverSkipsUnverifiedAndUnlocatedCandidates(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	repo.addUser("u-ok", 25, 0, 0.01, nil, nil)
	repo.addUser("u-unverified", 26, 0, 0.01, nil, nil)
	repo.pool[2].IsVerified = false
	repo.addUser("u-nowhere", 27, 0, 0.01, nil, nil)
	repo.pool[3].Latitude = nil
	repo.pool[3].Longitude = nil

	svc := newTestService(repo)
	page, err := svc.Discover(context.Background(), "viewer", defaultDiscoveryParams())
	require.NoError(t, err)

	data := discoveryData(t, page)
	require.Len(t, data, 1)
	assert.Equal(t, "u-ok", data[0].ID)
}

func TestDiscoverPagination(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		repo.addUser(id, 25, 0, 0.01, nil, nil)
	}

	svc := newTestService(repo)
	params := defaultDiscoveryParams()
	params.Limit = 2
	params.Offset = 4

	page, err := svc.Discover(context.Background(), "viewer", params)
	require.NoError(t, err)

	assert.Len(t, discoveryData(t, page), 1)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 4, page.Offset)
}

func TestRecommendRequiresLocation(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	delete(repo.locations, "viewer")

	svc := newTestService(repo)
	_, err := svc.Recommend(context.Background(), "viewer", &PageParams{Limit: 20})
	assert.ErrorIs(t, err, ErrLocationNotSet)
}

func TestRecommendAppliesSavedFilters(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, []string{"a"}, nil)
	repo.addUser("u-fits", 30, 0, 0.05, []string{"a"}, nil)
	repo.addUser("u-too-old", 40, 0, 0.05, []string{"a"}, nil)
	repo.addUser("u-too-far", 30, 0, 0.5, []string{"a"}, nil) // ~56 km
	repo.addUser("u-no-photo", 30, 0, 0.05, []string{"a"}, nil)
	repo.pool[4].PhotoCount = 0
	repo.filters["viewer"] = &SearchFilters{
		UserID:            "viewer",
		MinAge:            25,
		MaxAge:            35,
		MaxDistanceKm:     30,
		ShowOnlyWithPhoto: true,
	}

	svc := newTestService(repo)
	page, err := svc.Recommend(context.Background(), "viewer", &PageParams{Limit: 20})
	require.NoError(t, err)

	data := recommendationData(t, page)
	require.Len(t, data, 1)
	assert.Equal(t, "u-fits", data[0].ID)
}

func TestRecommendUsesDefaultFiltersWhenNoneSaved(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	repo.addUser("u-in-default-band", 45, 0, 0.05, nil, nil)
	repo.addUser("u-above-default-band", 55, 0, 0.05, nil, nil)

	svc := newTestService(repo)
	page, err := svc.Recommend(context.Background(), "viewer", &PageParams{Limit: 20})
	require.NoError(t, err)

	data := recommendationData(t, page)
	require.Len(t, data, 1)
	assert.Equal(t, "u-in-default-band", data[0].ID)
}

func TestRecommendOrdersByCompatibility(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, []string{"a", "b", "c"}, []string{"x"})
	repo.addUser("u-weak", 30, 0, 0.05, []string{"a"}, nil)
	repo.addUser("u-strong", 30, 0, 0.05, []string{"a", "b", "c"}, []string{"x"})

	svc := newTestService(repo)
	page, err := svc.Recommend(context.Background(), "viewer", &PageParams{Limit: 20})
	require.NoError(t, err)

	data := recommendationData(t, page)
	require.Len(t, data, 2)
	assert.Equal(t, "u-strong", data[0].ID)
	assert.Greater(t, data[0].CompatibilityScore, data[1].CompatibilityScore)
}

func TestCompatibilityUnknownTarget(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)

	svc := newTestService(repo)
	_, err := svc.Compatibility(context.Background(), "viewer", "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCompatibilityBlockedEitherDirection(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, nil, nil)
	repo.addUser("target", 31, 0, 0, nil, nil)

	svc := newTestService(repo)

	repo.blocked["viewer"] = []string{"target"}
	_, err := svc.Compatibility(context.Background(), "viewer", "target")
	assert.ErrorIs(t, err, ErrBlocked)

	repo.blocked["viewer"] = nil
	repo.blocked["target"] = []string{"viewer"}
	_, err = svc.Compatibility(context.Background(), "viewer", "target")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestCompatibilityScoresPair(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("viewer", 30, 0, 0, []string{"a", "b"}, []string{"x"})
	repo.addUser("target", 31, 0, 0, []string{"a", "b"}, []string{"x"})

	svc := newTestService(repo)
	result, err := svc.Compatibility(context.Background(), "viewer", "target")
	require.NoError(t, err)

	assert.InDelta(t, 85, result.Score, 0.01)
	assert.Equal(t, result.Score, result.MatchPercentage)
}

func TestGetFiltersDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	filters, err := svc.GetFilters(context.Background(), "viewer")
	require.NoError(t, err)

	assert.Equal(t, 18, filters.MinAge)
	assert.Equal(t, 50, filters.MaxAge)
	assert.InDelta(t, 30, filters.MaxDistanceKm, 0.001)
	assert.True(t, filters.ShowOnlyWithPhoto)
}

func TestUpdateFiltersMergesOverCurrent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	maxDist := 100.0
	showPhoto := false
	updated, err := svc.UpdateFilters(context.Background(), "viewer", &UpdateFiltersDTO{
		MinAge:            intPtr(21),
		MaxDistanceKm:     &maxDist,
		ShowOnlyWithPhoto: &showPhoto,
	})
	require.NoError(t, err)

	assert.Equal(t, 21, updated.MinAge)
	assert.Equal(t, 50, updated.MaxAge) // untouched field keeps its value
	assert.InDelta(t, 100, updated.MaxDistanceKm, 0.001)
	assert.False(t, updated.ShowOnlyWithPhoto)

	require.NotNil(t, repo.savedFilters)
	assert.Equal(t, "viewer", repo.savedFilters.UserID)
}

func TestUpdateFiltersRejectsInvertedAgeBand(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.UpdateFilters(context.Background(), "viewer", &UpdateFiltersDTO{
		MinAge: intPtr(45),
		MaxAge: intPtr(30),
	})
	assert.Error(t, err)
	assert.Nil(t, repo.savedFilters)
}
