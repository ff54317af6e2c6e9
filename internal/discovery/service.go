// internal/discovery/service.go

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

var (
	ErrLocationNotSet = errors.New("user location not set")
	ErrUserNotFound   = errors.New("user not found")
	ErrBlocked        = errors.New("cannot view compatibility with this user")
)

// Service exposes the two feeds, the single-pair compatibility lookup, and
// the saved-filter reads/writes the feeds depend on.
type Service interface {
	Discover(ctx context.Context, viewerID string, params *DiscoveryParams) (*FeedPage, error)
	Recommend(ctx context.Context, viewerID string, params *PageParams) (*FeedPage, error)
	Compatibility(ctx context.Context, viewerID, targetID string) (*CompatibilityResult, error)

	GetFilters(ctx context.Context, viewerID string) (*SearchFilters, error)
	UpdateFilters(ctx context.Context, viewerID string, dto *UpdateFiltersDTO) (*SearchFilters, error)
}

type service struct {
	repo       Repository
	engine     *Engine
	exclusions *ExclusionResolver
}

func NewService(repo Repository, engine *Engine, exclusions *ExclusionResolver) Service {
	return &service{
		repo:       repo,
		engine:     engine,
		exclusions: exclusions,
	}
}

// Discover returns the radius-bounded feed: every verified, located,
// non-excluded user within params.DistanceKm of the viewer, scored and
// sorted by the caller's key. The viewer must have a location on record.
func (s *service) Discover(ctx context.Context, viewerID string, params *DiscoveryParams) (*FeedPage, error) {
	started := time.Now()
	defer func() { RecordFeedLatency("discovery", time.Since(started)) }()
	RecordFeedRequest("discovery")

	viewerLoc, err := s.repo.GetLocation(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch viewer location: %w", err)
	}
	if viewerLoc == nil {
		return nil, ErrLocationNotSet
	}

	viewer, err := s.engine.loadScoringProfile(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch viewer profile: %w", err)
	}

	pool, err := s.repo.ListVerifiedActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}

	excluded, err := s.exclusions.ExcludedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve exclusions: %w", err)
	}

	results := make([]*DiscoveryResult, 0, len(pool))
	for _, candidate := range pool {
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		if !passesHardRequirements(candidate) {
			continue
		}

		loc := candidate.Coordinate()
		if loc == nil {
			continue
		}
		dist := HaversineKm(viewerLoc.Latitude, viewerLoc.Longitude, loc.Latitude, loc.Longitude)
		if dist > params.DistanceKm {
			continue
		}

		score := s.scoreCandidate(ctx, viewer, candidate.ID)

		results = append(results, &DiscoveryResult{
			ID:              candidate.ID,
			Email:           candidate.Email,
			Traits:          candidate.Traits,
			Values:          candidate.Values,
			GreenFlags:      candidate.GreenFlags,
			RedFlags:        candidate.RedFlags,
			Lifestyle:       candidate.Lifestyle,
			DistanceKm:      roundTo(dist, 1),
			MatchPercentage: roundTo(score.MatchPercentage, 2),
			CreatedAt:       candidate.CreatedAt,
		})
	}

	sortDiscoveryResults(results, params.SortBy)
	page, total := paginate(results, params.Limit, params.Offset)

	return &FeedPage{Data: page, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Recommend returns the globally ranked feed: every verified, non-excluded
// user passing the viewer's saved filters, sorted by compatibility
// descending. The saved distance bound needs the viewer's coordinate, so a
// missing location is a precondition failure here too.
func (s *service) Recommend(ctx context.Context, viewerID string, params *PageParams) (*FeedPage, error) {
	started := time.Now()
	defer func() { RecordFeedLatency("recommendations", time.Since(started)) }()
	RecordFeedRequest("recommendations")

	viewerLoc, err := s.repo.GetLocation(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch viewer location: %w", err)
	}
	if viewerLoc == nil {
		return nil, ErrLocationNotSet
	}

	filters, err := s.GetFilters(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch filters: %w", err)
	}

	viewer, err := s.engine.loadScoringProfile(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch viewer profile: %w", err)
	}

	pool, err := s.repo.ListVerifiedActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}

	excluded, err := s.exclusions.ExcludedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve exclusions: %w", err)
	}

	results := make([]*RecommendationResult, 0, len(pool))
	for _, candidate := range pool {
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		if !passesHardRequirements(candidate) {
			continue
		}
		if !passesAgeBand(candidate, filters.MinAge, filters.MaxAge) {
			continue
		}
		if !passesDistance(candidate, viewerLoc, filters.MaxDistanceKm) {
			continue
		}
		if !passesPhotoRequirement(candidate, filters.ShowOnlyWithPhoto) {
			continue
		}

		score := s.scoreCandidate(ctx, viewer, candidate.ID)

		results = append(results, &RecommendationResult{
			ID:                 candidate.ID,
			Age:                candidate.Age,
			Gender:             candidate.Gender,
			CompatibilityScore: roundTo(score.Score, 2),
			MatchPercentage:    roundTo(score.MatchPercentage, 2),
		})
	}

	sortRecommendations(results)
	page, total := paginate(results, params.Limit, params.Offset)

	return &FeedPage{Data: page, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Compatibility scores one pair on demand. Unknown targets are not-found;
// a block in either direction hides the score entirely.
func (s *service) Compatibility(ctx context.Context, viewerID, targetID string) (*CompatibilityResult, error) {
	target, err := s.repo.GetProfile(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("fetch target profile: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	blocked, err := s.repo.IsBlockedEither(ctx, viewerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check blocks: %w", err)
	}
	if blocked {
		return nil, ErrBlocked
	}

	result, _, err := s.engine.ScorePair(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}

	return &CompatibilityResult{
		Score:           roundTo(result.Score, 2),
		MatchPercentage: roundTo(result.MatchPercentage, 2),
	}, nil
}

// GetFilters returns the viewer's saved filters, or the documented defaults
// when none were ever saved.
func (s *service) GetFilters(ctx context.Context, viewerID string) (*SearchFilters, error) {
	filters, err := s.repo.GetFilters(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		return DefaultFilters(), nil
	}
	return filters, nil
}

// UpdateFilters merges the submitted fields over the current (or default)
// filters and upserts the row.
func (s *service) UpdateFilters(ctx context.Context, viewerID string, dto *UpdateFiltersDTO) (*SearchFilters, error) {
	filters, err := s.GetFilters(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	filters.UserID = viewerID

	if dto.MinAge != nil {
		filters.MinAge = *dto.MinAge
	}
	if dto.MaxAge != nil {
		filters.MaxAge = *dto.MaxAge
	}
	if dto.MaxDistanceKm != nil {
		filters.MaxDistanceKm = *dto.MaxDistanceKm
	}
	if dto.RelationshipTypes != nil {
		filters.RelationshipTypes = dto.RelationshipTypes
	}
	if dto.PreferredInterests != nil {
		filters.PreferredInterests = dto.PreferredInterests
	}
	if dto.PreferredGoals != nil {
		filters.PreferredGoals = dto.PreferredGoals
	}
	if dto.ShowOnlyVerified != nil {
		filters.ShowOnlyVerified = *dto.ShowOnlyVerified
	}
	if dto.ShowOnlyWithPhoto != nil {
		filters.ShowOnlyWithPhoto = *dto.ShowOnlyWithPhoto
	}

	if filters.MinAge > filters.MaxAge {
		return nil, fmt.Errorf("min_age %d exceeds max_age %d", filters.MinAge, filters.MaxAge)
	}

	if err := s.repo.UpsertFilters(ctx, filters); err != nil {
		return nil, err
	}

	return filters, nil
}

// scoreCandidate scores one candidate against the pre-loaded viewer profile.
// A failure here must not sink the whole feed: it is logged and counted, and
// the candidate scores 0.
func (s *service) scoreCandidate(ctx context.Context, viewer *scoringProfile, candidateID string) *CompatibilityResult {
	candidate, err := s.engine.loadScoringProfile(ctx, candidateID)
	if err != nil {
		RecordScoringFailure("profile")
		log.Printf("discovery: scoring failed for candidate %s: %v", candidateID, err)
		return &CompatibilityResult{}
	}

	result, _ := s.engine.scoreProfiles(viewer, candidate)
	return result
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
