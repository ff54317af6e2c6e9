package discovery

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// Engine computes weighted compatibility scores between user pairs.
//
// Factors and weights:
//   - shared interests      40
//   - shared values         30
//   - location proximity    15 (full at 0 km, zero at >=30 km)
//   - lifestyle match       10 (smoking, drinking, diet, social_lifestyle)
//   - life goals alignment   5 (wants_kids, marriage_timeline, relationship_type)
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// scoringProfile is everything the engine needs about one user, fetched once
// and reused across a ranking pass.
type scoringProfile struct {
	profile   *UserProfile
	interests []string
	lifestyle *LifestylePreferences
	goals     *LifeGoals
	location  *Coordinate
}

// loadScoringProfile fetches a user's scoring inputs. The profile read is
// authoritative: a transport failure there surfaces as an error, a missing
// row as a nil profile. The per-factor reads are advisory: a failed fetch is
// logged, counted, and treated as the factor being absent.
func (e *Engine) loadScoringProfile(ctx context.Context, userID string) (*scoringProfile, error) {
	profile, err := e.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	sp := &scoringProfile{profile: profile}
	if profile == nil {
		return sp, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		interests, err := e.repo.GetInterests(gctx, userID)
		if err != nil {
			RecordScoringFailure("interests")
			log.Printf("discovery: interests fetch failed for %s: %v", userID, err)
			return nil
		}
		sp.interests = interests
		return nil
	})
	g.Go(func() error {
		lifestyle, err := e.repo.GetLifestyle(gctx, userID)
		if err != nil {
			RecordScoringFailure("lifestyle")
			log.Printf("discovery: lifestyle fetch failed for %s: %v", userID, err)
			return nil
		}
		sp.lifestyle = lifestyle
		return nil
	})
	g.Go(func() error {
		goals, err := e.repo.GetGoals(gctx, userID)
		if err != nil {
			RecordScoringFailure("goals")
			log.Printf("discovery: goals fetch failed for %s: %v", userID, err)
			return nil
		}
		sp.goals = goals
		return nil
	})
	g.Go(func() error {
		location, err := e.repo.GetLocation(gctx, userID)
		if err != nil {
			RecordScoringFailure("location")
			log.Printf("discovery: location fetch failed for %s: %v", userID, err)
			return nil
		}
		sp.location = location
		return nil
	})

	g.Wait()

	return sp, nil
}

// scoreProfiles combines the five factors for a pair of loaded profiles.
// Missing records contribute 0 to their factor. Both result fields carry the
// same number; see CompatibilityResult.
func (e *Engine) scoreProfiles(a, b *scoringProfile) (*CompatibilityResult, *CompatibilityFactors) {
	factors := &CompatibilityFactors{}

	if a.profile == nil || b.profile == nil {
		return &CompatibilityResult{}, factors
	}

	factors.InterestScore = overlapScore(a.interests, b.interests, interestWeight)
	factors.ValuesScore = overlapScore(a.profile.Values, b.profile.Values, valuesWeight)
	factors.LocationScore = locationScore(a.location, b.location)

	if a.lifestyle != nil && b.lifestyle != nil {
		factors.LifestyleScore = fieldMatchScore(lifestylePairs(a.lifestyle, b.lifestyle), lifestyleWeight)
	}
	if a.goals != nil && b.goals != nil {
		factors.GoalsScore = fieldMatchScore(goalsPairs(a.goals, b.goals), goalsWeight)
	}

	total := factors.InterestScore +
		factors.ValuesScore +
		factors.LocationScore +
		factors.LifestyleScore +
		factors.GoalsScore

	RecordCompatibilityScore(total)

	return &CompatibilityResult{Score: total, MatchPercentage: total}, factors
}

// ScorePair scores a single user pair. Either profile missing yields a zero
// result without error; only a failed profile read is an error.
func (e *Engine) ScorePair(ctx context.Context, userID, targetID string) (*CompatibilityResult, *CompatibilityFactors, error) {
	a, err := e.loadScoringProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.loadScoringProfile(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}

	result, factors := e.scoreProfiles(a, b)
	return result, factors, nil
}
