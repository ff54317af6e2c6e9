package discovery

import (
	"context"
	"errors"
)

// fakeRepo is an in-memory Repository for service and engine tests.
type fakeRepo struct {
	profiles  map[string]*UserProfile
	interests map[string][]string
	lifestyle map[string]*LifestylePreferences
	goals     map[string]*LifeGoals
	locations map[string]*Coordinate
	filters   map[string]*SearchFilters
	blocked   map[string][]string
	matched   map[string][]string
	reported  map[string][]string
	pool      []*Candidate

	// failOn forces an error from the named getter.
	failOn map[string]bool

	savedFilters *SearchFilters
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:  map[string]*UserProfile{},
		interests: map[string][]string{},
		lifestyle: map[string]*LifestylePreferences{},
		goals:     map[string]*LifeGoals{},
		locations: map[string]*Coordinate{},
		filters:   map[string]*SearchFilters{},
		blocked:   map[string][]string{},
		matched:   map[string][]string{},
		reported:  map[string][]string{},
		failOn:    map[string]bool{},
	}
}

var errFake = errors.New("store unavailable")

func (f *fakeRepo) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if f.failOn["profile"] {
		return nil, errFake
	}
	return f.profiles[userID], nil
}

func (f *fakeRepo) GetInterests(ctx context.Context, userID string) ([]string, error) {
	if f.failOn["interests"] {
		return nil, errFake
	}
	return f.interests[userID], nil
}

func (f *fakeRepo) GetLifestyle(ctx context.Context, userID string) (*LifestylePreferences, error) {
	if f.failOn["lifestyle"] {
		return nil, errFake
	}
	return f.lifestyle[userID], nil
}

func (f *fakeRepo) GetGoals(ctx context.Context, userID string) (*LifeGoals, error) {
	if f.failOn["goals"] {
		return nil, errFake
	}
	return f.goals[userID], nil
}

func (f *fakeRepo) GetLocation(ctx context.Context, userID string) (*Coordinate, error) {
	if f.failOn["location"] {
		return nil, errFake
	}
	return f.locations[userID], nil
}

func (f *fakeRepo) GetFilters(ctx context.Context, userID string) (*SearchFilters, error) {
	if f.failOn["filters"] {
		return nil, errFake
	}
	return f.filters[userID], nil
}

func (f *fakeRepo) UpsertFilters(ctx context.Context, filters *SearchFilters) error {
	if f.failOn["upsertFilters"] {
		return errFake
	}
	f.savedFilters = filters
	f.filters[filters.UserID] = filters
	return nil
}

func (f *fakeRepo) GetBlockedIDs(ctx context.Context, userID string) ([]string, error) {
	if f.failOn["blocked"] {
		return nil, errFake
	}
	return f.blocked[userID], nil
}

func (f *fakeRepo) GetMatchedIDs(ctx context.Context, userID string) ([]string, error) {
	if f.failOn["matched"] {
		return nil, errFake
	}
	return f.matched[userID], nil
}

func (f *fakeRepo) GetReportedIDs(ctx context.Context, userID string) ([]string, error) {
	if f.failOn["reported"] {
		return nil, errFake
	}
	return f.reported[userID], nil
}

func (f *fakeRepo) IsBlockedEither(ctx context.Context, userID, otherID string) (bool, error) {
	if f.failOn["isBlocked"] {
		return false, errFake
	}
	for _, id := range f.blocked[userID] {
		if id == otherID {
			return true, nil
		}
	}
	for _, id := range f.blocked[otherID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListVerifiedActiveUsers(ctx context.Context) ([]*Candidate, error) {
	if f.failOn["pool"] {
		return nil, errFake
	}
	return f.pool, nil
}

// addUser registers a verified user with a profile, location, and candidate
// pool entry in one call.
func (f *fakeRepo) addUser(id string, age int, lat, lon float64, interests, values []string) {
	profile := &UserProfile{
		ID:         id,
		Email:      id + "@example.com",
		Age:        &age,
		Values:     values,
		IsVerified: true,
		PhotoCount: 1,
	}
	f.profiles[id] = profile
	f.interests[id] = interests
	f.locations[id] = &Coordinate{Latitude: lat, Longitude: lon}
	f.pool = append(f.pool, &Candidate{
		UserProfile: *profile,
		Latitude:    &lat,
		Longitude:   &lon,
	})
}
