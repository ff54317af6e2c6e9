package discovery

import (
	"time"

	"github.com/lib/pq"
)

// UserProfile is the slice of the users row the matching engine reads.
// DeletedAt marks a soft-deleted account; such profiles never appear as
// candidates.
type UserProfile struct {
	ID         string         `json:"id" db:"id"`
	Email      string         `json:"email" db:"email"`
	Age        *int           `json:"age,omitempty" db:"age"`
	Gender     *string        `json:"gender,omitempty" db:"gender"`
	Traits     pq.StringArray `json:"traits" db:"traits"`
	Values     pq.StringArray `json:"values" db:"values"`
	GreenFlags pq.StringArray `json:"green_flags" db:"green_flags"`
	RedFlags   pq.StringArray `json:"red_flags" db:"red_flags"`
	Lifestyle  pq.StringArray `json:"lifestyle" db:"lifestyle"`
	IsVerified bool           `json:"is_verified" db:"is_verified"`
	PhotoCount int            `json:"photo_count" db:"photo_count"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Candidate is a pool row: a verified, non-deleted profile joined with its
// latest coordinate (nil when the user never set a location).
type Candidate struct {
	UserProfile
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

// Coordinate returns the candidate's location, or nil when unset.
func (c *Candidate) Coordinate() *Coordinate {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
}

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// LifestylePreferences is the optional per-user lifestyle record. A nil
// record means the user never filled the section; a nil field means the row
// exists but that answer was skipped. The two cases score differently.
type LifestylePreferences struct {
	UserID            string  `json:"user_id" db:"user_id"`
	Smoking           *string `json:"smoking,omitempty" db:"smoking"`
	Drinking          *string `json:"drinking,omitempty" db:"drinking"`
	Drugs             *string `json:"drugs,omitempty" db:"drugs"`
	SleepSchedule     *string `json:"sleep_schedule,omitempty" db:"sleep_schedule"`
	Diet              *string `json:"diet,omitempty" db:"diet"`
	ExerciseFrequency *string `json:"exercise_frequency,omitempty" db:"exercise_frequency"`
	SocialLifestyle   *string `json:"social_lifestyle,omitempty" db:"social_lifestyle"`
}

// LifeGoals is the optional per-user goals record.
type LifeGoals struct {
	UserID           string  `json:"user_id" db:"user_id"`
	WantsKids        *string `json:"wants_kids,omitempty" db:"wants_kids"`
	MarriageTimeline *string `json:"marriage_timeline,omitempty" db:"marriage_timeline"`
	RelationshipType *string `json:"relationship_type,omitempty" db:"relationship_type"`
	CareerAmbition   *string `json:"career_ambition,omitempty" db:"career_ambition"`
	TravelFrequency  *string `json:"travel_frequency,omitempty" db:"travel_frequency"`
	FinancialGoals   *string `json:"financial_goals,omitempty" db:"financial_goals"`
}

// SearchFilters holds a user's saved discovery constraints. Exactly one row
// per user; DefaultFilters applies when no row exists.
type SearchFilters struct {
	UserID             string         `json:"-" db:"user_id"`
	MinAge             int            `json:"min_age" db:"min_age"`
	MaxAge             int            `json:"max_age" db:"max_age"`
	MaxDistanceKm      float64        `json:"max_distance_km" db:"max_distance_km"`
	RelationshipTypes  pq.StringArray `json:"relationship_types" db:"relationship_types"`
	PreferredInterests pq.StringArray `json:"preferred_interests" db:"preferred_interests"`
	PreferredGoals     pq.StringArray `json:"preferred_goals" db:"preferred_goals"`
	ShowOnlyVerified   bool           `json:"show_only_verified" db:"show_only_verified"`
	ShowOnlyWithPhoto  bool           `json:"show_only_with_photo" db:"show_only_with_photo"`
}

// DefaultFilters returns the constraints used for users who never saved any.
func DefaultFilters() *SearchFilters {
	return &SearchFilters{
		MinAge:            18,
		MaxAge:            50,
		MaxDistanceKm:     30,
		ShowOnlyWithPhoto: true,
	}
}

// CompatibilityFactors breaks a pair score down by weighted component.
type CompatibilityFactors struct {
	InterestScore  float64 `json:"interest_score"`
	ValuesScore    float64 `json:"values_score"`
	LocationScore  float64 `json:"location_score"`
	LifestyleScore float64 `json:"lifestyle_score"`
	GoalsScore     float64 `json:"goals_score"`
}

// CompatibilityResult is the scored outcome for one user pair. Score and
// MatchPercentage are currently the same number; both are kept because the
// API exposes both names.
type CompatibilityResult struct {
	Score           float64 `json:"compatibility_score"`
	MatchPercentage float64 `json:"match_percentage"`
}
