// internal/discovery/dto.go
package discovery

import (
	"time"

	"github.com/lib/pq"
)

// Query parameter bounds for the two feeds.
const (
	DefaultRadiusKm = 20.0
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 500.0

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DiscoveryParams are the caller-supplied knobs for the radius feed.
type DiscoveryParams struct {
	DistanceKm float64
	SortBy     string
	Limit      int
	Offset     int
}

// PageParams are the knobs for the recommendation feed; everything else
// comes from the viewer's saved filters.
type PageParams struct {
	Limit  int
	Offset int
}

// DiscoveryResult is one entry of the radius feed.
type DiscoveryResult struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Traits          pq.StringArray `json:"traits"`
	Values          pq.StringArray `json:"values"`
	GreenFlags      pq.StringArray `json:"green_flags"`
	RedFlags        pq.StringArray `json:"red_flags"`
	Lifestyle       pq.StringArray `json:"lifestyle"`
	DistanceKm      float64        `json:"distance_km"`
	MatchPercentage float64        `json:"match_percentage"`
	CreatedAt       time.Time      `json:"created_at"`
}

// RecommendationResult is one entry of the compatibility-ranked feed.
type RecommendationResult struct {
	ID                 string  `json:"id"`
	Age                *int    `json:"age,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	CompatibilityScore float64 `json:"compatibility_score"`
	MatchPercentage    float64 `json:"match_percentage"`
}

// FeedPage is the envelope both feeds return.
type FeedPage struct {
	Data   interface{} `json:"data"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// UpdateFiltersDTO is the PUT /filters payload.
type UpdateFiltersDTO struct {
	MinAge             *int     `json:"min_age,omitempty" validate:"omitempty,gte=18,lte=100"`
	MaxAge             *int     `json:"max_age,omitempty" validate:"omitempty,gte=18,lte=100"`
	MaxDistanceKm      *float64 `json:"max_distance_km,omitempty" validate:"omitempty,gte=1,lte=500"`
	RelationshipTypes  []string `json:"relationship_types,omitempty" validate:"omitempty,max=10"`
	PreferredInterests []string `json:"preferred_interests,omitempty" validate:"omitempty,max=25"`
	PreferredGoals     []string `json:"preferred_goals,omitempty" validate:"omitempty,max=10"`
	ShowOnlyVerified   *bool    `json:"show_only_verified,omitempty"`
	ShowOnlyWithPhoto  *bool    `json:"show_only_with_photo,omitempty"`
}
