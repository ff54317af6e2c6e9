package location

import "time"

// Location is a user's latest coordinate. One row per user; writes replace
// the previous value, no history is kept.
type Location struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateLocationDTO is the PUT /location payload.
type UpdateLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
