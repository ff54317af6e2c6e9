package discovery

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository is the read surface the discovery core needs from the profile,
// relationship, location, and filter stores, plus the upsert for saved
// filters. Getters for optional records return (nil, nil) when no row
// exists, so callers can tell "absent" from a transport failure.
type Repository interface {
	// Profile store
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	GetInterests(ctx context.Context, userID string) ([]string, error)
	GetLifestyle(ctx context.Context, userID string) (*LifestylePreferences, error)
	GetGoals(ctx context.Context, userID string) (*LifeGoals, error)

	// Location store
	GetLocation(ctx context.Context, userID string) (*Coordinate, error)

	// Filter preferences store
	GetFilters(ctx context.Context, userID string) (*SearchFilters, error)
	UpsertFilters(ctx context.Context, filters *SearchFilters) error

	// Relationship stores
	GetBlockedIDs(ctx context.Context, userID string) ([]string, error)
	GetMatchedIDs(ctx context.Context, userID string) ([]string, error)
	GetReportedIDs(ctx context.Context, userID string) ([]string, error)
	IsBlockedEither(ctx context.Context, userID, otherID string) (bool, error)

	// Candidate pool
	ListVerifiedActiveUsers(ctx context.Context) ([]*Candidate, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	query := `
        SELECT id, email, age, gender, traits, "values", green_flags,
               red_flags, lifestyle, is_verified, photo_count, deleted_at, created_at
        FROM users
        WHERE id = $1
    `

	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresRepository) GetInterests(ctx context.Context, userID string) ([]string, error) {
	var interests []string
	query := `SELECT interest_id FROM user_interests WHERE user_id = $1`

	err := r.db.SelectContext(ctx, &interests, query, userID)
	return interests, err
}

func (r *postgresRepository) GetLifestyle(ctx context.Context, userID string) (*LifestylePreferences, error) {
	var lifestyle LifestylePreferences
	query := `
        SELECT user_id, smoking, drinking, drugs, sleep_schedule, diet,
               exercise_frequency, social_lifestyle
        FROM user_lifestyle
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &lifestyle, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lifestyle, nil
}

func (r *postgresRepository) GetGoals(ctx context.Context, userID string) (*LifeGoals, error) {
	var goals LifeGoals
	query := `
        SELECT user_id, wants_kids, marriage_timeline, relationship_type,
               career_ambition, travel_frequency, financial_goals
        FROM user_goals
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &goals, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &goals, nil
}

func (r *postgresRepository) GetLocation(ctx context.Context, userID string) (*Coordinate, error) {
	var coord Coordinate
	query := `SELECT latitude, longitude FROM user_locations WHERE user_id = $1`

	err := r.db.GetContext(ctx, &coord, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &coord, nil
}

func (r *postgresRepository) GetFilters(ctx context.Context, userID string) (*SearchFilters, error) {
	var filters SearchFilters
	query := `
        SELECT user_id, min_age, max_age, max_distance_km, relationship_types,
               preferred_interests, preferred_goals, show_only_verified, show_only_with_photo
        FROM user_filters
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &filters, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &filters, nil
}

func (r *postgresRepository) UpsertFilters(ctx context.Context, filters *SearchFilters) error {
	query := `
        INSERT INTO user_filters (
            user_id, min_age, max_age, max_distance_km, relationship_types,
            preferred_interests, preferred_goals, show_only_verified, show_only_with_photo
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id)
        DO UPDATE SET
            min_age = $2, max_age = $3, max_distance_km = $4,
            relationship_types = $5, preferred_interests = $6, preferred_goals = $7,
            show_only_verified = $8, show_only_with_photo = $9,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := r.db.ExecContext(
		ctx, query,
		filters.UserID, filters.MinAge, filters.MaxAge, filters.MaxDistanceKm,
		filters.RelationshipTypes, filters.PreferredInterests, filters.PreferredGoals,
		filters.ShowOnlyVerified, filters.ShowOnlyWithPhoto,
	)

	return err
}

func (r *postgresRepository) GetBlockedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT blocked_id FROM user_blocks WHERE blocker_id = $1 AND deleted_at IS NULL`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) GetMatchedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `
        SELECT CASE WHEN user1 = $1 THEN user2 ELSE user1 END
        FROM matches
        WHERE (user1 = $1 OR user2 = $1) AND deleted_at IS NULL
    `

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) GetReportedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT reported_id FROM abuse_reports WHERE reporter_id = $1 AND deleted_at IS NULL`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *postgresRepository) IsBlockedEither(ctx context.Context, userID, otherID string) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM user_blocks
            WHERE ((blocker_id = $1 AND blocked_id = $2)
                OR (blocker_id = $2 AND blocked_id = $1))
              AND deleted_at IS NULL
        )
    `

	err := r.db.GetContext(ctx, &exists, query, userID, otherID)
	return exists, err
}

func (r *postgresRepository) ListVerifiedActiveUsers(ctx context.Context) ([]*Candidate, error) {
	query := `
        SELECT u.id, u.email, u.age, u.gender, u.traits, u."values",
               u.green_flags, u.red_flags, u.lifestyle, u.is_verified,
               u.photo_count, u.deleted_at, u.created_at,
               l.latitude, l.longitude
        FROM users u
        LEFT JOIN user_locations l ON l.user_id = u.id
        WHERE u.is_verified = TRUE AND u.deleted_at IS NULL
        ORDER BY u.id
    `

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.StructScan(&c); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}
