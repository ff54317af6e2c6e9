package location

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Upsert(ctx context.Context, loc *Location) error
	Get(ctx context.Context, userID string) (*Location, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, loc *Location) error {
	query := `
        INSERT INTO user_locations (user_id, latitude, longitude)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id)
        DO UPDATE SET latitude = $2, longitude = $3, updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at
    `

	return r.db.QueryRowxContext(ctx, query, loc.UserID, loc.Latitude, loc.Longitude).
		Scan(&loc.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, userID string) (*Location, error) {
	var loc Location
	query := `
        SELECT user_id, latitude, longitude, updated_at
        FROM user_locations
        WHERE user_id = $1
    `

	err := r.db.GetContext(ctx, &loc, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &loc, nil
}
