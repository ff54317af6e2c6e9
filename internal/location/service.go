package location

import (
	"context"
	"errors"
)

var ErrLocationNotFound = errors.New("location not found")

type Service interface {
	UpdateLocation(ctx context.Context, userID string, dto *UpdateLocationDTO) (*Location, error)
	GetLocation(ctx context.Context, userID string) (*Location, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) UpdateLocation(ctx context.Context, userID string, dto *UpdateLocationDTO) (*Location, error) {
	loc := &Location{
		UserID:    userID,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
	}

	if err := s.repo.Upsert(ctx, loc); err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *service) GetLocation(ctx context.Context, userID string) (*Location, error) {
	loc, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	return loc, nil
}
