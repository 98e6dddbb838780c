package service

import (
	"context"
	"fmt"
	"strings"

	"spca-maps/internal/models"
)

// PantrySearchService finds pantries by name or address text.
type PantrySearchService struct {
	repo PantrySearchRepository
}

// PantrySearchRepository interface for dependency injection
type PantrySearchRepository interface {
	SearchPantries(ctx context.Context, query string) ([]models.Location, error)
}

func NewPantrySearchService(repo PantrySearchRepository) *PantrySearchService {
	return &PantrySearchService{repo: repo}
}

// Search runs a full-text search over pantry names and addresses
func (s *PantrySearchService) Search(ctx context.Context, query string) ([]models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search text cannot be empty", ErrInvalidFilter)
	}

	pantries, err := s.repo.SearchPantries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search pantries: %w", err)
	}

	return pantries, nil
}

// NearestPantryService finds the pantry closest to a point.
type NearestPantryService struct {
	repo NearestPantryRepository
}

// NearestPantryRepository interface for dependency injection
type NearestPantryRepository interface {
	FindNearestPantry(ctx context.Context, lat, lon float64) (*models.Location, error)
}

func NewNearestPantryService(repo NearestPantryRepository) *NearestPantryService {
	return &NearestPantryService{repo: repo}
}

// Nearest returns the closest geocoded pantry, or nil when none is in range
func (s *NearestPantryService) Nearest(ctx context.Context, lat, lon float64) (*models.Location, error) {
	if !(models.LatLng{Lat: lat, Lng: lon}).Valid() {
		return nil, fmt.Errorf("%w: invalid coordinates %f,%f", ErrInvalidFilter, lat, lon)
	}

	pantry, err := s.repo.FindNearestPantry(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearest pantry: %w", err)
	}

	return pantry, nil
}
