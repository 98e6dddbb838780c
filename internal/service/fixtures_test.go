package service

import (
	"context"
	"time"

	"spca-maps/internal/models"

	"github.com/paulmach/orb"
)

// fakeData serves canned datasets to the map services.
type fakeData struct {
	boundaries []models.ZipArea
	clients    []models.ClientRecord
	visits     []models.PantryVisit
	locations  []models.Location
	survey     []models.SurveyResponse

	boundariesErr error
	visitsErr     error
	locationsErr  error
	surveyErr     error
}

func (f *fakeData) Boundaries(context.Context) ([]models.ZipArea, error) {
	return f.boundaries, f.boundariesErr
}

func (f *fakeData) PantryClients(context.Context) ([]models.ClientRecord, error) {
	return f.clients, nil
}

func (f *fakeData) PantryVisits(context.Context) ([]models.PantryVisit, error) {
	return f.visits, f.visitsErr
}

func (f *fakeData) PantryLocations(context.Context) ([]models.Location, error) {
	return f.locations, f.locationsErr
}

func (f *fakeData) SurveyResponses(context.Context) ([]models.SurveyResponse, error) {
	return f.survey, f.surveyErr
}

func square(minLng, minLat, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLng, minLat},
		{minLng + size, minLat},
		{minLng + size, minLat + size},
		{minLng, minLat + size},
		{minLng, minLat},
	}}
}

func testBoundaries() []models.ZipArea {
	return []models.ZipArea{
		{Zip: "14201", Geometry: square(-78.9, 42.8, 0.1)},
		{Zip: "14202", Geometry: square(-78.8, 42.8, 0.1)},
		{Zip: "14203", Geometry: square(-78.7, 42.8, 0.1)},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func statValue(stats []Stat, key string) int {
	for _, s := range stats {
		if s.Key == key {
			return s.Value
		}
	}
	return -1
}
