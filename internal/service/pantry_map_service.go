package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"spca-maps/internal/aggregate"
	"spca-maps/internal/metrics"
	"spca-maps/internal/models"
	"spca-maps/internal/render"

	"github.com/rs/zerolog/log"
)

// PantryMapData loads the inputs of the pantry client map.
type PantryMapData interface {
	Boundaries(ctx context.Context) ([]models.ZipArea, error)
	PantryClients(ctx context.Context) ([]models.ClientRecord, error)
	PantryVisits(ctx context.Context) ([]models.PantryVisit, error)
}

// PantryLocator supplies the food pantry overlay.
type PantryLocator interface {
	PantryLocations(ctx context.Context) ([]models.Location, error)
}

// PantryMapTypes lists the views offered on the pantry map, default first.
var PantryMapTypes = []render.MapType{
	render.MapMarkers,
	render.MapHeatmap,
	render.MapChoropleth,
	render.MapCircles,
	render.MapRectangles,
}

const dateLabel = "January 02, 2006"

// PantryMapService builds the pantry client map as of the end of a chosen year.
type PantryMapService struct {
	data     PantryMapData
	pantries PantryLocator
	bands    render.Bands
}

// NewPantryMapService creates a pantry map service. pantries may be nil.
func NewPantryMapService(data PantryMapData, pantries PantryLocator, bands render.Bands) *PantryMapService {
	return &PantryMapService{data: data, pantries: pantries, bands: bands}
}

type PantryMapQuery struct {
	// Year defaults to the latest year with visits.
	Year    int
	MapType string
}

type PantryRow struct {
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	AddressType  string    `json:"address_type"`
	PersonID     string    `json:"person_id"`
	PetPointLink string    `json:"petpoint_link,omitempty"`
}

type PantryMapResult struct {
	Years     []int            `json:"years"`
	Year      int              `json:"year"`
	AsOf      time.Time        `json:"as_of"`
	AsOfLabel string           `json:"as_of_label"`
	MapType   render.MapType   `json:"map_type"`
	MapTypes  []render.MapType `json:"map_types"`
	View      render.ViewModel `json:"view"`
	Stats     []Stat           `json:"stats"`
	Rows      []PantryRow      `json:"rows"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// Build loads, filters and renders the pantry map for q.
func (s *PantryMapService) Build(ctx context.Context, q PantryMapQuery) (*PantryMapResult, error) {
	mapType, err := render.ParseMapType(q.MapType, PantryMapTypes[0])
	if err != nil || !slices.Contains(PantryMapTypes, mapType) {
		return nil, fmt.Errorf("%w: map type %q", ErrInvalidFilter, q.MapType)
	}

	visits, err := s.data.PantryVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load pantry visits: %w", err)
	}
	if len(visits) == 0 {
		return nil, fmt.Errorf("%w: no dated pantry visits", ErrNoData)
	}

	first, last := visitRange(visits)
	year := q.Year
	if year == 0 {
		year = last.Year()
	}
	if year < first.Year() || year > last.Year() {
		return nil, fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidFilter, year, first.Year(), last.Year())
	}

	asOf := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if year == last.Year() {
		asOf = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	}
	cutoff := asOf.AddDate(0, 0, 1)

	res := &PantryMapResult{
		Years:     yearsBetween(first.Year(), last.Year()),
		Year:      year,
		AsOf:      asOf,
		AsOfLabel: asOf.Format(dateLabel),
		MapType:   mapType,
		MapTypes:  PantryMapTypes,
		Rows:      []PantryRow{},
	}

	var (
		points    []render.Point
		names     = map[string]struct{}{}
		noCoords  int
		totalSeen int
	)
	for _, v := range visits {
		if !v.Date.Before(cutoff) {
			continue
		}
		totalSeen++
		names[v.Name] = struct{}{}
		res.Rows = append(res.Rows, PantryRow{
			Name:         v.Name,
			Date:         v.Date,
			AddressType:  v.AddressType,
			PersonID:     v.PersonID,
			PetPointLink: v.PetPointLink,
		})

		pos, ok := v.Point()
		if !ok {
			noCoords++
			continue
		}
		points = append(points, render.Point{
			Position: pos,
			Title:    v.Name,
			Popup:    "Address Type: " + v.AddressType,
			Link:     v.PetPointLink,
			Weight:   1,
		})
	}
	slices.SortStableFunc(res.Rows, func(a, b PantryRow) int {
		return b.Date.Compare(a.Date)
	})

	res.Stats = []Stat{
		newStat("total_clients", "Total Clients", totalSeen),
		newStat("unique_locations", "Unique Locations", len(names)),
		newStat("without_coordinates", "Without Coordinates", noCoords),
	}

	title := "Pet Pantry Clients as of " + res.AsOfLabel
	var areas []models.ZipArea
	if isAreaType(mapType) {
		joined, missing, err := s.clientAreas(ctx, cutoff)
		if err != nil {
			return nil, err
		}
		areas = joined.Areas
		res.Stats = append(res.Stats,
			newStat("mapped_clients", "Clients in Mapped ZIPs", joined.Matched),
			newStat("unmapped_clients", "Clients Outside Mapped ZIPs", joined.Unmatched),
			newStat("missing_zip", "Clients Without ZIP", missing),
		)
		title = "Pet Pantry Clients by ZIP Code as of " + res.AsOfLabel
	}

	pantries, warning := loadPantries(ctx, s.pantries)
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}

	bounds := models.ErieBounds
	res.View, err = render.Render(render.ViewConfig{
		Title:    title,
		MapType:  mapType,
		Center:   models.ErieCenter,
		Zoom:     models.ErieZoom,
		Bounds:   &bounds,
		Bands:    s.bands,
		Areas:    areas,
		Points:   points,
		Pantries: pantries,
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to render pantry map: %w", err)
	}
	metrics.ViewRendered("pantry", string(mapType))
	return res, nil
}

// clientAreas counts clients associated before cutoff per ZIP and joins them
// onto the boundaries.
func (s *PantryMapService) clientAreas(ctx context.Context, cutoff time.Time) (aggregate.JoinResult, int, error) {
	boundaries, err := s.data.Boundaries(ctx)
	if err != nil {
		return aggregate.JoinResult{}, 0, fmt.Errorf("service: failed to load zip boundaries: %w", err)
	}
	clients, err := s.data.PantryClients(ctx)
	if err != nil {
		return aggregate.JoinResult{}, 0, fmt.Errorf("service: failed to load pantry clients: %w", err)
	}

	counter := aggregate.NewZipCounter()
	for _, c := range clients {
		if c.CreatedAt == nil || !c.CreatedAt.Before(cutoff) {
			continue
		}
		counter.Add(c.Zip)
	}
	return aggregate.Join(boundaries, counter.Counts()), counter.Missing(), nil
}

// loadPantries fetches the overlay. A failure is logged and reported as a
// warning so the map still renders.
func loadPantries(ctx context.Context, p PantryLocator) ([]models.Location, string) {
	if p == nil {
		return nil, ""
	}
	pantries, err := p.PantryLocations(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("pantry overlay unavailable")
		return nil, "Pantry locations could not be loaded"
	}
	return pantries, ""
}

func isAreaType(t render.MapType) bool {
	return t == render.MapChoropleth || t == render.MapCircles || t == render.MapRectangles
}

func visitRange(visits []models.PantryVisit) (time.Time, time.Time) {
	first, last := visits[0].Date, visits[0].Date
	for _, v := range visits[1:] {
		if v.Date.Before(first) {
			first = v.Date
		}
		if v.Date.After(last) {
			last = v.Date
		}
	}
	return first, last
}

func yearsBetween(from, to int) []int {
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}
