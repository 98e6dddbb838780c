package service

import (
	"context"
	"fmt"
	"slices"

	"spca-maps/internal/aggregate"
	"spca-maps/internal/metrics"
	"spca-maps/internal/models"
	"spca-maps/internal/render"
	"spca-maps/internal/zipcode"
)

// All disables a category filter.
const All = "All"

// IncomeOrder is the display order of income brackets.
var IncomeOrder = []string{
	"$0-$30,000",
	"$31,000-$60,000",
	"$61,000-$90,000",
	"$91,000-$120,000",
	"$120,000+",
}

// VaccineMapTypes lists the views offered on the vaccine map, default first.
var VaccineMapTypes = []render.MapType{
	render.MapChoropleth,
	render.MapHeatmap,
	render.MapCircles,
	render.MapRectangles,
}

// SurveyData loads the inputs of the vaccine clinic map.
type SurveyData interface {
	Boundaries(ctx context.Context) ([]models.ZipArea, error)
	SurveyResponses(ctx context.Context) ([]models.SurveyResponse, error)
}

// VaccineMapService maps vaccine clinic attendees by ZIP for one year.
type VaccineMapService struct {
	data     SurveyData
	pantries PantryLocator
	bands    render.Bands
}

// NewVaccineMapService creates a vaccine map service. pantries may be nil.
func NewVaccineMapService(data SurveyData, pantries PantryLocator, bands render.Bands) *VaccineMapService {
	return &VaccineMapService{data: data, pantries: pantries, bands: bands}
}

// VaccineFilter selects survey responses. Empty strings and All match everything.
type VaccineFilter struct {
	Year         int    `json:"year"`
	Event        string `json:"event"`
	Employment   string `json:"employment"`
	Assistance   string `json:"assistance"`
	Income       string `json:"income"`
	Microchipped string `json:"microchipped"`
	MapType      string `json:"map_type"`
}

// VaccineOptions are the choices offered for each filter.
type VaccineOptions struct {
	Years        []int            `json:"years"`
	Year         int              `json:"year"`
	Events       []string         `json:"events"`
	Employment   []string         `json:"employment"`
	Assistance   []string         `json:"assistance"`
	Income       []string         `json:"income"`
	Microchipped []string         `json:"microchipped"`
	MapTypes     []render.MapType `json:"map_types"`
}

type VaccineMapResult struct {
	Filter   VaccineFilter    `json:"filter"`
	Options  VaccineOptions   `json:"options"`
	View     render.ViewModel `json:"view"`
	Stats    []Stat           `json:"stats"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Options returns the filter choices for year, or for the latest year when
// year is zero.
func (s *VaccineMapService) Options(ctx context.Context, year int) (*VaccineOptions, error) {
	responses, err := s.data.SurveyResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load survey responses: %w", err)
	}
	opts, err := buildOptions(responses, year)
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

// Build filters the survey responses and renders the vaccine map.
func (s *VaccineMapService) Build(ctx context.Context, f VaccineFilter) (*VaccineMapResult, error) {
	mapType, err := render.ParseMapType(f.MapType, VaccineMapTypes[0])
	if err != nil || !slices.Contains(VaccineMapTypes, mapType) {
		return nil, fmt.Errorf("%w: map type %q", ErrInvalidFilter, f.MapType)
	}

	responses, err := s.data.SurveyResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load survey responses: %w", err)
	}
	opts, err := buildOptions(responses, f.Year)
	if err != nil {
		return nil, err
	}

	f.Year = opts.Year
	f.MapType = string(mapType)
	checks := []struct {
		name    string
		value   *string
		allowed []string
	}{
		{"event", &f.Event, opts.Events},
		{"employment", &f.Employment, opts.Employment},
		{"assistance", &f.Assistance, opts.Assistance},
		{"income", &f.Income, opts.Income},
		{"microchipped", &f.Microchipped, opts.Microchipped},
	}
	for _, c := range checks {
		if *c.value == "" {
			*c.value = All
		}
		if *c.value != All && !slices.Contains(c.allowed, *c.value) {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidFilter, c.name, *c.value)
		}
	}

	boundaries, err := s.data.Boundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load zip boundaries: %w", err)
	}

	var yearTotal, yearMissing int
	counter := aggregate.NewZipCounter()
	for _, r := range responses {
		if r.Year != f.Year {
			continue
		}
		yearTotal++
		if zipcode.IsMissing(r.Zip) {
			yearMissing++
		}
		if f.matches(r) {
			counter.Add(r.Zip)
		}
	}
	joined := aggregate.Join(boundaries, counter.Counts())
	filtered := joined.Matched + joined.Unmatched + counter.Missing()

	res := &VaccineMapResult{
		Filter:  f,
		Options: opts,
		Stats: []Stat{
			newStat("total_clients", "Total Clients", yearTotal),
			newStat("filtered_results", "Filtered Results", filtered),
			newStat("total_missing_zip", "Total Without ZIP", yearMissing),
			newStat("filtered_missing_zip", "Filtered Without ZIP", counter.Missing()),
			newStat("unmapped_clients", "Filtered Outside Mapped ZIPs", joined.Unmatched),
		},
	}

	pantries, warning := loadPantries(ctx, s.pantries)
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
	}

	bounds := models.ErieBounds
	res.View, err = render.Render(render.ViewConfig{
		Title:    fmt.Sprintf("Vaccine Clinic Attendees by ZIP Code, %d", f.Year),
		MapType:  mapType,
		Center:   models.ErieCenter,
		Zoom:     models.ErieZoom,
		Bounds:   &bounds,
		Bands:    s.bands,
		Areas:    joined.Areas,
		Pantries: pantries,
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to render vaccine map: %w", err)
	}
	metrics.ViewRendered("vaccine", string(mapType))
	return res, nil
}

func (f VaccineFilter) matches(r models.SurveyResponse) bool {
	return matchOne(f.Event, r.Event) &&
		matchOne(f.Employment, r.Employment) &&
		matchOne(f.Assistance, r.GovAssistance) &&
		matchOne(f.Income, r.Income) &&
		matchOne(f.Microchipped, r.Microchipped)
}

func matchOne(want, got string) bool {
	return want == "" || want == All || want == got
}

func buildOptions(responses []models.SurveyResponse, year int) (VaccineOptions, error) {
	var years []int
	seen := map[int]bool{}
	var employment, assistance, income, microchipped []string
	for _, r := range responses {
		if r.Year > 0 && !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
		employment = append(employment, r.Employment)
		assistance = append(assistance, r.GovAssistance)
		income = append(income, r.Income)
		microchipped = append(microchipped, r.Microchipped)
	}
	if len(years) == 0 {
		return VaccineOptions{}, fmt.Errorf("%w: no survey responses with a year", ErrNoData)
	}
	slices.Sort(years)

	if year == 0 {
		year = years[len(years)-1]
	}
	if !seen[year] {
		return VaccineOptions{}, fmt.Errorf("%w: year %d", ErrInvalidFilter, year)
	}

	var events []string
	for _, r := range responses {
		if r.Year == year {
			events = append(events, r.Event)
		}
	}

	return VaccineOptions{
		Years:        years,
		Year:         year,
		Events:       distinctSorted(events),
		Employment:   distinctSorted(employment),
		Assistance:   distinctSorted(assistance),
		Income:       orderIncome(distinctSorted(income)),
		Microchipped: distinctSorted(microchipped),
		MapTypes:     VaccineMapTypes,
	}, nil
}

// orderIncome keeps the known brackets in IncomeOrder. When none of them is
// present the sorted values are returned unchanged.
func orderIncome(values []string) []string {
	var ordered []string
	for _, bracket := range IncomeOrder {
		if slices.Contains(values, bracket) {
			ordered = append(ordered, bracket)
		}
	}
	if len(ordered) == 0 {
		return values
	}
	return ordered
}
