package render

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Band is one color step of the choropleth scale. A count belongs to the
// band with the greatest Min that is <= count.
type Band struct {
	Level       int     `json:"level" yaml:"-"`
	Min         int     `json:"min" yaml:"min"`
	Label       string  `json:"label" yaml:"label"`
	Color       string  `json:"color" yaml:"color"`
	FillOpacity float64 `json:"fill_opacity" yaml:"fill_opacity"`
	// Radius in meters used when a ZIP is drawn as a circle.
	Radius float64 `json:"radius" yaml:"radius"`
}

// Bands is an ascending list of bands starting at zero.
type Bands []Band

// DefaultBands is the scale used by both dashboards.
var DefaultBands = Bands{
	{Level: 0, Min: 0, Label: "0", Color: "#ffffff", FillOpacity: 0, Radius: 0},
	{Level: 1, Min: 1, Label: "1-5", Color: "#ffffcc", FillOpacity: 0.7, Radius: 2000},
	{Level: 2, Min: 6, Label: "6-20", Color: "#ffeda0", FillOpacity: 0.7, Radius: 2500},
	{Level: 3, Min: 21, Label: "21-50", Color: "#fd8d3c", FillOpacity: 0.7, Radius: 3000},
	{Level: 4, Min: 51, Label: "51-100", Color: "#e31a1c", FillOpacity: 0.7, Radius: 3500},
	{Level: 5, Min: 101, Label: ">100", Color: "#800026", FillOpacity: 0.7, Radius: 4000},
}

var ErrInvalidBands = errors.New("render: invalid band table")

// For returns the band of count. Negative counts fall into the lowest band.
func (b Bands) For(count int) Band {
	if len(b) == 0 {
		return Band{}
	}
	band := b[0]
	for _, candidate := range b[1:] {
		if count < candidate.Min {
			break
		}
		band = candidate
	}
	return band
}

// Validate checks the table is non-empty, starts at zero and is strictly ascending.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	if b[0].Min != 0 {
		return fmt.Errorf("%w: first band must start at 0, got %d", ErrInvalidBands, b[0].Min)
	}
	for i := 1; i < len(b); i++ {
		if b[i].Min <= b[i-1].Min {
			return fmt.Errorf("%w: band %d min %d is not above %d", ErrInvalidBands, i, b[i].Min, b[i-1].Min)
		}
	}
	return nil
}

type bandsFile struct {
	Bands []Band `yaml:"bands"`
}

// ParseBands reads a YAML band table:
//
//	bands:
//	  - {min: 0, label: "0", color: "#ffffff", fill_opacity: 0}
//	  - {min: 1, label: "1-5", color: "#ffffcc", fill_opacity: 0.7, radius: 2000}
func ParseBands(data []byte) (Bands, error) {
	var f bandsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBands, err)
	}
	bands := Bands(f.Bands)
	for i := range bands {
		bands[i].Level = i
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	return bands, nil
}

// LoadBands reads a band table from path, or returns DefaultBands when path is empty.
func LoadBands(path string) (Bands, error) {
	if path == "" {
		return DefaultBands, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read bands file: %w", err)
	}
	return ParseBands(data)
}
