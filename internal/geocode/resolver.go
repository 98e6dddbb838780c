package geocode

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"spca-maps/internal/models"

	"github.com/rs/zerolog/log"
)

// Geocoder resolves one address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.LatLng, error)
}

// Summary reports what a Resolve run did.
type Summary struct {
	Total    int `json:"total"`
	Skipped  int `json:"skipped"`
	Geocoded int `json:"geocoded"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`
}

// Merge copies coordinates from a previous run onto pantries by exact
// address, for rows that have none yet.
func Merge(pantries, previous []models.Location) []models.Location {
	known := make(map[string]models.Location, len(previous))
	for _, p := range previous {
		if _, ok := p.Point(); ok {
			known[p.Address] = p
		}
	}

	out := make([]models.Location, len(pantries))
	for i, p := range pantries {
		if _, ok := p.Point(); !ok {
			if prev, ok := known[p.Address]; ok {
				p.Latitude, p.Longitude = prev.Latitude, prev.Longitude
			}
		}
		out[i] = p
	}
	return out
}

// Resolve geocodes every pantry without coordinates, calling save after each
// lookup so an interrupted run can resume. Lookup failures leave the row
// empty and do not stop the run.
func Resolve(ctx context.Context, g Geocoder, pantries []models.Location, save func([]models.Location) error) (Summary, error) {
	sum := Summary{Total: len(pantries)}
	for i := range pantries {
		p := &pantries[i]
		if _, ok := p.Point(); ok {
			sum.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		log.Info().Int("row", i+1).Int("total", len(pantries)).Str("name", p.Name).Msg("geocoding")
		pos, err := g.Geocode(ctx, p.Address)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Failed++
			log.Warn().Err(err).Str("address", p.Address).Msg("geocoding failed")
		case pos == nil:
			sum.NotFound++
			log.Warn().Str("address", p.Address).Msg("no match")
		default:
			sum.Geocoded++
			p.Latitude, p.Longitude = &pos.Lat, &pos.Lng
		}

		if err := save(pantries); err != nil {
			return sum, fmt.Errorf("geocode: save progress: %w", err)
		}
	}
	return sum, nil
}

var header = []string{"name", "address", "phone", "hours", "latitude", "longitude"}

// EncodeCSV renders pantries in the geocoded pantry file format.
func EncodeCSV(pantries []models.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range pantries {
		if err := w.Write([]string{p.Name, p.Address, p.Phone, p.Hours, coord(p.Latitude), coord(p.Longitude)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WriteFile atomically replaces path with the CSV rendering of pantries.
func WriteFile(path string, pantries []models.Location) error {
	data, err := EncodeCSV(pantries)
	if err != nil {
		return fmt.Errorf("geocode: encode csv: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("geocode: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("geocode: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("geocode: close %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

func coord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
