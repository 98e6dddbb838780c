package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spca-maps/internal/geocode"
	"spca-maps/internal/loader"
	"spca-maps/internal/models"

	"github.com/rs/zerolog/log"
)

// geocoder fills in coordinates for a pantry list using Nominatim. Rows
// already geocoded in --output are reused, and progress is written after
// every lookup so the tool can be stopped and resumed.
func main() {
	input := flag.String("input", "map_data/pantry_locations.csv", "pantry CSV with name, address, phone and hours")
	output := flag.String("output", "map_data/geocoded_pantry_locations.csv", "geocoded CSV to write")
	baseURL := flag.String("nominatim", "https://nominatim.openstreetmap.org", "Nominatim base URL")
	interval := flag.Duration("interval", 2*time.Second, "minimum time between requests")
	attempts := flag.Uint64("attempts", 5, "attempts per address on timeouts")
	flag.Parse()

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("cannot read input")
	}
	pantries, err := loader.ParsePantryLocations(data)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse input")
	}

	previous, err := readPrevious(*output)
	if err != nil {
		log.Fatal().Err(err).Str("output", *output).Msg("cannot read previous output")
	}
	pantries = geocode.Merge(pantries, previous)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := geocode.NewClient(
		geocode.WithBaseURL(*baseURL),
		geocode.WithInterval(*interval),
		geocode.WithRetry(*attempts, 5*time.Second),
	)

	sum, err := geocode.Resolve(ctx, client, pantries, func(ps []models.Location) error {
		return geocode.WriteFile(*output, ps)
	})
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("total", sum.Total).
		Int("skipped", sum.Skipped).
		Int("geocoded", sum.Geocoded).
		Int("not_found", sum.NotFound).
		Int("failed", sum.Failed).
		Str("output", *output).
		Msg("geocoding finished")
	if err != nil {
		os.Exit(1)
	}
}

func readPrevious(path string) ([]models.Location, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loader.ParsePantryLocations(data)
}
