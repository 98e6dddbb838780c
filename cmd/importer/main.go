package main

import (
	"context"
	"flag"
	"os"
	"time"

	"spca-maps/internal/config"
	"spca-maps/internal/loader"
	"spca-maps/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// importer loads a geocoded pantry CSV into PostGIS so the API can serve
// pantry search and nearest-pantry lookups.
func main() {
	file := flag.String("file", "", "Path to the geocoded pantry CSV to import")
	flag.Parse()

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read file")
	}
	pantries, err := loader.ParsePantryLocations(data)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse pantry CSV")
	}
	log.Info().Int("records", len(pantries)).Msg("parsed")

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Connect to DB
	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	n, err := repo.ReplacePantries(ctx, pantries)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert pantries")
	}

	// Verify data
	total, geocoded, err := repo.CountPantries(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot verify import")
	}
	if total != len(pantries) {
		log.Fatal().Int("expected", len(pantries)).Int("got", total).Msg("record count mismatch")
	}

	log.Info().Int64("inserted", n).Int("geocoded", geocoded).Int("without_coordinates", total-geocoded).Msg("import complete")
}
