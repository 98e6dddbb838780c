package repository

import (
	"context"
	"errors"
	"fmt"

	"spca-maps/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the pantries table. geom is derived from the coordinate
// columns so bulk loads only deal with plain numbers.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS pantries (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		hours TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		search_tsvector TSVECTOR GENERATED ALWAYS AS (
			to_tsvector('english', name || ' ' || address)
		) STORED,
		geom GEOGRAPHY(POINT, 4326) GENERATED ALWAYS AS (
			CASE WHEN latitude IS NOT NULL AND longitude IS NOT NULL
				THEN ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography
			END
		) STORED
	);

	CREATE INDEX IF NOT EXISTS pantries_geom_idx ON pantries USING GIST (geom);
	CREATE INDEX IF NOT EXISTS pantries_search_tsvector_idx ON pantries USING GIN (search_tsvector);
`

// NearestRadiusMeters bounds FindNearestPantry.
const NearestRadiusMeters = 25000

// Repository serves pantry locations from PostgreSQL/PostGIS
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the pantries table and its indexes if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplacePantries swaps the table contents for pantries in one transaction
func (r *Repository) ReplacePantries(ctx context.Context, pantries []models.Location) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE pantries RESTART IDENTITY"); err != nil {
		return 0, fmt.Errorf("repository: failed to truncate pantries: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"pantries"},
		[]string{"name", "address", "phone", "hours", "latitude", "longitude"},
		pgx.CopyFromSlice(len(pantries), func(i int) ([]any, error) {
			p := pantries[i]
			return []any{p.Name, p.Address, p.Phone, p.Hours, p.Latitude, p.Longitude}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy pantries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit pantries: %w", err)
	}
	return n, nil
}

// CountPantries returns the number of pantries and how many are geocoded
func (r *Repository) CountPantries(ctx context.Context) (total, geocoded int, err error) {
	err = r.db.QueryRow(ctx, "SELECT COUNT(*), COUNT(geom) FROM pantries").Scan(&total, &geocoded)
	if err != nil {
		err = fmt.Errorf("repository: failed to count pantries: %w", err)
	}
	return
}

const pantryColumns = `id, name, address, phone, hours, latitude, longitude`

// PantryLocations returns every pantry in insertion order
func (r *Repository) PantryLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pantryColumns+` FROM pantries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query pantries: %w", err)
	}
	return collectPantries(rows)
}

// SearchPantries performs a full-text search on pantry names and addresses
func (r *Repository) SearchPantries(ctx context.Context, query string) ([]models.Location, error) {
	sql := `
		SELECT ` + pantryColumns + `
		FROM pantries
		WHERE search_tsvector @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(search_tsvector, websearch_to_tsquery('english', $1)) DESC, id
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	return collectPantries(rows)
}

// FindNearestPantry returns the closest geocoded pantry within
// NearestRadiusMeters, or nil when there is none
func (r *Repository) FindNearestPantry(ctx context.Context, lat, lon float64) (*models.Location, error) {
	sql := `
		SELECT ` + pantryColumns + `
		FROM pantries
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT 1
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, float64(NearestRadiusMeters))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	loc, err := pgx.CollectExactlyOneRow(rows, scanPantry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to scan pantry: %w", err)
	}
	return &loc, nil
}

func collectPantries(rows pgx.Rows) ([]models.Location, error) {
	pantries, err := pgx.CollectRows(rows, scanPantry)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan pantries: %w", err)
	}
	if pantries == nil {
		pantries = []models.Location{}
	}
	return pantries, nil
}

func scanPantry(row pgx.CollectableRow) (models.Location, error) {
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Phone, &loc.Hours, &loc.Latitude, &loc.Longitude)
	return loc, err
}
