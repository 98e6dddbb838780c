//go:build integration

package repository

import (
	"context"
	"testing"

	"spca-maps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *Repository {
	ctx := context.Background()

	// Start PostgreSQL container with PostGIS
	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	n, err := repo.ReplacePantries(ctx, testPantries())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	return repo
}

func ptr(f float64) *float64 { return &f }

func testPantries() []models.Location {
	return []models.Location{
		{Name: "Main Street Food Pantry", Address: "100 Main St, Buffalo, NY", Phone: "716-555-0100", Hours: "Mon 9-5", Latitude: ptr(42.8864), Longitude: ptr(-78.8784)},
		{Name: "Lackawanna Community Pantry", Address: "5 Ridge Rd, Lackawanna, NY", Latitude: ptr(42.8256), Longitude: ptr(-78.8234)},
		{Name: "Unmapped Pantry", Address: "Somewhere, NY"},
	}
}

func TestPostgresRepository_PantryLocations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := setupTestDatabase(t)
	ctx := context.Background()

	pantries, err := repo.PantryLocations(ctx)
	require.NoError(t, err)
	require.Len(t, pantries, 3)
	assert.Equal(t, 1, pantries[0].ID)
	assert.Equal(t, "Main Street Food Pantry", pantries[0].Name)
	assert.Nil(t, pantries[2].Latitude)

	total, geocoded, err := repo.CountPantries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, geocoded)

	// Reloading replaces rather than appends.
	_, err = repo.ReplacePantries(ctx, testPantries()[:1])
	require.NoError(t, err)
	total, _, err = repo.CountPantries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestPostgresRepository_SearchPantries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := setupTestDatabase(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "search by name", query: "lackawanna", expected: []string{"Lackawanna Community Pantry"}},
		{name: "search by address", query: "main street", expected: []string{"Main Street Food Pantry"}},
		{name: "search with no results", query: "nonexistent", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pantries, err := repo.SearchPantries(ctx, tt.query)
			require.NoError(t, err)

			names := []string{}
			for _, p := range pantries {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestPostgresRepository_FindNearestPantry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := setupTestDatabase(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		lat, lon float64
		expected string
	}{
		{name: "downtown Buffalo", lat: 42.8860, lon: -78.8780, expected: "Main Street Food Pantry"},
		{name: "Lackawanna", lat: 42.8200, lon: -78.8200, expected: "Lackawanna Community Pantry"},
		{name: "too far away", lat: 40.7128, lon: -74.0060},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pantry, err := repo.FindNearestPantry(ctx, tt.lat, tt.lon)
			require.NoError(t, err)
			if tt.expected == "" {
				assert.Nil(t, pantry)
				return
			}
			require.NotNil(t, pantry)
			assert.Equal(t, tt.expected, pantry.Name)
		})
	}
}
