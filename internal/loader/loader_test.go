package loader

import (
	"context"
	"testing"
	"time"

	"spca-maps/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

var testFiles = Files{
	Boundaries:      "zips.geojson",
	PantryClients:   "PantryMap.csv",
	PantryVisits:    "visits.json",
	PantryLocations: "pantries.csv",
	Survey:          "survey.csv",
}

func TestLoader_MemoizesPerSession(t *testing.T) {
	store := new(MockStore)
	store.On("Fetch", mock.Anything, "PantryMap.csv").
		Return([]byte("Person ID,Postal Code,Association Creation Date\nP1,14201,2024-01-01\n"), nil)

	l := New(store, testFiles, WithMemo(session.NewMemo(time.Hour)))

	alice := session.WithID(context.Background(), "alice")
	bob := session.WithID(context.Background(), "bob")

	first, err := l.PantryClients(alice)
	require.NoError(t, err)
	second, err := l.PantryClients(alice)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "Fetch", 1)

	_, err = l.PantryClients(bob)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestLoader_NoSessionAlwaysFetches(t *testing.T) {
	store := new(MockStore)
	store.On("Fetch", mock.Anything, "survey.csv").
		Return([]byte("Year,What is your zip code?\n2024,14201\n"), nil)

	l := New(store, testFiles, WithMemo(session.NewMemo(time.Hour)))

	for range 2 {
		responses, err := l.SurveyResponses(context.Background())
		require.NoError(t, err)
		assert.Len(t, responses, 1)
	}
	store.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestLoader_Errors(t *testing.T) {
	store := new(MockStore)
	store.On("Fetch", mock.Anything, "zips.geojson").Return(nil, ErrNotFound)
	store.On("Fetch", mock.Anything, "pantries.csv").Return([]byte(""), nil)
	store.On("Fetch", mock.Anything, "visits.json").Return(nil, ErrUnavailable)

	l := New(store, testFiles)
	ctx := session.WithID(context.Background(), "s1")

	_, err := l.Boundaries(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.PantryLocations(ctx)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = l.PantryVisits(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoader_ErrorsAreNotMemoized(t *testing.T) {
	store := new(MockStore)
	store.On("Fetch", mock.Anything, "pantries.csv").Return(nil, ErrUnavailable).Once()
	store.On("Fetch", mock.Anything, "pantries.csv").
		Return([]byte("name,latitude,longitude\nA,42.9,-78.8\n"), nil).Once()

	l := New(store, testFiles, WithMemo(session.NewMemo(time.Hour)))
	ctx := session.WithID(context.Background(), "s1")

	_, err := l.PantryLocations(ctx)
	require.Error(t, err)

	locations, err := l.PantryLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 1)
	store.AssertExpectations(t)
}

func TestLoader_ZipProperty(t *testing.T) {
	store := new(MockStore)
	store.On("Fetch", mock.Anything, "zips.geojson").Return([]byte(`{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"POSTCODE":"14201"},"geometry":{"type":"Point","coordinates":[-78.8,42.9]}}]}`), nil)

	l := New(store, testFiles, WithZipProperty("POSTCODE"))

	areas, err := l.Boundaries(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "14201", areas[0].Zip)
}
