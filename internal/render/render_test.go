package render

import (
	"encoding/json"
	"math"
	"testing"

	"spca-maps/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minLng, minLat, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLng, minLat},
		{minLng + size, minLat},
		{minLng + size, minLat + size},
		{minLng, minLat + size},
		{minLng, minLat},
	}}
}

func ptr(f float64) *float64 { return &f }

func testAreas() []models.ZipArea {
	return []models.ZipArea{
		{Zip: "14201", Geometry: square(-78.9, 42.8, 0.1), Count: 7},
		{Zip: "14202", Geometry: square(-78.8, 42.8, 0.1), Count: 55},
		{Zip: "14203", Geometry: square(-78.7, 42.8, 0.1), Count: 0},
	}
}

func TestParseMapType(t *testing.T) {
	mt, err := ParseMapType("", MapHeatmap)
	require.NoError(t, err)
	assert.Equal(t, MapHeatmap, mt)

	mt, err = ParseMapType(" Circles ", MapChoropleth)
	require.NoError(t, err)
	assert.Equal(t, MapCircles, mt)

	_, err = ParseMapType("hexbin", MapChoropleth)
	assert.ErrorIs(t, err, ErrUnknownMapType)
}

func TestRender_Choropleth(t *testing.T) {
	vm, err := Render(ViewConfig{
		Title:   "Clients",
		MapType: MapChoropleth,
		Center:  models.ErieCenter,
		Zoom:    models.ErieZoom,
		Areas:   testAreas(),
	})
	require.NoError(t, err)

	require.NotNil(t, vm.Areas)
	require.Len(t, vm.Areas.Features, 3)
	fills := map[string]string{}
	for _, f := range vm.Areas.Features {
		fills[f.Properties["zip"].(string)] = f.Properties["fill"].(string)
	}
	assert.Equal(t, map[string]string{"14201": "#ffeda0", "14202": "#e31a1c", "14203": "#ffffff"}, fills)
	assert.Len(t, vm.Legend, len(DefaultBands))
	assert.Empty(t, vm.Circles)

	payload, err := json.Marshal(vm)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"FeatureCollection"`)
}

func TestRender_CirclesAndRectanglesSkipEmptyZips(t *testing.T) {
	vm, err := Render(ViewConfig{MapType: MapCircles, Areas: testAreas()})
	require.NoError(t, err)
	require.Len(t, vm.Circles, 2)
	assert.Equal(t, "14201", vm.Circles[0].Zip)
	assert.InDelta(t, 42.85, vm.Circles[0].Center.Lat, 1e-9)
	assert.InDelta(t, -78.85, vm.Circles[0].Center.Lng, 1e-9)
	assert.Equal(t, 2500.0, vm.Circles[0].Radius)
	assert.Equal(t, "ZIP 14202: 55 clients", vm.Circles[1].Tooltip)

	vm, err = Render(ViewConfig{MapType: MapRectangles, Areas: testAreas()})
	require.NoError(t, err)
	require.Len(t, vm.Rectangles, 2)
	assert.InDelta(t, 42.8, vm.Rectangles[1].SouthWest.Lat, 1e-9)
	assert.InDelta(t, -78.7, vm.Rectangles[1].NorthEast.Lng, 1e-9)
}

func TestRender_HeatmapFromCentroids(t *testing.T) {
	vm, err := Render(ViewConfig{MapType: MapHeatmap, Areas: testAreas()})
	require.NoError(t, err)

	require.Len(t, vm.Heat, 2)
	assert.Equal(t, 7.0, vm.Heat[0].Weight)
	assert.Equal(t, 55.0, vm.Heat[1].Weight)
}

func TestRender_HeatmapFromPointsDropsInvalid(t *testing.T) {
	bounds := models.ErieBounds
	vm, err := Render(ViewConfig{
		MapType: MapHeatmap,
		Bounds:  &bounds,
		Points: []Point{
			{Position: models.LatLng{Lat: 42.9, Lng: -78.8}},
			{Position: models.LatLng{Lat: math.NaN(), Lng: -78.8}},
			{Position: models.LatLng{Lat: 40.7, Lng: -74.0}},
			{Position: models.LatLng{Lat: 42.95, Lng: -78.85}, Weight: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []HeatPoint{
		{Lat: 42.9, Lng: -78.8, Weight: 1},
		{Lat: 42.95, Lng: -78.85, Weight: 3},
	}, vm.Heat)
	assert.Equal(t, 2, vm.Dropped)
}

func TestRender_Markers(t *testing.T) {
	vm, err := Render(ViewConfig{
		MapType: MapMarkers,
		Points: []Point{
			{Position: models.LatLng{Lat: 42.9, Lng: -78.8}, Title: "Jane", Link: "https://example.org/1"},
			{Position: models.LatLng{Lat: 91, Lng: -78.8}, Title: "Broken"},
		},
		Pantries: []models.Location{
			{Name: "Pantry A", Address: "1 Main St", Phone: "N/A", Hours: "Mon 9-5", Latitude: ptr(42.88), Longitude: ptr(-78.87)},
			{Name: "Not geocoded", Address: "2 Main St"},
		},
	})
	require.NoError(t, err)

	require.Len(t, vm.Markers, 2)
	assert.Equal(t, "client", vm.Markers[0].Kind)
	assert.Equal(t, "https://example.org/1", vm.Markers[0].Link)
	assert.Equal(t, "pantry", vm.Markers[1].Kind)
	assert.Equal(t, "1 Main St\nMon 9-5", vm.Markers[1].Popup)
	assert.Equal(t, 2, vm.Dropped)
}

func TestRender_PantryOverlayOnChoropleth(t *testing.T) {
	vm, err := Render(ViewConfig{
		MapType:  MapChoropleth,
		Areas:    testAreas(),
		Pantries: []models.Location{{Name: "Pantry A", Latitude: ptr(42.88), Longitude: ptr(-78.87)}},
	})
	require.NoError(t, err)

	require.Len(t, vm.Markers, 1)
	assert.Equal(t, "Pantry A", vm.Markers[0].Title)
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(ViewConfig{MapType: "hexbin"})
	assert.ErrorIs(t, err, ErrUnknownMapType)

	_, err = Render(ViewConfig{MapType: MapChoropleth, Bands: Bands{{Min: 3}}})
	assert.ErrorIs(t, err, ErrInvalidBands)
}

func TestRender_DefaultsToChoropleth(t *testing.T) {
	vm, err := Render(ViewConfig{Areas: testAreas()})
	require.NoError(t, err)
	assert.Equal(t, MapChoropleth, vm.MapType)
	assert.NotNil(t, vm.Areas)
	assert.NotNil(t, vm.Markers)
}

func TestRender_MapTypeIsCaseInsensitive(t *testing.T) {
	vm, err := Render(ViewConfig{MapType: "Choropleth", Areas: testAreas()})
	require.NoError(t, err)
	assert.Equal(t, MapChoropleth, vm.MapType)
	require.NotNil(t, vm.Areas)
	assert.Len(t, vm.Areas.Features, 3)
	assert.Len(t, vm.Legend, len(DefaultBands))

	vm, err = Render(ViewConfig{MapType: " CIRCLES ", Areas: testAreas()})
	require.NoError(t, err)
	assert.Equal(t, MapCircles, vm.MapType)
	assert.Len(t, vm.Circles, 2)
}
