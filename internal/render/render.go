// Package render turns already-loaded, already-joined data into a map view
// model. Nothing here performs I/O.
package render

import (
	"errors"
	"fmt"
	"strings"

	"spca-maps/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// MapType selects how ZIP counts are drawn.
type MapType string

const (
	MapChoropleth MapType = "choropleth"
	MapCircles    MapType = "circles"
	MapRectangles MapType = "rectangles"
	MapHeatmap    MapType = "heatmap"
	MapMarkers    MapType = "markers"
)

var ErrUnknownMapType = errors.New("render: unknown map type")

// ParseMapType accepts a map type name case-insensitively. Empty yields def.
func ParseMapType(s string, def MapType) (MapType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	switch t := MapType(s); t {
	case MapChoropleth, MapCircles, MapRectangles, MapHeatmap, MapMarkers:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMapType, s)
}

// Point is an individual client position for heat and marker layers.
type Point struct {
	Position models.LatLng
	Title    string
	Popup    string
	Link     string
	Weight   float64
}

// ViewConfig is everything needed to draw one map.
type ViewConfig struct {
	Title   string
	MapType MapType
	Center  models.LatLng
	Zoom    int
	// Points and pantries outside Bounds are dropped when Bounds is set.
	Bounds *models.BoundingBox
	Bands  Bands

	// Areas must already carry their joined counts.
	Areas []models.ZipArea
	// Points feed the heatmap and marker layers. When empty, the heatmap
	// falls back to ZIP centroids weighted by count.
	Points   []Point
	Pantries []models.Location
}

type Marker struct {
	Kind     string        `json:"kind"`
	Position models.LatLng `json:"position"`
	Title    string        `json:"title"`
	Popup    string        `json:"popup,omitempty"`
	Link     string        `json:"link,omitempty"`
}

type Circle struct {
	Zip         string        `json:"zip"`
	Center      models.LatLng `json:"center"`
	Radius      float64       `json:"radius"`
	Color       string        `json:"color"`
	FillOpacity float64       `json:"fill_opacity"`
	Count       int           `json:"count"`
	Tooltip     string        `json:"tooltip"`
}

type Rectangle struct {
	Zip         string        `json:"zip"`
	SouthWest   models.LatLng `json:"south_west"`
	NorthEast   models.LatLng `json:"north_east"`
	Color       string        `json:"color"`
	FillOpacity float64       `json:"fill_opacity"`
	Count       int           `json:"count"`
	Tooltip     string        `json:"tooltip"`
}

type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ViewModel is the serializable description of a map consumed by the page script.
type ViewModel struct {
	Title      string                     `json:"title"`
	MapType    MapType                    `json:"map_type"`
	Center     models.LatLng              `json:"center"`
	Zoom       int                        `json:"zoom"`
	Bounds     *models.BoundingBox        `json:"bounds,omitempty"`
	Areas      *geojson.FeatureCollection `json:"areas,omitempty"`
	Circles    []Circle                   `json:"circles,omitempty"`
	Rectangles []Rectangle                `json:"rectangles,omitempty"`
	Heat       []HeatPoint                `json:"heat,omitempty"`
	Markers    []Marker                   `json:"markers"`
	Legend     []LegendEntry              `json:"legend,omitempty"`
	// Dropped counts points and pantries skipped for invalid or out-of-bounds coordinates.
	Dropped int `json:"dropped"`
}

// Render builds the view model for cfg.
func Render(cfg ViewConfig) (ViewModel, error) {
	bands := cfg.Bands
	if bands == nil {
		bands = DefaultBands
	}
	if err := bands.Validate(); err != nil {
		return ViewModel{}, err
	}
	mapType, err := ParseMapType(string(cfg.MapType), MapChoropleth)
	if err != nil {
		return ViewModel{}, err
	}

	vm := ViewModel{
		Title:   cfg.Title,
		MapType: mapType,
		Center:  cfg.Center,
		Zoom:    cfg.Zoom,
		Bounds:  cfg.Bounds,
		Markers: []Marker{},
	}

	switch mapType {
	case MapChoropleth:
		vm.Areas = choropleth(cfg.Areas, bands)
		vm.Legend = legend(bands)
	case MapCircles:
		vm.Circles = circles(cfg.Areas, bands)
		vm.Legend = legend(bands)
	case MapRectangles:
		vm.Rectangles = rectangles(cfg.Areas, bands)
		vm.Legend = legend(bands)
	case MapHeatmap:
		if len(cfg.Points) > 0 {
			vm.Heat, vm.Dropped = pointHeat(cfg.Points, cfg.Bounds)
		} else {
			vm.Heat = centroidHeat(cfg.Areas)
		}
	case MapMarkers:
		var dropped int
		vm.Markers, dropped = clientMarkers(cfg.Points, cfg.Bounds)
		vm.Dropped += dropped
	}

	pantries, dropped := pantryMarkers(cfg.Pantries, cfg.Bounds)
	vm.Markers = append(vm.Markers, pantries...)
	vm.Dropped += dropped

	return vm, nil
}

func choropleth(areas []models.ZipArea, bands Bands) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, area := range areas {
		if area.Geometry == nil {
			continue
		}
		band := bands.For(area.Count)
		f := geojson.NewFeature(area.Geometry)
		f.Properties["zip"] = area.Zip
		f.Properties["count"] = area.Count
		f.Properties["band"] = band.Level
		f.Properties["label"] = band.Label
		f.Properties["fill"] = band.Color
		f.Properties["fillOpacity"] = band.FillOpacity
		fc.Append(f)
	}
	return fc
}

func circles(areas []models.ZipArea, bands Bands) []Circle {
	var out []Circle
	for _, area := range areas {
		if area.Count <= 0 || area.Geometry == nil {
			continue
		}
		center, ok := centroid(area.Geometry)
		if !ok {
			continue
		}
		band := bands.For(area.Count)
		out = append(out, Circle{
			Zip:         area.Zip,
			Center:      center,
			Radius:      band.Radius,
			Color:       band.Color,
			FillOpacity: band.FillOpacity,
			Count:       area.Count,
			Tooltip:     tooltip(area),
		})
	}
	return out
}

func rectangles(areas []models.ZipArea, bands Bands) []Rectangle {
	var out []Rectangle
	for _, area := range areas {
		if area.Count <= 0 || area.Geometry == nil {
			continue
		}
		b := area.Geometry.Bound()
		band := bands.For(area.Count)
		out = append(out, Rectangle{
			Zip:         area.Zip,
			SouthWest:   models.LatLng{Lat: b.Bottom(), Lng: b.Left()},
			NorthEast:   models.LatLng{Lat: b.Top(), Lng: b.Right()},
			Color:       band.Color,
			FillOpacity: band.FillOpacity,
			Count:       area.Count,
			Tooltip:     tooltip(area),
		})
	}
	return out
}

func centroidHeat(areas []models.ZipArea) []HeatPoint {
	var out []HeatPoint
	for _, area := range areas {
		if area.Count <= 0 || area.Geometry == nil {
			continue
		}
		center, ok := centroid(area.Geometry)
		if !ok {
			continue
		}
		out = append(out, HeatPoint{Lat: center.Lat, Lng: center.Lng, Weight: float64(area.Count)})
	}
	return out
}

func pointHeat(points []Point, bounds *models.BoundingBox) ([]HeatPoint, int) {
	out := make([]HeatPoint, 0, len(points))
	dropped := 0
	for _, p := range points {
		if !visible(p.Position, bounds) {
			dropped++
			continue
		}
		w := p.Weight
		if w <= 0 {
			w = 1
		}
		out = append(out, HeatPoint{Lat: p.Position.Lat, Lng: p.Position.Lng, Weight: w})
	}
	return out, dropped
}

func clientMarkers(points []Point, bounds *models.BoundingBox) ([]Marker, int) {
	out := make([]Marker, 0, len(points))
	dropped := 0
	for _, p := range points {
		if !visible(p.Position, bounds) {
			dropped++
			continue
		}
		out = append(out, Marker{Kind: "client", Position: p.Position, Title: p.Title, Popup: p.Popup, Link: p.Link})
	}
	return out, dropped
}

func pantryMarkers(pantries []models.Location, bounds *models.BoundingBox) ([]Marker, int) {
	out := make([]Marker, 0, len(pantries))
	dropped := 0
	for _, loc := range pantries {
		pos, ok := loc.Point()
		if !ok || !visible(pos, bounds) {
			dropped++
			continue
		}
		popup := loc.Address
		if loc.Phone != "" && loc.Phone != "N/A" {
			popup += "\n" + loc.Phone
		}
		if loc.Hours != "" && loc.Hours != "N/A" {
			popup += "\n" + loc.Hours
		}
		out = append(out, Marker{Kind: "pantry", Position: pos, Title: loc.Name, Popup: popup})
	}
	return out, dropped
}

func legend(bands Bands) []LegendEntry {
	out := make([]LegendEntry, 0, len(bands))
	for _, b := range bands {
		out = append(out, LegendEntry{Label: b.Label, Color: b.Color})
	}
	return out
}

func visible(p models.LatLng, bounds *models.BoundingBox) bool {
	if !p.Valid() {
		return false
	}
	return bounds == nil || bounds.Contains(p)
}

func centroid(g orb.Geometry) (models.LatLng, bool) {
	c, _ := planar.CentroidArea(g)
	p := models.LatLng{Lat: c.Lat(), Lng: c.Lon()}
	return p, p.Valid()
}

func tooltip(area models.ZipArea) string {
	return fmt.Sprintf("ZIP %s: %d clients", area.Zip, area.Count)
}
