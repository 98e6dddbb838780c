package models

import "math"

// Location represents a food pantry with its contact details and, once geocoded, its coordinates.
type Location struct {
	ID        int      `json:"id,omitempty"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Hours     string   `json:"hours"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Point returns the location coordinates, or false when they are missing or not on the globe.
func (l Location) Point() (LatLng, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return LatLng{}, false
	}
	p := LatLng{Lat: *l.Latitude, Lng: *l.Longitude}
	return p, p.Valid()
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// BoundingBox limits the visible map area.
type BoundingBox struct {
	West  float64 `json:"west"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	North float64 `json:"north"`
}

func (b BoundingBox) Contains(p LatLng) bool {
	return p.Lng >= b.West && p.Lng <= b.East && p.Lat >= b.South && p.Lat <= b.North
}

// Erie County defaults used by both dashboards.
var (
	ErieCenter = LatLng{Lat: 42.9, Lng: -78.8}
	ErieBounds = BoundingBox{West: -80.5, East: -77.5, South: 41.8, North: 43.4}
)

const ErieZoom = 10
