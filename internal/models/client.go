package models

import "time"

// ClientRecord is one pet-pantry client's association with a postal code.
type ClientRecord struct {
	PersonID   string     `json:"person_id"`
	PostalCode string     `json:"postal_code"`
	Zip        string     `json:"zip"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// PantryVisit is a geocoded pantry client entry from the processed pantry dump.
type PantryVisit struct {
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	AddressType  string    `json:"address_type"`
	PersonID     string    `json:"person_id"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
	PetPointLink string    `json:"petpoint_link,omitempty"`
}

func (v PantryVisit) Point() (LatLng, bool) {
	if v.Lat == nil || v.Lng == nil {
		return LatLng{}, false
	}
	p := LatLng{Lat: *v.Lat, Lng: *v.Lng}
	return p, p.Valid()
}
