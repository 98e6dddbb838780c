package models

import "github.com/paulmach/orb"

// ZipArea is a ZCTA boundary with the client count derived for the current view.
type ZipArea struct {
	Zip      string       `json:"zip"`
	Geometry orb.Geometry `json:"-"`
	Count    int          `json:"count"`
}
