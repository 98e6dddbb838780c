package service

import "errors"

var (
	// ErrInvalidFilter is returned when a query names a year, category or map
	// type the data does not offer.
	ErrInvalidFilter = errors.New("service: invalid filter")
	// ErrNoData is returned when a dataset loaded fine but holds nothing to map.
	ErrNoData = errors.New("service: no data")
)
