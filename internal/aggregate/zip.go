// Package aggregate counts records per ZIP code and joins the counts onto ZIP polygons.
package aggregate

import (
	"sort"

	"spca-maps/internal/models"
	"spca-maps/internal/zipcode"
)

// ZipCounter counts records per normalized ZIP code.
type ZipCounter struct {
	counts  map[string]int
	missing int
}

// NewZipCounter returns an empty counter.
func NewZipCounter() *ZipCounter {
	return &ZipCounter{counts: map[string]int{}}
}

// Add records one value. Raw values are normalized first; Missing ones are
// tallied separately and never counted against a ZIP.
func (c *ZipCounter) Add(raw string) {
	if c == nil {
		return
	}
	zip := zipcode.Normalize(raw)
	if zipcode.IsMissing(zip) {
		c.missing++
		return
	}
	c.counts[zip]++
}

// Counts returns a copy of the per-ZIP tallies.
func (c *ZipCounter) Counts() map[string]int {
	if c == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(c.counts))
	for zip, n := range c.counts {
		out[zip] = n
	}
	return out
}

// Missing returns how many values had no usable ZIP.
func (c *ZipCounter) Missing() int {
	if c == nil {
		return 0
	}
	return c.missing
}

// CountByZip returns unique ZIP -> number of occurrences in zips.
func CountByZip(zips []string) map[string]int {
	c := NewZipCounter()
	for _, z := range zips {
		c.Add(z)
	}
	return c.Counts()
}

// JoinResult is the outcome of attaching counts to ZIP polygons.
type JoinResult struct {
	Areas     []models.ZipArea
	Matched   int
	Unmatched int
	// UnmatchedZips lists valid ZIPs with clients but no polygon, sorted.
	UnmatchedZips []string
}

// Join left-joins counts onto areas by ZIP equality. Areas without an entry
// get a count of zero. Input areas are not modified.
func Join(areas []models.ZipArea, counts map[string]int) JoinResult {
	out := make([]models.ZipArea, len(areas))
	present := make(map[string]struct{}, len(areas))
	matched := 0
	for i, area := range areas {
		area.Count = counts[area.Zip]
		if _, seen := present[area.Zip]; !seen {
			matched += area.Count
		}
		present[area.Zip] = struct{}{}
		out[i] = area
	}

	unmatched := 0
	var unmatchedZips []string
	for zip, n := range counts {
		if _, ok := present[zip]; ok {
			continue
		}
		unmatched += n
		unmatchedZips = append(unmatchedZips, zip)
	}
	sort.Strings(unmatchedZips)

	return JoinResult{
		Areas:         out,
		Matched:       matched,
		Unmatched:     unmatched,
		UnmatchedZips: unmatchedZips,
	}
}
