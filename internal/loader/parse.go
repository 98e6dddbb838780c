package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"spca-maps/internal/models"
	"spca-maps/internal/zipcode"

	"github.com/bytedance/sonic"
	"github.com/paulmach/orb/geojson"
)

// Alternate ZCTA property names tried after the configured one.
var zipProperties = []string{"ZCTA5CE10", "ZCTA5CE20", "GEOID10", "GEOID20", "ZIP", "zip"}

// ParseBoundaries decodes a GeoJSON FeatureCollection into ZIP polygons.
// Features without a usable ZIP property are skipped. A ZIP split across
// several features yields one area per feature.
func ParseBoundaries(data []byte, property string) ([]models.ZipArea, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson: %v", ErrMalformed, err)
	}

	candidates := append([]string{property}, zipProperties...)
	areas := make([]models.ZipArea, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		zip := zipcode.Missing
		for _, name := range candidates {
			if v, ok := f.Properties[name]; ok {
				if zip = zipcode.FromProperty(v); !zipcode.IsMissing(zip) {
					break
				}
			}
		}
		if zipcode.IsMissing(zip) {
			continue
		}
		areas = append(areas, models.ZipArea{Zip: zip, Geometry: f.Geometry})
	}

	if len(fc.Features) > 0 && len(areas) == 0 {
		return nil, fmt.Errorf("%w: no feature carries zip property %q", ErrMalformed, property)
	}
	return areas, nil
}

// table is a CSV file indexed by header name.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(data []byte, required ...string) (*table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: csv header: %v", ErrMalformed, err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	t.rows, err = r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", ErrMalformed, err)
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

const (
	colPersonID   = "Person ID"
	colPostalCode = "Postal Code"
	colCreated    = "Association Creation Date"
)

// ParsePantryClients reads the pantry client export. Rows keep their raw
// postal code alongside the normalized ZIP.
func ParsePantryClients(data []byte) ([]models.ClientRecord, error) {
	t, err := readTable(data, colPostalCode)
	if err != nil {
		return nil, err
	}

	records := make([]models.ClientRecord, 0, len(t.rows))
	for _, row := range t.rows {
		raw := t.get(row, colPostalCode)
		rec := models.ClientRecord{
			PersonID:   t.get(row, colPersonID),
			PostalCode: raw,
			Zip:        zipcode.Normalize(raw),
		}
		if ts, ok := parseDate(t.get(row, colCreated)); ok {
			rec.CreatedAt = &ts
		}
		records = append(records, rec)
	}
	return records, nil
}

const (
	colName      = "name"
	colAddress   = "address"
	colPhone     = "phone"
	colHours     = "hours"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

// ParsePantryLocations reads the geocoded pantry list. Empty or unparsable
// coordinates are left nil.
func ParsePantryLocations(data []byte) ([]models.Location, error) {
	t, err := readTable(data, colName)
	if err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(t.rows))
	for i, row := range t.rows {
		locations = append(locations, models.Location{
			ID:        i + 1,
			Name:      t.get(row, colName),
			Address:   t.get(row, colAddress),
			Phone:     t.get(row, colPhone),
			Hours:     t.get(row, colHours),
			Latitude:  parseFloat(t.get(row, colLatitude)),
			Longitude: parseFloat(t.get(row, colLongitude)),
		})
	}
	return locations, nil
}

const (
	colYear          = "Year"
	colEvent         = "Sheet Name"
	colEmployment    = "What is your employment status?"
	colGovAssistance = "Do you receive government assistance?"
	colIncome        = "What is your annual household Income?"
	colMicrochipped  = "Are your pets microchipped?"
	colZip           = "What is your zip code?"
)

// ParseSurveyResponses reads the combined vaccine clinic survey export.
func ParseSurveyResponses(data []byte) ([]models.SurveyResponse, error) {
	t, err := readTable(data, colYear, colZip)
	if err != nil {
		return nil, err
	}

	responses := make([]models.SurveyResponse, 0, len(t.rows))
	for _, row := range t.rows {
		raw := t.get(row, colZip)
		responses = append(responses, models.SurveyResponse{
			Year:          parseYear(t.get(row, colYear)),
			Event:         t.get(row, colEvent),
			Employment:    t.get(row, colEmployment),
			GovAssistance: t.get(row, colGovAssistance),
			Income:        NormalizeIncome(t.get(row, colIncome)),
			Microchipped:  t.get(row, colMicrochipped),
			PostalCode:    raw,
			Zip:           zipcode.Normalize(raw),
		})
	}
	return responses, nil
}

// NormalizeIncome canonicalizes income brackets to "$0-$30,000" style labels.
func NormalizeIncome(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasSuffix(s, "+") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "+")) + "+"
	}
	if !strings.HasPrefix(s, "$") {
		s = "$" + s
	}
	return s
}

type visitJSON struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	AddressType string   `json:"address_type"`
	PersonID    any      `json:"person_id"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// ParsePantryVisits decodes the processed pantry dump. Entries whose date
// cannot be parsed are dropped and counted.
func ParsePantryVisits(data []byte) ([]models.PantryVisit, int, error) {
	var raw []visitJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: visits json: %v", ErrMalformed, err)
	}

	visits := make([]models.PantryVisit, 0, len(raw))
	skipped := 0
	for _, v := range raw {
		date, ok := parseDate(v.Date)
		if !ok {
			skipped++
			continue
		}
		id := personID(v.PersonID)
		visits = append(visits, models.PantryVisit{
			Name:         strings.TrimSpace(v.Name),
			Date:         date,
			AddressType:  v.AddressType,
			PersonID:     id,
			Lat:          v.Lat,
			Lng:          v.Lng,
			PetPointLink: PetPointLink(id),
		})
	}
	return visits, skipped, nil
}

const petPointBase = "https://sms.petpoint.com/sms3/enhanced/person/"

var nonDigits = regexp.MustCompile(`\D`)

// PetPointLink builds the PetPoint person URL from an id such as "P0012345".
// Ids without digits have no link.
func PetPointLink(id string) string {
	digits := strings.TrimLeft(nonDigits.ReplaceAllString(id, ""), "0")
	if digits == "" {
		return ""
	}
	return petPointBase + digits
}

func personID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseYear(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 1 {
		return 0
	}
	return int(f)
}
