// Package zipcode normalizes free-form postal code values to canonical
// 5-digit ZIP strings so both sides of a ZIP join compare equal.
package zipcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Missing is returned for values that are not usable ZIP codes.
const Missing = ""

var (
	zipPlusFour = regexp.MustCompile(`^(\d{5})-\d{4}$`)
	// Up to five digits, optionally with a zero fraction as spreadsheets write them.
	numericZip = regexp.MustCompile(`^(\d{1,5})(?:\.0+)?$`)
)

// Normalize converts raw to a zero-padded 5-digit ZIP or Missing.
//
// Spreadsheet exports often carry ZIPs as floats ("14201.0") or with the
// leading zero dropped ("1420"), so numeric renderings are accepted and
// re-padded. ZIP+4 values keep their 5-digit prefix. Signs, exponents and
// non-zero fractions are Missing.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}
	if m := zipPlusFour.FindStringSubmatch(s); m != nil {
		return validate(m[1])
	}

	m := numericZip.FindStringSubmatch(s)
	if m == nil {
		return Missing
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return Missing
	}
	return fmt.Sprintf("%05d", n)
}

// IsMissing reports whether zip is the Missing sentinel.
func IsMissing(zip string) bool {
	return zip == Missing
}

func validate(zip string) string {
	if zip == "00000" {
		return Missing
	}
	return zip
}

// FromProperty normalizes a GeoJSON property value, which may be decoded as
// a string or a number depending on how the boundary file was written.
func FromProperty(v any) string {
	switch t := v.(type) {
	case string:
		return Normalize(t)
	case float64:
		return Normalize(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return Normalize(strconv.Itoa(t))
	case int64:
		return Normalize(strconv.FormatInt(t, 10))
	default:
		return Missing
	}
}
