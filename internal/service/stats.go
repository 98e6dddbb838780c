package service

import (
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stat is one figure in a dashboard's statistics panel.
type Stat struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   int    `json:"value"`
	Display string `json:"display"`
}

var printer = message.NewPrinter(language.English)

func newStat(key, label string, value int) Stat {
	return Stat{Key: key, Label: label, Value: value, Display: printer.Sprintf("%d", value)}
}

// distinctSorted returns the non-empty values of in, deduplicated and sorted.
func distinctSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0)
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
