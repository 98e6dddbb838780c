package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBands_For(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{count: -3, expected: "0"},
		{count: 0, expected: "0"},
		{count: 1, expected: "1-5"},
		{count: 5, expected: "1-5"},
		{count: 6, expected: "6-20"},
		{count: 7, expected: "6-20"},
		{count: 20, expected: "6-20"},
		{count: 21, expected: "21-50"},
		{count: 50, expected: "21-50"},
		{count: 51, expected: "51-100"},
		{count: 55, expected: "51-100"},
		{count: 100, expected: "51-100"},
		{count: 101, expected: ">100"},
		{count: 5000, expected: ">100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultBands.For(tt.count).Label, "count %d", tt.count)
	}
}

func TestBands_ForColors(t *testing.T) {
	zero := DefaultBands.For(0)
	assert.Equal(t, "#ffffff", zero.Color)
	assert.Zero(t, zero.FillOpacity)

	assert.Equal(t, "#ffeda0", DefaultBands.For(7).Color)
	assert.Equal(t, "#e31a1c", DefaultBands.For(55).Color)
}

func TestBands_Monotonic(t *testing.T) {
	prev := DefaultBands.For(0)
	for c := 1; c <= 250; c++ {
		cur := DefaultBands.For(c)
		require.GreaterOrEqual(t, cur.Level, prev.Level, "count %d", c)
		require.GreaterOrEqual(t, cur.Radius, prev.Radius, "count %d", c)
		prev = cur
	}
}

func TestBands_Validate(t *testing.T) {
	assert.NoError(t, DefaultBands.Validate())
	assert.ErrorIs(t, Bands{}.Validate(), ErrInvalidBands)
	assert.ErrorIs(t, Bands{{Min: 1}}.Validate(), ErrInvalidBands)
	assert.ErrorIs(t, Bands{{Min: 0}, {Min: 5}, {Min: 5}}.Validate(), ErrInvalidBands)
}

func TestParseBands(t *testing.T) {
	data := []byte(`
bands:
  - {min: 0, label: none, color: "#ffffff"}
  - {min: 1, label: some, color: yellow, fill_opacity: 0.7, radius: 2000}
  - {min: 6, label: more, color: orange, fill_opacity: 0.7, radius: 2500}
  - {min: 11, label: most, color: red, fill_opacity: 0.7, radius: 3000}
`)
	bands, err := ParseBands(data)
	require.NoError(t, err)
	require.Len(t, bands, 4)

	assert.Equal(t, "orange", bands.For(10).Color)
	assert.Equal(t, "red", bands.For(11).Color)
	assert.Equal(t, 3, bands.For(11).Level)

	_, err = ParseBands([]byte("bands:\n  - {min: 3, color: red}\n"))
	assert.ErrorIs(t, err, ErrInvalidBands)
}

func TestLoadBands(t *testing.T) {
	bands, err := LoadBands("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBands, bands)

	path := filepath.Join(t.TempDir(), "bands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bands:\n  - {min: 0, color: white}\n  - {min: 1, color: red}\n"), 0o644))
	bands, err = LoadBands(path)
	require.NoError(t, err)
	assert.Equal(t, "red", bands.For(1).Color)

	_, err = LoadBands(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
