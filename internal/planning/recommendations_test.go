package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendAQI(t *testing.T) {
	tests := []struct {
		aqi   int
		level string
	}{
		{1, "Good"},
		{2, "Fair"},
		{3, "Moderate"},
		{4, "Poor"},
		{5, "Very Poor"},
	}
	for _, tt := range tests {
		got := RecommendAQI(tt.aqi)
		assert.Equal(t, tt.aqi, got.AQI)
		assert.Equal(t, tt.level, got.Level)
		assert.NotEmpty(t, got.Action)
	}

	assert.Equal(t, "No action needed. Enjoy outdoor activities!", RecommendAQI(1).Action)
}

func TestRecommendAQIOutOfRange(t *testing.T) {
	for _, aqi := range []int{0, 6, -1} {
		got := RecommendAQI(aqi)
		assert.Equal(t, InvalidAQILevel, got.Level, "aqi %d", aqi)
		assert.Empty(t, got.Action)
	}
}

func TestPollutantCatalogCoversComponents(t *testing.T) {
	for _, code := range []string{"co", "no", "no2", "o3", "so2", "pm2_5", "pm10", "nh3"} {
		info, ok := PollutantCatalog[code]
		assert.True(t, ok, "missing %s", code)
		assert.NotEmpty(t, info.Name)
	}
}

func TestRecommendNearbyPlaces(t *testing.T) {
	kw := []string{"school", "park"}
	tests := []struct {
		name   string
		count  int
		radius int
		want   string
	}{
		{"sparse wide radius", 2, 2000, "There are very less school, park in the radius of 2000 meters."},
		{"sparse at radius boundary", 4, 1000, "There are very less school, park in the radius of 1000 meters."},
		{"dense narrow radius", 8, 500, "There are good enough school, park within 500 meters."},
		{"dense at radius boundary", 6, 1000, "There are good enough school, park within 1000 meters."},
		{"count boundary wide", 5, 2000, ""},
		{"count boundary at radius boundary", 5, 1000, ""},
		{"count boundary narrow", 5, 500, ""},
		{"sparse narrow radius", 2, 500, ""},
		{"dense wide radius", 8, 2000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendNearbyPlaces(kw, tt.count, tt.radius))
		})
	}
}

func TestPlaceCount(t *testing.T) {
	rec := NearbyPlacesRecord{Raw: []byte(`{"suggestedLocations":[{},{},{}]}`)}
	assert.Equal(t, 3, rec.PlaceCount())

	assert.Equal(t, 0, NearbyPlacesRecord{Raw: []byte(`{}`)}.PlaceCount())
	assert.Equal(t, 0, NearbyPlacesRecord{}.PlaceCount())
}

func TestPointWKT(t *testing.T) {
	assert.Equal(t, "POINT(-122.4194 37.7749)", Point{Lat: 37.7749, Lon: -122.4194}.WKT())
}
