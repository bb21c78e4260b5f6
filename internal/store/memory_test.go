package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/urbo/internal/planning"
)

func TestMemoryStoreGeocodeFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.SaveGeocode(ctx, planning.GeocodeRecord{Address: "Pune", Latitude: 18.52, Longitude: 73.85})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	// Duplicates are allowed; lookups keep returning the oldest row.
	_, err = s.SaveGeocode(ctx, planning.GeocodeRecord{Address: "Pune", Latitude: 1, Longitude: 2})
	require.NoError(t, err)

	got, err := s.FindGeocodeByAddress(ctx, "Pune")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	geocodes, _, _, _ := s.Counts()
	assert.Equal(t, 2, geocodes)
}

func TestMemoryStoreGeocodeMissIsExact(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.SaveGeocode(ctx, planning.GeocodeRecord{Address: "Pune"})
	require.NoError(t, err)

	_, err = s.FindGeocodeByAddress(ctx, "pune")
	assert.ErrorIs(t, err, planning.ErrNoRecord)
}

func TestMemoryStoreNearbyPlacesMatchesEveryField(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := planning.NearbyPlacesRecord{
		Keywords:    []string{"school", "park"},
		RefLocation: planning.Point{Lat: 18.52, Lon: 73.85},
		Radius:      1000,
		Region:      "IND",
		Raw:         json.RawMessage(`{"suggestedLocations":[]}`),
	}
	saved, err := s.SaveNearbyPlaces(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"school", "park"}, saved.Keywords)

	q := planning.NearbyPlacesQuery{
		Keywords:    []string{"school", "park"},
		RefLocation: planning.Point{Lat: 18.52, Lon: 73.85},
		Radius:      1000,
		Region:      "IND",
	}
	got, err := s.FindNearbyPlaces(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	misses := []planning.NearbyPlacesQuery{
		{Keywords: []string{"park", "school"}, RefLocation: q.RefLocation, Radius: 1000, Region: "IND"},
		{Keywords: q.Keywords, RefLocation: planning.Point{Lat: 18.520001, Lon: 73.85}, Radius: 1000, Region: "IND"},
		{Keywords: q.Keywords, RefLocation: q.RefLocation, Radius: 500, Region: "IND"},
		{Keywords: q.Keywords, RefLocation: q.RefLocation, Radius: 1000, Region: "USA"},
	}
	for _, miss := range misses {
		_, err := s.FindNearbyPlaces(ctx, miss)
		assert.ErrorIs(t, err, planning.ErrNoRecord, "query %+v", miss)
	}
}

func TestMemoryStoreAirQualityAndStaticMap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	center := planning.Point{Lat: 37.7749, Lon: -122.4194}

	list := []byte(`[{"main":{"aqi":2}}]`)
	_, err := s.SaveAirQuality(ctx, planning.AirQualityRecord{
		Center:         center,
		ReportedCenter: planning.Point{Lat: 37.77, Lon: -122.42},
		Snapshots:      list,
	})
	require.NoError(t, err)
	list[0] = 'x'

	air, err := s.FindAirQuality(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, planning.Point{Lat: 37.77, Lon: -122.42}, air.ReportedCenter)
	snap, ok, err := air.Current()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, snap.Main.AQI)

	img := []byte{0x89, 'P', 'N', 'G'}
	_, err = s.SaveStaticMap(ctx, planning.StaticMapRecord{Center: center, Zoom: 12, Size: "1000x1000", Image: img})
	require.NoError(t, err)
	img[0] = 0

	m, err := s.FindStaticMap(ctx, center)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, m.Image)

	_, err = s.FindStaticMap(ctx, planning.Point{Lat: 1, Lon: 1})
	assert.ErrorIs(t, err, planning.ErrNoRecord)
	_, err = s.FindAirQuality(ctx, planning.Point{Lat: 1, Lon: 1})
	assert.ErrorIs(t, err, planning.ErrNoRecord)
}
