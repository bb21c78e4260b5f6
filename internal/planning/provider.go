package planning

import (
	"context"
	"encoding/json"
)

// GeocodeResult is a provider's answer to a forward or reverse lookup.
type GeocodeResult struct {
	Address   string
	Latitude  float64
	Longitude float64
	Raw       json.RawMessage
}

// AirPollutionResult is a provider's air-quality answer for a coordinate.
type AirPollutionResult struct {
	Center    Point
	Snapshots json.RawMessage
}

// Geocoder resolves addresses to coordinates and back (e.g. HERE, Google).
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodeResult, error)
}

// PlacesSearcher finds places around a reference location.
type PlacesSearcher interface {
	Name() string
	SearchNearby(ctx context.Context, q NearbyPlacesQuery) (json.RawMessage, error)
}

// AirQualityProvider reports pollutant snapshots for a coordinate.
type AirQualityProvider interface {
	Name() string
	AirPollution(ctx context.Context, lat, lon float64) (AirPollutionResult, error)
}

// StaticMapProvider renders a still map image centered on a coordinate.
type StaticMapProvider interface {
	Name() string
	StillImage(ctx context.Context, lat, lon float64, zoom int, size string) ([]byte, error)
}

// Store is the contract both the memory store and the Postgres store satisfy.
// Save methods assign ID and CreatedAt when unset. Find methods return the
// oldest exact match or ErrNoRecord.
type Store interface {
	SaveGeocode(ctx context.Context, rec GeocodeRecord) (GeocodeRecord, error)
	FindGeocodeByAddress(ctx context.Context, address string) (GeocodeRecord, error)

	SaveNearbyPlaces(ctx context.Context, rec NearbyPlacesRecord) (NearbyPlacesRecord, error)
	FindNearbyPlaces(ctx context.Context, q NearbyPlacesQuery) (NearbyPlacesRecord, error)

	SaveAirQuality(ctx context.Context, rec AirQualityRecord) (AirQualityRecord, error)
	FindAirQuality(ctx context.Context, center Point) (AirQualityRecord, error)

	SaveStaticMap(ctx context.Context, rec StaticMapRecord) (StaticMapRecord, error)
	FindStaticMap(ctx context.Context, center Point) (StaticMapRecord, error)
}
