package planning

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// AggregateRequest is the input of the aggregate lookup. Zero values of the
// optional fields fall back to the package defaults.
type AggregateRequest struct {
	Address  string
	Keywords []string
	Region   string
	Radius   int
	Zoom     int
	Size     string
}

// AggregateResult merges every lookup for an address into one payload.
type AggregateResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	NearbyPlaces               NearbyPlacesRecord `json:"nearby_places"`
	NearbyPlacesCount          int                `json:"nearby_places_count"`
	NearbyPlacesRecommendation string             `json:"nearby_places_recommendation,omitempty"`

	AirQualityIndex          int                      `json:"air_quality_index"`
	AirQualityRecommendation AQILevel                 `json:"air_quality_recommendation"`
	AirPollutionParams       json.RawMessage          `json:"air_pollution_params"`
	PollutantCatalog         map[string]PollutantInfo `json:"pollutant_catalog"`

	StillMapImage string `json:"still_map_image"`
}

// Aggregate resolves location, places, air quality and map image in that
// order, reusing persisted records on exact matches. The first failing step
// aborts the whole request; records written by earlier steps stay.
func (s *Service) Aggregate(ctx context.Context, req AggregateRequest) (AggregateResult, error) {
	logger := s.logger.With(slog.String("address", req.Address))

	geo, err := cacheOrFetch(ctx, logger, "geocode",
		func() (GeocodeRecord, error) { return s.store.FindGeocodeByAddress(ctx, req.Address) },
		func() (GeocodeRecord, error) { return s.Geocode(ctx, req.Address) },
	)
	if err != nil {
		return AggregateResult{}, err
	}
	loc := geo.Location()

	q := NearbyPlacesQuery{
		Keywords:    req.Keywords,
		RefLocation: loc,
		Radius:      req.Radius,
		Region:      req.Region,
	}.withDefaults()
	places, err := cacheOrFetch(ctx, logger, "nearby_places",
		func() (NearbyPlacesRecord, error) { return s.store.FindNearbyPlaces(ctx, q) },
		func() (NearbyPlacesRecord, error) { return s.NearbyPlaces(ctx, q) },
	)
	if err != nil {
		return AggregateResult{}, err
	}

	air, err := cacheOrFetch(ctx, logger, "air_quality",
		func() (AirQualityRecord, error) { return s.store.FindAirQuality(ctx, loc) },
		func() (AirQualityRecord, error) { return s.AirQuality(ctx, loc.Lat, loc.Lon) },
	)
	if err != nil {
		return AggregateResult{}, err
	}
	current, ok, err := air.Current()
	if err != nil {
		return AggregateResult{}, fmt.Errorf("air quality record %s: %w", air.ID, err)
	}
	if !ok {
		return AggregateResult{}, &NotFoundError{Detail: airQualityNotFound}
	}

	stillMap, err := cacheOrFetch(ctx, logger, "static_map",
		func() (StaticMapRecord, error) { return s.store.FindStaticMap(ctx, loc) },
		func() (StaticMapRecord, error) { return s.StaticMap(ctx, loc.Lat, loc.Lon, req.Zoom, req.Size) },
	)
	if err != nil {
		return AggregateResult{}, err
	}

	count := places.PlaceCount()
	return AggregateResult{
		Address:                    geo.Address,
		Latitude:                   geo.Latitude,
		Longitude:                  geo.Longitude,
		NearbyPlaces:               places,
		NearbyPlacesCount:          count,
		NearbyPlacesRecommendation: RecommendNearbyPlaces(places.Keywords, count, q.Radius),
		AirQualityIndex:            current.Main.AQI,
		AirQualityRecommendation:   RecommendAQI(current.Main.AQI),
		AirPollutionParams:         current.Components,
		PollutantCatalog:           PollutantCatalog,
		StillMapImage:              PNGDataURI(stillMap.Image),
	}, nil
}

// PNGDataURI embeds image bytes in a data URI.
func PNGDataURI(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}

func cacheOrFetch[T any](
	ctx context.Context,
	logger *slog.Logger,
	step string,
	find func() (T, error),
	fetch func() (T, error),
) (T, error) {
	rec, err := find()
	if err == nil {
		logger.DebugContext(ctx, "aggregate step served from store", slog.String("step", step))
		return rec, nil
	}
	if !errors.Is(err, ErrNoRecord) {
		var zero T
		return zero, fmt.Errorf("%s lookup: %w", step, err)
	}

	logger.DebugContext(ctx, "aggregate step fetching from provider", slog.String("step", step))
	return fetch()
}
