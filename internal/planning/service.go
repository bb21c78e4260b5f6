package planning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	DefaultRadius = 1000
	DefaultRegion = "IND"
	DefaultZoom   = 12
	DefaultSize   = "1000x1000"
)

const (
	airQualityDetail   = "Error in fetching air polluting data"
	airQualityNotFound = "Air pollution data not found"
)

// Providers bundles the upstream clients a Service resolves against.
type Providers struct {
	Geocoder   Geocoder
	Places     PlacesSearcher
	AirQuality AirQualityProvider
	StaticMap  StaticMapProvider
}

// Service resolves lookups against the providers and persists every
// successful answer. It holds no request state and is safe for concurrent use.
type Service struct {
	store     Store
	providers Providers
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, providers Providers) *Service {
	return &Service{
		store:     store,
		providers: providers,
		logger:    slog.Default().With(slog.String("component", "planning")),
	}
}

// Geocode resolves an address and persists the result unconditionally.
func (s *Service) Geocode(ctx context.Context, address string) (GeocodeRecord, error) {
	if s.providers.Geocoder == nil {
		return GeocodeRecord{}, &NotConfiguredError{Detail: "geocode provider not configured"}
	}
	res, err := s.providers.Geocoder.Geocode(ctx, address)
	if err != nil {
		s.logUpstreamFailure(s.providers.Geocoder.Name(), err)
		return GeocodeRecord{}, err
	}

	rec, err := s.store.SaveGeocode(ctx, GeocodeRecord{
		Address:   address,
		Latitude:  res.Latitude,
		Longitude: res.Longitude,
		Raw:       res.Raw,
	})
	if err != nil {
		return GeocodeRecord{}, fmt.Errorf("save geocode: %w", err)
	}
	return rec, nil
}

// ReverseGeocode resolves a coordinate to an address and persists the result.
// The stored coordinate is the requested one, not the provider's.
func (s *Service) ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodeRecord, error) {
	if s.providers.Geocoder == nil {
		return GeocodeRecord{}, &NotConfiguredError{Detail: "geocode provider not configured"}
	}
	res, err := s.providers.Geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		s.logUpstreamFailure(s.providers.Geocoder.Name(), err)
		return GeocodeRecord{}, err
	}

	rec, err := s.store.SaveGeocode(ctx, GeocodeRecord{
		Address:   res.Address,
		Latitude:  lat,
		Longitude: lon,
		Raw:       res.Raw,
	})
	if err != nil {
		return GeocodeRecord{}, fmt.Errorf("save reverse geocode: %w", err)
	}
	return rec, nil
}

// NearbyPlaces searches around q.RefLocation and persists the result.
// Zero radius and empty region fall back to the defaults.
func (s *Service) NearbyPlaces(ctx context.Context, q NearbyPlacesQuery) (NearbyPlacesRecord, error) {
	if s.providers.Places == nil {
		return NearbyPlacesRecord{}, &NotConfiguredError{Detail: "places provider not configured"}
	}
	q = q.withDefaults()

	raw, err := s.providers.Places.SearchNearby(ctx, q)
	if err != nil {
		s.logUpstreamFailure(s.providers.Places.Name(), err)
		return NearbyPlacesRecord{}, err
	}

	rec, err := s.store.SaveNearbyPlaces(ctx, NearbyPlacesRecord{
		Keywords:    q.Keywords,
		RefLocation: q.RefLocation,
		Radius:      q.Radius,
		Region:      q.Region,
		Raw:         raw,
	})
	if err != nil {
		return NearbyPlacesRecord{}, fmt.Errorf("save nearby places: %w", err)
	}
	return rec, nil
}

// AirQuality fetches pollutant snapshots for a coordinate and persists them.
// The record is keyed on the requested coordinate so exact-match lookups
// find it again even when the provider echoes a rounded one. An empty list
// is reported as not found and is not persisted.
func (s *Service) AirQuality(ctx context.Context, lat, lon float64) (AirQualityRecord, error) {
	if s.providers.AirQuality == nil {
		return AirQualityRecord{}, &NotConfiguredError{Detail: "air quality provider not configured"}
	}
	res, err := s.providers.AirQuality.AirPollution(ctx, lat, lon)
	if err != nil {
		s.logUpstreamFailure(s.providers.AirQuality.Name(), err)
		return AirQualityRecord{}, err
	}
	if res.Center != (Point{Lat: lat, Lon: lon}) {
		s.logger.Debug("provider moved air quality center",
			slog.Any("requested", Point{Lat: lat, Lon: lon}), slog.Any("reported", res.Center))
	}

	rec := AirQualityRecord{
		Center:         Point{Lat: lat, Lon: lon},
		ReportedCenter: res.Center,
		Snapshots:      res.Snapshots,
	}
	_, ok, err := rec.Current()
	if err != nil {
		return AirQualityRecord{}, NewTransportError(s.providers.AirQuality.Name(), airQualityDetail, err)
	}
	if !ok {
		return AirQualityRecord{}, &NotFoundError{Detail: airQualityNotFound}
	}

	rec, err = s.store.SaveAirQuality(ctx, rec)
	if err != nil {
		return AirQualityRecord{}, fmt.Errorf("save air quality: %w", err)
	}
	return rec, nil
}

// StaticMap fetches a still map image and persists the bytes.
// Zero zoom and empty size fall back to the defaults.
func (s *Service) StaticMap(ctx context.Context, lat, lon float64, zoom int, size string) (StaticMapRecord, error) {
	if s.providers.StaticMap == nil {
		return StaticMapRecord{}, &NotConfiguredError{Detail: "static map provider not configured"}
	}
	if zoom == 0 {
		zoom = DefaultZoom
	}
	if size == "" {
		size = DefaultSize
	}

	img, err := s.providers.StaticMap.StillImage(ctx, lat, lon, zoom, size)
	if err != nil {
		s.logUpstreamFailure(s.providers.StaticMap.Name(), err)
		return StaticMapRecord{}, err
	}

	rec, err := s.store.SaveStaticMap(ctx, StaticMapRecord{
		Center: Point{Lat: lat, Lon: lon},
		Zoom:   zoom,
		Size:   size,
		Image:  img,
	})
	if err != nil {
		return StaticMapRecord{}, fmt.Errorf("save static map: %w", err)
	}
	return rec, nil
}

func (q NearbyPlacesQuery) withDefaults() NearbyPlacesQuery {
	if q.Radius == 0 {
		q.Radius = DefaultRadius
	}
	if q.Region == "" {
		q.Region = DefaultRegion
	}
	return q
}

func (s *Service) logUpstreamFailure(provider string, err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		s.logger.Info("provider returned no result", slog.String("provider", provider), slog.String("detail", nf.Detail))
		return
	}
	s.logger.Warn("provider call failed", slog.String("provider", provider), slog.Any("error", err))
}
