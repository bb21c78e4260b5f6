package providers

import (
	"context"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/urbo/internal/common"
	"github.com/i474232898/urbo/internal/planning"
)

// geocoder keeps its key in a package variable; calls are serialized so a
// key swap can't interleave with a request.
var googleMu sync.Mutex

// GoogleGeocoder implements planning.Geocoder on the Google Geocoding API
// through github.com/kelvins/geocoder. The library has no context support,
// so cancellation only takes effect between calls.
type GoogleGeocoder struct {
	name   string
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:   "google",
		apiKey: apiKey,
	}
}

func (p *GoogleGeocoder) Name() string {
	return p.name
}

func (p *GoogleGeocoder) Geocode(ctx context.Context, address string) (planning.GeocodeResult, error) {
	if p.apiKey == "" {
		return planning.GeocodeResult{}, &planning.NotConfiguredError{Detail: "Google geocoder API key not found"}
	}
	if err := ctx.Err(); err != nil {
		return planning.GeocodeResult{}, err
	}

	googleMu.Lock()
	geocoder.ApiKey = p.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{Street: address})
	googleMu.Unlock()
	if err != nil {
		return planning.GeocodeResult{}, p.classify(err, "Error fetching geocode", "Address not found")
	}

	raw, err := encodeJSON(p.name, "Error fetching geocode", loc)
	if err != nil {
		return planning.GeocodeResult{}, err
	}
	return planning.GeocodeResult{
		Address:   address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Raw:       raw,
	}, nil
}

func (p *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (planning.GeocodeResult, error) {
	if p.apiKey == "" {
		return planning.GeocodeResult{}, &planning.NotConfiguredError{Detail: "Google geocoder API key not found"}
	}
	if err := ctx.Err(); err != nil {
		return planning.GeocodeResult{}, err
	}

	googleMu.Lock()
	geocoder.ApiKey = p.apiKey
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	googleMu.Unlock()
	if err != nil {
		return planning.GeocodeResult{}, p.classify(err, "Error fetching reverse geocode", "Location not found")
	}
	if len(addresses) == 0 {
		return planning.GeocodeResult{}, &planning.NotFoundError{Detail: "Location not found"}
	}

	addr := addresses[0]
	raw, err := encodeJSON(p.name, "Error fetching reverse geocode", addresses)
	if err != nil {
		return planning.GeocodeResult{}, err
	}
	return planning.GeocodeResult{
		Address:   addr.FormatAddress(),
		Latitude:  lat,
		Longitude: lon,
		Raw:       raw,
	}, nil
}

// classify maps the library's status errors onto the planning taxonomy.
func (p *GoogleGeocoder) classify(err error, detail, notFound string) error {
	if common.HasAny(err.Error(), "ZERO_RESULTS", "NOT_FOUND", "No results found") {
		return &planning.NotFoundError{Detail: notFound}
	}
	return planning.NewTransportError(p.name, detail, err)
}
