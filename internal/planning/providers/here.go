package providers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/i474232898/urbo/internal/planning"
)

const (
	DefaultHereGeocodeURL = "https://geocode.search.hereapi.com/v1/geocode"
	DefaultHereReverseURL = "https://revgeocode.search.hereapi.com/v1/revgeocode"
)

// HereGeocoder implements planning.Geocoder for the HERE Geocoding & Search API.
type HereGeocoder struct {
	name       string
	apiKey     string
	geocodeURL string
	reverseURL string
	client     *http.Client
}

func NewHereGeocoder(client *http.Client, apiKey, geocodeURL, reverseURL string) *HereGeocoder {
	if geocodeURL == "" {
		geocodeURL = DefaultHereGeocodeURL
	}
	if reverseURL == "" {
		reverseURL = DefaultHereReverseURL
	}
	return &HereGeocoder{
		name:       "here",
		apiKey:     apiKey,
		geocodeURL: geocodeURL,
		reverseURL: reverseURL,
		client:     client,
	}
}

func (p *HereGeocoder) Name() string {
	return p.name
}

type herePayload struct {
	Items []struct {
		Address struct {
			Label string `json:"label"`
		} `json:"address"`
		Position struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"position"`
	} `json:"items"`
}

func (p *HereGeocoder) Geocode(ctx context.Context, address string) (planning.GeocodeResult, error) {
	if p.apiKey == "" {
		return planning.GeocodeResult{}, &planning.NotConfiguredError{Detail: "HERE API key not found"}
	}

	const detail = "Error fetching geocode"
	values := url.Values{}
	values.Set("q", address)
	values.Set("apiKey", p.apiKey)

	resp, err := doRequest(ctx, p.client, getRequest(p.geocodeURL, values, nil))
	if err != nil {
		return planning.GeocodeResult{}, planning.NewTransportError(p.name, detail, err)
	}
	if !resp.ok() {
		return planning.GeocodeResult{}, planning.NewUpstreamError(p.name, resp.StatusCode, detail)
	}

	var payload herePayload
	if err := decodeJSON(p.name, detail, resp.Body, &payload); err != nil {
		return planning.GeocodeResult{}, err
	}
	if len(payload.Items) == 0 {
		return planning.GeocodeResult{}, &planning.NotFoundError{Detail: "Address not found"}
	}

	item := payload.Items[0]
	return planning.GeocodeResult{
		Address:   address,
		Latitude:  item.Position.Lat,
		Longitude: item.Position.Lng,
		Raw:       resp.Body,
	}, nil
}

func (p *HereGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (planning.GeocodeResult, error) {
	if p.apiKey == "" {
		return planning.GeocodeResult{}, &planning.NotConfiguredError{Detail: "HERE API key not found"}
	}

	const detail = "Error fetching reverse geocode"
	values := url.Values{}
	values.Set("at", latLon(lat, lon))
	values.Set("limit", "1")
	values.Set("apiKey", p.apiKey)

	resp, err := doRequest(ctx, p.client, getRequest(p.reverseURL, values, nil))
	if err != nil {
		return planning.GeocodeResult{}, planning.NewTransportError(p.name, detail, err)
	}
	if !resp.ok() {
		return planning.GeocodeResult{}, planning.NewUpstreamError(p.name, resp.StatusCode, detail)
	}

	var payload herePayload
	if err := decodeJSON(p.name, detail, resp.Body, &payload); err != nil {
		return planning.GeocodeResult{}, err
	}
	if len(payload.Items) == 0 {
		return planning.GeocodeResult{}, &planning.NotFoundError{Detail: "Location not found"}
	}

	return planning.GeocodeResult{
		Address:   payload.Items[0].Address.Label,
		Latitude:  lat,
		Longitude: lon,
		Raw:       resp.Body,
	}, nil
}
