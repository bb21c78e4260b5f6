package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/urbo/internal/common"
	"github.com/i474232898/urbo/internal/planning"
)

const (
	DefaultMapplsNearbyURL   = "https://atlas.mappls.com/api/places/nearby/json"
	DefaultMapplsStillMapURL = "https://apis.mappls.com/advancedmaps/v1/"
)

// BearerSource supplies credentials for the places API.
type BearerSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// MapplsPlaces implements planning.PlacesSearcher for the Mappls nearby API.
type MapplsPlaces struct {
	name    string
	baseURL string
	tokens  BearerSource
	client  *http.Client
}

func NewMapplsPlaces(client *http.Client, tokens BearerSource, baseURL string) *MapplsPlaces {
	if baseURL == "" {
		baseURL = DefaultMapplsNearbyURL
	}
	return &MapplsPlaces{
		name:    "mappls-places",
		baseURL: baseURL,
		tokens:  tokens,
		client:  client,
	}
}

func (p *MapplsPlaces) Name() string {
	return p.name
}

func (p *MapplsPlaces) SearchNearby(ctx context.Context, q planning.NearbyPlacesQuery) (json.RawMessage, error) {
	const detail = "Failed to fetch places from Mapple API"

	token, err := p.tokens.Token(ctx)
	if err != nil {
		var authErr *planning.AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		return nil, &planning.AuthError{Err: err}
	}

	values := url.Values{}
	values.Set("keywords", common.JoinKeywords(q.Keywords))
	values.Set("refLocation", latLon(q.RefLocation.Lat, q.RefLocation.Lon))
	values.Set("radius", strconv.Itoa(q.Radius))
	values.Set("region", q.Region)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	resp, err := doRequest(ctx, p.client, getRequest(p.baseURL, values, header))
	if err != nil {
		return nil, planning.NewTransportError(p.name, detail, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		p.tokens.Invalidate()
	}
	if !resp.ok() {
		return nil, &planning.UpstreamError{
			Provider:       p.name,
			UpstreamStatus: resp.StatusCode,
			Status:         http.StatusBadRequest,
			Detail:         detail,
		}
	}
	// The nearby API answers 204 when nothing matches.
	if len(resp.Body) == 0 {
		return json.RawMessage(`{"suggestedLocations":[]}`), nil
	}
	if !json.Valid(resp.Body) {
		return nil, planning.NewTransportError(p.name, detail, errors.New("invalid JSON payload"))
	}
	return resp.Body, nil
}

// MapplsStillMap implements planning.StaticMapProvider for the Mappls still image API.
type MapplsStillMap struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewMapplsStillMap(client *http.Client, apiKey, baseURL string) *MapplsStillMap {
	if baseURL == "" {
		baseURL = DefaultMapplsStillMapURL
	}
	return &MapplsStillMap{
		name:    "mappls-stillmap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (p *MapplsStillMap) Name() string {
	return p.name
}

func (p *MapplsStillMap) StillImage(ctx context.Context, lat, lon float64, zoom int, size string) ([]byte, error) {
	if p.apiKey == "" {
		return nil, &planning.NotConfiguredError{Detail: "Mappls static map API key not found"}
	}

	const detail = "Error fetching image from Mapples"
	values := url.Values{}
	values.Set("center", latLon(lat, lon))
	values.Set("zoom", strconv.Itoa(zoom))
	values.Set("size", size)

	u := p.baseURL + url.PathEscape(p.apiKey) + "/still_image"
	resp, err := doRequest(ctx, p.client, getRequest(u, values, nil))
	if err != nil {
		return nil, planning.NewTransportError(p.name, detail, err)
	}
	if !resp.ok() {
		return nil, planning.NewUpstreamError(p.name, resp.StatusCode, detail)
	}
	return resp.Body, nil
}
