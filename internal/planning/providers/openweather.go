package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/i474232898/urbo/internal/planning"
)

const DefaultAirPollutionURL = "https://api.openweathermap.org/data/2.5/air_pollution"

// OpenWeatherAirQuality implements planning.AirQualityProvider for the
// OpenWeatherMap air pollution API.
type OpenWeatherAirQuality struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenWeatherAirQuality(client *http.Client, apiKey, baseURL string) *OpenWeatherAirQuality {
	if baseURL == "" {
		baseURL = DefaultAirPollutionURL
	}
	return &OpenWeatherAirQuality{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (p *OpenWeatherAirQuality) Name() string {
	return p.name
}

func (p *OpenWeatherAirQuality) AirPollution(ctx context.Context, lat, lon float64) (planning.AirPollutionResult, error) {
	if p.apiKey == "" {
		return planning.AirPollutionResult{}, &planning.NotConfiguredError{Detail: "OpenWeather API key not found"}
	}

	const detail = "Error in fetching air polluting data"
	values := url.Values{}
	values.Set("lat", formatFloat(lat))
	values.Set("lon", formatFloat(lon))
	values.Set("appid", p.apiKey)

	resp, err := doRequest(ctx, p.client, getRequest(p.baseURL, values, nil))
	if err != nil {
		return planning.AirPollutionResult{}, planning.NewTransportError(p.name, detail, err)
	}
	if !resp.ok() {
		return planning.AirPollutionResult{}, planning.NewUpstreamError(p.name, resp.StatusCode, detail)
	}

	var payload struct {
		Coord struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"coord"`
		List json.RawMessage `json:"list"`
	}
	if err := decodeJSON(p.name, detail, resp.Body, &payload); err != nil {
		return planning.AirPollutionResult{}, err
	}

	snapshots := payload.List
	if len(snapshots) == 0 || string(snapshots) == "null" {
		snapshots = json.RawMessage(`[]`)
	}
	return planning.AirPollutionResult{
		Center:    planning.Point{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		Snapshots: snapshots,
	}, nil
}
