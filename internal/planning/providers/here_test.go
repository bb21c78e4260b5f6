package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/urbo/internal/planning"
)

func TestHereGeocodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "San Francisco, CA", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(`{"items":[{"position":{"lat":37.7749,"lng":-122.4194}}]}`))
	}))
	defer srv.Close()

	p := NewHereGeocoder(srv.Client(), "secret", srv.URL, srv.URL)
	res, err := p.Geocode(context.Background(), "San Francisco, CA")
	require.NoError(t, err)
	assert.Equal(t, "San Francisco, CA", res.Address)
	assert.Equal(t, 37.7749, res.Latitude)
	assert.Equal(t, -122.4194, res.Longitude)
	assert.JSONEq(t, `{"items":[{"position":{"lat":37.7749,"lng":-122.4194}}]}`, string(res.Raw))
}

func TestHereGeocodeEmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	p := NewHereGeocoder(srv.Client(), "secret", srv.URL, srv.URL)
	_, err := p.Geocode(context.Background(), "nowhere")

	var nf *planning.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Address not found", nf.Detail)
}

func TestHereGeocodeForwardsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHereGeocoder(srv.Client(), "secret", srv.URL, srv.URL)
	_, err := p.Geocode(context.Background(), "San Francisco, CA")

	var ue *planning.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Equal(t, http.StatusServiceUnavailable, ue.UpstreamStatus)
	assert.Equal(t, "Error fetching geocode", ue.Detail)
}

func TestHereGeocodeWithoutKey(t *testing.T) {
	p := NewHereGeocoder(http.DefaultClient, "", "", "")
	_, err := p.Geocode(context.Background(), "x")
	assert.ErrorIs(t, err, planning.ErrProviderNotConfigured)
}

func TestHereReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "37.7749,-122.4194", r.URL.Query().Get("at"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"items":[{"address":{"label":"Market St, San Francisco"}}]}`))
	}))
	defer srv.Close()

	p := NewHereGeocoder(srv.Client(), "secret", srv.URL, srv.URL)
	res, err := p.ReverseGeocode(context.Background(), 37.7749, -122.4194)
	require.NoError(t, err)
	assert.Equal(t, "Market St, San Francisco", res.Address)
	assert.Equal(t, 37.7749, res.Latitude)
	assert.Equal(t, -122.4194, res.Longitude)
}

func TestHereReverseGeocodeEmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewHereGeocoder(srv.Client(), "secret", srv.URL, srv.URL)
	_, err := p.ReverseGeocode(context.Background(), 0, 0)

	var nf *planning.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Location not found", nf.Detail)
}
