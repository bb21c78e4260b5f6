package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/urbo/internal/planning"
)

func tokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":86400}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenSourceCachesToken(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls)

	ts := NewTokenSource(srv.Client(), srv.URL, "id", "secret")
	for i := 0; i < 3; i++ {
		tok, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	}
	assert.Equal(t, int32(1), calls.Load())

	ts.Invalidate()
	_, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ts := NewTokenSource(srv.Client(), srv.URL, "id", "secret")
	_, err := ts.Token(context.Background())

	var authErr *planning.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestTokenSourceWithoutCredentials(t *testing.T) {
	ts := NewTokenSource(http.DefaultClient, "", "", "")
	_, err := ts.Token(context.Background())

	var authErr *planning.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestTokenTTL(t *testing.T) {
	assert.Equal(t, defaultTokenTTL, tokenTTL(0))
	assert.Equal(t, 90*time.Second, tokenTTL(90))
	assert.Equal(t, time.Hour-time.Minute, tokenTTL(3600))
}

func TestMapplsPlacesSearch(t *testing.T) {
	var tokenCalls atomic.Int32
	tokenSrv := tokenServer(t, &tokenCalls)
	tokens := NewTokenSource(tokenSrv.Client(), tokenSrv.URL, "id", "secret")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "school,park", q.Get("keywords"))
		assert.Equal(t, "18.52,73.85", q.Get("refLocation"))
		assert.Equal(t, "1000", q.Get("radius"))
		assert.Equal(t, "IND", q.Get("region"))
		_, _ = w.Write([]byte(`{"suggestedLocations":[{"placeName":"A"}]}`))
	}))
	defer srv.Close()

	p := NewMapplsPlaces(srv.Client(), tokens, srv.URL)
	raw, err := p.SearchNearby(context.Background(), planning.NearbyPlacesQuery{
		Keywords:    []string{"school", "park"},
		RefLocation: planning.Point{Lat: 18.52, Lon: 73.85},
		Radius:      1000,
		Region:      "IND",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"suggestedLocations":[{"placeName":"A"}]}`, string(raw))
}

type staticTokens struct {
	token       string
	err         error
	invalidated int
}

func (s *staticTokens) Token(context.Context) (string, error) { return s.token, s.err }
func (s *staticTokens) Invalidate()                           { s.invalidated++ }

func TestMapplsPlacesUpstreamFailureIsBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &staticTokens{token: "stale"}
	p := NewMapplsPlaces(srv.Client(), tokens, srv.URL)
	_, err := p.SearchNearby(context.Background(), planning.NearbyPlacesQuery{Keywords: []string{"x"}})

	var ue *planning.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.Equal(t, http.StatusUnauthorized, ue.UpstreamStatus)
	assert.Equal(t, "Failed to fetch places from Mapple API", ue.Detail)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestMapplsPlacesNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewMapplsPlaces(srv.Client(), &staticTokens{token: "tok"}, srv.URL)
	raw, err := p.SearchNearby(context.Background(), planning.NearbyPlacesQuery{Keywords: []string{"x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"suggestedLocations":[]}`, string(raw))
}

func TestMapplsStillMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/key123/still_image", r.URL.Path)
		assert.Equal(t, "37.7749,-122.4194", r.URL.Query().Get("center"))
		assert.Equal(t, "12", r.URL.Query().Get("zoom"))
		assert.Equal(t, "1000x1000", r.URL.Query().Get("size"))
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	p := NewMapplsStillMap(srv.Client(), "key123", srv.URL+"/maps/")
	img, err := p.StillImage(context.Background(), 37.7749, -122.4194, 12, "1000x1000")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), img)
}

func TestMapplsStillMapForwardsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewMapplsStillMap(srv.Client(), "key123", srv.URL+"/")
	_, err := p.StillImage(context.Background(), 1, 2, 12, "1000x1000")

	var ue *planning.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusForbidden, ue.Status)
	assert.Equal(t, "Error fetching image from Mapples", ue.Detail)
}
