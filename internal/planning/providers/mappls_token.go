package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/i474232898/urbo/internal/planning"
)

const (
	DefaultMapplsTokenURL = "https://outpost.mappls.com/api/security/oauth/token"

	// defaultTokenTTL applies when the token response carries no expires_in.
	defaultTokenTTL = 10 * time.Minute
	// tokenExpiryMargin is shaved off expires_in so a cached token is never
	// presented right as it lapses.
	tokenExpiryMargin = time.Minute
)

const bearerKey = "bearer"

// TokenSource exchanges client credentials for a Mappls bearer token and
// keeps it until shortly before it expires.
type TokenSource struct {
	name         string
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
	cache        *ttlcache.Cache[string, string]
}

func NewTokenSource(client *http.Client, tokenURL, clientID, clientSecret string) *TokenSource {
	if tokenURL == "" {
		tokenURL = DefaultMapplsTokenURL
	}
	return &TokenSource{
		name:         "mappls-token",
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       client,
		cache: ttlcache.New[string, string](
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Token returns a cached bearer token or performs a client_credentials exchange.
// Failures are reported as *planning.AuthError.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	if item := t.cache.Get(bearerKey); item != nil && !item.IsExpired() {
		return item.Value(), nil
	}
	if t.clientID == "" || t.clientSecret == "" {
		return "", &planning.AuthError{Err: errors.New("client credentials not configured")}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)

	resp, err := doRequest(ctx, t.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", &planning.AuthError{Err: err}
	}
	if !resp.ok() {
		return "", &planning.AuthError{Err: fmt.Errorf("token endpoint returned status %d", resp.StatusCode)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := decodeJSON(t.name, "Token not found", resp.Body, &payload); err != nil {
		return "", &planning.AuthError{Err: err}
	}
	if payload.AccessToken == "" {
		return "", &planning.AuthError{Err: errors.New("token response has no access_token")}
	}

	t.cache.Set(bearerKey, payload.AccessToken, tokenTTL(payload.ExpiresIn))
	return payload.AccessToken, nil
}

// Invalidate drops the cached token, e.g. after the places API rejects it.
func (t *TokenSource) Invalidate() {
	t.cache.Delete(bearerKey)
}

func tokenTTL(expiresIn int64) time.Duration {
	if expiresIn <= 0 {
		return defaultTokenTTL
	}
	ttl := time.Duration(expiresIn) * time.Second
	if ttl > 2*tokenExpiryMargin {
		ttl -= tokenExpiryMargin
	}
	return ttl
}
