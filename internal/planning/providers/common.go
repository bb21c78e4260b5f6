package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/urbo/internal/planning"
)

// userAgent is sent on every outbound request.
const userAgent = "urbo-api"

// maxBodyBytes bounds how much of an upstream body is read into memory.
const maxBodyBytes = 32 << 20

var errNoHTTPClient = errors.New("http client not configured")

// upstreamResponse is a fully read provider response.
type upstreamResponse struct {
	StatusCode int
	Body       []byte
}

func (r upstreamResponse) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// doRequest executes one upstream request and reads its body. Non-2xx
// statuses are returned, not turned into errors; only transport failures
// produce an error. There are no retries.
func doRequest(
	ctx context.Context,
	client *http.Client,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (upstreamResponse, error) {
	if client == nil {
		return upstreamResponse{}, errNoHTTPClient
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return upstreamResponse{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return upstreamResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return upstreamResponse{}, fmt.Errorf("read response body: %w", err)
	}
	return upstreamResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// getRequest returns a buildRequest func for GET base?params.
func getRequest(base string, params url.Values, header http.Header) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		u := base
		if len(params) > 0 {
			u = fmt.Sprintf("%s?%s", base, params.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return req, nil
	}
}

// decodeJSON unmarshals an upstream body, reporting bad payloads as
// upstream failures.
func decodeJSON(provider, detail string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return planning.NewTransportError(provider, detail, fmt.Errorf("decode payload: %w", err))
	}
	return nil
}

// encodeJSON marshals a library result that has no raw body of its own.
func encodeJSON(provider, detail string, v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, planning.NewTransportError(provider, detail, fmt.Errorf("encode payload: %w", err))
	}
	return raw, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// latLon renders "lat,lon" as the HERE and Mappls APIs expect.
func latLon(lat, lon float64) string {
	return formatFloat(lat) + "," + formatFloat(lon)
}
