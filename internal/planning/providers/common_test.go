package providers

import (
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/urbo/internal/planning"
)

func TestEncodeJSON(t *testing.T) {
	raw, err := encodeJSON("google", "Error fetching geocode", map[string]float64{"lat": 1.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":1.5}`, string(raw))
}

func TestEncodeJSONFailureIsTransportError(t *testing.T) {
	_, err := encodeJSON("google", "Error fetching geocode", map[string]float64{"lat": math.NaN()})

	var ue *planning.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadGateway, ue.Status)
	assert.Equal(t, "Error fetching geocode", ue.Detail)
}
