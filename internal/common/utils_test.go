package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordsRoundTripKeepsOrder(t *testing.T) {
	in := []string{"school", "hospital", "park"}

	joined := JoinKeywords(in)
	assert.Equal(t, "school,hospital,park", joined)
	assert.Equal(t, in, SplitKeywords(joined))
}

func TestSplitKeywordsEmpty(t *testing.T) {
	assert.Empty(t, SplitKeywords(""))
	assert.NotNil(t, SplitKeywords(""))
}

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("status: ZERO_RESULTS", "ZERO_RESULTS", "NOT_FOUND"))
	assert.False(t, HasAny("status: OVER_QUERY_LIMIT", "ZERO_RESULTS", "NOT_FOUND"))
	assert.False(t, HasAny("anything"))
}
