package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c, ok := LookupCost("gpt-4o-mini")
	require.True(t, ok)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	_, ok = LookupCost("claude-haiku")
	assert.True(t, ok, "aliases resolve before lookup")

	_, ok = LookupCost("mock")
	assert.False(t, ok)
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("claude-sonnet-4-5", 2000, 500)
	require.True(t, ok)
	assert.InDelta(t, 0.0135, cost, 1e-9)

	_, ok = EstimateCost("unknown-model", 1, 1)
	assert.False(t, ok)
}
