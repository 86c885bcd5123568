package finance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDays_Exact(t *testing.T) {
	parts := FromUnits(700).SplitDays(7)
	require.Len(t, parts, 7)
	for _, p := range parts {
		assert.Equal(t, FromUnits(100), p)
	}
}

func TestSplitDays_RemainderOnLastDay(t *testing.T) {
	parts := FromUnits(10).SplitDays(3) // 1000 centavos over 3 days
	require.Len(t, parts, 3)
	assert.Equal(t, Money(333), parts[0])
	assert.Equal(t, Money(333), parts[1])
	assert.Equal(t, Money(334), parts[2])

	var sum Money
	for _, p := range parts {
		sum += p
	}
	assert.Equal(t, FromUnits(10), sum, "parts must sum back exactly")
}

func TestSplitDays_Degenerate(t *testing.T) {
	assert.Nil(t, FromUnits(100).SplitDays(0))
	assert.Nil(t, FromUnits(100).SplitDays(-1))
}

func TestRatio(t *testing.T) {
	r, ok := FromUnits(350).Ratio(FromUnits(700))
	require.True(t, ok)
	assert.InDelta(t, 0.5, r, 1e-9)

	_, ok = FromUnits(350).Ratio(0)
	assert.False(t, ok, "zero denominator must be indeterminate, not zero")
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(FromUnits(1234.5))
	require.NoError(t, err)
	assert.Equal(t, "1234.50", string(b))

	b, err = json.Marshal(Money(0))
	require.NoError(t, err)
	assert.Equal(t, "0.00", string(b))
}

func TestUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte("700"), &m))
	assert.Equal(t, FromUnits(700), m)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
