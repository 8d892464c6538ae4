package bricks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorFirstObservationAnchors(t *testing.T) {
	agg := New(1.0)
	out := agg.OnPrice(100.0, time.Now())
	assert.Empty(t, out)
	assert.Equal(t, 100.0, agg.Origin())
	assert.Equal(t, DirectionNone, agg.Direction())
}

func TestAggregatorGapEmitsMultipleBricks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := New(1.0)
	agg.OnPrice(100.0, base)

	// 103.5 is 3.5 brick widths up: exactly three bricks, one apart.
	out := agg.OnPrice(103.5, base.Add(time.Minute))
	require.Len(t, out, 3)
	assert.Equal(t, 101.0, out[0].Close)
	assert.Equal(t, 102.0, out[1].Close)
	assert.Equal(t, 103.0, out[2].Close)
	assert.Equal(t, 103.0, agg.Origin())
	assert.Equal(t, DirectionUp, agg.Direction())
	for _, b := range out {
		assert.Equal(t, base.Add(time.Minute), b.Time)
	}
}

func TestAggregatorDownMoves(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := New(0.5)
	agg.OnPrice(100.0, base)

	out := agg.OnPrice(98.9, base.Add(time.Second))
	require.Len(t, out, 2)
	assert.Equal(t, 99.5, out[0].Close)
	assert.Equal(t, 99.0, out[1].Close)
	assert.Equal(t, DirectionDown, agg.Direction())

	// Remaining 0.1 of movement is carried, not lost: 98.6 is 0.4 below the
	// new origin, still short of a brick; 98.4 crosses it.
	assert.Empty(t, agg.OnPrice(98.6, base.Add(2*time.Second)))
	out = agg.OnPrice(98.4, base.Add(3*time.Second))
	require.Len(t, out, 1)
	assert.Equal(t, 98.5, out[0].Close)
}

func TestAggregatorSmallMovesEmitNothing(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := New(1.0)
	agg.OnPrice(100.0, base)

	for i, p := range []float64{100.2, 100.7, 99.3, 100.0, 100.99} {
		out := agg.OnPrice(p, base.Add(time.Duration(i)*time.Second))
		assert.Empty(t, out, "price %v", p)
	}
	assert.Equal(t, 100.0, agg.Origin())
}

func TestAggregatorReversal(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := New(1.0)
	agg.OnPrice(100.0, base)

	out := agg.OnPrice(102.0, base.Add(time.Second))
	require.Len(t, out, 2)
	assert.Equal(t, DirectionUp, agg.Direction())

	// No wick rule: one brick width in the other direction reverses.
	out = agg.OnPrice(101.0, base.Add(2*time.Second))
	require.Len(t, out, 1)
	assert.Equal(t, 101.0, out[0].Close)
	assert.Equal(t, DirectionDown, agg.Direction())
}

func TestAggregatorExactBoundary(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg := New(1.0)
	agg.OnPrice(100.0, base)

	// Movement of exactly one brick size completes the brick.
	out := agg.OnPrice(101.0, base.Add(time.Second))
	require.Len(t, out, 1)
	assert.Equal(t, 101.0, out[0].Close)
	assert.Equal(t, 101.0, agg.Origin())
}

func TestAggregatorBrickCountProperty(t *testing.T) {
	// For a jump of k*b + r (0 <= r < b) the aggregator emits exactly k bricks.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		size  float64
		jump  float64
		count int
	}{
		{1.0, 0.999, 0},
		{1.0, 5.0, 5},
		{2.5, 7.6, 3},
		{0.25, 1.1, 4},
		{1.0, -3.5, 3},
	}
	for _, tc := range cases {
		agg := New(tc.size)
		agg.OnPrice(100.0, base)
		out := agg.OnPrice(100.0+tc.jump, base.Add(time.Second))
		assert.Len(t, out, tc.count, "size=%v jump=%v", tc.size, tc.jump)

		sign := 1.0
		if tc.jump < 0 {
			sign = -1.0
		}
		assert.InDelta(t, 100.0+float64(tc.count)*tc.size*sign, agg.Origin(), 1e-9)
	}
}
