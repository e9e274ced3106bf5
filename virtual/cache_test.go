package virtual_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/virtview/virtual"
)

func snapshot(c *virtual.SizeCache, keys []string) map[string]float64 {
	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		if extent, ok := c.Measured(key); ok {
			out[key] = extent
		}
	}
	return out
}

func Test_SizeCache_Returns_Estimate_When_Key_Unmeasured(t *testing.T) {
	t.Parallel()

	c := virtual.NewSizeCache(280)

	assert.Equal(t, 280.0, c.Get("missing"))
	_, ok := c.Measured("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func Test_SizeCache_Reports_Change_When_Key_Was_Absent_Or_Different(t *testing.T) {
	t.Parallel()

	c := virtual.NewSizeCache(280)

	require.True(t, c.Set("a", 280), "absent key counts as a change even when equal to the estimate")
	require.False(t, c.Set("a", 280))
	require.True(t, c.Set("a", 420))
	assert.Equal(t, 420.0, c.Get("a"))
	assert.Equal(t, 1, c.Len())
}

func Test_SizeCache_Is_Idempotent_When_Same_Pair_Is_Set_Twice(t *testing.T) {
	t.Parallel()

	keys := []string{"a", "b", "c", "d", "e"}
	rng := rand.New(rand.NewPCG(1, 2))

	for round := range 200 {
		c := virtual.NewSizeCache(10)
		for range rng.IntN(20) {
			c.Set(keys[rng.IntN(len(keys))], float64(1+rng.IntN(5)))
		}

		key := keys[rng.IntN(len(keys))]
		extent := float64(1 + rng.IntN(5))
		c.Set(key, extent)
		before := snapshot(c, keys)

		changed := c.Set(key, extent)

		require.False(t, changed, "round %d: second Set(%q, %v) reported a change", round, key, extent)
		require.Equal(t, before, snapshot(c, keys), "round %d", round)
	}
}

func Test_SizeCache_Ignores_Extent_When_Not_Finite_Or_Not_Positive(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		extent float64
	}{
		{name: "NaN", extent: math.NaN()},
		{name: "PositiveInf", extent: math.Inf(1)},
		{name: "NegativeInf", extent: math.Inf(-1)},
		{name: "Zero", extent: 0},
		{name: "Negative", extent: -12},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			keys := []string{"a", "b"}
			c := virtual.NewSizeCache(280)
			c.Set("a", 100)
			before := snapshot(c, keys)

			assert.False(t, c.Set("a", testCase.extent))
			assert.False(t, c.Set("b", testCase.extent))
			assert.Equal(t, before, snapshot(c, keys))
			assert.Equal(t, 280.0, c.Get("b"))
		})
	}
}

func Test_SizeCache_Drops_Entries_When_Retain_Rejects_Them(t *testing.T) {
	t.Parallel()

	c := virtual.NewSizeCache(5)
	c.Set("keep", 1)
	c.Set("drop1", 2)
	c.Set("drop2", 3)

	dropped := c.Retain(func(key virtual.Key) bool { return key == "keep" })

	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1.0, c.Get("keep"))
	assert.Equal(t, 5.0, c.Get("drop1"))

	c.Reset()
	assert.Equal(t, 0, c.Len())
}
