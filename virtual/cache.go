package virtual

import "math"

// Key identifies an item for size memoization. Keys must be comparable.
type Key = any

// indexKey is the fallback key for items without a usable identity. It is a
// distinct type so positional keys never collide with caller-supplied ints.
type indexKey int

// SizeCache holds the last measured extent of each item key.
type SizeCache struct {
	estimate float64
	sizes    map[Key]float64
}

// NewSizeCache returns an empty cache that reports estimate for unmeasured
// keys.
func NewSizeCache(estimate float64) *SizeCache {
	return &SizeCache{
		estimate: estimate,
		sizes:    make(map[Key]float64),
	}
}

// Estimate returns the extent reported for unmeasured keys.
func (c *SizeCache) Estimate() float64 {
	return c.estimate
}

// Get returns the stored extent for key, or the estimate if there is none.
func (c *SizeCache) Get(key Key) float64 {
	if extent, ok := c.sizes[key]; ok {
		return extent
	}
	return c.estimate
}

// Measured returns the stored extent for key and whether one exists.
func (c *SizeCache) Measured(key Key) (float64, bool) {
	extent, ok := c.sizes[key]
	return extent, ok
}

// Set stores extent for key and reports whether the stored value changed.
// Non-finite and non-positive extents are ignored.
func (c *SizeCache) Set(key Key, extent float64) bool {
	if !ValidExtent(extent) {
		return false
	}
	if previous, ok := c.sizes[key]; ok && previous == extent {
		return false
	}
	c.sizes[key] = extent
	return true
}

// Len returns the number of measured keys.
func (c *SizeCache) Len() int {
	return len(c.sizes)
}

// Retain drops every entry for which keep returns false and returns the
// number of dropped entries.
func (c *SizeCache) Retain(keep func(key Key) bool) int {
	dropped := 0
	for key := range c.sizes {
		if !keep(key) {
			delete(c.sizes, key)
			dropped++
		}
	}
	return dropped
}

// Reset forgets all measurements.
func (c *SizeCache) Reset() {
	clear(c.sizes)
}

// ValidExtent reports whether extent is usable as an item size: finite and
// strictly positive.
func ValidExtent(extent float64) bool {
	return extent > 0 && !math.IsInf(extent, 1)
}
