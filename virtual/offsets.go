package virtual

import "sort"

// Range is an inclusive span of item indices. It is empty when End < Start.
type Range struct {
	Start int
	End   int
}

// EmptyRange returns a range that contains no indices.
func EmptyRange() Range {
	return Range{Start: 0, End: -1}
}

// Empty reports whether the range contains no indices.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index lies within the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index <= r.End
}

// OffsetIndex is a prefix-sum table over ordered item extents.
//
// offset[0] is 0 and offset[i] is offset[i-1]+extent[i-1]. Extents are never
// negative, so offsets are non-decreasing and both range queries can binary
// search.
type OffsetIndex struct {
	offsets []float64
	extents []float64
	total   float64
}

// NewOffsetIndex builds an index over extents.
func NewOffsetIndex(extents []float64) *OffsetIndex {
	x := &OffsetIndex{}
	x.Rebuild(extents)
	return x
}

// Rebuild replaces the table with one built from extents, reusing storage.
// Extents that are not valid sizes count as zero.
func (x *OffsetIndex) Rebuild(extents []float64) {
	n := len(extents)
	x.offsets = resize(x.offsets, n)
	x.extents = resize(x.extents, n)

	var offset float64
	for i, extent := range extents {
		if !ValidExtent(extent) {
			extent = 0
		}
		x.offsets[i] = offset
		x.extents[i] = extent
		offset += extent
	}
	x.total = offset
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

// Len returns the number of items in the index.
func (x *OffsetIndex) Len() int {
	return len(x.offsets)
}

// Offset returns the cumulative offset of item i.
func (x *OffsetIndex) Offset(i int) float64 {
	return x.offsets[i]
}

// Extent returns the extent of item i as used by the index.
func (x *OffsetIndex) Extent(i int) float64 {
	return x.extents[i]
}

// Total returns the offset of the last item plus its extent, or 0 when the
// index is empty.
func (x *OffsetIndex) Total() float64 {
	return x.total
}

// StartIndexFor returns the smallest index whose span ends at or after
// offset, clamped into [0, n-1]. It returns -1 for an empty index.
func (x *OffsetIndex) StartIndexFor(offset float64) int {
	n := len(x.offsets)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool {
		return x.offsets[i]+x.extents[i] >= offset
	})
	return min(i, n-1)
}

// EndIndexFor returns the smallest index whose span starts strictly after
// offset, clamped into [0, n-1]. It returns -1 for an empty index.
func (x *OffsetIndex) EndIndexFor(offset float64) int {
	n := len(x.offsets)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool {
		return x.offsets[i] > offset
	})
	return min(i, n-1)
}

// Range returns the inclusive index range covering [start, end]. The first
// item starting strictly after end is not part of the range.
func (x *OffsetIndex) Range(start, end float64) Range {
	if len(x.offsets) == 0 {
		return EmptyRange()
	}
	first := x.StartIndexFor(start)
	last := x.EndIndexFor(end)
	if last > first && x.offsets[last] > end {
		last--
	}
	return Range{Start: first, End: max(first, last)}
}

// IndexAt returns the index of the item whose span contains offset, or -1 if
// offset lies outside [0, Total()).
func (x *OffsetIndex) IndexAt(offset float64) int {
	if offset < 0 || offset >= x.total {
		return -1
	}
	n := len(x.offsets)
	i := sort.Search(n, func(i int) bool {
		return x.offsets[i]+x.extents[i] > offset
	})
	if i >= n {
		return -1
	}
	return i
}
