package virtual

// corrector receives measurements from row measurers.
type corrector interface {
	correct(key Key, index int, extent float64) bool
}

// RowMeasurer feeds the rendered extent of one row back into the size cache.
type RowMeasurer struct {
	key   Key
	index int
	owner corrector
}

// Key returns the key of the measured row.
func (m *RowMeasurer) Key() Key {
	return m.key
}

// Index returns the position of the measured row at render time.
func (m *RowMeasurer) Index() int {
	return m.index
}

// Report records the extent the row actually occupied after layout. It
// returns true if the value corrected the cached geometry, in which case a
// reconcile pass has been scheduled.
func (m *RowMeasurer) Report(extent float64) bool {
	if m == nil || m.owner == nil {
		return false
	}
	return m.owner.correct(m.key, m.index, extent)
}
