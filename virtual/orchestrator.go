// Package virtual computes which slice of a variable-height collection needs
// to be rendered for a viewport, and keeps the geometry consistent while real
// item extents replace estimated ones.
package virtual

import (
	"fmt"
	"log/slog"
)

// RenderFunc produces the visual content for one item.
type RenderFunc[T, V any] func(item T, index int) V

// Slot is one rendered item positioned at its cumulative offset.
type Slot[V any] struct {
	Index    int
	Key      Key
	Offset   float64
	Extent   float64
	Content  V
	Measurer *RowMeasurer
}

// Frame is the result of one render pass.
type Frame[V any] struct {
	// Range is the inclusive range of rendered indices.
	Range Range
	// Slots holds one entry per index in Range, in order.
	Slots []Slot[V]
	// TotalExtent is the scrollable extent of the whole collection.
	TotalExtent float64
	// WindowStart and WindowEnd bound the overscanned window, relative to the
	// list origin.
	WindowStart float64
	WindowEnd   float64
	// Version is the geometry version the frame was computed from.
	Version uint64
}

// Orchestrator composes the size cache, the offset index and the row
// measurers into render passes.
//
// Geometry follows an estimate-then-reconcile cycle: every render pass reads
// sizes from the cache, measurements that change the cache bump a version
// counter, and at most one reconcile callback is pending at a time.
type Orchestrator[T, V any] struct {
	cfg    Config
	logger *slog.Logger

	keys   KeyPolicy[T]
	render RenderFunc[T, V]
	sched  Scheduler

	cache   *SizeCache
	index   *OffsetIndex
	extents []float64

	items    []T
	resolved []Key

	// version counts geometry changes; built is the version the index was
	// last rebuilt at.
	version uint64
	built   uint64

	reconcile   func()
	scheduled   bool
	cancel      CancelFunc
	reconciles  int
	corrections int

	frame  Frame[V]
	closed bool
}

// New returns an orchestrator that renders items with render.
func New[T, V any](cfg Config, render RenderFunc[T, V]) (*Orchestrator[T, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if render == nil {
		return nil, fmt.Errorf("%w: render function is required", ErrInvalidConfig)
	}
	o := &Orchestrator[T, V]{
		cfg:     cfg,
		logger:  cfg.logger(),
		render:  render,
		cache:   NewSizeCache(cfg.EstimatedItemExtent),
		index:   &OffsetIndex{},
		version: 1,
	}
	o.frame.Range = EmptyRange()
	return o, nil
}

// Config returns the configuration the orchestrator was created with.
func (o *Orchestrator[T, V]) Config() Config {
	return o.cfg
}

// SetKeyPolicy sets how item keys are resolved and re-resolves the current
// items.
func (o *Orchestrator[T, V]) SetKeyPolicy(policy KeyPolicy[T]) *Orchestrator[T, V] {
	o.keys = policy
	o.resolveKeys()
	o.version++
	return o
}

// SetScheduler sets the scheduler used for reconcile passes. Without one,
// corrections only take effect on the next Render.
func (o *Orchestrator[T, V]) SetScheduler(sched Scheduler) *Orchestrator[T, V] {
	o.sched = sched
	return o
}

// SetReconcileFunc sets the callback invoked, via the scheduler, after
// measurements changed the geometry. Hosts typically re-render from it.
func (o *Orchestrator[T, V]) SetReconcileFunc(fn func()) *Orchestrator[T, V] {
	o.reconcile = fn
	return o
}

// SetItems replaces the item collection.
func (o *Orchestrator[T, V]) SetItems(items []T) *Orchestrator[T, V] {
	if o.closed {
		return o
	}
	o.items = items
	o.resolveKeys()
	o.version++

	if o.cfg.PruneStaleSizes {
		live := make(map[Key]struct{}, len(o.resolved))
		for _, key := range o.resolved {
			live[key] = struct{}{}
		}
		if dropped := o.cache.Retain(func(key Key) bool {
			_, ok := live[key]
			return ok
		}); dropped > 0 {
			o.logger.Debug("pruned stale sizes", "dropped", dropped)
		}
	}
	return o
}

// Items returns the current item collection.
func (o *Orchestrator[T, V]) Items() []T {
	return o.items
}

// Len returns the number of items.
func (o *Orchestrator[T, V]) Len() int {
	return len(o.items)
}

// KeyAt returns the resolved key of the item at index, or false if index is
// out of range.
func (o *Orchestrator[T, V]) KeyAt(index int) (Key, bool) {
	if index < 0 || index >= len(o.resolved) {
		return nil, false
	}
	return o.resolved[index], true
}

// Cache returns the size cache. Writes through the returned cache do not
// bump the geometry version; use a RowMeasurer or Invalidate.
func (o *Orchestrator[T, V]) Cache() *SizeCache {
	return o.cache
}

// Version returns the current geometry version.
func (o *Orchestrator[T, V]) Version() uint64 {
	return o.version
}

// Reconciles returns how many reconcile callbacks have run.
func (o *Orchestrator[T, V]) Reconciles() int {
	return o.reconciles
}

// Corrections returns how many measurements changed the cached geometry.
func (o *Orchestrator[T, V]) Corrections() int {
	return o.corrections
}

// Invalidate forces the offset index to be rebuilt on the next render.
func (o *Orchestrator[T, V]) Invalidate() {
	o.version++
}

// ResetSizes forgets every measurement, for example after a width change
// made them meaningless.
func (o *Orchestrator[T, V]) ResetSizes() {
	o.cache.Reset()
	o.version++
}

// TotalExtent returns the scrollable extent of the collection.
func (o *Orchestrator[T, V]) TotalExtent() float64 {
	o.sync()
	return o.index.Total()
}

// OffsetOf returns the offset of the item at index relative to the list
// origin.
func (o *Orchestrator[T, V]) OffsetOf(index int) (float64, bool) {
	o.sync()
	if index < 0 || index >= o.index.Len() {
		return 0, false
	}
	return o.index.Offset(index), true
}

// IndexAt returns the index of the item covering offset, or -1.
func (o *Orchestrator[T, V]) IndexAt(offset float64) int {
	o.sync()
	return o.index.IndexAt(offset)
}

// Frame returns the most recently rendered frame.
func (o *Orchestrator[T, V]) Frame() Frame[V] {
	return o.frame
}

// Render computes the visible range for state and renders it.
func (o *Orchestrator[T, V]) Render(state State) Frame[V] {
	if o.closed {
		return Frame[V]{Range: EmptyRange()}
	}
	o.sync()

	relative := state.RelativeScroll()
	overscan := o.cfg.OverscanExtent()
	windowStart := max(0, relative-overscan)
	windowEnd := relative + state.ViewportExtent + overscan

	frame := Frame[V]{
		Range:       o.index.Range(windowStart, windowEnd),
		TotalExtent: o.index.Total(),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Version:     o.version,
	}
	if !frame.Range.Empty() {
		frame.Slots = make([]Slot[V], 0, frame.Range.Len())
		for i := frame.Range.Start; i <= frame.Range.End; i++ {
			key := o.resolved[i]
			frame.Slots = append(frame.Slots, Slot[V]{
				Index:    i,
				Key:      key,
				Offset:   o.index.Offset(i),
				Extent:   o.index.Extent(i),
				Content:  o.render(o.items[i], i),
				Measurer: &RowMeasurer{key: key, index: i, owner: o},
			})
		}
	}
	o.frame = frame
	return frame
}

// Close releases the cache and index and cancels a pending reconcile. Render
// passes after Close are empty and measurements are ignored.
func (o *Orchestrator[T, V]) Close() {
	if o.closed {
		return
	}
	o.closed = true
	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = nil
	o.scheduled = false
	o.cache.Reset()
	o.index = &OffsetIndex{}
	o.items = nil
	o.resolved = nil
	o.frame = Frame[V]{Range: EmptyRange()}
}

// sync rebuilds the offset index if the geometry changed since the last
// build.
func (o *Orchestrator[T, V]) sync() {
	if o.built == o.version {
		return
	}
	o.extents = o.extents[:0]
	for _, key := range o.resolved {
		o.extents = append(o.extents, o.cache.Get(key))
	}
	o.index.Rebuild(o.extents)
	o.built = o.version
}

func (o *Orchestrator[T, V]) resolveKeys() {
	o.resolved = o.resolved[:0]
	seen := make(map[Key]int, len(o.items))
	for i, item := range o.items {
		key := o.keys.Resolve(item, i)
		if first, ok := seen[key]; ok {
			if o.cfg.StrictKeys {
				panic(fmt.Sprintf("virtual: items %d and %d resolve to the same key %v", first, i, key))
			}
			o.logger.Warn("duplicate item key", "key", key, "first", first, "index", i)
		} else {
			seen[key] = i
		}
		o.resolved = append(o.resolved, key)
	}
}

func (o *Orchestrator[T, V]) correct(key Key, index int, extent float64) bool {
	if o.closed {
		return false
	}
	if !ValidExtent(extent) {
		o.logger.Debug("ignored measurement", "key", key, "index", index, "extent", extent)
		return false
	}
	if !o.cache.Set(key, extent) {
		return false
	}
	o.corrections++
	o.version++
	o.scheduleReconcile()
	return true
}

func (o *Orchestrator[T, V]) scheduleReconcile() {
	if o.sched == nil || o.scheduled {
		return
	}
	o.scheduled = true
	cancel := o.sched.Schedule(o.runReconcile)
	if o.scheduled {
		o.cancel = cancel
	}
}

func (o *Orchestrator[T, V]) runReconcile() {
	o.scheduled = false
	o.cancel = nil
	if o.closed {
		return
	}
	o.reconciles++
	o.logger.Debug("reconcile", "version", o.version)
	if o.reconcile != nil {
		o.reconcile()
	}
}
