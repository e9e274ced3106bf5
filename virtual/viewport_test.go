package virtual_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/virtview/virtual"
)

type fakeHost struct {
	scroll, extent, origin float64
	samples                int
}

func (h *fakeHost) ScrollPosition() float64 {
	h.samples++
	return h.scroll
}

func (h *fakeHost) ViewportExtent() float64 { return h.extent }
func (h *fakeHost) ListOrigin() float64     { return h.origin }

func Test_Tracker_Samples_Host_When_Created(t *testing.T) {
	t.Parallel()

	host := &fakeHost{scroll: 120, extent: 800, origin: 40}
	tracker := virtual.NewTracker(host, &virtual.FrameQueue{})

	want := virtual.State{ScrollPosition: 120, ViewportExtent: 800, ListOrigin: 40}
	if diff := cmp.Diff(want, tracker.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 80.0, tracker.State().RelativeScroll())
}

func Test_Tracker_Coalesces_Signals_When_Recompute_Is_Pending(t *testing.T) {
	t.Parallel()

	host := &fakeHost{extent: 800}
	queue := &virtual.FrameQueue{}
	tracker := virtual.NewTracker(host, queue)

	var published []virtual.State
	tracker.Subscribe(func(s virtual.State) { published = append(published, s) })

	for i := 1; i <= 50; i++ {
		host.scroll = float64(i * 10)
		tracker.Signal()
	}

	require.Equal(t, 1, queue.Len(), "50 signals must schedule exactly one recomputation")
	require.True(t, tracker.Pending())

	ran := queue.RunFrame()

	assert.Equal(t, 1, ran)
	assert.Equal(t, 2, host.samples, "one sample on creation, one for the coalesced recompute")
	require.Len(t, published, 1)
	assert.Equal(t, 500.0, published[0].ScrollPosition)
	assert.False(t, tracker.Pending())
}

func Test_Tracker_Does_Not_Publish_When_State_Is_Unchanged(t *testing.T) {
	t.Parallel()

	host := &fakeHost{scroll: 10, extent: 20}
	queue := &virtual.FrameQueue{}
	tracker := virtual.NewTracker(host, queue)

	calls := 0
	tracker.Subscribe(func(virtual.State) { calls++ })

	tracker.Signal()
	queue.RunFrame()
	assert.Equal(t, 0, calls)

	host.extent = 30
	tracker.Signal()
	queue.RunFrame()
	assert.Equal(t, 1, calls)
}

func Test_Tracker_Cancels_Pending_Recompute_When_Closed(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	queue := &virtual.FrameQueue{}
	tracker := virtual.NewTracker(host, queue)

	calls := 0
	tracker.Subscribe(func(virtual.State) { calls++ })

	host.scroll = 99
	tracker.Signal()
	tracker.Close()

	assert.Equal(t, 0, queue.Len())
	assert.Equal(t, 0, queue.RunFrame())

	tracker.Signal()
	assert.Equal(t, 0, queue.Len(), "signals after Close are ignored")
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0.0, tracker.State().ScrollPosition)
}

func Test_Tracker_Stops_Notifying_When_Unsubscribed(t *testing.T) {
	t.Parallel()

	host := &fakeHost{}
	tracker := virtual.NewTracker(host, nil)

	first, second := 0, 0
	unsubscribe := tracker.Subscribe(func(virtual.State) { first++ })
	tracker.Subscribe(func(virtual.State) { second++ })

	host.scroll = 1
	tracker.Signal()
	unsubscribe()
	host.scroll = 2
	tracker.Signal()

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func Test_Tracker_Clamps_Negative_Samples_To_Zero(t *testing.T) {
	t.Parallel()

	host := &fakeHost{scroll: -5, extent: -1, origin: -3}
	tracker := virtual.NewTracker(host, nil)

	assert.Equal(t, virtual.State{}, tracker.State())
}
