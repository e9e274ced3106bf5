package virtual

// Host reports the geometry of the scrolling environment a list lives in.
type Host interface {
	// ScrollPosition returns the scroll offset of the scrolling ancestor.
	ScrollPosition() float64
	// ViewportExtent returns the visible extent of the scrolling ancestor.
	ViewportExtent() float64
	// ListOrigin returns the offset of the list inside the scrolling
	// ancestor's coordinate space.
	ListOrigin() float64
}

// State is one sample of the viewport geometry. All fields are non-negative.
type State struct {
	ScrollPosition float64
	ViewportExtent float64
	ListOrigin     float64
}

// RelativeScroll returns how far the viewport has scrolled into the list.
func (s State) RelativeScroll() float64 {
	return max(0, s.ScrollPosition-s.ListOrigin)
}

type subscription struct {
	id int
	fn func(State)
}

// Tracker samples a Host and publishes viewport state changes.
//
// Raw scroll and resize signals are coalesced: at most one recomputation is
// pending at any time, and it samples the host when it runs, not when it was
// requested.
type Tracker struct {
	host  Host
	sched Scheduler

	state State

	scheduled bool
	cancel    CancelFunc

	subs   []subscription
	nextID int

	closed bool
}

// NewTracker returns a tracker that has already taken its first sample. A nil
// scheduler recomputes synchronously on every signal.
func NewTracker(host Host, sched Scheduler) *Tracker {
	if sched == nil {
		sched = Immediate
	}
	t := &Tracker{
		host:  host,
		sched: sched,
	}
	t.state = t.sample()
	return t
}

// State returns the most recently published state.
func (t *Tracker) State() State {
	return t.state
}

// Subscribe registers fn to be called with every newly published state. The
// returned function removes the subscription.
func (t *Tracker) Subscribe(fn func(State)) (unsubscribe func()) {
	if t.closed {
		return func() {}
	}
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range t.subs {
			if sub.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// Signal notes that the scroll position or viewport may have changed. It is
// a no-op while a recomputation is already pending or after Close.
func (t *Tracker) Signal() {
	if t.closed || t.scheduled {
		return
	}
	t.scheduled = true
	cancel := t.sched.Schedule(t.recompute)
	if t.scheduled {
		t.cancel = cancel
	}
}

// Pending reports whether a recomputation is waiting to run.
func (t *Tracker) Pending() bool {
	return t.scheduled
}

// Close cancels any pending recomputation and drops all subscribers.
func (t *Tracker) Close() {
	if t.closed {
		return
	}
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = nil
	t.scheduled = false
	t.subs = nil
}

func (t *Tracker) recompute() {
	t.scheduled = false
	t.cancel = nil
	if t.closed {
		return
	}

	next := t.sample()
	if next == t.state {
		return
	}
	t.state = next

	subs := append([]subscription(nil), t.subs...)
	for _, sub := range subs {
		sub.fn(next)
	}
}

func (t *Tracker) sample() State {
	scroll := t.host.ScrollPosition()
	origin := t.host.ListOrigin()
	extent := t.host.ViewportExtent()
	return State{
		ScrollPosition: nonNegative(scroll),
		ViewportExtent: nonNegative(extent),
		ListOrigin:     nonNegative(origin),
	}
}

func nonNegative(v float64) float64 {
	// Also maps NaN to 0.
	if !(v > 0) {
		return 0
	}
	return v
}
