package virtual

// CancelFunc cancels a scheduled callback. Calling it after the callback ran,
// or calling it twice, has no effect.
type CancelFunc func()

// Scheduler defers a callback until the host's next frame.
//
// The engine never calls Schedule concurrently and never relies on callbacks
// running in any particular goroutine other than the one driving the host.
type Scheduler interface {
	Schedule(fn func()) CancelFunc
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(fn func()) CancelFunc

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) CancelFunc {
	return f(fn)
}

// Immediate is a Scheduler that runs callbacks synchronously inside Schedule.
var Immediate Scheduler = SchedulerFunc(func(fn func()) CancelFunc {
	fn()
	return func() {}
})

type frameTask struct {
	fn       func()
	canceled bool
}

// FrameQueue is a manually stepped Scheduler. Callbacks queue up until
// RunFrame is called; callbacks scheduled while a frame is running belong to
// the following frame.
//
// A FrameQueue is not safe for concurrent use.
type FrameQueue struct {
	tasks []*frameTask
	wake  func()
}

// SetWakeFunc sets a function that is called whenever a callback is queued
// into an empty frame. Hosts use it to make sure RunFrame gets called.
func (q *FrameQueue) SetWakeFunc(wake func()) *FrameQueue {
	q.wake = wake
	return q
}

// Schedule queues fn for the next frame.
func (q *FrameQueue) Schedule(fn func()) CancelFunc {
	task := &frameTask{fn: fn}
	empty := q.Len() == 0
	q.tasks = append(q.tasks, task)
	if empty && q.wake != nil {
		q.wake()
	}
	return func() {
		task.canceled = true
	}
}

// Len returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Len() int {
	n := 0
	for _, task := range q.tasks {
		if !task.canceled {
			n++
		}
	}
	return n
}

// RunFrame runs all callbacks queued before the call and returns how many
// ran.
func (q *FrameQueue) RunFrame() int {
	tasks := q.tasks
	q.tasks = nil
	ran := 0
	for _, task := range tasks {
		if task.canceled {
			continue
		}
		// Mark as done so a late cancel stays a no-op.
		task.canceled = true
		task.fn()
		ran++
	}
	return ran
}
