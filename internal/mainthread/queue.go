// Package mainthread lets background goroutines hand work to the goroutine
// that owns the frame loop.
//
// Producers Post tasks without blocking. The owner calls Drain once per pump
// cycle; every task posted before Drain started runs exactly once, in post
// order, on the owner's goroutine.
package mainthread

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("mainthread: queue closed")

// Task is a unit of work for the main goroutine.
type Task interface {
	Run()
}

// Releaser is implemented by tasks that hold resources. Release is called
// once, by the consumer, after Run returns.
type Releaser interface {
	Release()
}

// Func adapts a plain function to Task.
type Func func()

// Run calls f.
func (f Func) Run() { f() }

// Queue is a multi-producer, single-consumer task queue.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
	ready  chan struct{}
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post hands t to the consumer. It never blocks. After Post returns nil the
// queue owns t.
func (q *Queue) Post(t Task) error {
	if t == nil {
		return errors.New("mainthread: nil task")
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// PostFunc posts a function.
func (q *Queue) PostFunc(f func()) error {
	if f == nil {
		return errors.New("mainthread: nil task")
	}
	return q.Post(Func(f))
}

// Ready is signalled after a Post. Consumers that sleep between frames can
// select on it; the signal is coalesced so one Drain may cover many posts.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs the tasks that were pending when it was called and returns
// how many ran. Tasks posted while draining wait for the next call. Must
// only be called from the owning goroutine.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for i, t := range batch {
		batch[i] = nil
		t.Run()
		if r, ok := t.(Releaser); ok {
			r.Release()
		}
	}
	return len(batch)
}

// Len returns the number of tasks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close rejects further posts and returns the tasks that never ran, after
// releasing them.
func (q *Queue) Close() int {
	q.mu.Lock()
	q.closed = true
	left := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, t := range left {
		if r, ok := t.(Releaser); ok {
			r.Release()
		}
	}
	return len(left)
}
