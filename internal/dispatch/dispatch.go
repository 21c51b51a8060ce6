// Package dispatch delivers asynchronous completions on a caller-chosen
// execution context.
//
// The default context is a serial Queue: callbacks run one at a time, in
// submission order, on a single worker goroutine owned by the queue.
package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Executor runs submitted functions. Implementations decide where and when.
type Executor interface {
	Submit(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

// Submit calls f(fn).
func (f ExecutorFunc) Submit(fn func()) { f(fn) }

// Inline runs every function synchronously on the submitting goroutine.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// Queue is a serial Executor backed by one worker goroutine. Submit never
// blocks, so callbacks may submit further work to the same queue.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	closed uint32 // 0 → running, 1 → closed

	logger zerolog.Logger
}

// NewQueue starts a serial queue. Panics raised by callbacks are recovered
// and logged to logger.
func NewQueue(logger zerolog.Logger) *Queue {
	q := &Queue{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
	go q.runWorker()
	return q
}

// Submit enqueues fn. After Close, fn runs on its own goroutine so that no
// completion is ever dropped.
func (q *Queue) Submit(fn func()) {
	if fn == nil {
		return
	}

	q.mu.Lock()
	if atomic.LoadUint32(&q.closed) == 1 {
		q.mu.Unlock()
		go q.run(fn)
		return
	}
	q.pending = append(q.pending, fn)
	depth := len(q.pending)
	q.mu.Unlock()

	queueDepth.Set(float64(depth))
	q.signal()
}

// Close stops accepting work. Already queued functions still run, after
// which the worker exits. Close is idempotent and does not block, so it may
// be called from a callback.
func (q *Queue) Close() error {
	q.mu.Lock()
	swapped := atomic.CompareAndSwapUint32(&q.closed, 0, 1)
	q.mu.Unlock()
	if swapped {
		q.signal()
	}
	return nil
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) runWorker() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := atomic.LoadUint32(&q.closed) == 1
			q.mu.Unlock()
			if closed {
				queueDepth.Set(0)
				return
			}
			<-q.wake
			continue
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		depth := len(q.pending)
		q.mu.Unlock()

		queueDepth.Set(float64(depth))
		q.run(fn)
	}
}

// run protects the worker from crashing on a misbehaving callback.
func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			callbackPanics.Inc()
			q.logger.Error().Interface("panic", r).Msg("dispatch: callback panicked")
		}
	}()
	fn()
}
