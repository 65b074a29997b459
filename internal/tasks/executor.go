package tasks

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is reported by handles of tasks that never ran because the
// executor was shut down.
var ErrClosed = errors.New("tasks: executor closed")

// Handle tracks a submitted task.
type Handle struct {
	done chan struct{}
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Done is closed once the task has run or been dropped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finished. It returns ErrClosed if the task was
// dropped at shutdown.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

type job struct {
	fn     func()
	handle *Handle
}

// Executor runs closures on a fixed set of goroutines. It makes no ordering
// promises between tasks. Panics in tasks are not recovered.
type Executor struct {
	queue   chan job
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup // workers

	// submitted, unfinished tasks; Wait may run concurrently with Submit
	pendingMu sync.Mutex
	idle      sync.Cond
	pending   int

	mu     sync.RWMutex
	closed bool
}

// New starts an executor with the given number of workers and queue size.
func New(workers, queueSize int) *Executor {
	workers = max(workers, 1)
	queueSize = max(queueSize, 0)
	ctx, cancel := context.WithCancel(context.Background())

	e := &Executor{
		queue:   make(chan job, queueSize),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
	e.idle.L = &e.pendingMu
	for range workers {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for {
		select {
		case j := <-e.queue:
			e.run(j)
		case <-e.ctx.Done():
			return
		}
	}
}

func (e *Executor) run(j job) {
	defer e.finish()
	j.fn()
	j.handle.finish(nil)
}

// Submit schedules fn. When the queue is full fn runs on the calling
// goroutine, so tasks may submit further tasks without deadlocking.
func (e *Executor) Submit(fn func()) *Handle {
	h := newHandle()

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		h.finish(ErrClosed)
		return h
	}
	e.begin()
	j := job{fn: fn, handle: h}
	select {
	case e.queue <- j:
		e.mu.RUnlock()
		return h
	default:
	}
	e.mu.RUnlock()

	e.run(j)
	return h
}

func (e *Executor) begin() {
	e.pendingMu.Lock()
	e.pending++
	e.pendingMu.Unlock()
}

func (e *Executor) finish() {
	e.pendingMu.Lock()
	e.pending--
	if e.pending == 0 {
		e.idle.Broadcast()
	}
	e.pendingMu.Unlock()
}

// Wait blocks until no submitted task is outstanding, including tasks
// submitted by running tasks. It may be called while other goroutines keep
// submitting; it then returns at the first moment nothing is pending.
func (e *Executor) Wait() {
	e.pendingMu.Lock()
	for e.pending > 0 {
		e.idle.Wait()
	}
	e.pendingMu.Unlock()
}

// Pending returns the number of submitted tasks that have not finished.
func (e *Executor) Pending() int {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	return e.pending
}

// Workers returns the number of worker goroutines.
func (e *Executor) Workers() int {
	return e.workers
}

// Shutdown stops accepting tasks, waits for running tasks and drops queued
// ones. It is safe to call more than once.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()

	for {
		select {
		case j := <-e.queue:
			j.handle.finish(ErrClosed)
			e.finish()
		default:
			return
		}
	}
}
