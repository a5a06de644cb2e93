package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LoopHost is a Host backed by the wall clock and a run queue drained by a
// single goroutine inside Run. Timers fire on their own goroutines and post
// back onto the queue, so every callback still runs on the loop goroutine.
type LoopHost struct {
	anchor time.Time

	mu    sync.Mutex
	queue []func()

	// buffer of 1, coalesces wake-ups
	signal chan struct{}

	running       atomic.Bool
	loopGoroutine atomic.Int64
}

func NewLoopHost() *LoopHost {
	return &LoopHost{
		anchor: time.Now(),
		queue:  make([]func(), 0, 64),
		signal: make(chan struct{}, 1),
	}
}

func (h *LoopHost) Now() time.Duration {
	return time.Since(h.anchor)
}

// Post is safe to call from any goroutine.
func (h *LoopHost) Post(fn func()) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()

	select {
	case h.signal <- struct{}{}:
	default:
	}
}

func (h *LoopHost) After(d time.Duration, fn func()) func() {
	var canceled atomic.Bool

	t := time.AfterFunc(d, func() {
		h.Post(func() {
			if !canceled.Load() {
				fn()
			}
		})
	})

	return func() {
		canceled.Store(true)
		t.Stop()
	}
}

// Run drains the run queue on the calling goroutine until ctx is done.
func (h *LoopHost) Run(ctx context.Context) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer h.running.Store(false)

	h.loopGoroutine.Store(currentGoroutine())
	defer h.loopGoroutine.Store(0)

	for {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			fn, ok := h.next()
			if !ok {
				break
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.signal:
		}
	}
}

// InLoop reports whether the caller is the goroutine running the loop.
func (h *LoopHost) InLoop() bool {
	return h.running.Load() && h.loopGoroutine.Load() == currentGoroutine()
}

// Do runs fn on the loop goroutine and waits for it to return.
// Called from the loop itself, fn runs inline.
func (h *LoopHost) Do(ctx context.Context, fn func()) error {
	if h.InLoop() {
		fn()
		return nil
	}

	if !h.running.Load() {
		return ErrLoopStopped
	}

	done := make(chan struct{})
	h.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *LoopHost) next() (func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.queue) == 0 {
		return nil, false
	}

	fn := h.queue[0]
	h.queue[0] = nil
	if len(h.queue) == 1 {
		h.queue = h.queue[:0]
	} else {
		h.queue = h.queue[1:]
	}

	return fn, true
}
