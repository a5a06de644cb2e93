package internal

import (
	"sort"
	"time"
)

// Host is the environment the scheduler yields to between slices.
// All callbacks handed to a host must run on the same goroutine, one at a time.
type Host interface {
	// Now returns the host clock, as an offset from an arbitrary origin.
	Now() time.Duration

	// Post queues fn to run once on the host run queue.
	Post(fn func())

	// After queues fn on the host run queue once d has elapsed.
	// The returned function cancels the timer if it has not fired yet.
	After(d time.Duration, fn func()) (cancel func())
}

// ManualHost is a Host with a virtual clock, driven explicitly by its owner.
// Time only moves through Advance; due timers are moved onto the run queue
// and never run inline, so Advance is safe to call from inside a task.
type ManualHost struct {
	now      time.Duration
	seq      uint64
	messages []func()
	timers   []*manualTimer
}

type manualTimer struct {
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
}

func NewManualHost() *ManualHost {
	return &ManualHost{}
}

func (h *ManualHost) Now() time.Duration {
	return h.now
}

func (h *ManualHost) Post(fn func()) {
	h.messages = append(h.messages, fn)
}

func (h *ManualHost) After(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}

	h.seq++
	timer := &manualTimer{due: h.now + d, seq: h.seq, fn: fn}
	h.timers = append(h.timers, timer)
	sort.SliceStable(h.timers, func(i, j int) bool {
		if h.timers[i].due != h.timers[j].due {
			return h.timers[i].due < h.timers[j].due
		}
		return h.timers[i].seq < h.timers[j].seq
	})

	h.release()

	return func() { timer.canceled = true }
}

// Advance moves the clock forward and queues every timer that became due.
func (h *ManualHost) Advance(d time.Duration) {
	h.now += d
	h.release()
}

// Step runs the oldest queued message. It reports whether one ran.
func (h *ManualHost) Step() bool {
	if len(h.messages) == 0 {
		return false
	}

	fn := h.messages[0]
	h.messages[0] = nil
	h.messages = h.messages[1:]

	fn()
	return true
}

// Flush runs queued messages, including the ones they queue, without moving the clock.
func (h *ManualHost) Flush() {
	for h.Step() {
	}
}

// RunUntilIdle flushes the run queue, jumping the clock to the next timer
// whenever the queue drains, until no messages or timers are left.
func (h *ManualHost) RunUntilIdle() {
	for {
		h.Flush()

		next := h.nextTimer()
		if next == nil {
			return
		}

		if next.due > h.now {
			h.now = next.due
		}
		h.release()
	}
}

// Pending returns the number of queued messages.
func (h *ManualHost) Pending() int {
	return len(h.messages)
}

// Timers returns the number of armed timers.
func (h *ManualHost) Timers() int {
	n := 0
	for _, t := range h.timers {
		if !t.canceled {
			n++
		}
	}

	return n
}

func (h *ManualHost) nextTimer() *manualTimer {
	for _, t := range h.timers {
		if !t.canceled {
			return t
		}
	}

	return nil
}

// release moves due timers onto the run queue, dropping canceled ones.
func (h *ManualHost) release() {
	kept := h.timers[:0]
	for _, t := range h.timers {
		t := t
		switch {
		case t.canceled:
		case t.due <= h.now:
			fn := t.fn
			h.messages = append(h.messages, func() {
				if !t.canceled {
					fn()
				}
			})
		default:
			kept = append(kept, t)
		}
	}

	for i := len(kept); i < len(h.timers); i++ {
		h.timers[i] = nil
	}
	h.timers = kept
}
