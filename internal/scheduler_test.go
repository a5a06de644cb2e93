package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(log *[]string, msg string) Callback {
	return func(bool) Callback {
		*log = append(*log, msg)
		return nil
	}
}

func TestScheduler(t *testing.T) {
	t.Run("runs tasks by priority", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, record(&log, "normal"))
		s.ScheduleCallback(LowPriority, record(&log, "low"))
		s.ScheduleCallback(UserBlockingPriority, record(&log, "user blocking"))
		s.ScheduleCallback(ImmediatePriority, record(&log, "immediate"))
		s.ScheduleCallback(IdlePriority, record(&log, "idle"))

		assert.Equal(t, 1, host.Pending())
		host.Flush()

		assert.Equal(t, []string{"immediate", "user blocking", "normal", "low", "idle"}, log)
	})

	t.Run("same priority runs in schedule order", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, record(&log, "a"))
		s.ScheduleCallback(NormalPriority, record(&log, "b"))
		s.ScheduleCallback(NormalPriority, record(&log, "c"))
		host.Flush()

		assert.Equal(t, []string{"a", "b", "c"}, log)
	})

	t.Run("canceled tasks are skipped", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		a := s.ScheduleCallback(NormalPriority, record(&log, "a"))
		s.ScheduleCallback(NormalPriority, record(&log, "b"))
		s.CancelCallback(a)
		s.CancelCallback(nil)

		assert.True(t, a.Canceled())
		host.Flush()

		assert.Equal(t, []string{"b"}, log)
	})

	t.Run("delayed tasks wait for their start time", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, record(&log, "later"), WithDelay(100*time.Millisecond))
		s.ScheduleCallback(NormalPriority, record(&log, "now"))

		host.Flush()
		assert.Equal(t, []string{"now"}, log)
		assert.Equal(t, 1, host.Timers())

		host.Advance(99 * time.Millisecond)
		host.Flush()
		assert.Equal(t, []string{"now"}, log)

		host.Advance(time.Millisecond)
		host.Flush()
		assert.Equal(t, []string{"now", "later"}, log)
	})

	t.Run("canceled delayed tasks never run", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		canceled := s.ScheduleCallback(NormalPriority, record(&log, "canceled"), WithDelay(100*time.Millisecond))
		s.ScheduleCallback(NormalPriority, record(&log, "kept"), WithDelay(200*time.Millisecond))
		s.CancelCallback(canceled)

		host.RunUntilIdle()

		assert.Equal(t, []string{"kept"}, log)
		assert.Nil(t, s.timerQueue.Peek())
	})

	t.Run("earlier delayed task replaces the host timeout", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, record(&log, "200ms"), WithDelay(200*time.Millisecond))
		s.ScheduleCallback(NormalPriority, record(&log, "100ms"), WithDelay(100*time.Millisecond))
		assert.Equal(t, 1, host.Timers())

		host.Advance(100 * time.Millisecond)
		host.Flush()
		assert.Equal(t, []string{"100ms"}, log)

		host.RunUntilIdle()
		assert.Equal(t, []string{"100ms", "200ms"}, log)
		assert.Equal(t, 200*time.Millisecond, host.Now())
	})

	t.Run("continuations resume in a later slice", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		steps := 0
		var step Callback
		step = func(bool) Callback {
			steps++
			log = append(log, "step")
			if steps < 3 {
				return step
			}
			return nil
		}

		task := s.ScheduleCallback(NormalPriority, step)
		s.ScheduleCallback(NormalPriority, record(&log, "next"))

		host.Step()
		assert.Equal(t, []string{"step"}, log)
		assert.False(t, task.Canceled())
		assert.Equal(t, 1, host.Pending())

		host.Flush()
		assert.Equal(t, []string{"step", "step", "step", "next"}, log)
		assert.True(t, task.Canceled())
	})

	t.Run("yields once the slice is spent", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, func(bool) Callback {
			log = append(log, "slow")
			host.Advance(6 * time.Millisecond)
			return nil
		})
		s.ScheduleCallback(NormalPriority, record(&log, "fast"))

		host.Step()
		assert.Equal(t, []string{"slow"}, log)
		assert.Equal(t, 1, host.Pending())

		host.Step()
		assert.Equal(t, []string{"slow", "fast"}, log)
	})

	t.Run("frame interval is configurable", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host, WithFrameInterval(10*time.Millisecond))

		s.ScheduleCallback(NormalPriority, func(bool) Callback {
			log = append(log, "slow")
			host.Advance(6 * time.Millisecond)
			return nil
		})
		s.ScheduleCallback(NormalPriority, record(&log, "fast"))

		host.Step()
		assert.Equal(t, []string{"slow", "fast"}, log)
	})

	t.Run("expired tasks run without yielding", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(ImmediatePriority, func(bool) Callback {
			log = append(log, "a")
			host.Advance(10 * time.Millisecond)
			return nil
		})
		s.ScheduleCallback(ImmediatePriority, record(&log, "b"))

		host.Step()
		assert.Equal(t, []string{"a", "b"}, log)
	})

	t.Run("reports timeouts to callbacks", func(t *testing.T) {
		host := NewManualHost()
		s := NewScheduler(host)

		var immediate, normal, overdue bool
		s.ScheduleCallback(ImmediatePriority, func(didTimeout bool) Callback {
			immediate = didTimeout
			return nil
		})
		s.ScheduleCallback(NormalPriority, func(didTimeout bool) Callback {
			normal = didTimeout
			return nil
		})
		host.Flush()

		s.ScheduleCallback(NormalPriority, func(didTimeout bool) Callback {
			overdue = didTimeout
			return nil
		})
		host.Advance(NormalPriorityTimeout)
		host.Flush()

		assert.True(t, immediate)
		assert.False(t, normal)
		assert.True(t, overdue)
	})

	t.Run("current priority follows the running task", func(t *testing.T) {
		host := NewManualHost()
		s := NewScheduler(host)

		var seen PriorityLevel
		s.ScheduleCallback(UserBlockingPriority, func(bool) Callback {
			seen = s.CurrentPriorityLevel()
			return nil
		})
		host.Flush()

		assert.Equal(t, UserBlockingPriority, seen)
		assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())
	})

	t.Run("run with priority", func(t *testing.T) {
		s := NewScheduler(NewManualHost())

		var inner, outer PriorityLevel
		s.RunWithPriority(LowPriority, func() {
			s.RunWithPriority(ImmediatePriority, func() {
				inner = s.CurrentPriorityLevel()
			})
			outer = s.CurrentPriorityLevel()
		})

		assert.Equal(t, ImmediatePriority, inner)
		assert.Equal(t, LowPriority, outer)
		assert.Equal(t, NormalPriority, s.CurrentPriorityLevel())

		s.RunWithPriority(PriorityLevel(42), func() {
			inner = s.CurrentPriorityLevel()
		})
		assert.Equal(t, NormalPriority, inner)
	})

	t.Run("tasks scheduled while working join the running loop", func(t *testing.T) {
		log := []string{}
		host := NewManualHost()
		s := NewScheduler(host)

		s.ScheduleCallback(NormalPriority, func(bool) Callback {
			log = append(log, "outer")
			s.ScheduleCallback(ImmediatePriority, record(&log, "inner"))
			return nil
		})

		host.Step()
		assert.Equal(t, []string{"outer", "inner"}, log)
		assert.Equal(t, 0, host.Pending())
	})

	t.Run("timeouts are configurable", func(t *testing.T) {
		s := NewScheduler(NewManualHost(), WithTimeouts(Timeouts{
			UserBlocking: time.Millisecond,
			Normal:       2 * time.Millisecond,
			Low:          3 * time.Millisecond,
		}))

		task := s.ScheduleCallback(LowPriority, record(&[]string{}, "low"))
		assert.Equal(t, 3*time.Millisecond, task.ExpirationTime)
	})
}
