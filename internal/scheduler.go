package internal

import (
	"time"

	"github.com/rs/zerolog"
)

// Callback is the body of a scheduled task. It receives whether the task is
// past its expiration time, and may return a continuation to be called in a
// later slice. A nil return means the task is done.
type Callback func(didTimeout bool) Callback

type Task struct {
	ID            uint64
	PriorityLevel PriorityLevel

	// earliest time the task may run
	StartTime time.Duration
	// time after which the task is overdue
	ExpirationTime time.Duration

	// heap key: StartTime while delayed, ExpirationTime once ready
	sortIndex time.Duration

	// nil once canceled or consumed
	callback Callback
}

// Canceled reports whether the task was canceled or has completed.
func (t *Task) Canceled() bool {
	return t.callback == nil
}

type hostCallback func(hasTimeRemaining bool, initialTime time.Duration) bool

// Scheduler is a cooperative, priority-aware task scheduler.
// It runs tasks in time slices on a Host and yields between them.
type Scheduler struct {
	host Host
	log  zerolog.Logger

	timeouts      Timeouts
	frameInterval time.Duration

	taskQueue  *TaskHeap // ready tasks, by expiration
	timerQueue *TaskHeap // delayed tasks, by start time

	taskIDCounter uint64

	currentTask          *Task
	currentPriorityLevel PriorityLevel

	// set while performing work, to prevent re-entrance
	isPerformingWork        bool
	isHostCallbackScheduled bool
	isHostTimeoutScheduled  bool

	isMessageLoopRunning  bool
	scheduledHostCallback hostCallback
	cancelHostTimeout     func()

	// start of the current slice
	startTime time.Duration
}

type SchedulerOption func(*Scheduler)

func WithLogger(log zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = log }
}

// WithFrameInterval sets the slice budget after which ShouldYield reports true.
func WithFrameInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.frameInterval = d }
}

func WithTimeouts(t Timeouts) SchedulerOption {
	return func(s *Scheduler) { s.timeouts = t }
}

// WithConfig applies the scheduler part of a Config.
func WithConfig(cfg Config) SchedulerOption {
	return func(s *Scheduler) {
		s.frameInterval = cfg.FrameInterval.Duration
		s.timeouts = cfg.Timeouts.toTimeouts()
	}
}

func NewScheduler(host Host, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		host: host,
		log:  zerolog.Nop(),

		timeouts:      DefaultTimeouts(),
		frameInterval: DefaultFrameInterval,

		taskQueue:  NewTaskHeap(),
		timerQueue: NewTaskHeap(),

		taskIDCounter:        1,
		currentPriorityLevel: NormalPriority,
		startTime:            -1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Scheduler) Host() Host {
	return s.host
}

func (s *Scheduler) Now() time.Duration {
	return s.host.Now()
}

type scheduleOptions struct {
	delay time.Duration
}

type ScheduleOption func(*scheduleOptions)

// WithDelay keeps the task out of the ready queue until d has elapsed.
func WithDelay(d time.Duration) ScheduleOption {
	return func(o *scheduleOptions) { o.delay = d }
}

// ScheduleCallback queues callback at the given priority and returns its task.
func (s *Scheduler) ScheduleCallback(priority PriorityLevel, callback Callback, opts ...ScheduleOption) *Task {
	var o scheduleOptions
	for _, opt := range opts {
		opt(&o)
	}

	currentTime := s.host.Now()

	startTime := currentTime
	if o.delay > 0 {
		startTime = currentTime + o.delay
	}

	expirationTime := startTime + s.timeouts.For(priority)

	task := &Task{
		ID:             s.taskIDCounter,
		PriorityLevel:  priority,
		StartTime:      startTime,
		ExpirationTime: expirationTime,
		sortIndex:      -1,
		callback:       callback,
	}
	s.taskIDCounter++

	if startTime > currentTime {
		// delayed task
		task.sortIndex = startTime
		s.timerQueue.Push(task)

		s.log.Trace().Uint64("task", task.ID).Stringer("priority", priority).Dur("delay", o.delay).Msg("task delayed")

		if s.taskQueue.Peek() == nil && task == s.timerQueue.Peek() {
			// all ready work is done and this is the soonest timer
			if s.isHostTimeoutScheduled {
				s.cancelTimeout()
			} else {
				s.isHostTimeoutScheduled = true
			}
			s.requestHostTimeout(startTime - currentTime)
		}
	} else {
		task.sortIndex = expirationTime
		s.taskQueue.Push(task)

		s.log.Trace().Uint64("task", task.ID).Stringer("priority", priority).Msg("task scheduled")

		if !s.isHostCallbackScheduled && !s.isPerformingWork {
			s.isHostCallbackScheduled = true
			s.requestHostCallback(s.flushWork)
		}
	}

	return task
}

// CancelCallback tombstones a task. It stays in its queue until popped.
func (s *Scheduler) CancelCallback(task *Task) {
	if task == nil {
		return
	}

	task.callback = nil
	s.log.Trace().Uint64("task", task.ID).Msg("task canceled")
}

func (s *Scheduler) CurrentPriorityLevel() PriorityLevel {
	return s.currentPriorityLevel
}

// RunWithPriority runs fn with the current priority level set to priority.
func (s *Scheduler) RunWithPriority(priority PriorityLevel, fn func()) {
	switch priority {
	case ImmediatePriority, UserBlockingPriority, NormalPriority, LowPriority, IdlePriority:
	default:
		priority = NormalPriority
	}

	prev := s.currentPriorityLevel
	s.currentPriorityLevel = priority
	defer func() { s.currentPriorityLevel = prev }()

	fn()
}

// ShouldYield reports whether the current slice has used up its budget.
func (s *Scheduler) ShouldYield() bool {
	timeElapsed := s.host.Now() - s.startTime
	if timeElapsed < s.frameInterval {
		// the host has only been blocked for a short amount of time
		return false
	}

	return true
}

// advanceTimers moves every delayed task whose start time has passed into the task queue.
func (s *Scheduler) advanceTimers(currentTime time.Duration) {
	timer := s.timerQueue.Peek()

	for timer != nil {
		if timer.callback == nil {
			s.timerQueue.Pop()
		} else if timer.StartTime <= currentTime {
			s.timerQueue.Pop()
			timer.sortIndex = timer.ExpirationTime
			s.taskQueue.Push(timer)
		} else {
			return
		}

		timer = s.timerQueue.Peek()
	}
}

func (s *Scheduler) handleTimeout(currentTime time.Duration) {
	s.isHostTimeoutScheduled = false
	s.advanceTimers(currentTime)

	if s.isHostCallbackScheduled {
		return
	}

	if s.taskQueue.Peek() != nil {
		s.isHostCallbackScheduled = true
		s.requestHostCallback(s.flushWork)
		return
	}

	if firstTimer := s.timerQueue.Peek(); firstTimer != nil {
		s.isHostTimeoutScheduled = true
		s.requestHostTimeout(firstTimer.StartTime - currentTime)
	}
}

func (s *Scheduler) flushWork(hasTimeRemaining bool, initialTime time.Duration) bool {
	s.isHostCallbackScheduled = false

	if s.isHostTimeoutScheduled {
		// a host callback covers the timers too
		s.isHostTimeoutScheduled = false
		s.cancelTimeout()
	}

	s.isPerformingWork = true
	previousPriorityLevel := s.currentPriorityLevel
	defer func() {
		s.currentTask = nil
		s.currentPriorityLevel = previousPriorityLevel
		s.isPerformingWork = false
	}()

	return s.workLoop(hasTimeRemaining, initialTime)
}

func (s *Scheduler) workLoop(hasTimeRemaining bool, initialTime time.Duration) bool {
	currentTime := initialTime

	s.advanceTimers(currentTime)
	s.currentTask = s.taskQueue.Peek()

	for s.currentTask != nil {
		if s.currentTask.ExpirationTime > currentTime && (!hasTimeRemaining || s.ShouldYield()) {
			// not expired yet and the slice is used up
			s.log.Trace().Uint64("task", s.currentTask.ID).Msg("yielding to host")
			break
		}

		callback := s.currentTask.callback
		if callback == nil {
			// canceled
			s.taskQueue.Pop()
			s.currentTask = s.taskQueue.Peek()
			continue
		}

		s.currentTask.callback = nil
		s.currentPriorityLevel = s.currentTask.PriorityLevel

		didUserCallbackTimeout := s.currentTask.ExpirationTime <= currentTime
		continuation := callback(didUserCallbackTimeout)

		currentTime = s.host.Now()
		if continuation != nil {
			// not done, keep the task and resume in the next slice
			s.currentTask.callback = continuation
			s.advanceTimers(currentTime)
			return true
		}

		if s.currentTask == s.taskQueue.Peek() {
			s.taskQueue.Pop()
		}
		s.advanceTimers(currentTime)

		s.currentTask = s.taskQueue.Peek()
	}

	if s.currentTask != nil {
		return true
	}

	if firstTimer := s.timerQueue.Peek(); firstTimer != nil {
		if s.isHostTimeoutScheduled {
			s.cancelTimeout()
		}
		s.isHostTimeoutScheduled = true
		s.requestHostTimeout(firstTimer.StartTime - currentTime)
	}

	return false
}

func (s *Scheduler) requestHostCallback(callback hostCallback) {
	s.scheduledHostCallback = callback

	if !s.isMessageLoopRunning {
		s.isMessageLoopRunning = true
		s.host.Post(s.performWorkUntilDeadline)
	}
}

// performWorkUntilDeadline is the only entry point from the host run queue into the work loop.
func (s *Scheduler) performWorkUntilDeadline() {
	if s.scheduledHostCallback == nil {
		s.isMessageLoopRunning = false
		return
	}

	currentTime := s.host.Now()
	s.startTime = currentTime

	hasMoreWork := true
	defer func() {
		if hasMoreWork {
			s.host.Post(s.performWorkUntilDeadline)
		} else {
			s.isMessageLoopRunning = false
			s.scheduledHostCallback = nil
		}
	}()

	hasMoreWork = s.scheduledHostCallback(true, currentTime)
}

func (s *Scheduler) requestHostTimeout(d time.Duration) {
	s.cancelHostTimeout = s.host.After(d, func() {
		s.cancelHostTimeout = nil
		s.handleTimeout(s.host.Now())
	})
}

func (s *Scheduler) cancelTimeout() {
	if s.cancelHostTimeout != nil {
		s.cancelHostTimeout()
		s.cancelHostTimeout = nil
	}
}
