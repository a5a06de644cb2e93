package fiber

import (
	"github.com/AnatoleLucet/fiber/internal"
)

type (
	// Host is the environment the scheduler runs on.
	Host = internal.Host

	ManualHost = internal.ManualHost
	LoopHost   = internal.LoopHost

	Scheduler       = internal.Scheduler
	SchedulerOption = internal.SchedulerOption
	ScheduleOption  = internal.ScheduleOption
	Task            = internal.Task
	Callback        = internal.Callback
	PriorityLevel   = internal.PriorityLevel

	Timeouts = internal.Timeouts
	Config   = internal.Config
)

const (
	NoPriority           = internal.NoPriority
	ImmediatePriority    = internal.ImmediatePriority
	UserBlockingPriority = internal.UserBlockingPriority
	NormalPriority       = internal.NormalPriority
	LowPriority          = internal.LowPriority
	IdlePriority         = internal.IdlePriority
)

var (
	ErrLoopRunning = internal.ErrLoopRunning
	ErrLoopStopped = internal.ErrLoopStopped
)

// NewManualHost creates a host with a virtual clock, advanced by hand. Useful in tests.
func NewManualHost() *ManualHost {
	return internal.NewManualHost()
}

// NewLoopHost creates a host backed by a goroutine run loop. Start it with Run,
// and hand work to it from other goroutines with Do.
func NewLoopHost() *LoopHost {
	return internal.NewLoopHost()
}

func NewScheduler(host Host, opts ...SchedulerOption) *Scheduler {
	return internal.NewScheduler(host, opts...)
}

var (
	WithSchedulerLogger = internal.WithLogger
	WithFrameInterval   = internal.WithFrameInterval
	WithTimeouts        = internal.WithTimeouts
	WithConfig          = internal.WithConfig
	WithDelay           = internal.WithDelay
)

func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	return internal.LoadConfig(path)
}

func ParseConfig(data string) (Config, error) {
	return internal.ParseConfig(data)
}
