package internal

import "time"

// PriorityLevel orders scheduler tasks. Lower values are more urgent.
type PriorityLevel int

const (
	NoPriority PriorityLevel = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

// max 31 bit integer, the largest small integer on 32-bit engines
const maxSigned31BitInt = 1073741823

const (
	// times out immediately
	ImmediatePriorityTimeout = -1 * time.Millisecond
	// eventually times out
	UserBlockingPriorityTimeout = 250 * time.Millisecond
	NormalPriorityTimeout       = 5000 * time.Millisecond
	LowPriorityTimeout          = 10000 * time.Millisecond
	// never times out
	IdlePriorityTimeout = maxSigned31BitInt * time.Millisecond
)

func (p PriorityLevel) String() string {
	switch p {
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	default:
		return "none"
	}
}

// Timeouts maps the configurable priority levels to their timeouts.
// Immediate and Idle are fixed.
type Timeouts struct {
	UserBlocking time.Duration
	Normal       time.Duration
	Low          time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		UserBlocking: UserBlockingPriorityTimeout,
		Normal:       NormalPriorityTimeout,
		Low:          LowPriorityTimeout,
	}
}

// For returns the timeout of a priority level. Unknown levels get the normal timeout.
func (t Timeouts) For(p PriorityLevel) time.Duration {
	switch p {
	case ImmediatePriority:
		return ImmediatePriorityTimeout
	case UserBlockingPriority:
		return t.UserBlocking
	case NormalPriority:
		return t.Normal
	case LowPriority:
		return t.Low
	case IdlePriority:
		return IdlePriorityTimeout
	default:
		return t.Normal
	}
}
