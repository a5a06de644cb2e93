package internal

import (
	"math/bits"
	"time"
)

// Lanes is a bitset of update priorities. Lower bits are more urgent.
type Lanes uint32

// Lane is a Lanes value with a single bit set.
type Lane = Lanes

const TotalLanes = 31

const (
	NoLanes Lanes = 0
	NoLane  Lane  = 0

	SyncLane            Lane = 1 << 1
	InputContinuousLane Lane = 1 << 3
	DefaultLane         Lane = 1 << 5
	TransitionLane      Lane = 1 << 7
	IdleLane            Lane = 1 << 29
)

func getHighestPriorityLane(lanes Lanes) Lane {
	return lanes & -lanes
}

func laneToIndex(lane Lane) int {
	return bits.TrailingZeros32(uint32(lane))
}

func includesSomeLane(a, b Lanes) bool {
	return a&b != NoLanes
}

// lanesToPriority maps the most urgent lane to a scheduler priority.
func lanesToPriority(lanes Lanes) PriorityLevel {
	switch getHighestPriorityLane(lanes) {
	case SyncLane:
		return ImmediatePriority
	case InputContinuousLane:
		return UserBlockingPriority
	case DefaultLane:
		return NormalPriority
	case TransitionLane:
		return LowPriority
	case IdleLane:
		return IdlePriority
	default:
		return NormalPriority
	}
}

func priorityToLane(p PriorityLevel) Lane {
	switch p {
	case ImmediatePriority:
		return SyncLane
	case UserBlockingPriority:
		return InputContinuousLane
	case LowPriority:
		return TransitionLane
	case IdlePriority:
		return IdleLane
	default:
		return DefaultLane
	}
}

// laneExpiration is how long an update may wait before it stops being time sliced.
func laneExpiration(lane Lane, t Timeouts) time.Duration {
	switch lane {
	case SyncLane:
		return 0
	case InputContinuousLane:
		return t.UserBlocking
	case DefaultLane:
		return t.Normal
	case TransitionLane:
		return t.Low
	default:
		return IdlePriorityTimeout
	}
}
