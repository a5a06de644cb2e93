package internal

import "time"

// FiberRoot anchors one fiber tree to one host container.
type FiberRoot struct {
	ContainerInfo any

	// HostRoot fiber of the committed tree
	Current *Fiber

	// HostRoot fiber of a completed render waiting to be committed
	FinishedWork *Fiber

	// scheduler task currently driving this root, and its lane
	CallbackNode     *Task
	CallbackPriority Lane

	PendingLanes  Lanes
	PingedLanes   Lanes
	FinishedLanes Lanes

	// time of the oldest pending update, per lane
	EventTimes [TotalLanes]time.Duration

	// lanes updated while a render of this root was in progress
	interleavedLanes Lanes

	// children passed to the last Render
	children []*Element

	catchers []func(error)
}

func CreateFiberRoot(containerInfo any) *FiberRoot {
	root := &FiberRoot{
		ContainerInfo: containerInfo,
	}

	root.Current = createFiber(HostRoot, nil, "", nil)
	root.Current.StateNode = root

	return root
}

// OnError registers a handler for errors raised while rendering this root.
// Without handlers those errors panic.
func (root *FiberRoot) OnError(fn func(error)) {
	root.catchers = append(root.catchers, fn)
}

// catch hands err to the error handlers. It reports false when there are none.
func (root *FiberRoot) catch(err error) bool {
	if len(root.catchers) == 0 {
		return false
	}

	for _, catcher := range root.catchers {
		catcher(err)
	}

	return true
}

func (root *FiberRoot) markUpdated(lane Lane, eventTime time.Duration) {
	if root.PendingLanes&lane == NoLanes {
		// keep the oldest event time, it drives expiration
		root.EventTimes[laneToIndex(lane)] = eventTime
	}
	root.PendingLanes |= lane
}

// markFinished leaves only remaining lanes pending.
func (root *FiberRoot) markFinished(remaining Lanes) {
	noLongerPending := root.PendingLanes &^ remaining

	root.PendingLanes = remaining
	root.PingedLanes &= remaining

	for lanes := noLongerPending; lanes != NoLanes; {
		lane := getHighestPriorityLane(lanes)
		root.EventTimes[laneToIndex(lane)] = 0
		lanes &^= lane
	}
}

// nextLanes picks the most urgent pending lane.
func (root *FiberRoot) nextLanes() Lanes {
	return getHighestPriorityLane(root.PendingLanes)
}

// hasExpiredLane reports whether one of lanes has waited past its expiration.
func (root *FiberRoot) hasExpiredLane(lanes Lanes, now time.Duration, t Timeouts) bool {
	for rest := lanes; rest != NoLanes; {
		lane := getHighestPriorityLane(rest)
		if root.EventTimes[laneToIndex(lane)]+laneExpiration(lane, t) <= now {
			return true
		}
		rest &^= lane
	}

	return false
}
