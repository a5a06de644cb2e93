package internal

import (
	"github.com/rs/zerolog"
)

// HostConfig applies committed changes to the host tree.
// Instances are opaque to the runtime; the HostRoot parent is the root's container.
type HostConfig interface {
	CreateInstance(typ string, props Props) any
	CreateTextInstance(text string) any

	AppendChild(parent, child any)
	// InsertBefore places child right before before, moving it if it is already attached.
	InsertBefore(parent, child, before any)
	RemoveInstance(instance any)

	CommitUpdate(instance any, props Props)
	CommitTextUpdate(instance any, text string)
}

// Runtime renders fiber roots onto a host. Every method, render function and
// effect runs on the goroutine of the scheduler's host.
type Runtime struct {
	host      HostConfig
	scheduler *Scheduler
	log       zerolog.Logger

	batcher *Batcher
	effects *EffectQueue

	// task flushing passive effects, nil when none is pending
	passiveTask *Task

	// render in progress
	wipRoot        *FiberRoot
	wipRootFiber   *Fiber
	workInProgress *Fiber
	wipLanes       Lanes
}

type RuntimeOption func(*Runtime)

func WithRuntimeLogger(log zerolog.Logger) RuntimeOption {
	return func(r *Runtime) { r.log = log }
}

func NewRuntime(host HostConfig, scheduler *Scheduler, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		host:      host,
		scheduler: scheduler,
		log:       zerolog.Nop(),

		batcher: NewBatcher(),
		effects: NewEffectQueue(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runtime) Scheduler() *Scheduler {
	return r.scheduler
}

func (r *Runtime) CreateRoot(container any) *FiberRoot {
	return CreateFiberRoot(container)
}

// UpdateContainer replaces the children of root and schedules a render at the current priority.
func (r *Runtime) UpdateContainer(root *FiberRoot, children []*Element) {
	root.children = children

	lane := r.requestUpdateLane()
	root.Current.Lanes |= lane

	r.scheduleUpdateOnFiber(root, root.Current, lane)
}

func (r *Runtime) requestUpdateLane() Lane {
	return priorityToLane(r.scheduler.CurrentPriorityLevel())
}

// getRootForUpdatedFiber marks lane on source and on the child lanes of its
// ancestors, in both generations, and returns the root it belongs to.
// It returns nil for fibers that are no longer attached to a root.
func getRootForUpdatedFiber(source *Fiber, lane Lane) *FiberRoot {
	source.Lanes |= lane
	if alt := source.Alternate; alt != nil {
		alt.Lanes |= lane
	}

	node := source
	parent := node.Return
	for parent != nil {
		parent.ChildLanes |= lane
		if alt := parent.Alternate; alt != nil {
			alt.ChildLanes |= lane
		}

		node = parent
		parent = node.Return
	}

	if node.Tag != HostRoot {
		return nil
	}

	root, _ := node.StateNode.(*FiberRoot)
	return root
}

func (r *Runtime) scheduleUpdateOnFiber(root *FiberRoot, fiber *Fiber, lane Lane) {
	root.markUpdated(lane, r.scheduler.Now())

	if root == r.wipRoot {
		// the render in progress may have read stale state
		root.interleavedLanes |= lane
	}

	r.log.Trace().Str("fiber", fiber.String()).Uint32("lane", uint32(lane)).Msg("update scheduled")

	if r.batcher.IsBatching() {
		r.batcher.Defer(root)
		return
	}

	r.ensureRootIsScheduled(root)
}

// ensureRootIsScheduled makes sure a task of the right priority is driving root.
func (r *Runtime) ensureRootIsScheduled(root *FiberRoot) {
	existing := root.CallbackNode
	nextLanes := root.nextLanes()

	if nextLanes == NoLanes {
		if existing != nil {
			r.scheduler.CancelCallback(existing)
		}
		root.CallbackNode = nil
		root.CallbackPriority = NoLane
		return
	}

	newPriority := getHighestPriorityLane(nextLanes)
	if existing != nil && root.CallbackPriority == newPriority {
		return
	}

	if existing != nil {
		r.scheduler.CancelCallback(existing)
	}

	root.CallbackNode = r.scheduler.ScheduleCallback(lanesToPriority(newPriority), r.performConcurrentWorkOnRoot(root))
	root.CallbackPriority = newPriority
}
