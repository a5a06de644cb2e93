package internal

type rootStatus int

const (
	rootInProgress rootStatus = iota
	rootCompleted
	rootErrored
)

// performConcurrentWorkOnRoot returns the task callback that renders and commits root.
// The callback returns itself as a continuation while a time sliced render yields.
func (r *Runtime) performConcurrentWorkOnRoot(root *FiberRoot) Callback {
	var perform Callback

	perform = func(didTimeout bool) Callback {
		originalCallbackNode := root.CallbackNode

		// effects of the previous commit run before the next render starts
		if r.flushPassiveEffects() && root.CallbackNode != originalCallbackNode {
			// they scheduled more urgent work
			return nil
		}

		lanes := root.nextLanes()
		if lanes == NoLanes {
			return nil
		}

		timeSlice := !didTimeout &&
			!includesSomeLane(lanes, SyncLane) &&
			!root.hasExpiredLane(lanes, r.scheduler.Now(), r.scheduler.timeouts)

		switch r.renderRoot(root, lanes, timeSlice) {
		case rootInProgress:
			if root.CallbackNode == originalCallbackNode {
				return perform
			}
			return nil
		case rootErrored:
			if root.CallbackNode == originalCallbackNode {
				root.CallbackNode = nil
				root.CallbackPriority = NoLane
			}
			r.ensureRootIsScheduled(root)
			return nil
		}

		r.commitRoot(root)
		return nil
	}

	return perform
}

// renderRoot runs units of work until the tree is complete or, when time sliced,
// until the scheduler asks to yield. An interrupted render of the same root and
// lanes resumes where it stopped.
func (r *Runtime) renderRoot(root *FiberRoot, lanes Lanes, timeSlice bool) (status rootStatus) {
	if r.wipRoot != root || r.wipLanes != lanes {
		r.prepareFreshStack(root, lanes)
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		err := asError(rec)
		r.resetStack()

		// the failed update is dropped
		root.markFinished(root.PendingLanes &^ lanes)
		root.interleavedLanes = NoLanes

		r.log.Error().Err(err).Msg("render failed")
		if !root.catch(err) {
			panic(rec)
		}

		status = rootErrored
	}()

	for r.workInProgress != nil {
		if timeSlice && r.scheduler.ShouldYield() {
			return rootInProgress
		}
		r.performUnitOfWork(r.workInProgress)
	}

	return rootCompleted
}

func (r *Runtime) prepareFreshStack(root *FiberRoot, lanes Lanes) {
	r.log.Trace().Uint32("lanes", uint32(lanes)).Msg("starting render")

	root.FinishedWork = nil
	root.FinishedLanes = NoLanes
	root.interleavedLanes = NoLanes

	r.wipRoot = root
	r.wipLanes = lanes
	r.wipRootFiber = createWorkInProgress(root.Current, nil, root.children)
	r.workInProgress = r.wipRootFiber
}

func (r *Runtime) resetStack() {
	r.wipRoot = nil
	r.wipRootFiber = nil
	r.workInProgress = nil
	r.wipLanes = NoLanes
}

func (r *Runtime) performUnitOfWork(unitOfWork *Fiber) {
	next := r.beginWork(unitOfWork.Alternate, unitOfWork)

	if next == nil {
		r.completeUnitOfWork(unitOfWork)
		return
	}

	r.workInProgress = next
}

// beginWork reconciles the children of wip and returns the first one.
func (r *Runtime) beginWork(current, wip *Fiber) *Fiber {
	switch wip.Tag {
	case HostRoot, HostComponent, Fragment:
		reconcileChildren(wip, wip.children)
	case FunctionComponent:
		children := r.renderWithHooks(current, wip)
		reconcileChildren(wip, children)
	case HostText:
		wip.Child = nil
	}

	// the whole tree is rendered, so every pending update below is processed
	wip.Lanes = NoLanes
	wip.ChildLanes = NoLanes

	return wip.Child
}

// completeUnitOfWork completes fibers upwards until one has a sibling left to begin.
func (r *Runtime) completeUnitOfWork(unitOfWork *Fiber) {
	completed := unitOfWork

	for completed != nil {
		r.completeWork(completed)

		if completed.Sibling != nil {
			r.workInProgress = completed.Sibling
			return
		}

		if completed == r.wipRootFiber {
			break
		}
		completed = completed.Return
	}

	r.workInProgress = nil
}

// completeWork creates the host instance of a new host fiber and attaches
// the host nodes of its subtree to it. Existing instances are updated on commit.
func (r *Runtime) completeWork(wip *Fiber) {
	switch wip.Tag {
	case HostComponent:
		if wip.StateNode != nil {
			return
		}

		instance := r.host.CreateInstance(wip.Type.(string), wip.Props)
		r.appendAllChildren(instance, wip)
		wip.StateNode = instance

	case HostText:
		if wip.StateNode != nil {
			return
		}

		wip.StateNode = r.host.CreateTextInstance(textOf(wip.Props))
	}
}

// appendAllChildren appends the topmost host nodes below wip to parent.
func (r *Runtime) appendAllChildren(parent any, wip *Fiber) {
	for child := wip.Child; child != nil; child = child.Sibling {
		if child.isHost() {
			r.host.AppendChild(parent, child.StateNode)
			continue
		}

		r.appendAllChildren(parent, child)
	}
}
