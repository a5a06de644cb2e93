package internal

// commitRoot applies the finished render of root to the host and runs its layout effects.
// Passive effects are queued and flushed by a separate task, or before the next render.
func (r *Runtime) commitRoot(root *FiberRoot) {
	finishedWork := r.wipRootFiber
	lanes := r.wipLanes
	remaining := (root.PendingLanes &^ lanes) | root.interleavedLanes

	r.resetStack()

	root.FinishedWork = finishedWork
	root.FinishedLanes = lanes
	root.interleavedLanes = NoLanes
	root.CallbackNode = nil
	root.CallbackPriority = NoLane
	root.markFinished(remaining)

	r.log.Debug().Uint32("lanes", uint32(lanes)).Msg("committing root")

	r.Batch(func() {
		r.commitMutationEffects(finishedWork)

		// the finished tree is now the one on screen
		root.Current = finishedWork
		root.FinishedWork = nil
		root.FinishedLanes = NoLanes

		r.commitLayoutEffects(finishedWork)
	})

	if r.effects.Len(HookPassive) > 0 {
		r.schedulePassiveEffects()
	}

	r.ensureRootIsScheduled(root)
}

// commitMutationEffects applies deletions, placements and updates of the subtree at f.
// Children are committed before their parent.
func (r *Runtime) commitMutationEffects(f *Fiber) {
	for _, deleted := range f.Deletions {
		r.commitDeletion(deleted)
	}
	f.Deletions = nil

	for child := f.Child; child != nil; child = child.Sibling {
		r.commitMutationEffects(child)
	}

	if f.Flags.Has(Placement) {
		r.commitPlacement(f)
		f.Flags &^= Placement
	}

	if f.Flags.Has(Update) {
		r.commitUpdate(f)
		f.Flags &^= Update
	}
}

func (r *Runtime) commitUpdate(f *Fiber) {
	current := f.Alternate
	if current == nil {
		return
	}

	switch f.Tag {
	case HostComponent:
		if !shallowEqual(current.Props, f.Props) {
			r.host.CommitUpdate(f.StateNode, f.Props)
		}
	case HostText:
		if text := textOf(f.Props); text != textOf(current.Props) {
			r.host.CommitTextUpdate(f.StateNode, text)
		}
	}
}

func (r *Runtime) commitPlacement(f *Fiber) {
	parentFiber := getHostParentFiber(f)

	var parent any
	switch parentFiber.Tag {
	case HostComponent:
		parent = parentFiber.StateNode
	case HostRoot:
		parent = parentFiber.StateNode.(*FiberRoot).ContainerInfo
	}

	before := getHostSibling(f)
	r.insertOrAppendPlacementNode(f, before, parent)
}

func getHostParentFiber(f *Fiber) *Fiber {
	for parent := f.Return; parent != nil; parent = parent.Return {
		if parent.isHostParent() {
			return parent
		}
	}

	panic("fiber: expected to find a host parent")
}

// getHostSibling returns the host node that f must be inserted before, or nil
// to append. Nodes that are being placed in this commit are not stable and are skipped.
func getHostSibling(f *Fiber) any {
	node := f

siblings:
	for {
		// no sibling here, climb until there is one or we reach the host parent
		for node.Sibling == nil {
			if node.Return == nil || node.Return.isHostParent() {
				return nil
			}
			node = node.Return
		}

		node = node.Sibling

		// descend to the first host node
		for !node.isHost() {
			if node.Flags.Has(Placement) {
				// moving too, so it cannot anchor the insertion
				continue siblings
			}
			if node.Child == nil {
				continue siblings
			}
			node = node.Child
		}

		if !node.Flags.Has(Placement) {
			return node.StateNode
		}
	}
}

func (r *Runtime) insertOrAppendPlacementNode(node *Fiber, before, parent any) {
	if node.isHost() {
		if before != nil {
			r.host.InsertBefore(parent, node.StateNode, before)
		} else {
			r.host.AppendChild(parent, node.StateNode)
		}
		return
	}

	for child := node.Child; child != nil; child = child.Sibling {
		r.insertOrAppendPlacementNode(child, before, parent)
	}
}

// commitDeletion removes the host nodes of a deleted subtree and tears down its effects.
func (r *Runtime) commitDeletion(deleted *Fiber) {
	r.log.Trace().Str("fiber", deleted.String()).Msg("deleting")

	r.commitDeletionEffects(deleted, true)
}

func (r *Runtime) commitDeletionEffects(f *Fiber, removeHost bool) {
	switch f.Tag {
	case HostComponent, HostText:
		if removeHost {
			// removing the topmost host node takes its host subtree with it
			r.host.RemoveInstance(f.StateNode)
		}
		removeHost = false

	case FunctionComponent:
		for _, hook := range f.hooks {
			effect, ok := hook.MemoizedState.(*Effect)
			if !ok {
				continue
			}

			if effect.Flags.Has(HookLayout) {
				effect.unmount()
			} else {
				r.effects.Enqueue(HookPassive, effect.unmount)
			}
		}
	}

	for child := f.Child; child != nil; child = child.Sibling {
		r.commitDeletionEffects(child, removeHost)
	}

	// detached fibers can no longer reach the root, updates on them are dropped
	f.Return = nil
	if f.Alternate != nil {
		f.Alternate.Return = nil
	}
}

// commitLayoutEffects runs the layout effects of the committed tree and queues
// its passive ones. Every cleanup runs before any setup, children before parents.
func (r *Runtime) commitLayoutEffects(finishedWork *Fiber) {
	var layout, passive []*Effect

	var collect func(f *Fiber)
	collect = func(f *Fiber) {
		for child := f.Child; child != nil; child = child.Sibling {
			collect(child)
		}

		if f.Tag == FunctionComponent {
			layout = append(layout, f.UpdateQueueOfLayout...)
			passive = append(passive, f.UpdateQueueOfEffect...)
		}
	}
	collect(finishedWork)

	for _, effect := range layout {
		r.effects.Enqueue(HookLayout, effect.unmount)
	}
	for _, effect := range layout {
		r.effects.Enqueue(HookLayout, effect.mount)
	}
	r.effects.RunEffects(HookLayout)

	for _, effect := range passive {
		r.effects.Enqueue(HookPassive, effect.unmount)
	}
	for _, effect := range passive {
		r.effects.Enqueue(HookPassive, effect.mount)
	}
}

func (r *Runtime) schedulePassiveEffects() {
	if r.passiveTask != nil {
		return
	}

	r.passiveTask = r.scheduler.ScheduleCallback(NormalPriority, func(bool) Callback {
		r.flushPassiveEffects()
		return nil
	})
}

// flushPassiveEffects runs every queued passive cleanup and setup.
// It reports whether there was anything to run.
func (r *Runtime) flushPassiveEffects() bool {
	if r.passiveTask != nil {
		r.scheduler.CancelCallback(r.passiveTask)
		r.passiveTask = nil
	}

	if r.effects.Len(HookPassive) == 0 {
		return false
	}

	r.Batch(func() {
		r.effects.RunEffects(HookPassive)
	})

	return true
}

func shallowEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}

	for k, v := range a {
		w, ok := b[k]
		if !ok || !isEqual(v, w) {
			return false
		}
	}

	return true
}
