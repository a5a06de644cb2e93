package internal

import "reflect"

type hookKind int

const (
	stateHook hookKind = iota + 1
	effectHook
)

// Hook is one cell of a component's local state, in call order.
type Hook struct {
	// state value for state hooks, *Effect for effect hooks
	MemoizedState any

	kind hookKind

	// shared by every generation of the cell
	queue *stateQueue
}

type (
	Reducer  func(state, action any) any
	Dispatch func(action any)
)

// stateQueue holds the latest state of a state hook. Dispatch writes it,
// the next render reads it. Both generations of the fiber point to the same queue.
type stateQueue struct {
	state    any
	reducer  Reducer
	dispatch Dispatch
}

// Hooks is the cursor into a component's hook cells for one render.
// It is only valid while the component's render function runs.
type Hooks struct {
	r *Runtime

	fiber   *Fiber // work in progress
	current *Fiber // previous generation, nil on mount

	index     int
	rendering bool
}

// renderWithHooks calls the component of wip with a fresh cursor and
// rebuilds its hook cells and effect queues.
func (r *Runtime) renderWithHooks(current, wip *Fiber) []*Element {
	component := wip.Type.(*Component)

	wip.hooks = nil
	if current != nil {
		wip.hooks = make([]*Hook, 0, len(current.hooks))
	}
	wip.UpdateQueueOfEffect = nil
	wip.UpdateQueueOfLayout = nil

	h := &Hooks{
		r:         r,
		fiber:     wip,
		current:   current,
		rendering: true,
	}
	defer func() { h.rendering = false }()

	children := component.Render(h, wip.Props)
	h.finish()

	return children
}

// next returns the cell for the next hook call and, on updates, the
// matching cell of the previous render.
func (h *Hooks) next(kind hookKind) (hook *Hook, prev *Hook) {
	if !h.rendering {
		panic("hooks: called outside of a component render")
	}

	index := h.index
	h.index++

	if h.current == nil {
		hook = &Hook{kind: kind}
		h.fiber.hooks = append(h.fiber.hooks, hook)
		return hook, nil
	}

	if index >= len(h.current.hooks) {
		panic(&HookOrderError{
			Code:      HookOrderExtra,
			Component: h.fiber.Name(),
			Index:     index,
			Previous:  len(h.current.hooks),
		})
	}

	prev = h.current.hooks[index]
	if prev.kind != kind {
		panic(&HookOrderError{
			Code:      HookOrderKind,
			Component: h.fiber.Name(),
			Index:     index,
			Previous:  len(h.current.hooks),
		})
	}

	hook = &Hook{
		MemoizedState: prev.MemoizedState,
		kind:          kind,
		queue:         prev.queue,
	}
	h.fiber.hooks = append(h.fiber.hooks, hook)

	return hook, prev
}

func (h *Hooks) finish() {
	if h.current != nil && h.index < len(h.current.hooks) {
		panic(&HookOrderError{
			Code:      HookOrderMissing,
			Component: h.fiber.Name(),
			Index:     h.index,
			Previous:  len(h.current.hooks),
		})
	}
}

// UseReducer returns the current state and a dispatch function that is stable across renders.
// Without a reducer, an action of type func(any) any is applied to the state, any other
// action replaces it.
func (h *Hooks) UseReducer(reducer Reducer, initial any) (any, Dispatch) {
	hook, prev := h.next(stateHook)

	if prev == nil {
		q := &stateQueue{state: initial}

		fiber := h.fiber
		r := h.r
		q.dispatch = func(action any) {
			r.dispatchAction(fiber, q, action)
		}

		hook.queue = q
	}

	hook.queue.reducer = reducer
	hook.MemoizedState = hook.queue.state

	return hook.MemoizedState, hook.queue.dispatch
}

func (h *Hooks) UseState(initial any) (any, Dispatch) {
	return h.UseReducer(nil, initial)
}

// UseEffect queues create to run after the commit, once the host is updated.
// With deps, create only runs again when one of them changed. A nil deps runs every render.
func (h *Hooks) UseEffect(create func() func(), deps []any) {
	h.effect(HookPassive, create, deps)
}

// UseLayoutEffect is UseEffect run synchronously during the commit.
func (h *Hooks) UseLayoutEffect(create func() func(), deps []any) {
	h.effect(HookLayout, create, deps)
}

func (h *Hooks) effect(flags HookFlags, create func() func(), deps []any) {
	hook, prev := h.next(effectHook)

	inst := &effectInstance{}
	if prev != nil {
		prevEffect := prev.MemoizedState.(*Effect)
		inst = prevEffect.inst

		if deps != nil && areHookInputsEqual(deps, prevEffect.Deps) {
			// unchanged, the cell keeps the previous effect
			return
		}
	}

	effect := &Effect{
		Flags:  flags | HookHasEffect,
		Create: create,
		Deps:   deps,
		inst:   inst,
	}
	hook.MemoizedState = effect

	if flags.Has(HookPassive) {
		h.fiber.UpdateQueueOfEffect = append(h.fiber.UpdateQueueOfEffect, effect)
	} else if flags.Has(HookLayout) {
		h.fiber.UpdateQueueOfLayout = append(h.fiber.UpdateQueueOfLayout, effect)
	}
}

func (r *Runtime) dispatchAction(fiber *Fiber, q *stateQueue, action any) {
	next := reduce(q.reducer, q.state, action)
	if isEqual(next, q.state) {
		return
	}
	q.state = next

	lane := r.requestUpdateLane()

	root := getRootForUpdatedFiber(fiber, lane)
	if root == nil {
		r.log.Warn().Str("component", fiber.Name()).Msg("update on an unmounted component")
		return
	}

	r.scheduleUpdateOnFiber(root, fiber, lane)
}

func reduce(reducer Reducer, state, action any) any {
	if reducer != nil {
		return reducer(state, action)
	}

	if fn, ok := action.(func(any) any); ok {
		return fn(state)
	}

	return action
}

func areHookInputsEqual(next, prev []any) bool {
	if prev == nil || len(next) != len(prev) {
		return false
	}

	for i := range next {
		if !isEqual(next[i], prev[i]) {
			return false
		}
	}

	return true
}

// isEqual compares comparable values with ==, maps and slices by identity.
// Functions never compare equal.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return false
	}

	if !va.Comparable() || !vb.Comparable() {
		return false
	}

	return a == b
}
