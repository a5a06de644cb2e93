package fiber

import "github.com/AnatoleLucet/fiber/internal"

// Setter updates a state created by UseState. Setters are stable across renders.
type Setter[T any] struct {
	dispatch internal.Dispatch
}

// Set replaces the state. Setting the current value does not re-render.
func (s Setter[T]) Set(v T) {
	s.dispatch(func(any) any { return v })
}

// Update computes the next state from the latest one.
func (s Setter[T]) Update(fn func(prev T) T) {
	s.dispatch(func(prev any) any { return fn(as[T](prev)) })
}

// UseState returns the state of the next hook cell and its setter.
func UseState[T any](h *Hooks, initial T) (T, Setter[T]) {
	v, dispatch := h.UseState(initial)
	return as[T](v), Setter[T]{dispatch}
}

// UseReducer returns the state of the next hook cell and a function dispatching
// actions through reducer. The reducer of the latest render is used.
func UseReducer[S, A any](h *Hooks, reducer func(state S, action A) S, initial S) (S, func(A)) {
	v, dispatch := h.UseReducer(func(state, action any) any {
		return reducer(as[S](state), as[A](action))
	}, initial)

	return as[S](v), func(action A) { dispatch(action) }
}

// UseEffect runs create after the render is committed, and the cleanup it returns
// before the next run or on unmount. With nil deps it runs after every render,
// otherwise only when one of deps changed; an empty deps runs it once.
func UseEffect(h *Hooks, create func() func(), deps []any) {
	h.UseEffect(create, deps)
}

// UseLayoutEffect is UseEffect, run synchronously during the commit.
func UseLayoutEffect(h *Hooks, create func() func(), deps []any) {
	h.UseLayoutEffect(create, deps)
}

type Ref[T any] struct {
	Current T
}

// UseRef returns a pointer that stays the same across renders.
// Writing to it does not re-render.
func UseRef[T any](h *Hooks, initial T) *Ref[T] {
	v, _ := h.UseState(&Ref[T]{Current: initial})
	return v.(*Ref[T])
}
