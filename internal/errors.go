package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrLoopRunning is returned when Run is called on a loop that is already running.
	ErrLoopRunning = errors.New("loop: already running")

	// ErrLoopStopped is returned when work is handed to a loop that is not running.
	ErrLoopStopped = errors.New("loop: not running")

	// ErrHookOrder matches every HookOrderError.
	ErrHookOrder = errors.New("hooks: call order changed between renders")
)

type HookOrderCode string

const (
	// more hooks than during the previous render
	HookOrderExtra HookOrderCode = "EXTRA_HOOK"
	// fewer hooks than during the previous render
	HookOrderMissing HookOrderCode = "MISSING_HOOK"
	// a hook of another kind sits at the same position
	HookOrderKind HookOrderCode = "HOOK_KIND"
)

// HookOrderError reports a component whose hook calls differ from its previous render.
type HookOrderError struct {
	Code      HookOrderCode
	Component string

	// position of the first mismatching hook
	Index int

	// number of hooks in the previous render
	Previous int
}

func (e *HookOrderError) Error() string {
	switch e.Code {
	case HookOrderExtra:
		return fmt.Sprintf("%s: %s rendered more hooks than during the previous render (hook %d, previous render had %d)", e.Code, e.Component, e.Index, e.Previous)
	case HookOrderMissing:
		return fmt.Sprintf("%s: %s rendered fewer hooks than during the previous render (%d of %d)", e.Code, e.Component, e.Index, e.Previous)
	default:
		return fmt.Sprintf("%s: %s changed the kind of hook %d since the previous render", e.Code, e.Component, e.Index)
	}
}

func (e *HookOrderError) Unwrap() error {
	return ErrHookOrder
}

// IsHookOrderError reports whether err is or wraps a HookOrderError.
func IsHookOrderError(err error) bool {
	var he *HookOrderError
	return errors.As(err, &he)
}

// RenderError wraps a panic recovered while rendering a root.
type RenderError struct {
	Value any
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render panicked: %v", e.Value)
}

func (e *RenderError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// asError turns a recovered panic value into an error.
func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return &RenderError{Value: r}
}
