package fiber

import (
	"fmt"
	"maps"

	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/fiber/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	Props     = internal.Props
	Element   = internal.Element
	Component = internal.Component
	Hooks     = internal.Hooks

	// HostConfig is implemented by renderers to apply committed changes to their tree.
	HostConfig = internal.HostConfig

	HookOrderError = internal.HookOrderError
	HookOrderCode  = internal.HookOrderCode
)

const (
	HookOrderExtra   = internal.HookOrderExtra
	HookOrderMissing = internal.HookOrderMissing
	HookOrderKind    = internal.HookOrderKind
)

var (
	// ErrHookOrder matches every HookOrderError.
	ErrHookOrder = internal.ErrHookOrder

	IsHookOrderError = internal.IsHookOrderError
)

// NewComponent creates a component. Components are compared by identity,
// so create each one once and reuse it.
func NewComponent(name string, render func(h *Hooks, props Props) []*Element) *Component {
	return &Component{Name: name, Render: render}
}

// H creates an element of type typ: a host tag or a *Component.
// A "key" prop sets the element's key. Host tags do not receive it as a prop,
// components do.
func H(typ any, props Props, children ...*Element) *Element {
	var key string
	if k, ok := props["key"]; ok {
		if k != nil {
			key = fmt.Sprint(k)
		}

		if _, host := typ.(string); host {
			props = maps.Clone(props)
			delete(props, "key")
		}
	}

	return &Element{
		Type:     typ,
		Key:      key,
		Props:    props,
		Children: children,
	}
}

// Text creates a text element.
func Text(s string) *Element {
	return internal.NewTextElement(s)
}

// Fragment groups children without adding a host node.
func Fragment(children ...*Element) *Element {
	return &Element{Type: internal.FragmentType, Children: children}
}

type options struct {
	log zerolog.Logger
}

type Option func(*options)

// WithLogger sets the logger of the renderer. Nothing is logged by default.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// Renderer renders roots onto a host, scheduling its work on a Scheduler.
// It must only be used from the goroutine that drives the scheduler's host.
type Renderer struct {
	rt *internal.Runtime
}

func NewRenderer(host HostConfig, scheduler *Scheduler, opts ...Option) *Renderer {
	o := &options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Renderer{
		internal.NewRuntime(host, scheduler, internal.WithRuntimeLogger(o.log)),
	}
}

func (r *Renderer) Scheduler() *Scheduler {
	return r.rt.Scheduler()
}

// CreateRoot creates a root rendering into container, the host parent of its top level nodes.
func (r *Renderer) CreateRoot(container any) *Root {
	return &Root{
		rt:   r.rt,
		root: r.rt.CreateRoot(container),
	}
}

// Batch runs fn and schedules the updates it makes once, when it returns.
func (r *Renderer) Batch(fn func()) {
	r.rt.Batch(fn)
}

type Root struct {
	rt   *internal.Runtime
	root *internal.FiberRoot
}

// Render schedules children to replace the content of the root,
// at the priority the caller runs with.
func (root *Root) Render(children ...*Element) {
	root.rt.UpdateContainer(root.root, children)
}

// Unmount schedules the removal of everything rendered into the root.
// Effect cleanups run as part of it.
func (root *Root) Unmount() {
	root.rt.UpdateContainer(root.root, nil)
}

// OnError adds a function called with errors and panics raised while rendering this root.
// The failing update is dropped. If no error listener is registered, the panic propagates as usual.
func (root *Root) OnError(fn func(error)) {
	root.root.OnError(fn)
}
