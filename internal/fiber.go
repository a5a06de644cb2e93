package internal

import (
	"fmt"
	"strings"
)

type Tag int

const (
	FunctionComponent Tag = iota
	HostRoot
	HostComponent
	HostText
	Fragment
)

func (t Tag) String() string {
	switch t {
	case FunctionComponent:
		return "FunctionComponent"
	case HostRoot:
		return "HostRoot"
	case HostComponent:
		return "HostComponent"
	case HostText:
		return "HostText"
	case Fragment:
		return "Fragment"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

type Flags uint32

const (
	NoFlags Flags = 0
	// the node must be inserted, or moved, in the host tree
	Placement Flags = 1 << 1
	// the node was reused from the previous render
	Update Flags = 1 << 2
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	if f == NoFlags {
		return "none"
	}

	var parts []string
	if f.Has(Placement) {
		parts = append(parts, "placement")
	}
	if f.Has(Update) {
		parts = append(parts, "update")
	}

	return strings.Join(parts, "|")
}

type Props = map[string]any

type textType struct{}
type fragmentType struct{}

var (
	// TextType is the element type of host text nodes. The text is in Props["text"].
	TextType any = textType{}

	// FragmentType groups children without a host node of its own.
	FragmentType any = fragmentType{}
)

// Element describes one child produced by a render function.
type Element struct {
	// a host tag (string), a *Component, TextType or FragmentType
	Type any

	// stable identity among siblings, "" when absent
	Key string

	Props    Props
	Children []*Element
}

// Component is a render function. It is compared by pointer, so create it once.
type Component struct {
	Name   string
	Render func(h *Hooks, props Props) []*Element
}

func NewTextElement(text string) *Element {
	return &Element{Type: TextType, Props: Props{"text": text}}
}

func textOf(props Props) string {
	s, _ := props["text"].(string)
	return s
}

// Fiber is one unit of work: a position in the rendered tree.
// Two generations of the same node are paired through Alternate.
type Fiber struct {
	Tag  Tag
	Type any
	Key  string

	// position among siblings at the last placement
	Index int

	Props Props

	// element children of host components and fragments
	children []*Element

	// host instance, or the FiberRoot for HostRoot fibers
	StateNode any

	// hook cells, in call order
	hooks []*Hook

	UpdateQueueOfEffect []*Effect
	UpdateQueueOfLayout []*Effect

	Flags      Flags
	Lanes      Lanes
	ChildLanes Lanes

	Alternate *Fiber

	Child   *Fiber
	Sibling *Fiber
	Return  *Fiber

	// children of the previous generation to tear down on commit
	Deletions []*Fiber
}

func tagForType(typ any) Tag {
	switch typ.(type) {
	case string:
		return HostComponent
	case textType:
		return HostText
	case fragmentType:
		return Fragment
	case *Component:
		return FunctionComponent
	default:
		panic(fmt.Sprintf("fiber: unsupported element type %T", typ))
	}
}

func createFiber(tag Tag, typ any, key string, props Props) *Fiber {
	return &Fiber{
		Tag:   tag,
		Type:  typ,
		Key:   key,
		Props: props,
	}
}

func createFiberFromElement(el *Element, returnFiber *Fiber) *Fiber {
	f := createFiber(tagForType(el.Type), el.Type, el.Key, el.Props)
	f.children = el.Children
	f.Return = returnFiber

	return f
}

// createWorkInProgress returns the next generation of current, reusing the
// alternate slot when there is one so a node never has more than two generations.
// Fields are copied one by one; Sibling is always reset and is rebuilt by the
// reconciler, effects and deletions start empty.
func createWorkInProgress(current *Fiber, props Props, children []*Element) *Fiber {
	wip := current.Alternate
	if wip == nil {
		wip = &Fiber{}
	}

	*wip = Fiber{
		Tag:       current.Tag,
		Type:      current.Type,
		Key:       current.Key,
		Index:     current.Index,
		Props:     props,
		children:  children,
		StateNode: current.StateNode,
		hooks:     current.hooks,

		Lanes:      current.Lanes,
		ChildLanes: current.ChildLanes,

		Alternate: current,
		Child:     current.Child,
		Return:    current.Return,
	}
	current.Alternate = wip

	return wip
}

// Name is a short label for logs and dumps.
func (f *Fiber) Name() string {
	switch f.Tag {
	case HostRoot:
		return "#root"
	case HostText:
		return "#text"
	case Fragment:
		return "#fragment"
	case HostComponent:
		return f.Type.(string)
	case FunctionComponent:
		if c, ok := f.Type.(*Component); ok && c.Name != "" {
			return c.Name
		}
		return "Anonymous"
	default:
		return f.Tag.String()
	}
}

func (f *Fiber) String() string {
	if f.Key != "" {
		return fmt.Sprintf("%s#%s", f.Name(), f.Key)
	}

	return f.Name()
}

// isHost reports whether the fiber owns a host instance.
func (f *Fiber) isHost() bool {
	return f.Tag == HostComponent || f.Tag == HostText
}

func (f *Fiber) isHostParent() bool {
	return f.Tag == HostComponent || f.Tag == HostRoot
}
