// Package memhost is an in-memory host tree. It records every mutation it
// receives, which makes it handy to observe what a commit did.
package memhost

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type Node struct {
	// host tag, "" for text nodes
	Type  string
	Props map[string]any
	Text  string

	Children []*Node
	Parent   *Node
}

func (n *Node) IsText() bool {
	return n.Type == ""
}

// Label names the node in operation logs: the tag, with #id when the node has an id prop,
// or the quoted text.
func (n *Node) Label() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.Text)
	}

	if id, ok := n.Props["id"]; ok {
		return fmt.Sprintf("%s#%v", n.Type, id)
	}

	return n.Type
}

// TextContent concatenates the text of every text node below n, in order.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}

	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}

	return sb.String()
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.Children, child)
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}

	if i := n.Parent.indexOf(n); i >= 0 {
		n.Parent.Children = slices.Delete(n.Parent.Children, i, i+1)
	}
	n.Parent = nil
}

// Host implements the runtime's host config on Nodes.
type Host struct {
	Root *Node

	ops []string
}

func New() *Host {
	return &Host{Root: &Node{Type: "root"}}
}

// Ops returns the mutations recorded since the last Reset.
func (h *Host) Ops() []string {
	return slices.Clone(h.ops)
}

func (h *Host) Reset() {
	h.ops = nil
}

func (h *Host) record(format string, args ...any) {
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}

func (h *Host) CreateInstance(typ string, props map[string]any) any {
	n := &Node{Type: typ, Props: props}
	h.record("create %s", n.Label())

	return n
}

func (h *Host) CreateTextInstance(text string) any {
	n := &Node{Text: text}
	h.record("create %s", n.Label())

	return n
}

func (h *Host) AppendChild(parent, child any) {
	p, c := parent.(*Node), child.(*Node)

	c.detach()
	c.Parent = p
	p.Children = append(p.Children, c)

	h.record("append %s to %s", c.Label(), p.Label())
}

func (h *Host) InsertBefore(parent, child, before any) {
	p, c, b := parent.(*Node), child.(*Node), before.(*Node)

	c.detach()

	i := p.indexOf(b)
	if i < 0 {
		panic(fmt.Sprintf("memhost: %s is not a child of %s", b.Label(), p.Label()))
	}

	c.Parent = p
	p.Children = slices.Insert(p.Children, i, c)

	h.record("insert %s before %s in %s", c.Label(), b.Label(), p.Label())
}

func (h *Host) RemoveInstance(instance any) {
	n := instance.(*Node)
	parent := n.Parent

	n.detach()

	if parent != nil {
		h.record("remove %s from %s", n.Label(), parent.Label())
	} else {
		h.record("remove %s", n.Label())
	}
}

func (h *Host) CommitUpdate(instance any, props map[string]any) {
	n := instance.(*Node)
	n.Props = props

	h.record("update %s", n.Label())
}

func (h *Host) CommitTextUpdate(instance any, text string) {
	n := instance.(*Node)
	old := n.Label()
	n.Text = text

	h.record("text %s -> %s", old, n.Label())
}

// String dumps the tree below Root, one node per line, children indented.
func (h *Host) String() string {
	var sb strings.Builder
	dump(&sb, h.Root, 0)

	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))

	if n.IsText() {
		fmt.Fprintf(sb, "%q\n", n.Text)
		return
	}

	sb.WriteString(n.Type)

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%v", k, n.Props[k])
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		dump(sb, child, depth+1)
	}
}
