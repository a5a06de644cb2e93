package fiber

import (
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fixtureNode is an element tree written in YAML. A node is either text or an element.
type fixtureNode struct {
	Type     string         `yaml:"type"`
	Key      string         `yaml:"key"`
	Text     *string        `yaml:"text"`
	Props    map[string]any `yaml:"props"`
	Children []fixtureNode  `yaml:"children"`
}

func (n fixtureNode) element() *Element {
	if n.Text != nil {
		return Text(*n.Text)
	}

	props := Props{}
	for k, v := range n.Props {
		props[k] = v
	}
	if n.Key != "" {
		props["key"] = n.Key
	}

	return H(n.Type, props, elements(n.Children)...)
}

func elements(nodes []fixtureNode) []*Element {
	els := make([]*Element, len(nodes))
	for i, n := range nodes {
		els[i] = n.element()
	}
	return els
}

func loadFixture(t *testing.T, path string) (before, after []*Element) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fixture struct {
		Before []fixtureNode `yaml:"before"`
		After  []fixtureNode `yaml:"after"`
	}
	require.NoError(t, yaml.Unmarshal(data, &fixture))

	return elements(fixture.Before), elements(fixture.After)
}

func TestSnapshot(t *testing.T) {
	before, after := loadFixture(t, "testdata/todo.yaml")

	h := newHarness()
	h.render(before...)

	h.root.Render(after...)
	h.flush()

	g := goldie.New(t)
	g.Assert(t, "todo_tree", []byte(h.dom.String()))
	g.Assert(t, "todo_ops", []byte(strings.Join(h.dom.Ops(), "\n")+"\n"))
}
