package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type marker struct{ n int }

func buildTree(t *testing.T, g Graph) (root, a, b, c NodeID) {
	t.Helper()
	root, a, b, c = g.CreateNode("root"), g.CreateNode("a"), g.CreateNode("b"), g.CreateNode("c")
	require.NoError(t, g.AddChild(root, a))
	require.NoError(t, g.AddChild(a, b))
	require.NoError(t, g.AddChild(root, c))
	return
}

func TestHierarchy(t *testing.T) {
	g := NewGraph(WithCapacity(8))
	root, a, b, c := buildTree(t, g)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, InvalidNode, g.Parent(root))
	assert.Equal(t, a, g.Parent(b))
	assert.Equal(t, []NodeID{a, c}, g.Children(root))
	assert.Equal(t, root, g.Root(b))
	assert.Equal(t, []NodeID{a, root}, g.Ancestors(b))
	assert.Equal(t, "b", g.Name(b))
	assert.Equal(t, "b", g.Data(b).Name())

	var order []NodeID
	g.Walk(root, func(id NodeID) bool {
		order = append(order, id)
		return true
	})
	assert.Equal(t, []NodeID{root, a, b, c}, order)

	order = order[:0]
	g.Walk(root, func(id NodeID) bool {
		order = append(order, id)
		return id != a
	})
	assert.Equal(t, []NodeID{root, a, c}, order, "returning false skips the children")
}

func TestAddChildErrors(t *testing.T) {
	g := NewGraph()
	root, a, b, _ := buildTree(t, g)

	assert.ErrorIs(t, g.AddChild(b, root), ErrCycle)
	assert.ErrorIs(t, g.AddChild(a, a), ErrCycle)
	assert.ErrorIs(t, g.AddChild(root, b), ErrHasParent)
	assert.ErrorIs(t, g.AddChild(root, NodeID(99)), ErrInvalidNode)
	assert.ErrorIs(t, g.RemoveChild(root, b), ErrNotChild)
}

func TestStructuralSignals(t *testing.T) {
	g := NewGraph()
	root, a, _, _ := buildTree(t, g)

	var added, removed []NodeEvent
	subA := g.NodeAdded().Connect(func(e NodeEvent) { added = append(added, e) })
	subR := g.NodeRemoved().Connect(func(e NodeEvent) { removed = append(removed, e) })
	defer subA.Disconnect()
	defer subR.Disconnect()

	d := g.CreateNode("d")
	require.NoError(t, g.AddChild(a, d))
	require.NoError(t, g.RemoveChild(a, d))

	assert.Equal(t, []NodeEvent{{Parent: a, Child: d, Root: root}}, added)
	assert.Equal(t, []NodeEvent{{Parent: a, Child: d, Root: root}}, removed)
	assert.Equal(t, d, g.Root(d))
}

func TestComponents(t *testing.T) {
	g := NewGraph()
	n := g.CreateNode("n")

	var events []ComponentEvent
	g.ComponentAdded().Connect(func(e ComponentEvent) { events = append(events, e) })
	g.ComponentRemoved().Connect(func(e ComponentEvent) { events = append(events, e) })

	require.NoError(t, AddComponent(g, n, &marker{n: 1}))
	assert.True(t, HasComponent[*marker](g, n))
	assert.False(t, HasComponent[marker](g, n), "value and pointer types are distinct capabilities")

	m, ok := Component[*marker](g, n)
	require.True(t, ok)
	assert.Equal(t, 1, m.n)

	require.NoError(t, AddComponent(g, n, &marker{n: 2}))
	m, _ = Component[*marker](g, n)
	assert.Equal(t, 2, m.n)
	assert.Len(t, events, 3, "replacing fires removed then added")

	assert.True(t, RemoveComponent[*marker](g, n))
	assert.False(t, RemoveComponent[*marker](g, n))
	assert.Len(t, events, 4)
	assert.Equal(t, TypeOf[*marker](), events[3].Type)

	assert.ErrorIs(t, AddComponent(g, NodeID(7), &marker{}), ErrInvalidNode)
}

func TestDestroyNodeReusesSlots(t *testing.T) {
	g := NewGraph()
	root, a, b, c := buildTree(t, g)
	require.NoError(t, AddComponent(g, b, &marker{}))

	var removedComponents, removedNodes int
	g.ComponentRemoved().Connect(func(ComponentEvent) { removedComponents++ })
	g.NodeRemoved().Connect(func(NodeEvent) { removedNodes++ })

	require.NoError(t, g.DestroyNode(a))
	assert.Equal(t, 1, removedComponents)
	assert.Equal(t, 1, removedNodes, "only the detached subtree root fires a structural event")
	assert.False(t, g.Valid(a))
	assert.False(t, g.Valid(b))
	assert.Equal(t, []NodeID{c}, g.Children(root))
	assert.Equal(t, 2, g.Len())
	assert.ErrorIs(t, g.DestroyNode(a), ErrInvalidNode)

	reused := g.CreateNode("reused")
	assert.Contains(t, []NodeID{a, b}, reused)
	assert.Equal(t, InvalidNode, g.Parent(reused))
	assert.False(t, HasComponent[*marker](g, reused))
	assert.False(t, g.Data(reused).Has("anything"))
}
