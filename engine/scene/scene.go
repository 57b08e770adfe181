package scene

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
)

// NodeID addresses a node in a Graph. IDs are dense and reused after a node is destroyed.
type NodeID int32

// InvalidNode is the NodeID of no node, returned as the parent of a root.
const InvalidNode NodeID = -1

var (
	ErrInvalidNode = errors.New("invalid node")
	ErrCycle       = errors.New("node would become its own ancestor")
	ErrHasParent   = errors.New("node already has a parent")
	ErrNotChild    = errors.New("node is not a child of the given parent")
)

// NodeEvent is the payload of the structural signals. Root is the root of the tree Child was
// added to or removed from.
type NodeEvent struct {
	Parent NodeID
	Child  NodeID
	Root   NodeID
}

// ComponentEvent is the payload of the capability signals.
type ComponentEvent struct {
	Node NodeID
	Type reflect.Type
}

type node struct {
	name       string
	live       bool
	parent     NodeID
	children   []NodeID
	data       data.Store
	components map[reflect.Type]any
}

// graph is the implementation of the Graph interface.
type graph struct {
	nodes []node
	free  []NodeID
	count int

	nodeAdded        *data.Signal[NodeEvent]
	nodeRemoved      *data.Signal[NodeEvent]
	componentAdded   *data.Signal[ComponentEvent]
	componentRemoved *data.Signal[ComponentEvent]
}

// Graph is a scene graph whose nodes live in an arena addressed by NodeID. Parent and child links
// are index lookups. Each node carries a TARGET property store and a registry of capabilities
// keyed by their Go type.
// A Graph is not safe for concurrent use; signals fire synchronously on the mutating goroutine.
type Graph interface {
	// CreateNode allocates a detached node.
	//
	// Parameters:
	//   - name: the node name, also the name of its property store
	//
	// Returns:
	//   - NodeID: the new node
	CreateNode(name string) NodeID

	// DestroyNode detaches id from its parent, removes every capability in its subtree and frees
	// the subtree's slots for reuse.
	//
	// Parameters:
	//   - id: the node to destroy
	//
	// Returns:
	//   - error: ErrInvalidNode if id is not live
	DestroyNode(id NodeID) error

	// AddChild appends child to the children of parent and fires NodeAdded.
	//
	// Parameters:
	//   - parent: the new parent
	//   - child: a node without a parent
	//
	// Returns:
	//   - error: ErrInvalidNode, ErrHasParent, or ErrCycle when child is parent or one of its ancestors
	AddChild(parent, child NodeID) error

	// RemoveChild detaches child from parent and fires NodeRemoved. The child stays alive as a root.
	//
	// Parameters:
	//   - parent: the current parent
	//   - child: the child to detach
	//
	// Returns:
	//   - error: ErrInvalidNode or ErrNotChild
	RemoveChild(parent, child NodeID) error

	// Valid reports whether id addresses a live node.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - bool: true if the node is live
	Valid(id NodeID) bool

	// Len returns the number of live nodes.
	//
	// Returns:
	//   - int: the live node count
	Len() int

	// Name returns the node name.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - string: the name, empty for an invalid node
	Name(id NodeID) string

	// Parent returns the parent of id, or InvalidNode for a root.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - NodeID: the parent
	Parent(id NodeID) NodeID

	// Children returns the children of id in insertion order. The slice is owned by the graph.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - []NodeID: the children
	Children(id NodeID) []NodeID

	// Root returns the topmost ancestor of id, id itself for a root.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - NodeID: the root, InvalidNode for an invalid node
	Root(id NodeID) NodeID

	// Ancestors returns the ancestors of id from its parent up to its root.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - []NodeID: the ancestors, nearest first
	Ancestors(id NodeID) []NodeID

	// Walk visits root and its descendants depth-first, each parent before its children and
	// siblings in insertion order. When fn returns false the children of that node are skipped.
	//
	// Parameters:
	//   - root: the first node visited
	//   - fn: the visitor
	Walk(root NodeID, fn func(id NodeID) bool)

	// Data returns the TARGET property store of id.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - data.Store: the node store, nil for an invalid node
	Data(id NodeID) data.Store

	// SetComponent registers c as the capability of type t on id, replacing a previous one of the
	// same type. ComponentRemoved fires for a replaced capability before ComponentAdded fires.
	// Prefer the typed AddComponent.
	//
	// Parameters:
	//   - id: the node
	//   - t: the capability type
	//   - c: the capability
	//
	// Returns:
	//   - error: ErrInvalidNode if id is not live
	SetComponent(id NodeID, t reflect.Type, c any) error

	// LookupComponent returns the capability of type t on id.
	//
	// Parameters:
	//   - id: the node
	//   - t: the capability type
	//
	// Returns:
	//   - any: the capability
	//   - bool: true if present
	LookupComponent(id NodeID, t reflect.Type) (any, bool)

	// DeleteComponent removes the capability of type t from id and fires ComponentRemoved.
	//
	// Parameters:
	//   - id: the node
	//   - t: the capability type
	//
	// Returns:
	//   - bool: true if a capability was removed
	DeleteComponent(id NodeID, t reflect.Type) bool

	// NodeAdded fires after a child is attached to a parent.
	NodeAdded() *data.Signal[NodeEvent]

	// NodeRemoved fires after a child is detached from its parent.
	NodeRemoved() *data.Signal[NodeEvent]

	// ComponentAdded fires after a capability is registered on a node.
	ComponentAdded() *data.Signal[ComponentEvent]

	// ComponentRemoved fires after a capability is removed from a node.
	ComponentRemoved() *data.Signal[ComponentEvent]
}

var _ Graph = &graph{}

// NewGraph creates an empty Graph.
//
// Parameters:
//   - options: functional options configuring the graph
//
// Returns:
//   - Graph: the new graph
func NewGraph(options ...GraphBuilderOption) Graph {
	g := &graph{
		nodeAdded:        data.NewSignal[NodeEvent](),
		nodeRemoved:      data.NewSignal[NodeEvent](),
		componentAdded:   data.NewSignal[ComponentEvent](),
		componentRemoved: data.NewSignal[ComponentEvent](),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *graph) get(id NodeID) *node {
	if id < 0 || int(id) >= len(g.nodes) || !g.nodes[id].live {
		return nil
	}
	return &g.nodes[id]
}

func (g *graph) CreateNode(name string) NodeID {
	n := node{
		name:   name,
		live:   true,
		parent: InvalidNode,
		data:   data.NewStore(data.WithName(name)),
	}

	var id NodeID
	if k := len(g.free); k > 0 {
		id = g.free[k-1]
		g.free = g.free[:k-1]
		g.nodes[id] = n
	} else {
		id = NodeID(len(g.nodes))
		g.nodes = append(g.nodes, n)
	}
	g.count++
	return id
}

func (g *graph) DestroyNode(id NodeID) error {
	n := g.get(id)
	if n == nil {
		return fmt.Errorf("destroy %d: %w", id, ErrInvalidNode)
	}
	if n.parent != InvalidNode {
		if err := g.RemoveChild(n.parent, id); err != nil {
			return err
		}
	}

	var subtree []NodeID
	g.Walk(id, func(c NodeID) bool {
		subtree = append(subtree, c)
		return true
	})
	for _, c := range subtree {
		for t := range g.nodes[c].components {
			g.DeleteComponent(c, t)
		}
	}
	for _, c := range subtree {
		g.nodes[c] = node{parent: InvalidNode}
		g.free = append(g.free, c)
		g.count--
	}
	common.Logger().Debug("scene nodes destroyed", "root", id, "count", len(subtree))
	return nil
}

func (g *graph) AddChild(parent, child NodeID) error {
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("add %d to %d: %w", child, parent, ErrInvalidNode)
	}
	if c.parent != InvalidNode {
		return fmt.Errorf("add %d to %d: %w", child, parent, ErrHasParent)
	}
	for a := parent; a != InvalidNode; a = g.nodes[a].parent {
		if a == child {
			return fmt.Errorf("add %d to %d: %w", child, parent, ErrCycle)
		}
	}

	p.children = append(p.children, child)
	c.parent = parent
	g.nodeAdded.Emit(NodeEvent{Parent: parent, Child: child, Root: g.Root(parent)})
	return nil
}

func (g *graph) RemoveChild(parent, child NodeID) error {
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("remove %d from %d: %w", child, parent, ErrInvalidNode)
	}
	if c.parent != parent {
		return fmt.Errorf("remove %d from %d: %w", child, parent, ErrNotChild)
	}

	for i, id := range p.children {
		if id == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	c.parent = InvalidNode
	g.nodeRemoved.Emit(NodeEvent{Parent: parent, Child: child, Root: g.Root(parent)})
	return nil
}

func (g *graph) Valid(id NodeID) bool {
	return g.get(id) != nil
}

func (g *graph) Len() int {
	return g.count
}

func (g *graph) Name(id NodeID) string {
	if n := g.get(id); n != nil {
		return n.name
	}
	return ""
}

func (g *graph) Parent(id NodeID) NodeID {
	if n := g.get(id); n != nil {
		return n.parent
	}
	return InvalidNode
}

func (g *graph) Children(id NodeID) []NodeID {
	if n := g.get(id); n != nil {
		return n.children
	}
	return nil
}

func (g *graph) Root(id NodeID) NodeID {
	if g.get(id) == nil {
		return InvalidNode
	}
	for g.nodes[id].parent != InvalidNode {
		id = g.nodes[id].parent
	}
	return id
}

func (g *graph) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for a := g.Parent(id); a != InvalidNode; a = g.nodes[a].parent {
		out = append(out, a)
	}
	return out
}

func (g *graph) Walk(root NodeID, fn func(id NodeID) bool) {
	if g.get(root) == nil {
		return
	}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(id) {
			continue
		}
		children := g.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

func (g *graph) Data(id NodeID) data.Store {
	if n := g.get(id); n != nil {
		return n.data
	}
	return nil
}

func (g *graph) SetComponent(id NodeID, t reflect.Type, c any) error {
	n := g.get(id)
	if n == nil {
		return fmt.Errorf("component %v on %d: %w", t, id, ErrInvalidNode)
	}
	if _, ok := n.components[t]; ok {
		g.DeleteComponent(id, t)
		n = &g.nodes[id]
	}
	if n.components == nil {
		n.components = make(map[reflect.Type]any)
	}
	n.components[t] = c
	g.componentAdded.Emit(ComponentEvent{Node: id, Type: t})
	return nil
}

func (g *graph) LookupComponent(id NodeID, t reflect.Type) (any, bool) {
	n := g.get(id)
	if n == nil {
		return nil, false
	}
	c, ok := n.components[t]
	return c, ok
}

func (g *graph) DeleteComponent(id NodeID, t reflect.Type) bool {
	n := g.get(id)
	if n == nil {
		return false
	}
	if _, ok := n.components[t]; !ok {
		return false
	}
	delete(n.components, t)
	g.componentRemoved.Emit(ComponentEvent{Node: id, Type: t})
	return true
}

func (g *graph) NodeAdded() *data.Signal[NodeEvent] {
	return g.nodeAdded
}

func (g *graph) NodeRemoved() *data.Signal[NodeEvent] {
	return g.nodeRemoved
}

func (g *graph) ComponentAdded() *data.Signal[ComponentEvent] {
	return g.componentAdded
}

func (g *graph) ComponentRemoved() *data.Signal[ComponentEvent] {
	return g.componentRemoved
}
