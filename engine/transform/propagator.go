package transform

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/scene"
)

// State tells whether the flattened hierarchy is valid.
type State int

const (
	// StateDirty means the hierarchy changed and the flat lists are rebuilt before the next update.
	StateDirty State = iota
	// StateClean means the flat lists match the hierarchy.
	StateClean
)

func (s State) String() string {
	if s == StateClean {
		return "clean"
	}
	return "dirty"
}

// Driver announces frames. The engine implements it.
type Driver interface {
	// EnterFrame returns the signal fired at the start of every frame.
	EnterFrame() *data.Signal[common.FrameEvent]
}

// propagator is the implementation of the Propagator interface.
type propagator struct {
	graph scene.Graph
	root  scene.NodeID
	state State

	// Parallel lists indexed by dense id. Ids are assigned so that every node comes before its
	// children and the tracked children of a node occupy firstChild[i] .. firstChild[i]+numChildren[i]-1.
	nodes       []scene.NodeID
	transforms  []*Transform
	parent      []int
	numChildren []int
	firstChild  []int
	// ranges holds the contiguous [start, end) id range owned by each local root.
	ranges [][2]int

	subs     data.Subscriptions
	frameSub *data.Subscription

	workers int
	pool    worker.DynamicWorkerPool
}

// Propagator computes the world matrices of every transformed node under a root. It keeps a flat,
// parent-before-children list of the transformed nodes, rebuilt only after the hierarchy changed,
// and updates all world matrices with one forward pass over that list.
// A Propagator is not safe for concurrent use; it runs on the goroutine driving the frame.
type Propagator interface {
	// Update rebuilds the flat lists when dirty, then recomputes every world matrix.
	Update()

	// Attach runs Update on every enter-frame notification of d. A previous attachment is released.
	//
	// Parameters:
	//   - d: the frame driver
	Attach(d Driver)

	// Close releases the graph and driver subscriptions. The propagator stops tracking changes.
	Close()

	// State returns whether the flat lists are valid.
	//
	// Returns:
	//   - State: StateClean or StateDirty
	State() State

	// NumNodes returns the number of tracked nodes in the flat lists.
	//
	// Returns:
	//   - int: the tracked node count
	NumNodes() int

	// NodeAt returns the scene node with dense id i.
	//
	// Parameters:
	//   - i: the dense id
	//
	// Returns:
	//   - scene.NodeID: the node
	NodeAt(i int) scene.NodeID

	// ParentID returns the dense id of the nearest tracked ancestor of i, or -1 for a local root.
	//
	// Parameters:
	//   - i: the dense id
	//
	// Returns:
	//   - int: the parent dense id
	ParentID(i int) int

	// NumChildren returns the number of tracked children of i.
	//
	// Parameters:
	//   - i: the dense id
	//
	// Returns:
	//   - int: the child count
	NumChildren(i int) int

	// FirstChildID returns the dense id of the first tracked child of i.
	//
	// Parameters:
	//   - i: the dense id
	//
	// Returns:
	//   - int: the first child id, meaningful when NumChildren(i) > 0
	FirstChildID(i int) int
}

var _ Propagator = &propagator{}

// NewPropagator creates a Propagator tracking the subtree of g rooted at root. It starts dirty and
// listens to structural and capability changes of g until Close.
//
// Parameters:
//   - g: the scene graph
//   - root: the root of the tracked subtree
//   - options: functional options configuring the propagator
//
// Returns:
//   - Propagator: the new propagator
func NewPropagator(g scene.Graph, root scene.NodeID, options ...PropagatorBuilderOption) Propagator {
	p := &propagator{
		graph: g,
		root:  root,
		state: StateDirty,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.workers > 1 {
		p.pool = worker.NewDynamicWorkerPool(p.workers, 256, time.Second)
	}

	structural := func(e scene.NodeEvent) {
		if p.tracks(e.Parent) {
			p.invalidate()
		}
	}
	capability := func(e scene.ComponentEvent) {
		if e.Type == transformType && p.tracks(e.Node) {
			p.invalidate()
		}
	}
	p.subs.Add(g.NodeAdded().Connect(structural))
	p.subs.Add(g.NodeRemoved().Connect(structural))
	p.subs.Add(g.ComponentAdded().Connect(capability))
	p.subs.Add(g.ComponentRemoved().Connect(capability))
	return p
}

var transformType = scene.TypeOf[*Transform]()

// tracks reports whether id is the root or one of its descendants.
func (p *propagator) tracks(id scene.NodeID) bool {
	for ; id != scene.InvalidNode; id = p.graph.Parent(id) {
		if id == p.root {
			return true
		}
	}
	return false
}

func (p *propagator) invalidate() {
	p.state = StateDirty
}

func (p *propagator) Attach(d Driver) {
	p.frameSub.Disconnect()
	p.frameSub = d.EnterFrame().Connect(func(common.FrameEvent) { p.Update() })
}

func (p *propagator) Close() {
	p.frameSub.Disconnect()
	p.frameSub = nil
	p.subs.DisconnectAll()
}

func (p *propagator) State() State {
	return p.state
}

func (p *propagator) NumNodes() int {
	return len(p.nodes)
}

func (p *propagator) NodeAt(i int) scene.NodeID {
	return p.nodes[i]
}

func (p *propagator) ParentID(i int) int {
	return p.parent[i]
}

func (p *propagator) NumChildren(i int) int {
	return p.numChildren[i]
}

func (p *propagator) FirstChildID(i int) int {
	return p.firstChild[i]
}

func (p *propagator) Update() {
	if p.state == StateDirty {
		p.rebuild()
	}

	if p.pool == nil || len(p.ranges) < 2 {
		for _, r := range p.ranges {
			p.updateRange(r[0], r[1])
		}
		return
	}

	var wg sync.WaitGroup
	for i, r := range p.ranges {
		wg.Add(1)
		start, end := r[0], r[1]
		p.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				p.updateRange(start, end)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// updateRange recomputes the subtree of the local root at start. Every parent in the range is
// updated before its children are visited.
func (p *propagator) updateRange(start, end int) {
	root := p.transforms[start]
	root.world = root.local

	for i := start; i < end; i++ {
		parentWorld := &p.transforms[i].world
		first := p.firstChild[i]
		for c := first; c < first+p.numChildren[i]; c++ {
			t := p.transforms[c]
			common.Mul4(&t.world, parentWorld, &t.local)
		}
	}
}

func (p *propagator) rebuild() {
	p.nodes = p.nodes[:0]
	p.transforms = p.transforms[:0]
	p.parent = p.parent[:0]
	p.numChildren = p.numChildren[:0]
	p.firstChild = p.firstChild[:0]
	p.ranges = p.ranges[:0]

	for _, r := range p.trackedBelow(p.root, true) {
		start := len(p.nodes)
		p.push(r, -1)
		p.expand(start)
		p.ranges = append(p.ranges, [2]int{start, len(p.nodes)})
	}

	p.state = StateClean
	common.Logger().Debug("transform hierarchy rebuilt", "root", p.root, "nodes", len(p.nodes), "localRoots", len(p.ranges))
}

// expand assigns consecutive ids to the tracked children of i, then expands each child in order.
func (p *propagator) expand(i int) {
	children := p.trackedBelow(p.nodes[i], false)
	if len(children) == 0 {
		return
	}
	first := len(p.nodes)
	for _, c := range children {
		p.push(c, i)
	}
	p.numChildren[i] = len(children)
	p.firstChild[i] = first
	for c := first; c < first+len(children); c++ {
		p.expand(c)
	}
}

func (p *propagator) push(id scene.NodeID, parent int) {
	t, _ := Of(p.graph, id)
	p.nodes = append(p.nodes, id)
	p.transforms = append(p.transforms, t)
	p.parent = append(p.parent, parent)
	p.numChildren = append(p.numChildren, 0)
	p.firstChild = append(p.firstChild, 0)
}

// trackedBelow returns the nearest transformed descendants of id in depth-first order, walking
// past nodes without a transform. With self set, id itself is a candidate.
func (p *propagator) trackedBelow(id scene.NodeID, self bool) []scene.NodeID {
	var out []scene.NodeID
	visit := func(n scene.NodeID) bool {
		if scene.HasComponent[*Transform](p.graph, n) {
			out = append(out, n)
			return false
		}
		return true
	}
	if self {
		p.graph.Walk(id, visit)
		return out
	}
	for _, c := range p.graph.Children(id) {
		p.graph.Walk(c, visit)
	}
	return out
}
