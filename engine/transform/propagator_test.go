package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frames struct {
	enter *data.Signal[common.FrameEvent]
}

func (f *frames) EnterFrame() *data.Signal[common.FrameEvent] {
	return f.enter
}

func assertMatrixNear(t *testing.T, want, got common.Matrix4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func compose(ms ...common.Matrix4) common.Matrix4 {
	out := common.Identity4()
	for i := range ms {
		common.Mul4(&out, &out, &ms[i])
	}
	return out
}

type chain struct {
	g             scene.Graph
	root, a, b    scene.NodeID
	tRoot, tA, tB *Transform
	mRoot, mA, mB common.Matrix4
}

func newChain(t *testing.T) *chain {
	t.Helper()
	c := &chain{g: scene.NewGraph()}
	c.root, c.a, c.b = c.g.CreateNode("root"), c.g.CreateNode("a"), c.g.CreateNode("b")
	require.NoError(t, c.g.AddChild(c.root, c.a))
	require.NoError(t, c.g.AddChild(c.a, c.b))

	c.mRoot = common.Translation4(10, 0, 0)
	c.mA = common.RotationZ4(0.5)
	c.mB = common.Translation4(0, 2, 1)

	var err error
	c.tRoot, err = Add(c.g, c.root, c.mRoot)
	require.NoError(t, err)
	c.tA, err = Add(c.g, c.a, c.mA)
	require.NoError(t, err)
	c.tB, err = Add(c.g, c.b, c.mB)
	require.NoError(t, err)
	return c
}

func TestChainComposition(t *testing.T) {
	c := newChain(t)
	p := NewPropagator(c.g, c.root)
	defer p.Close()

	assert.Equal(t, StateDirty, p.State())
	p.Update()
	assert.Equal(t, StateClean, p.State())

	assertMatrixNear(t, c.mRoot, c.tRoot.World())
	assertMatrixNear(t, compose(c.mRoot, c.mA), c.tA.World())
	assertMatrixNear(t, compose(c.mRoot, c.mA, c.mB), c.tB.World())

	// The published property is the live world matrix.
	m, err := data.Get[*common.Matrix4](c.g.Data(c.b), ModelToWorldProperty)
	require.NoError(t, err)
	assertMatrixNear(t, c.tB.World(), *m)
}

func TestStructuralChangesMarkDirty(t *testing.T) {
	c := newChain(t)
	f := &frames{enter: data.NewSignal[common.FrameEvent]()}
	p := NewPropagator(c.g, c.root)
	p.Attach(f)
	defer p.Close()

	f.enter.Emit(common.FrameEvent{Frame: 0})
	assert.Equal(t, StateClean, p.State())
	f.enter.Emit(common.FrameEvent{Frame: 1})
	assert.Equal(t, StateClean, p.State())

	n := c.g.CreateNode("plain")
	require.NoError(t, c.g.AddChild(c.a, n))
	assert.Equal(t, StateDirty, p.State())
	f.enter.Emit(common.FrameEvent{Frame: 2})
	assert.Equal(t, 3, p.NumNodes(), "nodes without a transform are not tracked")

	require.True(t, Remove(c.g, c.b))
	assert.Equal(t, StateDirty, p.State())
	assert.False(t, c.g.Data(c.b).Has(ModelToWorldProperty))
	f.enter.Emit(common.FrameEvent{Frame: 3})
	assert.Equal(t, 2, p.NumNodes())
}

func TestAddingTrackedChild(t *testing.T) {
	c := newChain(t)
	f := &frames{enter: data.NewSignal[common.FrameEvent]()}
	p := NewPropagator(c.g, c.root)
	p.Attach(f)
	defer p.Close()

	f.enter.Emit(common.FrameEvent{Frame: 0})
	before := c.tB.World()

	n := c.g.CreateNode("c")
	mC := common.Translation4(0, 0, -3)
	tC, err := Add(c.g, n, mC)
	require.NoError(t, err)
	assert.Equal(t, StateClean, p.State(), "a transform outside the tracked subtree is ignored")

	require.NoError(t, c.g.AddChild(c.a, n))
	assert.Equal(t, StateDirty, p.State())

	f.enter.Emit(common.FrameEvent{Frame: 1})
	assert.Equal(t, StateClean, p.State())
	assertMatrixNear(t, compose(c.mRoot, c.mA, mC), tC.World())
	assertMatrixNear(t, before, c.tB.World())

	require.Equal(t, 4, p.NumNodes())
	assert.Equal(t, 2, p.NumChildren(1))
	assert.Equal(t, []scene.NodeID{c.b, n}, []scene.NodeID{p.NodeAt(p.FirstChildID(1)), p.NodeAt(p.FirstChildID(1) + 1)})
}

func TestNearestTrackedAncestor(t *testing.T) {
	g := scene.NewGraph()
	root, group, leaf := g.CreateNode("root"), g.CreateNode("group"), g.CreateNode("leaf")
	require.NoError(t, g.AddChild(root, group))
	require.NoError(t, g.AddChild(group, leaf))

	mRoot, mLeaf := common.Translation4(1, 2, 3), common.RotationZ4(1)
	_, err := Add(g, root, mRoot)
	require.NoError(t, err)
	tLeaf, err := Add(g, leaf, mLeaf)
	require.NoError(t, err)

	p := NewPropagator(g, root)
	defer p.Close()
	p.Update()

	require.Equal(t, 2, p.NumNodes())
	assert.Equal(t, -1, p.ParentID(0))
	assert.Equal(t, 0, p.ParentID(1))
	assert.Equal(t, 1, p.NumChildren(0))
	assert.Equal(t, leaf, p.NodeAt(1))
	assertMatrixNear(t, compose(mRoot, mLeaf), tLeaf.World())
}

func TestChildRangesAreContiguous(t *testing.T) {
	g := scene.NewGraph()
	root := g.CreateNode("root")
	_, err := Add(g, root, common.Identity4())
	require.NoError(t, err)

	// root -> x -> (x1, x2), root -> y
	x, y, x1, x2 := g.CreateNode("x"), g.CreateNode("y"), g.CreateNode("x1"), g.CreateNode("x2")
	require.NoError(t, g.AddChild(root, x))
	require.NoError(t, g.AddChild(root, y))
	require.NoError(t, g.AddChild(x, x1))
	require.NoError(t, g.AddChild(x, x2))
	for _, n := range []scene.NodeID{x, y, x1, x2} {
		_, err := Add(g, n, common.Translation4(1, 0, 0))
		require.NoError(t, err)
	}

	p := NewPropagator(g, root)
	defer p.Close()
	p.Update()

	require.Equal(t, 5, p.NumNodes())
	for i := 0; i < p.NumNodes(); i++ {
		first := p.FirstChildID(i)
		for c := first; c < first+p.NumChildren(i); c++ {
			assert.Equal(t, i, p.ParentID(c))
			assert.Greater(t, c, i, "parents come before their children")
			assert.Equal(t, p.NodeAt(i), g.Parent(p.NodeAt(c)))
		}
	}
	tX2, _ := Of(g, x2)
	assert.InDelta(t, 2, tX2.World()[12], 1e-6)
}

func TestWorkerPoolMatchesLinearPass(t *testing.T) {
	build := func() (scene.Graph, scene.NodeID, []scene.NodeID) {
		g := scene.NewGraph(scene.WithCapacity(64))
		root := g.CreateNode("root")
		var leaves []scene.NodeID
		for i := 0; i < 6; i++ {
			top := g.CreateNode("top")
			require.NoError(t, g.AddChild(root, top))
			_, err := Add(g, top, common.Translation4(float32(i), 0, 0))
			require.NoError(t, err)
			parent := top
			for d := 0; d < 4; d++ {
				n := g.CreateNode("n")
				require.NoError(t, g.AddChild(parent, n))
				_, err := Add(g, n, common.RotationZ4(0.1*float32(d+1)))
				require.NoError(t, err)
				parent = n
				leaves = append(leaves, n)
			}
		}
		return g, root, leaves
	}

	gLinear, rootLinear, leavesLinear := build()
	gPool, rootPool, leavesPool := build()

	linear := NewPropagator(gLinear, rootLinear)
	defer linear.Close()
	pooled := NewPropagator(gPool, rootPool, WithWorkerPool(4))
	defer pooled.Close()

	linear.Update()
	pooled.Update()

	require.Equal(t, linear.NumNodes(), pooled.NumNodes())
	for i := range leavesLinear {
		a, _ := Of(gLinear, leavesLinear[i])
		b, _ := Of(gPool, leavesPool[i])
		assertMatrixNear(t, a.World(), b.World())
	}
}

func TestCloseStopsTracking(t *testing.T) {
	c := newChain(t)
	f := &frames{enter: data.NewSignal[common.FrameEvent]()}
	p := NewPropagator(c.g, c.root)
	p.Attach(f)
	p.Update()
	p.Close()

	assert.Equal(t, 0, f.enter.Len())
	assert.Equal(t, 0, c.g.NodeAdded().Len())
	assert.Equal(t, 0, c.g.ComponentAdded().Len())

	require.NoError(t, c.g.AddChild(c.b, c.g.CreateNode("late")))
	assert.Equal(t, StateClean, p.State())
}
