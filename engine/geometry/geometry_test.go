package geometry

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buffers struct {
	vertices [][]float32
	indices  [][]uint32
	err      error
}

func (b *buffers) CreateVertexBuffer(data []float32) (uint32, error) {
	if b.err != nil {
		return 0, b.err
	}
	b.vertices = append(b.vertices, data)
	return uint32(len(b.vertices)), nil
}

func (b *buffers) CreateIndexBuffer(data []uint32) (uint32, error) {
	b.indices = append(b.indices, data)
	return uint32(100 + len(b.indices)), nil
}

func TestNewGeometryValidatesIndices(t *testing.T) {
	v := []Vertex{{}, {}, {}}
	_, err := NewGeometry("partial", v, []uint32{0, 1})
	assert.Error(t, err)
	_, err = NewGeometry("out of range", v, []uint32{0, 1, 3})
	assert.ErrorContains(t, err, "out of range")
}

func TestPrimitiveBounds(t *testing.T) {
	for _, g := range []Geometry{Quad(), Cube()} {
		lo, hi := g.Bounds()
		assert.Equal(t, float32(-0.5), lo[0], g.Name())
		assert.Equal(t, float32(0.5), hi[1], g.Name())
		assert.Zero(t, len(g.Indices())%3, g.Name())
	}
	assert.Len(t, Cube().Vertices(), 24)
	assert.Len(t, Cube().Indices(), 36)
}

func TestCubeFacesPointOutward(t *testing.T) {
	c := Cube()
	vs := c.Vertices()
	idx := c.Indices()
	for i := 0; i < len(idx); i += 3 {
		a, b, d := vs[idx[i]].Position, vs[idx[i+1]].Position, vs[idx[i+2]].Position
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
		n := [3]float32{e1[1]*e2[2] - e1[2]*e2[1], e1[2]*e2[0] - e1[0]*e2[2], e1[0]*e2[1] - e1[1]*e2[0]}
		want := vs[idx[i]].Normal
		dot := n[0]*want[0] + n[1]*want[1] + n[2]*want[2]
		assert.Greater(t, dot, float32(0), "triangle %d winds against its normal", i/3)
	}
}

func TestUploadAndPublish(t *testing.T) {
	q := Quad()
	store := data.NewStore()
	require.Error(t, q.Publish(store, "1"), "publishing needs buffers")

	b := &buffers{}
	require.NoError(t, q.Upload(b))
	require.NoError(t, q.Upload(b))
	require.Len(t, b.vertices, 1, "second upload is a no-op")
	assert.Len(t, b.vertices[0], 4*Stride)
	assert.Equal(t, []float32{0.5, -0.5, 0, 0, 0, 1, 1, 1}, b.vertices[0][Stride:2*Stride])

	require.NoError(t, q.Publish(store, "7"))
	uv, err := data.Get[renderer.VertexAttribute](store, "geometry[7].uv")
	require.NoError(t, err)
	assert.Equal(t, renderer.VertexAttribute{Buffer: 1, Size: 2, Stride: Stride, Offset: 6}, uv)

	ib, err := data.Get[uint32](store, "geometry[7].indices")
	require.NoError(t, err)
	assert.Equal(t, uint32(101), ib)
	n, err := data.Get[uint32](store, "geometry[7].numIndices")
	require.NoError(t, err)
	assert.Equal(t, uint32(6), n)
	center, err := data.Get[[3]float32](store, "geometry[7].center")
	require.NoError(t, err)
	assert.Equal(t, [3]float32{}, center)
}

func TestUploadError(t *testing.T) {
	boom := errors.New("out of memory")
	err := Cube().Upload(&buffers{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestWithUploadedSkipsUpload(t *testing.T) {
	g, err := NewGeometry("shared", []Vertex{{}, {}, {}}, []uint32{0, 1, 2}, WithUploaded(5, 6))
	require.NoError(t, err)
	b := &buffers{}
	require.NoError(t, g.Upload(b))
	assert.Empty(t, b.vertices)

	store := data.NewStore()
	require.NoError(t, g.Publish(store, "s"))
	pos, err := data.Get[renderer.VertexAttribute](store, "geometry[s].position")
	require.NoError(t, err)
	assert.Equal(t, uint32(5), pos.Buffer)
}
