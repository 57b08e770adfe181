package geometry

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
)

// Vertex attribute properties published by Publish, next to the index and center properties the
// draw call reads.
const (
	PositionProperty = "geometry[${geometryUuid}].position"
	NormalProperty   = "geometry[${geometryUuid}].normal"
	UVProperty       = "geometry[${geometryUuid}].uv"
)

// VariableName is the draw call variable selecting the geometry.
const VariableName = "geometryUuid"

// Stride is the number of float32 components of one interleaved vertex.
const Stride = 8

// Vertex is one mesh vertex. Vertices are uploaded interleaved in field order.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Uploader creates the GPU buffers of a geometry. renderer.Renderer implements it.
type Uploader interface {
	CreateVertexBuffer(data []float32) (uint32, error)
	CreateIndexBuffer(data []uint32) (uint32, error)
}

// geometry is the implementation of the Geometry interface.
type geometry struct {
	name     string
	vertices []Vertex
	indices  []uint32

	boundsMin [3]float32
	boundsMax [3]float32
	center    [3]float32

	vertexBuffer uint32
	indexBuffer  uint32
	uploaded     bool
}

// Geometry is an indexed triangle mesh. Once uploaded it can be published into any number of
// target stores under a geometry id, which draw calls select with the geometryUuid variable.
type Geometry interface {
	// Name returns the geometry name.
	Name() string

	// Vertices returns the vertex list.
	Vertices() []Vertex

	// Indices returns the triangle indices.
	Indices() []uint32

	// Bounds returns the axis-aligned bounding box.
	//
	// Returns:
	//   - [3]float32: the minimum corner
	//   - [3]float32: the maximum corner
	Bounds() ([3]float32, [3]float32)

	// Upload creates the vertex and index buffers. Uploading twice is a no-op.
	//
	// Parameters:
	//   - u: the buffer factory
	//
	// Returns:
	//   - error: the buffer creation error
	Upload(u Uploader) error

	// Publish sets the attribute streams, index buffer, index count and bounding-box center on store
	// under the given geometry id.
	//
	// Parameters:
	//   - store: the target store, usually the data of a scene node
	//   - id: the value of the geometryUuid variable
	//
	// Returns:
	//   - error: an error if the geometry was not uploaded
	Publish(store data.Store, id string) error
}

var _ Geometry = &geometry{}

// NewGeometry creates a geometry from vertices and triangle indices.
//
// Parameters:
//   - name: the geometry name
//   - vertices: the vertex list
//   - indices: triangle indices into vertices, three per triangle
//   - options: functional options configuring the geometry
//
// Returns:
//   - Geometry: the new geometry
//   - error: an error if the index count is not a multiple of three or an index is out of range
func NewGeometry(name string, vertices []Vertex, indices []uint32, options ...GeometryBuilderOption) (Geometry, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("geometry %q: %d indices do not form triangles", name, len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("geometry %q: index %d out of range of %d vertices", name, i, len(vertices))
		}
	}
	g := &geometry{name: name, vertices: vertices, indices: indices}
	for _, opt := range options {
		opt(g)
	}
	g.computeBounds()
	return g, nil
}

func (g *geometry) computeBounds() {
	if len(g.vertices) == 0 {
		return
	}
	g.boundsMin = g.vertices[0].Position
	g.boundsMax = g.vertices[0].Position
	for _, v := range g.vertices[1:] {
		for i := range 3 {
			g.boundsMin[i] = min(g.boundsMin[i], v.Position[i])
			g.boundsMax[i] = max(g.boundsMax[i], v.Position[i])
		}
	}
	for i := range 3 {
		g.center[i] = (g.boundsMin[i] + g.boundsMax[i]) / 2
	}
}

func (g *geometry) Name() string {
	return g.name
}

func (g *geometry) Vertices() []Vertex {
	return g.vertices
}

func (g *geometry) Indices() []uint32 {
	return g.indices
}

func (g *geometry) Bounds() ([3]float32, [3]float32) {
	return g.boundsMin, g.boundsMax
}

func (g *geometry) Upload(u Uploader) error {
	if g.uploaded {
		return nil
	}
	vb, err := u.CreateVertexBuffer(g.interleave())
	if err != nil {
		return fmt.Errorf("geometry %q: %w", g.name, err)
	}
	ib, err := u.CreateIndexBuffer(g.indices)
	if err != nil {
		return fmt.Errorf("geometry %q: %w", g.name, err)
	}
	g.vertexBuffer, g.indexBuffer, g.uploaded = vb, ib, true
	common.Logger().Debug("geometry uploaded", "name", g.name, "vertices", len(g.vertices), "indices", len(g.indices))
	return nil
}

func (g *geometry) interleave() []float32 {
	out := make([]float32, 0, len(g.vertices)*Stride)
	for _, v := range g.vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.UV[:]...)
	}
	return out
}

func (g *geometry) Publish(store data.Store, id string) error {
	if !g.uploaded {
		return fmt.Errorf("geometry %q is not uploaded", g.name)
	}
	vars := map[string]string{VariableName: id}
	name := func(property string) string {
		return data.ResolvePropertyName(property, vars)
	}
	store.Set(name(PositionProperty), renderer.VertexAttribute{Buffer: g.vertexBuffer, Size: 3, Stride: Stride, Offset: 0})
	store.Set(name(NormalProperty), renderer.VertexAttribute{Buffer: g.vertexBuffer, Size: 3, Stride: Stride, Offset: 3})
	store.Set(name(UVProperty), renderer.VertexAttribute{Buffer: g.vertexBuffer, Size: 2, Stride: Stride, Offset: 6})
	store.Set(name(drawcall.IndicesProperty), g.indexBuffer)
	store.Set(name(drawcall.FirstIndexProperty), uint32(0))
	store.Set(name(drawcall.NumIndicesProperty), uint32(len(g.indices)))
	store.Set(name(drawcall.CenterProperty), g.center)
	return nil
}
