package geometry

// GeometryBuilderOption is a functional option for configuring a Geometry via NewGeometry.
type GeometryBuilderOption func(*geometry)

// WithUploaded marks the geometry as already uploaded to the given buffers, for meshes whose data
// lives in shared buffers.
//
// Parameters:
//   - vertexBuffer: the id of the interleaved vertex buffer
//   - indexBuffer: the id of the index buffer
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithUploaded(vertexBuffer, indexBuffer uint32) GeometryBuilderOption {
	return func(g *geometry) {
		g.vertexBuffer, g.indexBuffer, g.uploaded = vertexBuffer, indexBuffer, true
	}
}
