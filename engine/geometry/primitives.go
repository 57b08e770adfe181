package geometry

// Quad returns a unit quad in the XY plane facing +Z, centered on the origin.
//
// Returns:
//   - Geometry: the quad
func Quad() Geometry {
	n := [3]float32{0, 0, 1}
	g, _ := NewGeometry("quad", []Vertex{
		{Position: [3]float32{-0.5, -0.5, 0}, Normal: n, UV: [2]float32{0, 1}},
		{Position: [3]float32{0.5, -0.5, 0}, Normal: n, UV: [2]float32{1, 1}},
		{Position: [3]float32{0.5, 0.5, 0}, Normal: n, UV: [2]float32{1, 0}},
		{Position: [3]float32{-0.5, 0.5, 0}, Normal: n, UV: [2]float32{0, 0}},
	}, []uint32{0, 1, 2, 0, 2, 3})
	return g
}

// Cube returns a unit cube centered on the origin with one quad per face.
//
// Returns:
//   - Geometry: the cube
func Cube() Geometry {
	// Each face: normal, then the two in-plane axes u and v.
	faces := [6][3][3]float32{
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range corners {
			var p [3]float32
			for i := range 3 {
				p[i] = 0.5 * (n[i] + c[0]*u[i] + c[1]*v[i])
			}
			vertices = append(vertices, Vertex{Position: p, Normal: n, UV: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2}})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	g, _ := NewGeometry("cube", vertices, indices)
	return g
}
