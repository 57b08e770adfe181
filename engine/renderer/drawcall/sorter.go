package drawcall

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
)

// Properties read by the eye-space sorter.
const (
	ModelToWorldProperty = "transform.modelToWorldMatrix"
	ViewMatrixProperty   = "camera.viewMatrix"
	CenterProperty       = "geometry[${geometryUuid}].center"
)

// Sorter computes the eye-space position of a draw call for transparency ordering.
type Sorter interface {
	// EyeSpacePosition returns the position of the drawn geometry in camera space.
	//
	// Returns:
	//   - [3]float32: the eye-space position
	EyeSpacePosition() [3]float32
}

// SorterFactory creates the sorter of a draw call from its scopes and variables.
type SorterFactory func(scopes data.Scopes, vars map[string]string) Sorter

// zSorter is the default Sorter. It transforms the geometry center by the model-to-world matrix of
// the target and the view matrix of the renderer.
type zSorter struct {
	world  data.Handle
	view   data.Handle
	center data.Handle
}

var _ Sorter = &zSorter{}

// NewZSorter creates the default sorter. The model-to-world matrix is read from the target scope,
// the view matrix from the renderer scope, and the optional geometry center from the target scope.
// Missing matrices read as identity and a missing center as the origin.
//
// Parameters:
//   - scopes: the scopes of the draw call
//   - vars: the variables of the draw call
//
// Returns:
//   - Sorter: the sorter
func NewZSorter(scopes data.Scopes, vars map[string]string) Sorter {
	s := &zSorter{}
	if scopes.Target != nil {
		s.world, _ = scopes.Target.Handle(ModelToWorldProperty)
		s.center, _ = scopes.Target.Handle(data.ResolvePropertyName(CenterProperty, vars))
	}
	if scopes.Renderer != nil {
		s.view, _ = scopes.Renderer.Handle(ViewMatrixProperty)
	}
	return s
}

func (s *zSorter) EyeSpacePosition() [3]float32 {
	center := read(s.center, [3]float32{})
	world := matrixOf(s.world)
	view := matrixOf(s.view)

	var m common.Matrix4
	common.Mul4(&m, &view, &world)
	x, y, z := common.TransformPoint(&m, center[0], center[1], center[2])
	return [3]float32{x, y, z}
}

func matrixOf(h data.Handle) common.Matrix4 {
	switch v := h.Value().(type) {
	case *[16]float32:
		return *v
	case [16]float32:
		return v
	}
	return common.Identity4()
}

// Sort orders draw calls for rendering: higher priority first, then, among z-sorted draw calls of
// equal priority, back to front by eye-space depth. The sort is stable.
//
// Parameters:
//   - calls: the draw calls to order in place
func Sort(calls []DrawCall) {
	depth := make(map[DrawCall]float32)
	for _, c := range calls {
		if c.ZSorted() {
			depth[c] = c.EyeSpacePosition()[2]
		}
	}
	sort.SliceStable(calls, func(i, j int) bool {
		a, b := calls[i], calls[j]
		if pa, pb := a.Priority(), b.Priority(); pa != pb {
			return pa > pb
		}
		da, za := depth[a]
		db, zb := depth[b]
		if za && zb {
			return da < db
		}
		return false
	})
}
