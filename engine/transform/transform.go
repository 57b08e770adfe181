package transform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/scene"
)

// Properties published in the node store of a transformed node.
const (
	ModelToWorldProperty = "transform.modelToWorldMatrix"
	MatrixProperty       = "transform.matrix"
)

// Transform is the node capability holding a local matrix and the world matrix computed from it.
// Both are column-major. The node store exposes them as *common.Matrix4 so bound draw calls read
// the live values.
type Transform struct {
	local common.Matrix4
	world common.Matrix4
}

// NewTransform creates a transform whose world matrix starts equal to local.
//
// Parameters:
//   - local: the local-to-parent matrix
//
// Returns:
//   - *Transform: the new transform
func NewTransform(local common.Matrix4) *Transform {
	return &Transform{local: local, world: local}
}

// Local returns the local-to-parent matrix.
func (t *Transform) Local() common.Matrix4 {
	return t.local
}

// SetLocal replaces the local-to-parent matrix. The world matrix follows on the next update.
//
// Parameters:
//   - m: the new local matrix
func (t *Transform) SetLocal(m common.Matrix4) {
	t.local = m
}

// World returns the model-to-world matrix computed by the last update.
func (t *Transform) World() common.Matrix4 {
	return t.world
}

// Add attaches a new transform to id and publishes its matrices in the node store.
//
// Parameters:
//   - g: the scene graph
//   - id: the node
//   - local: the local-to-parent matrix
//
// Returns:
//   - *Transform: the attached transform
//   - error: scene.ErrInvalidNode if id is not live
func Add(g scene.Graph, id scene.NodeID, local common.Matrix4) (*Transform, error) {
	store := g.Data(id)
	if store == nil {
		return nil, fmt.Errorf("transform on %d: %w", id, scene.ErrInvalidNode)
	}
	t := NewTransform(local)
	store.Set(ModelToWorldProperty, &t.world)
	store.Set(MatrixProperty, &t.local)
	if err := scene.AddComponent(g, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Remove detaches the transform of id and withdraws its properties from the node store.
//
// Parameters:
//   - g: the scene graph
//   - id: the node
//
// Returns:
//   - bool: true if a transform was removed
func Remove(g scene.Graph, id scene.NodeID) bool {
	if !scene.RemoveComponent[*Transform](g, id) {
		return false
	}
	store := g.Data(id)
	store.Remove(ModelToWorldProperty)
	store.Remove(MatrixProperty)
	return true
}

// Of returns the transform of id.
func Of(g scene.Graph, id scene.NodeID) (*Transform, bool) {
	return scene.Component[*Transform](g, id)
}
