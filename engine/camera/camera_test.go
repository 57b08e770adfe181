package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionFromOrbit(t *testing.T) {
	c := NewCamera(WithTarget(1, 0, 0), WithOrbit(4, 0, 0))
	pos := c.Position()
	assert.InDelta(t, 1, pos[0], 1e-5)
	assert.InDelta(t, 0, pos[1], 1e-5)
	assert.InDelta(t, 4, pos[2], 1e-5)

	// The target lands on the view axis in front of the camera.
	view := c.ViewMatrix()
	x, y, z := common.TransformPoint(&view, 1, 0, 0)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, -4, z, 1e-5)
}

func TestOrbitAndZoomAreClamped(t *testing.T) {
	c := NewCamera(WithOrbit(5, 0, 0), WithRadiusBounds(2, 10))
	c.Zoom(100)
	c.Orbit(0, 10)
	c.Update()

	pos := c.Position()
	assert.InDelta(t, 2, pos[1], 0.01, "elevation stops short of the pole")
	assert.Less(t, pos[1], float32(2))

	c.Zoom(-100)
	c.Update()
	pos = c.Position()
	assert.InDelta(t, 10, pos[1], 0.02)
}

func TestPublishedMatricesFollowUpdate(t *testing.T) {
	c := NewCamera(WithOrbit(5, 0, 0))
	store := data.NewStore()
	c.Publish(store)

	// The z-sorter reads the view matrix from the same property.
	assert.Equal(t, drawcall.ViewMatrixProperty, ViewMatrixProperty)

	view, err := data.Get[*common.Matrix4](store, ViewMatrixProperty)
	require.NoError(t, err)
	assert.InDelta(t, -5, view[14], 1e-5)

	c.Zoom(2)
	assert.InDelta(t, -5, view[14], 1e-5, "published values change only on Update")
	c.Update()
	assert.InDelta(t, -3, view[14], 1e-5)

	vp, err := data.Get[*common.Matrix4](store, ViewProjectionMatrixProperty)
	require.NoError(t, err)
	assert.Equal(t, c.ViewProjectionMatrix(), *vp)
}
