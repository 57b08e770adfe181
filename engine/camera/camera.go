package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/chewxy/math32"
)

// Properties published into the renderer store.
const (
	ViewMatrixProperty           = "camera.viewMatrix"
	ProjectionMatrixProperty     = "camera.projectionMatrix"
	ViewProjectionMatrixProperty = "camera.viewProjectionMatrix"
	PositionProperty             = "camera.position"
)

// camera is the implementation of the Camera interface.
type camera struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Published values. Only Update writes them.
	position             [3]float32
	viewMatrix           common.Matrix4
	projectionMatrix     common.Matrix4
	viewProjectionMatrix common.Matrix4
}

// Camera is an orbit camera around a target point. Its matrices are published as pointer
// properties, so draw calls bound to them read the values computed by the last Update.
//
// Setters may be called from any goroutine. Update must run on the goroutine driving frames,
// typically in the tick callback.
type Camera interface {
	// Publish sets the camera properties on store, usually the renderer scope of draw calls.
	//
	// Parameters:
	//   - store: the store receiving the view, projection, view-projection and position properties
	Publish(store data.Store)

	// Update recomputes the published matrices from the current orbit and projection settings.
	Update()

	// Orbit rotates the camera around the target. Elevation is clamped to its bounds.
	//
	// Parameters:
	//   - azimuth: horizontal angle delta in radians
	//   - elevation: vertical angle delta in radians
	Orbit(azimuth, elevation float32)

	// Zoom moves the camera toward the target. Radius is clamped to its bounds.
	//
	// Parameters:
	//   - delta: distance to move closer, negative moves away
	Zoom(delta float32)

	// SetTarget sets the point the camera orbits and looks at.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Position returns the world-space position computed by the last Update.
	//
	// Returns:
	//   - [3]float32: the camera position
	Position() [3]float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - common.Matrix4: the view matrix
	ViewMatrix() common.Matrix4

	// ViewProjectionMatrix returns the combined view-projection matrix computed by the last Update.
	//
	// Returns:
	//   - common.Matrix4: the view-projection matrix
	ViewProjectionMatrix() common.Matrix4
}

var _ Camera = &camera{}

// NewCamera creates an orbit camera and computes its initial matrices.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &camera{
		mu:           &sync.Mutex{},
		up:           [3]float32{0, 1, 0},
		fov:          45.0 * (math.Pi / 180.0),
		aspect:       1.0,
		near:         0.1,
		far:          100.0,
		radius:       5,
		minRadius:    0.5,
		maxRadius:    1000,
		minElevation: -float32(math.Pi/2 - 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),
	}
	for _, option := range options {
		option(c)
	}
	c.radius = common.Clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = common.Clamp(c.elevation, c.minElevation, c.maxElevation)
	c.Update()
	return c
}

func (c *camera) Publish(store data.Store) {
	store.Set(ViewMatrixProperty, &c.viewMatrix)
	store.Set(ProjectionMatrixProperty, &c.projectionMatrix)
	store.Set(ViewProjectionMatrixProperty, &c.viewProjectionMatrix)
	store.Set(PositionProperty, &c.position)
}

func (c *camera) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	sinElev, cosElev := math32.Sincos(c.elevation)
	sinAzim, cosAzim := math32.Sincos(c.azimuth)
	c.position = [3]float32{
		c.target[0] + c.radius*cosElev*sinAzim,
		c.target[1] + c.radius*sinElev,
		c.target[2] + c.radius*cosElev*cosAzim,
	}

	c.viewMatrix = common.LookAt(c.position, c.target, c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	common.Mul4(&c.viewProjectionMatrix, &c.projectionMatrix, &c.viewMatrix)
}

func (c *camera) Orbit(azimuth, elevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += azimuth
	c.elevation = common.Clamp(c.elevation+elevation, c.minElevation, c.maxElevation)
}

func (c *camera) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius-delta, c.minRadius, c.maxRadius)
}

func (c *camera) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
}

func (c *camera) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *camera) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *camera) ViewMatrix() common.Matrix4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *camera) ViewProjectionMatrix() common.Matrix4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}
