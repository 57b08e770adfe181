package camera

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*camera)

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *camera) {
		c.up = [3]float32{x, y, z}
	}
}

// WithPerspective sets the projection.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPerspective(fov, aspect, near, far float32) CameraBuilderOption {
	return func(c *camera) {
		c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	}
}

// WithTarget sets the point the camera orbits.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *camera) {
		c.target = [3]float32{x, y, z}
	}
}

// WithOrbit sets the initial spherical coordinates relative to the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: horizontal angle around Y in radians
//   - elevation: vertical angle from the horizontal plane in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithOrbit(radius, azimuth, elevation float32) CameraBuilderOption {
	return func(c *camera) {
		c.radius, c.azimuth, c.elevation = radius, azimuth, elevation
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - minRadius: closest distance to the target
//   - maxRadius: farthest distance from the target
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithRadiusBounds(minRadius, maxRadius float32) CameraBuilderOption {
	return func(c *camera) {
		c.minRadius, c.maxRadius = minRadius, maxRadius
	}
}
