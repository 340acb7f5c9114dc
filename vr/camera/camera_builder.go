package camera

// CameraBuilderOption is a functional option for configuring a cameraImpl.
// Use the With* functions to create options.
type CameraBuilderOption func(*cameraImpl)

// WithExtents sets the orthographic frustum bounds.
//
// Parameters:
//   - left, right, bottom, top: the frustum bounds
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithExtents(left, right, bottom, top float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.left, c.right, c.bottom, c.top = left, right, bottom, top
	}
}

// WithDepthRange sets the near and far planes.
//
// Parameters:
//   - near, far: the depth range
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithDepthRange(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near, c.far = near, far
	}
}
