// Package camera provides the fixed orthographic camera the distortion mesh
// is presented through. The presentation plane spans [-1,1] on both axes, so
// the camera is a plain orthographic projection with no view transform.
package camera

import (
	"sync"

	"github.com/vizorvr/webvr-boilerplate/common"
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	left   float32
	right  float32
	bottom float32
	top    float32
	near   float32
	far    float32

	matrix [16]float32
}

// Camera supplies the view-projection transform for presenting the
// distortion mesh.
type Camera interface {
	// ViewProjectionMatrix returns the combined view-projection matrix as 16
	// floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32

	// SetExtents replaces the orthographic bounds and recomputes the matrix.
	//
	// Parameters:
	//   - left, right, bottom, top: the orthographic frustum bounds
	SetExtents(left, right, bottom, top float32)
}

var _ Camera = &cameraImpl{}

// NewOrthographic creates an orthographic Camera framing the presentation
// plane. Defaults to [-1,1] on both axes.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewOrthographic(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		left:   -1,
		right:  1,
		bottom: -1,
		top:    1,
		near:   -1,
		far:    1,
	}
	for _, opt := range options {
		opt(c)
	}
	c.rebuild()
	return c
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix
}

func (c *cameraImpl) SetExtents(left, right, bottom, top float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.left, c.right, c.bottom, c.top = left, right, bottom, top
	c.rebuild()
}

// rebuild recomputes the cached matrix. Callers hold the mutex.
func (c *cameraImpl) rebuild() {
	common.Orthographic(c.matrix[:], c.left, c.right, c.bottom, c.top, c.near, c.far)
}
