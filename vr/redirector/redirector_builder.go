package redirector

import (
	"github.com/vizorvr/webvr-boilerplate/vr/distortion"
	"github.com/vizorvr/webvr-boilerplate/vr/viewer"
)

// RedirectorBuilderOption is a functional option for configuring a
// redirectorImpl. Use the With* functions to create options.
type RedirectorBuilderOption func(*redirectorImpl)

// WithDeviceProfile sets the device profile the distortion mesh is derived
// from.
//
// Parameters:
//   - profile: the device profile to use
//
// Returns:
//   - RedirectorBuilderOption: option function to apply
func WithDeviceProfile(profile viewer.DeviceProfile) RedirectorBuilderOption {
	return func(r *redirectorImpl) {
		r.profile = profile
	}
}

// WithMeshBuilder replaces the default mesh builder, e.g. to change
// tessellation density or worker count.
//
// Parameters:
//   - builder: the mesh builder to use
//
// Returns:
//   - RedirectorBuilderOption: option function to apply
func WithMeshBuilder(builder distortion.MeshBuilder) RedirectorBuilderOption {
	return func(r *redirectorImpl) {
		r.builder = builder
	}
}

// WithBufferScale scales the offscreen capture target relative to the output
// surface. Values below one trade sharpness for fill-rate. Non-positive
// values are ignored.
//
// Parameters:
//   - scale: the capture target scale factor
//
// Returns:
//   - RedirectorBuilderOption: option function to apply
func WithBufferScale(scale float32) RedirectorBuilderOption {
	return func(r *redirectorImpl) {
		if scale > 0 {
			r.bufferScale = scale
		}
	}
}
