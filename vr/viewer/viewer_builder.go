package viewer

// DeviceProfileBuilderOption is a functional option for configuring a
// deviceProfileImpl. Use the With* functions to create options.
type DeviceProfileBuilderOption func(*deviceProfileImpl)

// WithViewer sets the viewer (lens/holder) profile.
//
// Parameters:
//   - v: the viewer profile to use
//
// Returns:
//   - DeviceProfileBuilderOption: option function to apply
func WithViewer(v ViewerProfile) DeviceProfileBuilderOption {
	return func(d *deviceProfileImpl) {
		d.viewer = v
	}
}

// WithScreen sets the screen (display panel) profile.
//
// Parameters:
//   - s: the screen profile to use
//
// Returns:
//   - DeviceProfileBuilderOption: option function to apply
func WithScreen(s ScreenProfile) DeviceProfileBuilderOption {
	return func(d *deviceProfileImpl) {
		d.screen = s
	}
}
