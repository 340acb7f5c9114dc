package renderer

// RendererBuilderOption is a functional option for configuring a
// rendererImpl. Use the With* functions to create options.
type RendererBuilderOption func(*rendererImpl)

// WithSize overrides the initial output size taken from the window.
//
// Parameters:
//   - width, height: the initial output size in pixels
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithSize(width, height int) RendererBuilderOption {
	return func(r *rendererImpl) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}
