package renderer

import "errors"

// ErrBackendUnavailable is returned when the GPU backend cannot be
// initialized or cannot complete a pass (no adapter, device lost, surface
// gone). Callers should treat it as fatal for rendering.
var ErrBackendUnavailable = errors.New("rendering backend unavailable")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// TargetFormat selects the pixel format of a created render target.
type TargetFormat int

const (
	// TargetFormatRGBA8 is 8-bit-per-channel RGBA, the default.
	TargetFormatRGBA8 TargetFormat = iota

	// TargetFormatRGBA8Srgb is 8-bit-per-channel RGBA with sRGB encoding.
	TargetFormatRGBA8Srgb
)

// TargetFilter selects the sampling filter used when a render target is
// later read as a texture.
type TargetFilter int

const (
	// TargetFilterLinear bilinearly interpolates between texels, the default.
	TargetFilterLinear TargetFilter = iota

	// TargetFilterNearest snaps to the nearest texel.
	TargetFilterNearest
)

// targetConfig collects the resolved RenderTargetOption values.
type targetConfig struct {
	format TargetFormat
	filter TargetFilter
}

// RenderTargetOption is a functional option for configuring a render target
// at creation. Use the With* functions to create options.
type RenderTargetOption func(*targetConfig)

// WithTargetFormat sets the pixel format of the created target.
//
// Parameters:
//   - format: the TargetFormat to use
//
// Returns:
//   - RenderTargetOption: option function to apply
func WithTargetFormat(format TargetFormat) RenderTargetOption {
	return func(c *targetConfig) {
		c.format = format
	}
}

// WithTargetFilter sets the sampling filter used when the target is read as
// a texture.
//
// Parameters:
//   - filter: the TargetFilter to use
//
// Returns:
//   - RenderTargetOption: option function to apply
func WithTargetFilter(filter TargetFilter) RenderTargetOption {
	return func(c *targetConfig) {
		c.filter = filter
	}
}

// rendererBackend is the backend capability set the Renderer delegates to.
// One implementation exists per RendererBackendType.
type rendererBackend interface {
	// ConfigureSurface (re)configures the output surface to the given pixel
	// size. Required at startup and whenever the window is resized.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	ConfigureSurface(width, height int)

	// CanvasSize returns the currently configured surface size in pixels.
	//
	// Returns:
	//   - width, height: the surface size
	CanvasSize() (width, height int)

	// SetViewport restricts subsequent screen passes to a sub-rectangle.
	//
	// Parameters:
	//   - x, y, width, height: the viewport rectangle in pixels
	SetViewport(x, y, width, height int)

	// SetRenderTarget redirects nil-target Render calls into the given
	// target, or back to the screen when nil.
	//
	// Parameters:
	//   - target: the redirect target or nil
	SetRenderTarget(target RenderTarget)

	// CreateRenderTarget creates an offscreen color target that can later be
	// sampled as a texture.
	//
	// Parameters:
	//   - width, height: the target size in pixels
	//   - cfg: resolved format/filter configuration
	//
	// Returns:
	//   - RenderTarget: the created target
	//   - error: an error if GPU resource creation fails
	CreateRenderTarget(width, height int, cfg targetConfig) (RenderTarget, error)

	// Render encodes and submits one pass drawing the scene with the camera
	// into the resolved destination (explicit target, current target, or the
	// screen).
	//
	// Parameters:
	//   - scn: the scene to draw
	//   - cam: the camera supplying the view-projection transform
	//   - target: explicit destination, or nil to use the current one
	//   - forceClear: whether to clear before drawing
	//
	// Returns:
	//   - error: an error if the pass cannot be completed
	Render(scn Scene, cam Camera, target RenderTarget, forceClear bool) error
}
