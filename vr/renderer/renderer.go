package renderer

import (
	"sync"

	"github.com/vizorvr/webvr-boilerplate/window"
)

// RenderTarget is a render-to-texture destination that can later be sampled
// as a texture. Targets are created at a fixed size; replacing, not resizing,
// is the update model.
type RenderTarget interface {
	// Width returns the target width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the target height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Release frees the GPU resources backing the target. The target must not
	// be used after Release.
	Release()
}

// Drawable is a single renderable entity: an interleaved vertex stream and an
// optional texture.
type Drawable interface {
	// VertexData returns the interleaved vertex bytes (position vec3 followed
	// by UV vec2 per vertex).
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// VertexCount returns the number of vertices in the stream.
	//
	// Returns:
	//   - int: vertex count
	VertexCount() int

	// Texture returns the render target sampled as this drawable's texture,
	// or nil for an untextured draw.
	//
	// Returns:
	//   - RenderTarget: the texture source or nil
	Texture() RenderTarget
}

// Scene is a collection of drawables rendered together in one pass.
type Scene interface {
	// Drawables returns the scene's drawables in draw order.
	//
	// Returns:
	//   - []Drawable: the drawables
	Drawables() []Drawable
}

// Camera supplies the view-projection transform for a render pass.
type Camera interface {
	// ViewProjectionMatrix returns the combined view-projection matrix as 16
	// floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32
}

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu *sync.Mutex

	width  int
	height int

	backendType RendererBackendType
	backend     rendererBackend
}

// Renderer is the rendering backend capability set: render a scene to a
// target, manage output size and viewport, and create offscreen targets.
// Expressed as an interface so alternative backends (including mocks) can be
// substituted without a real graphics context.
type Renderer interface {
	// Render draws a scene with the given camera.
	//
	// When target is non-nil the pass renders into it. When target is nil the
	// pass renders into the current render target set via SetRenderTarget, or
	// to the screen if none is set.
	//
	// Parameters:
	//   - scn: the scene to draw
	//   - cam: the camera supplying the view-projection transform
	//   - target: explicit render target, or nil for the current one
	//   - forceClear: whether to clear the target before drawing
	//
	// Returns:
	//   - error: an error if the backend cannot complete the pass
	Render(scn Scene, cam Camera, target RenderTarget, forceClear bool) error

	// SetSize reconfigures the output surface to a new pixel size.
	//
	// Parameters:
	//   - width, height: the new output size in pixels
	SetSize(width, height int)

	// Size returns the configured output size in pixels.
	//
	// Returns:
	//   - width, height: the output size
	Size() (width, height int)

	// CanvasSize returns the current size of the backing surface in pixels.
	// This may differ from Size between a window resize and the next SetSize.
	//
	// Returns:
	//   - width, height: the surface size
	CanvasSize() (width, height int)

	// SetViewport restricts subsequent screen passes to a sub-rectangle of
	// the output surface.
	//
	// Parameters:
	//   - x, y: viewport origin in pixels
	//   - width, height: viewport extent in pixels
	SetViewport(x, y, width, height int)

	// SetRenderTarget redirects subsequent nil-target Render calls into the
	// given target. Pass nil to restore direct-to-screen rendering.
	//
	// Parameters:
	//   - target: the target to redirect into, or nil
	SetRenderTarget(target RenderTarget)

	// CreateRenderTarget creates a new offscreen render target.
	//
	// Parameters:
	//   - width, height: target size in pixels
	//   - options: format/filter options
	//
	// Returns:
	//   - RenderTarget: the created target
	//   - error: an error if target creation fails
	CreateRenderTarget(width, height int, options ...RenderTargetOption) (RenderTarget, error)
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a Renderer with the specified backend type, bound to
// the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window supplying the surface descriptor and initial size
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the backend cannot be initialized
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &rendererImpl{
		mu:          &sync.Mutex{},
		width:       win.Width(),
		height:      win.Height(),
		backendType: backendType,
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(win.SurfaceDescriptor())
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.backend.ConfigureSurface(r.width, r.height)
	return r, nil
}

func (r *rendererImpl) Render(scn Scene, cam Camera, target RenderTarget, forceClear bool) error {
	return r.backend.Render(scn, cam, target, forceClear)
}

func (r *rendererImpl) SetSize(width, height int) {
	r.mu.Lock()
	r.width = width
	r.height = height
	r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *rendererImpl) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *rendererImpl) CanvasSize() (width, height int) {
	return r.backend.CanvasSize()
}

func (r *rendererImpl) SetViewport(x, y, width, height int) {
	r.backend.SetViewport(x, y, width, height)
}

func (r *rendererImpl) SetRenderTarget(target RenderTarget) {
	r.backend.SetRenderTarget(target)
}

func (r *rendererImpl) CreateRenderTarget(width, height int, options ...RenderTargetOption) (RenderTarget, error) {
	cfg := targetConfig{
		format: TargetFormatRGBA8,
		filter: TargetFilterLinear,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return r.backend.CreateRenderTarget(width, height, cfg)
}
