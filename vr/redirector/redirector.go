// Package redirector interposes on a renderer so that scene renders land in
// an offscreen target, which is then presented through the lens-compensating
// distortion mesh. The redirector is a decorator: it implements the renderer
// interface itself and wraps the real renderer, so no global state is touched
// and interposition is plain composition.
package redirector

import (
	"sync"

	"github.com/vizorvr/webvr-boilerplate/vr/camera"
	"github.com/vizorvr/webvr-boilerplate/vr/distortion"
	"github.com/vizorvr/webvr-boilerplate/vr/renderer"
	"github.com/vizorvr/webvr-boilerplate/vr/scene"
	"github.com/vizorvr/webvr-boilerplate/vr/viewer"
)

// redirectorImpl is the implementation of the Redirector interface.
type redirectorImpl struct {
	mu *sync.Mutex

	// wrapped is the real renderer, captured once at construction. All
	// delegation targets this reference; nothing is rebound afterwards.
	wrapped renderer.Renderer

	builder distortion.MeshBuilder
	profile viewer.DeviceProfile

	presentation scene.PresentationScene
	orthoCamera  camera.Camera

	// target is the offscreen capture target. Created lazily on first
	// activation and replaced wholesale on resize.
	target renderer.RenderTarget

	// bufferScale scales the capture target relative to the output surface.
	bufferScale float32

	patched bool
	active  bool
}

// Redirector captures scene renders into an offscreen target and presents
// them through the distortion mesh. It implements the renderer interface so
// hosts draw through it exactly as they would through the real renderer;
// while inactive every redirection operation is a no-op and calls pass
// straight through.
type Redirector interface {
	renderer.Renderer

	// SetActive enables or disables distortion-compensated presentation.
	// Enabling patches the redirector in and creates the offscreen target if
	// needed; disabling restores direct rendering. Both directions are
	// idempotent.
	//
	// Parameters:
	//   - active: whether redirection should be on
	//
	// Returns:
	//   - error: an error if the offscreen target cannot be created
	SetActive(active bool) error

	// IsActive reports whether redirection is on.
	//
	// Returns:
	//   - bool: true if active
	IsActive() bool

	// Patch enables interposition without activating presentation. Calling
	// Patch when already patched is a no-op.
	Patch()

	// Unpatch disables interposition and restores the wrapped renderer's
	// direct state. Calling Unpatch when not patched is a no-op.
	Unpatch()

	// UpdateDeviceInfo rebuilds the distortion mesh from a new device
	// profile. On invalid calibration the previous mesh keeps serving and the
	// error is returned.
	//
	// Parameters:
	//   - profile: the new device profile
	//
	// Returns:
	//   - error: ErrInvalidCalibration (wrapped) if the derived calibration is malformed
	UpdateDeviceInfo(profile viewer.DeviceProfile) error

	// SetShowCenter toggles the distortion-center debug marker and rebuilds
	// the mesh. No-op while no profile is set.
	//
	// Parameters:
	//   - show: whether the marker should be visible
	//
	// Returns:
	//   - error: an error if the mesh rebuild fails
	SetShowCenter(show bool) error

	// PreRender redirects subsequent scene renders into the offscreen target.
	// Call once per frame before drawing the scene. No-op while inactive.
	PreRender()

	// PostRender restores direct rendering and presents the captured frame
	// through the distortion mesh. Call once per frame after drawing the
	// scene. No-op while inactive.
	//
	// Returns:
	//   - error: an error if the presentation pass fails
	PostRender() error
}

var _ Redirector = &redirectorImpl{}

// NewRedirector creates a Redirector wrapping the given renderer. The
// distortion mesh is built immediately from the configured device profile, so
// a malformed profile surfaces here rather than on first activation.
//
// Parameters:
//   - wrapped: the real renderer to interpose on
//   - options: functional options to configure the redirector
//
// Returns:
//   - Redirector: the configured redirector (inactive)
//   - error: ErrInvalidCalibration (wrapped) if the device profile is malformed
func NewRedirector(wrapped renderer.Renderer, options ...RedirectorBuilderOption) (Redirector, error) {
	r := &redirectorImpl{
		mu:           &sync.Mutex{},
		wrapped:      wrapped,
		builder:      distortion.NewMeshBuilder(),
		profile:      viewer.NewDeviceProfile(),
		presentation: scene.NewPresentationScene(),
		orthoCamera:  camera.NewOrthographic(),
		bufferScale:  1,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.rebuildMesh(); err != nil {
		return nil, err
	}
	return r, nil
}

// rebuildMesh derives calibration from the current profile and swaps in a
// freshly built mesh. The old mesh stays in place on any error.
func (r *redirectorImpl) rebuildMesh() error {
	params := distortion.ParamsFromProfile(r.profile)
	geometry, err := r.builder.Build(params)
	if err != nil {
		return err
	}
	r.presentation.SetMesh(geometry)
	return nil
}

// ensureTarget creates the offscreen target if it does not exist yet, sized
// from the wrapped renderer's current output size.
func (r *redirectorImpl) ensureTarget() error {
	if r.target != nil {
		return nil
	}
	width, height := r.wrapped.Size()
	return r.replaceTarget(width, height)
}

// replaceTarget creates a new offscreen target at the given size, swaps it
// into the presentation scene, and releases the old one. The mesh is
// untouched; UVs are resolution independent.
func (r *redirectorImpl) replaceTarget(width, height int) error {
	scaled := func(v int) int {
		s := int(float32(v) * r.bufferScale)
		if s < 1 {
			s = 1
		}
		return s
	}
	created, err := r.wrapped.CreateRenderTarget(scaled(width), scaled(height))
	if err != nil {
		return err
	}
	old := r.target
	r.target = created
	r.presentation.SetTexture(created)
	if old != nil {
		old.Release()
	}
	return nil
}

func (r *redirectorImpl) SetActive(active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if active == r.active {
		return nil
	}

	if active {
		if err := r.ensureTarget(); err != nil {
			return err
		}
		r.patched = true
		r.active = true
		return nil
	}

	// Deactivation restores the wrapped renderer's direct state so the next
	// host render goes straight to the screen.
	r.active = false
	r.patched = false
	r.wrapped.SetRenderTarget(nil)
	width, height := r.wrapped.Size()
	r.wrapped.SetViewport(0, 0, width, height)
	return nil
}

func (r *redirectorImpl) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *redirectorImpl) Patch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patched = true
}

func (r *redirectorImpl) Unpatch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.patched {
		return
	}
	r.patched = false
	r.active = false
	r.wrapped.SetRenderTarget(nil)
	width, height := r.wrapped.Size()
	r.wrapped.SetViewport(0, 0, width, height)
}

func (r *redirectorImpl) UpdateDeviceInfo(profile viewer.DeviceProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.profile
	r.profile = profile
	if err := r.rebuildMesh(); err != nil {
		r.profile = old
		return err
	}
	return nil
}

func (r *redirectorImpl) SetShowCenter(show bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if show == r.builder.ShowCenter() {
		return nil
	}
	r.builder.SetShowCenter(show)
	return r.rebuildMesh()
}

func (r *redirectorImpl) PreRender() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.wrapped.SetRenderTarget(r.target)
}

func (r *redirectorImpl) PostRender() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil
	}
	r.wrapped.SetRenderTarget(nil)
	width, height := r.wrapped.Size()
	r.wrapped.SetViewport(0, 0, width, height)
	return r.wrapped.Render(r.presentation, r.orthoCamera, nil, true)
}

func (r *redirectorImpl) Render(scn renderer.Scene, cam renderer.Camera, target renderer.RenderTarget, forceClear bool) error {
	r.mu.Lock()
	if r.active && target == nil {
		target = r.target
	}
	r.mu.Unlock()
	return r.wrapped.Render(scn, cam, target, forceClear)
}

func (r *redirectorImpl) SetSize(width, height int) {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()

	r.wrapped.SetSize(width, height)

	if !active {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Replace the capture target at the new size. A failed replacement keeps
	// the old target; the next frame renders at the stale size rather than
	// not at all.
	_ = r.replaceTarget(width, height)
}

func (r *redirectorImpl) Size() (width, height int) {
	return r.wrapped.Size()
}

func (r *redirectorImpl) CanvasSize() (width, height int) {
	return r.wrapped.CanvasSize()
}

func (r *redirectorImpl) SetViewport(x, y, width, height int) {
	r.wrapped.SetViewport(x, y, width, height)
}

func (r *redirectorImpl) SetRenderTarget(target renderer.RenderTarget) {
	r.mu.Lock()
	if r.active && target == nil {
		target = r.target
	}
	r.mu.Unlock()
	r.wrapped.SetRenderTarget(target)
}

func (r *redirectorImpl) CreateRenderTarget(width, height int, options ...renderer.RenderTargetOption) (renderer.RenderTarget, error) {
	return r.wrapped.CreateRenderTarget(width, height, options...)
}
