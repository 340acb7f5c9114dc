package manager

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizorvr/webvr-boilerplate/vr/redirector"
	"github.com/vizorvr/webvr-boilerplate/vr/renderer"
	"github.com/vizorvr/webvr-boilerplate/window"
)

// fakeWindow is a headless stand-in whose message loop runs for a fixed
// duration and then returns, as if the user closed the window.
type fakeWindow struct {
	width, height int
	lifetime      time.Duration

	onResize func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(func()) {}
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return false }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) ProcessMessages() { time.Sleep(w.lifetime) }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

type nullTarget struct{ width, height int }

func (t *nullTarget) Width() int  { return t.width }
func (t *nullTarget) Height() int { return t.height }
func (t *nullTarget) Release()    {}

// nullRenderer satisfies the renderer interface without a graphics context.
type nullRenderer struct {
	width, height int
}

var _ renderer.Renderer = &nullRenderer{}

func (r *nullRenderer) Render(renderer.Scene, renderer.Camera, renderer.RenderTarget, bool) error {
	return nil
}
func (r *nullRenderer) SetSize(width, height int) { r.width, r.height = width, height }
func (r *nullRenderer) Size() (int, int) { return r.width, r.height }
func (r *nullRenderer) CanvasSize() (int, int) { return r.width, r.height }
func (r *nullRenderer) SetViewport(x, y, w, h int) {}
func (r *nullRenderer) SetRenderTarget(renderer.RenderTarget) {}
func (r *nullRenderer) CreateRenderTarget(width, height int, options ...renderer.RenderTargetOption) (renderer.RenderTarget, error) {
	return &nullTarget{width: width, height: height}, nil
}

func TestRunDrivesCallbacksAndStops(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600, lifetime: 80 * time.Millisecond}

	m := NewManager(
		WithWindow(win),
		WithTickRate(200),
	)

	var ticks, frames atomic.Int64
	m.SetTickCallback(func(dt float32) { ticks.Add(1) })
	m.SetRenderCallback(func(dt float32) { frames.Add(1) })

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the window closed")
	}

	assert.Positive(t, ticks.Load(), "tick loop never fired")
	assert.Positive(t, frames.Load(), "render loop never fired")
}

func TestQuitIsIdempotent(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600, lifetime: 200 * time.Millisecond}
	m := NewManager(WithWindow(win))

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	// Quit unblocks the loop goroutines; ProcessMessages still runs out its
	// lifetime, so allow for that.
	time.Sleep(10 * time.Millisecond)
	m.Quit()
	m.Quit()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestSetTickRateWhileRunning(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600, lifetime: 50 * time.Millisecond}
	m := NewManager(WithWindow(win), WithTickRate(60))

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	// Back-to-back updates exercise the pending-value replacement; neither may
	// block.
	m.SetTickRate(120)
	m.SetTickRate(240)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestResizeForwardsToRedirector(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	rend := &nullRenderer{width: 800, height: 600}
	rd, err := redirector.NewRedirector(rend)
	require.NoError(t, err)

	m := NewManager(WithWindow(win), WithRedirector(rd))
	assert.Same(t, rd, m.Redirector())
	require.NotNil(t, win.onResize)

	win.onResize(1024, 768)
	w, h := rd.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestFrameProtocolOrder(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600, lifetime: 60 * time.Millisecond}
	rend := &nullRenderer{width: 800, height: 600}
	rd, err := redirector.NewRedirector(rend)
	require.NoError(t, err)
	require.NoError(t, rd.SetActive(true))

	m := NewManager(WithWindow(win), WithRedirector(rd))

	var frames atomic.Int64
	m.SetRenderCallback(func(dt float32) { frames.Add(1) })
	m.SetRenderFrameLimit(500)

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Positive(t, frames.Load())
	assert.True(t, rd.IsActive(), "the frame loop must not deactivate the redirector")
}
