// Package manager coordinates the window, the redirector, and the host's
// render callback into a frame loop: capture the host's scene offscreen, then
// present it through the distortion mesh.
package manager

import (
	"log"
	"sync"
	"time"

	"github.com/vizorvr/webvr-boilerplate/manager/profiler"
	"github.com/vizorvr/webvr-boilerplate/vr/redirector"
	"github.com/vizorvr/webvr-boilerplate/window"
)

// manager implements the Manager interface.
// Coordinates tick, render, and window threads.
type manager struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window     window.Window
	redirector redirector.Redirector

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate       time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Manager is the main entry point for the presentation loop. It orchestrates
// the tick loop, the capture/present render loop, and window management.
type Manager interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Redirector returns the render redirector driven by the frame loop.
	//
	// Returns:
	//   - redirector.Redirector: the redirector instance
	Redirector() redirector.Redirector

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the logic tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each logic tick. Use this
	// for host state updates (head pose, animation).
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame,
	// between the redirector's capture and present phases. The host draws its
	// scene here; while the redirector is active the draw lands in the
	// offscreen target.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames
	// per second. Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main loop (blocks until the window closes).
	Run()

	// Quit signals all goroutines to stop and shuts down the loop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewManager creates a new Manager with the provided options.
// Options are applied directly to the manager struct via the option-builder
// pattern.
//
// Parameters:
//   - options: functional options for configuration (window, redirector, tick rate)
//
// Returns:
//   - Manager: the newly created manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		tickRate:         time.Second / 60,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.window != nil && m.redirector != nil {
		m.window.SetResizeCallback(func(width, height int) {
			m.redirector.SetSize(width, height)
		})
	}

	return m
}

func (m *manager) Window() window.Window {
	return m.window
}

func (m *manager) Redirector() redirector.Redirector {
	return m.redirector
}

func (m *manager) Run() {
	m.running = true
	m.handle()
	m.window.ProcessMessages()
	m.signalQuit()
	m.wg.Wait()
}

// Quit signals all goroutines to stop and shuts down the loop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (m *manager) Quit() {
	m.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (m *manager) signalQuit() {
	m.quitOnce.Do(func() {
		m.running = false
		close(m.quitChannel)
	})
}

// handle launches the tick and render goroutines, each tracked by the
// manager's WaitGroup.
func (m *manager) handle() {
	m.wg.Add(2)
	go m.handleTick()
	go m.handleRender()
}

// handleTick runs the fixed-rate logic tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (m *manager) handleTick() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-m.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if m.tickCallback != nil {
				m.tickCallback(dt)
			}
		case newRate := <-m.tickRateChannel:
			ticker.Reset(newRate)
			m.tickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine. Each frame follows
// the capture/present protocol: the redirector points the renderer at the
// offscreen target, the host draws via the render callback, and the
// redirector restores direct rendering and presents the captured frame
// through the distortion mesh. Recovers from panics to avoid crashing the
// process and signals quit on recovery.
func (m *manager) handleRender() {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			m.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-m.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if m.redirector != nil {
				m.redirector.PreRender()
			}

			if m.renderCallback != nil {
				m.renderCallback(dt)
			}

			if m.redirector != nil {
				if err := m.redirector.PostRender(); err != nil {
					log.Printf("presentation pass failed: %v", err)
				}
			}

			if m.profilingEnabled && m.profiler != nil {
				m.profiler.Tick()
			}

			// Frame rate limiting
			if m.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := m.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (m *manager) EnableProfiler() {
	m.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (m *manager) DisableProfiler() {
	m.profilingEnabled = false
}

// SetTickRate sets the logic tick rate in ticks per second.
// If the loop is running, the change takes effect immediately.
func (m *manager) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if m.running {
		// Non-blocking send - if the channel is full, replace the pending value
		select {
		case m.tickRateChannel <- newRate:
		default:
			select {
			case <-m.tickRateChannel:
			default:
			}
			m.tickRateChannel <- newRate
		}
	} else {
		m.tickRate = newRate
	}
}

// SetTickCallback registers the function called each logic tick.
func (m *manager) SetTickCallback(callback func(deltaTime float32)) {
	m.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (m *manager) SetRenderCallback(callback func(deltaTime float32)) {
	m.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (m *manager) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		m.renderFrameLimit = 0
		return
	}
	m.renderFrameLimit = time.Second / time.Duration(fps)
}
