package manager

import (
	"time"

	"github.com/vizorvr/webvr-boilerplate/vr/redirector"
	"github.com/vizorvr/webvr-boilerplate/window"
)

// ManagerBuilderOption is a functional option for configuring a manager.
// Use the With* functions to create options.
type ManagerBuilderOption func(*manager)

// WithWindow sets the window the frame loop is bound to.
//
// Parameters:
//   - w: the window to use
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithWindow(w window.Window) ManagerBuilderOption {
	return func(m *manager) {
		m.window = w
	}
}

// WithRedirector sets the render redirector the frame loop drives.
//
// Parameters:
//   - r: the redirector to use
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithRedirector(r redirector.Redirector) ManagerBuilderOption {
	return func(m *manager) {
		m.redirector = r
	}
}

// WithProfiling sets whether performance profiling output is enabled from
// the start.
//
// Parameters:
//   - enabled: whether profiling is on
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithProfiling(enabled bool) ManagerBuilderOption {
	return func(m *manager) {
		m.profilingEnabled = enabled
	}
}

// WithTickRate sets the initial logic tick rate in ticks per second.
//
// Parameters:
//   - fps: target ticks per second (defaults to 60 if <= 0)
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithTickRate(fps float64) ManagerBuilderOption {
	return func(m *manager) {
		if fps <= 0 {
			fps = 60
		}
		m.tickRate = time.Second / time.Duration(fps)
	}
}
