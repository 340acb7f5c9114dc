package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler()
	assert.False(t, p.Tick(), "stats must not be logged before the interval elapses")
	assert.False(t, p.Tick())
}

func TestTickReportsAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.updateInterval = 10 * time.Millisecond

	p.Tick()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, p.Tick(), "stats must be logged once the interval elapses")

	// The window resets after reporting.
	assert.False(t, p.Tick())
}
