package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// apply transforms a point by the column-major matrix, returning x and y.
func apply(m [16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[12], m[5]*y + m[13]
}

func TestOrthographicDefaultFramesPlane(t *testing.T) {
	c := NewOrthographic()
	m := c.ViewProjectionMatrix()

	// The default camera frames [-1,1] on both axes, so corners map to
	// themselves.
	x, y := apply(m, -1, -1)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	x, y = apply(m, 1, 1)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
}

func TestWithExtents(t *testing.T) {
	c := NewOrthographic(WithExtents(0, 2, 0, 4))
	m := c.ViewProjectionMatrix()

	x, y := apply(m, 0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	x, y = apply(m, 2, 4)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
}

func TestSetExtents(t *testing.T) {
	c := NewOrthographic()
	c.SetExtents(-2, 2, -2, 2)
	m := c.ViewProjectionMatrix()

	x, _ := apply(m, 2, 0)
	assert.InDelta(t, 1, x, 1e-6)
	x, _ = apply(m, -2, 0)
	assert.InDelta(t, -1, x, 1e-6)
}
