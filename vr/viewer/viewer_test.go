package viewer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceProfileDefaults(t *testing.T) {
	p := NewDeviceProfile()
	assert.Equal(t, CardboardV2.ID, p.Viewer().ID)
	assert.Equal(t, Nexus5.ID, p.Screen().ID)
	assert.Equal(t, CardboardV2.DistortionCoefficients, p.DistortionCoefficients())

	w, h := p.DisplaySize()
	assert.Equal(t, float32(1920), w)
	assert.Equal(t, float32(1080), h)
}

func TestNewDeviceProfileOptions(t *testing.T) {
	p := NewDeviceProfile(
		WithViewer(CardboardV1),
		WithScreen(IPhone6),
	)
	assert.Equal(t, CardboardV1.ID, p.Viewer().ID)
	assert.Equal(t, IPhone6.ID, p.Screen().ID)
	assert.Equal(t, CardboardV1.DistortionCoefficients, p.Distortion().Coefficients())
}

func TestProjectionMatricesFinite(t *testing.T) {
	profiles := []struct {
		name   string
		viewer ViewerProfile
		screen ScreenProfile
	}{
		{name: "v1 nexus5", viewer: CardboardV1, screen: Nexus5},
		{name: "v2 nexus5", viewer: CardboardV2, screen: Nexus5},
		{name: "v2 iphone6", viewer: CardboardV2, screen: IPhone6},
	}
	for _, tt := range profiles {
		t.Run(tt.name, func(t *testing.T) {
			p := NewDeviceProfile(WithViewer(tt.viewer), WithScreen(tt.screen))
			for _, eye := range []Eye{EyeLeft, EyeRight} {
				for _, m := range [][16]float32{p.DistortedProjection(eye), p.UndistortedProjection(eye)} {
					for i, v := range m {
						require.False(t, math32.IsNaN(v) || math32.IsInf(v, 0), "component %d", i)
					}
					assert.NotZero(t, m[0])
					assert.NotZero(t, m[5])
				}
			}
		})
	}
}

func TestProjectionMirrorSymmetry(t *testing.T) {
	p := NewDeviceProfile()

	left := p.DistortedProjection(EyeLeft)
	right := p.DistortedProjection(EyeRight)

	// Mirrored frusta share scale; the x offsets of a [0,1]-mapping pair sum
	// to -1 (l/(r-l) + (-r)/(r-l) = -1).
	assert.InDelta(t, left[0], right[0], 1e-6)
	assert.InDelta(t, left[5], right[5], 1e-6)
	assert.InDelta(t, left[9], right[9], 1e-6)
	assert.InDelta(t, -1, left[8]+right[8], 1e-5)
}

func TestUndistortedNarrowerThanDistorted(t *testing.T) {
	p := NewDeviceProfile()

	distorted := p.DistortedProjection(EyeLeft)
	undistorted := p.UndistortedProjection(EyeLeft)

	// A wider frustum has a larger r-l span, so a smaller 1/(r-l) scale.
	assert.Less(t, distorted[0], undistorted[0])
	assert.Less(t, distorted[5], undistorted[5])
}

func TestUndistortedViewportWithinScreen(t *testing.T) {
	p := NewDeviceProfile()

	for _, eye := range []Eye{EyeLeft, EyeRight} {
		vp := p.UndistortedViewport(eye)
		assert.Positive(t, vp.Width)
		assert.Positive(t, vp.Height)
		assert.GreaterOrEqual(t, vp.X, float32(-1))
		assert.LessOrEqual(t, vp.X+vp.Width, float32(1921))
		assert.LessOrEqual(t, vp.Height, float32(1081))
	}
}

func TestUndistortedViewportMirrored(t *testing.T) {
	p := NewDeviceProfile()

	left := p.UndistortedViewport(EyeLeft)
	right := p.UndistortedViewport(EyeRight)

	assert.InDelta(t, left.Width, right.Width, 1e-3)
	assert.InDelta(t, left.Y, right.Y, 1e-3)
	// Mirror about the display's vertical centerline.
	assert.InDelta(t, 1920, left.X+right.X+left.Width, 1e-2)
}
