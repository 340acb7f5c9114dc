package distortion

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizorvr/webvr-boilerplate/vr/viewer"
)

func validParams() CalibrationParams {
	return CalibrationParams{
		Projection:             [4]float32{1, 1, -0.5, -0.5},
		Unprojection:           [4]float32{1, 1, -0.5, -0.5},
		DistortionCoefficients: [2]float32{0.34, 0.55},
	}
}

func TestValidate(t *testing.T) {
	nan := math32.NaN()
	inf := math32.Inf(1)

	tests := []struct {
		name    string
		mutate  func(*CalibrationParams)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *CalibrationParams) {}, wantErr: false},
		{name: "nan projection", mutate: func(p *CalibrationParams) { p.Projection[0] = nan }, wantErr: true},
		{name: "inf unprojection", mutate: func(p *CalibrationParams) { p.Unprojection[3] = inf }, wantErr: true},
		{name: "nan coefficient", mutate: func(p *CalibrationParams) { p.DistortionCoefficients[1] = nan }, wantErr: true},
		{name: "zero projection scale", mutate: func(p *CalibrationParams) { p.Projection[1] = 0 }, wantErr: true},
		{name: "zero unprojection scale", mutate: func(p *CalibrationParams) { p.Unprojection[0] = 0 }, wantErr: true},
		{name: "zero offsets allowed", mutate: func(p *CalibrationParams) { p.Projection[2], p.Projection[3] = 0, 0 }, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCalibration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRightEyeMirror(t *testing.T) {
	p := CalibrationParams{
		Projection:   [4]float32{1.2, 1.4, -0.3, 0.1},
		Unprojection: [4]float32{0.9, 0.8, 0.2, -0.05},
	}

	rp := p.RightProjection()
	assert.Equal(t, [4]float32{1.2, 1.4, 0.3, 0.1}, rp)

	ru := p.RightUnprojection()
	assert.Equal(t, [4]float32{0.9, 0.8, -0.2, -0.05}, ru)

	// The left-eye vectors themselves are untouched.
	assert.Equal(t, float32(-0.3), p.Projection[2])
}

func TestParamsFromProfileValid(t *testing.T) {
	profiles := []struct {
		name    string
		profile viewer.DeviceProfile
	}{
		{name: "default", profile: viewer.NewDeviceProfile()},
		{name: "v1 nexus5", profile: viewer.NewDeviceProfile(viewer.WithViewer(viewer.CardboardV1))},
		{name: "v2 iphone6", profile: viewer.NewDeviceProfile(viewer.WithScreen(viewer.IPhone6))},
	}
	for _, tt := range profiles {
		t.Run(tt.name, func(t *testing.T) {
			params := ParamsFromProfile(tt.profile)
			require.NoError(t, params.Validate())
			assert.Positive(t, params.Projection[0])
			assert.Positive(t, params.Unprojection[0])
			assert.Equal(t, tt.profile.DistortionCoefficients(), params.DistortionCoefficients)
		})
	}
}

func TestParamsFromProfileRejectsBadCoefficients(t *testing.T) {
	nan := math32.NaN()
	bad := viewer.NewDeviceProfile(viewer.WithViewer(viewer.ViewerProfile{
		ID:                     "broken",
		InterLensDistance:      0.060,
		BaselineLensDistance:   0.035,
		ScreenLensDistance:     0.042,
		DistortionCoefficients: [2]float32{nan, nan},
		FOV:                    40,
	}))

	params := ParamsFromProfile(bad)
	err := params.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCalibration)
}

func TestDistortLensCenterFixedPoint(t *testing.T) {
	// The point that unprojects to the lens axis has zero radius, so the
	// polynomial does nothing and the output is the reprojected axis.
	proj := [4]float32{1.3, 1.1, -0.4, -0.6}
	unproj := [4]float32{0.9, 0.95, -0.45, -0.55}

	center := [2]float32{-unproj[2], -unproj[3]}
	out := Distort(center, proj, unproj, [2]float32{0.34, 0.55}, false)

	assert.InDelta(t, -proj[2], out[0], 1e-6)
	assert.InDelta(t, -proj[3], out[1], 1e-6)
}

func TestDistortKnownValue(t *testing.T) {
	// w = 0.5, r2 = 0.25, poly = 1 + 0.5*0.25 = 1.125, out = 2*0.5625 = 1.125.
	out := Distort([2]float32{0.5, 0}, [4]float32{2, 2, 0, 0}, [4]float32{1, 1, 0, 0}, [2]float32{0.5, 0}, false)
	assert.InDelta(t, 1.125, out[0], 1e-6)
	assert.InDelta(t, 0, out[1], 1e-6)
}
