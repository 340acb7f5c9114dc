// Package distortion builds the lens-compensating mesh a stereoscopic frame
// is presented through. The mesh's UV coordinates are pre-warped by the
// viewer's radial distortion polynomial so that the image appears undistorted
// when seen through the physical lenses.
package distortion

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/vizorvr/webvr-boilerplate/common"
	"github.com/vizorvr/webvr-boilerplate/vr/viewer"
)

// ErrInvalidCalibration is returned when calibration input is malformed
// (non-finite components or degenerate projection scales). The previous mesh,
// if any, keeps serving.
var ErrInvalidCalibration = errors.New("invalid calibration")

// CalibrationParams holds the left-eye scale/offset vectors and the lens
// distortion coefficients the mesh builder consumes. Right-eye vectors are
// derived on demand by mirroring (the lenses are bilaterally symmetric about
// the device's vertical centerline). Immutable once derived; recomputed only
// when device or viewer calibration changes.
type CalibrationParams struct {
	// Projection is the left eye's distorted projection packed as
	// (scale-x, scale-y, offset-x, offset-y).
	Projection [4]float32

	// Unprojection is the left eye's undistorted projection combined with the
	// viewport-to-device scale/translation, same packing. Applying the
	// inverse of this vector maps a screen-space UV to a lens-centered
	// coordinate.
	Unprojection [4]float32

	// DistortionCoefficients are the (k1, k2) terms of the radial polynomial
	// 1 + k1*r^2 + k2*r^4.
	DistortionCoefficients [2]float32
}

// ParamsFromProfile derives calibration vectors from a device profile.
//
// The distorted projection is packed directly. The undistorted projection is
// adjusted by the eye's viewport geometry before packing, so that unprojecting
// a screen-space UV lands in the eye's lens-centered coordinate frame:
//
//	xScale = viewportWidth / (deviceWidth/2)
//	yScale = viewportHeight / deviceHeight
//	xTrans = 2*(viewportX + viewportWidth/2)/(deviceWidth/2) - 1
//	yTrans = 2*(viewportY + viewportHeight/2)/deviceHeight - 1
//
// Parameters:
//   - profile: the device profile supplying matrices, viewport, and coefficients
//
// Returns:
//   - CalibrationParams: the derived left-eye calibration vectors
func ParamsFromProfile(profile viewer.DeviceProfile) CalibrationParams {
	pm := profile.DistortedProjection(viewer.EyeLeft)
	um := profile.UndistortedProjection(viewer.EyeLeft)
	p := common.ProjectionVector(pm[:])
	u := common.ProjectionVector(um[:])

	vp := profile.UndistortedViewport(viewer.EyeLeft)
	deviceWidth, deviceHeight := profile.DisplaySize()

	xScale := vp.Width / (deviceWidth / 2)
	yScale := vp.Height / deviceHeight
	xTrans := 2*vp.CenterX()/(deviceWidth/2) - 1
	yTrans := 2*vp.CenterY()/deviceHeight - 1

	// Fold the viewport mapping into the unprojection offsets. The offset
	// form keeps u = unproj.x*w - unproj.z exact over the viewport's span in
	// half-screen texture space.
	u[0] *= xScale
	u[1] *= yScale
	u[2] = u[2]*xScale - (xTrans+1-xScale)/2
	u[3] = u[3]*yScale - (yTrans+1-yScale)/2

	return CalibrationParams{
		Projection:             p,
		Unprojection:           u,
		DistortionCoefficients: profile.DistortionCoefficients(),
	}
}

// RightProjection returns the right eye's projection vector: the left eye's
// vector with the x-offset component negated.
//
// Returns:
//   - [4]float32: the right-eye projection vector
func (p CalibrationParams) RightProjection() [4]float32 {
	return mirrorVector(p.Projection)
}

// RightUnprojection returns the right eye's unprojection vector: the left
// eye's vector with the x-offset component negated.
//
// Returns:
//   - [4]float32: the right-eye unprojection vector
func (p CalibrationParams) RightUnprojection() [4]float32 {
	return mirrorVector(p.Unprojection)
}

// Validate checks the calibration for malformed input: every component must
// be finite and the projection/unprojection scale terms must be non-zero.
//
// Returns:
//   - error: ErrInvalidCalibration (wrapped with detail) if malformed, nil otherwise
func (p CalibrationParams) Validate() error {
	for i, v := range p.Projection {
		if !isFinite(v) {
			return fmt.Errorf("%w: projection component %d is %v", ErrInvalidCalibration, i, v)
		}
	}
	for i, v := range p.Unprojection {
		if !isFinite(v) {
			return fmt.Errorf("%w: unprojection component %d is %v", ErrInvalidCalibration, i, v)
		}
	}
	for i, v := range p.DistortionCoefficients {
		if !isFinite(v) {
			return fmt.Errorf("%w: distortion coefficient %d is %v", ErrInvalidCalibration, i, v)
		}
	}
	if p.Projection[0] == 0 || p.Projection[1] == 0 {
		return fmt.Errorf("%w: projection scale is zero", ErrInvalidCalibration)
	}
	if p.Unprojection[0] == 0 || p.Unprojection[1] == 0 {
		return fmt.Errorf("%w: unprojection scale is zero", ErrInvalidCalibration)
	}
	return nil
}

// mirrorVector negates the x-offset component (index 2) of a packed
// scale/offset vector, mirroring the eye horizontally.
func mirrorVector(v [4]float32) [4]float32 {
	return [4]float32{v[0], v[1], -v[2], v[3]}
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
