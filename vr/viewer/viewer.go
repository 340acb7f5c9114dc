package viewer

import (
	"github.com/chewxy/math32"

	"github.com/vizorvr/webvr-boilerplate/common"
)

// Eye identifies one of the two half-views of a stereoscopic frame.
type Eye int

const (
	// EyeLeft is the left half-view.
	EyeLeft Eye = iota

	// EyeRight is the right half-view.
	EyeRight
)

// deviceProfileImpl is the implementation of the DeviceProfile interface.
type deviceProfileImpl struct {
	viewer     ViewerProfile
	screen     ScreenProfile
	distortion Distortion
}

// DeviceProfile combines a viewer and a screen into the calibration data the
// distortion pipeline consumes: per-eye projection matrices, undistorted
// viewports, and the lens distortion coefficients.
//
// Projection matrices use a texture-space convention: the scale/offset terms
// (m[0][0], m[1][1], m[0][2], m[1][2]) map lens-centered tan-angles to [0,1]
// coordinates across the eye's visible sub-image. Right-eye data mirrors the
// left eye about the device's vertical centerline.
type DeviceProfile interface {
	// Viewer returns the viewer (lens/holder) profile.
	//
	// Returns:
	//   - ViewerProfile: the viewer profile
	Viewer() ViewerProfile

	// Screen returns the screen (display panel) profile.
	//
	// Returns:
	//   - ScreenProfile: the screen profile
	Screen() ScreenProfile

	// Distortion returns the radial distortion model of the viewer's lenses.
	//
	// Returns:
	//   - Distortion: the distortion model
	Distortion() Distortion

	// DistortionCoefficients returns the (k1, k2) polynomial coefficients.
	//
	// Returns:
	//   - [2]float32: the coefficients
	DistortionCoefficients() [2]float32

	// DisplaySize returns the full device display dimensions in pixels.
	//
	// Returns:
	//   - width, height: display size in pixels
	DisplaySize() (width, height float32)

	// DistortedProjection returns the eye's projection matrix for the view as
	// seen through the lens (the wider, distorted frustum).
	//
	// Parameters:
	//   - eye: which eye's matrix to return
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	DistortedProjection(eye Eye) [16]float32

	// UndistortedProjection returns the eye's projection matrix for the view
	// without the lens in place (the narrower, undistorted frustum).
	//
	// Parameters:
	//   - eye: which eye's matrix to return
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	UndistortedProjection(eye Eye) [16]float32

	// UndistortedViewport returns the screen rectangle, in pixels relative to
	// the full display, covered by the eye's undistorted view.
	//
	// Parameters:
	//   - eye: which eye's viewport to return
	//
	// Returns:
	//   - common.Rect: the viewport rectangle
	UndistortedViewport(eye Eye) common.Rect
}

var _ DeviceProfile = &deviceProfileImpl{}

// NewDeviceProfile creates a DeviceProfile for a viewer/screen pair.
// Defaults to CardboardV2 on a Nexus5-class screen.
//
// Parameters:
//   - options: functional options to configure the profile
//
// Returns:
//   - DeviceProfile: the configured device profile
func NewDeviceProfile(options ...DeviceProfileBuilderOption) DeviceProfile {
	d := &deviceProfileImpl{
		viewer: CardboardV2,
		screen: Nexus5,
	}
	for _, option := range options {
		option(d)
	}
	d.distortion = NewDistortion(
		d.viewer.DistortionCoefficients[0],
		d.viewer.DistortionCoefficients[1],
	)
	return d
}

func (d *deviceProfileImpl) Viewer() ViewerProfile {
	return d.viewer
}

func (d *deviceProfileImpl) Screen() ScreenProfile {
	return d.screen
}

func (d *deviceProfileImpl) Distortion() Distortion {
	return d.distortion
}

func (d *deviceProfileImpl) DistortionCoefficients() [2]float32 {
	return d.distortion.Coefficients()
}

func (d *deviceProfileImpl) DisplaySize() (width, height float32) {
	return float32(d.screen.WidthPixels), float32(d.screen.HeightPixels)
}

func (d *deviceProfileImpl) DistortedProjection(eye Eye) [16]float32 {
	f := d.visibleTanAngles()
	if eye == EyeRight {
		f = mirrorFrustum(f)
	}
	return frustumToProjection(f)
}

func (d *deviceProfileImpl) UndistortedProjection(eye Eye) [16]float32 {
	f := d.noLensTanAngles()
	if eye == EyeRight {
		f = mirrorFrustum(f)
	}
	return frustumToProjection(f)
}

func (d *deviceProfileImpl) UndistortedViewport(eye Eye) common.Rect {
	r := d.visibleScreenRect(d.noLensTanAngles())
	if eye == EyeRight {
		r.X = float32(d.screen.WidthPixels) - (r.X + r.Width)
	}
	return r
}

// visibleTanAngles computes the left eye's frustum tan-angles (left, top,
// right, bottom) as seen through the lens. Each screen edge's tan-angle is
// pushed outward by the distortion, then clamped against the viewer's maximum
// visible FOV angle.
func (d *deviceProfileImpl) visibleTanAngles() [4]float32 {
	fovTan := math32.Tan(d.viewer.FOV * math32.Pi / 180)

	cx, cy, cz := d.leftLensCenter()
	halfWidth := d.screen.WidthMeters / 4
	halfHeight := d.screen.HeightMeters / 2

	screenLeft := d.distortion.Distort((cx - halfWidth) / cz)
	screenTop := d.distortion.Distort((cy + halfHeight) / cz)
	screenRight := d.distortion.Distort((cx + halfWidth) / cz)
	screenBottom := d.distortion.Distort((cy - halfHeight) / cz)

	return [4]float32{
		math32.Max(-fovTan, screenLeft),
		math32.Min(fovTan, screenTop),
		math32.Min(fovTan, screenRight),
		math32.Max(-fovTan, screenBottom),
	}
}

// noLensTanAngles computes the left eye's frustum tan-angles without the lens
// in place. The FOV clamp is pulled inward by the inverse distortion so that
// the undistorted view never exceeds what the lens can show.
func (d *deviceProfileImpl) noLensTanAngles() [4]float32 {
	fovTan := d.distortion.DistortInverse(math32.Tan(d.viewer.FOV * math32.Pi / 180))

	cx, cy, cz := d.leftLensCenter()
	halfWidth := d.screen.WidthMeters / 4
	halfHeight := d.screen.HeightMeters / 2

	return [4]float32{
		math32.Max(-fovTan, (cx-halfWidth)/cz),
		math32.Min(fovTan, (cy+halfHeight)/cz),
		math32.Min(fovTan, (cx+halfWidth)/cz),
		math32.Max(-fovTan, (cy-halfHeight)/cz),
	}
}

// visibleScreenRect converts a left-eye frustum to the screen rectangle it
// covers, in pixels relative to the full display.
func (d *deviceProfileImpl) visibleScreenRect(frustum [4]float32) common.Rect {
	dist := d.viewer.ScreenLensDistance

	// Lens center relative to the screen's bottom-left corner.
	eyeX := (d.screen.WidthMeters - d.viewer.InterLensDistance) / 2
	eyeY := d.viewer.BaselineLensDistance - d.screen.BorderSizeMeters

	left := (frustum[0]*dist + eyeX) / d.screen.WidthMeters
	top := (frustum[1]*dist + eyeY) / d.screen.HeightMeters
	right := (frustum[2]*dist + eyeX) / d.screen.WidthMeters
	bottom := (frustum[3]*dist + eyeY) / d.screen.HeightMeters

	return common.Rect{
		X:      left * float32(d.screen.WidthPixels),
		Y:      bottom * float32(d.screen.HeightPixels),
		Width:  (right - left) * float32(d.screen.WidthPixels),
		Height: (top - bottom) * float32(d.screen.HeightPixels),
	}
}

// leftLensCenter returns the left lens center relative to the center of the
// left half of the screen, plus the screen-to-lens distance.
func (d *deviceProfileImpl) leftLensCenter() (x, y, z float32) {
	halfWidth := d.screen.WidthMeters / 4
	halfHeight := d.screen.HeightMeters / 2
	x = d.viewer.InterLensDistance/2 - halfWidth
	y = -(d.viewer.BaselineLensDistance - d.screen.BorderSizeMeters - halfHeight)
	return x, y, d.viewer.ScreenLensDistance
}

// mirrorFrustum reflects a left-eye frustum about the vertical axis to
// produce the right-eye frustum.
func mirrorFrustum(f [4]float32) [4]float32 {
	return [4]float32{-f[2], f[1], -f[0], f[3]}
}

// frustumToProjection builds a column-major 4x4 matrix whose scale/offset
// terms map tan-angles inside the frustum to [0,1] texture coordinates:
// u = x/(r-l) - l/(r-l), v = y/(t-b) - b/(t-b). The offset terms are stored
// so that applying the packed vector as u = m00*x - m02 lands on that range.
func frustumToProjection(f [4]float32) [16]float32 {
	l, t, r, b := f[0], f[1], f[2], f[3]

	var m [16]float32
	common.Identity(m[:])
	m[0] = 1 / (r - l)  // m[0][0]
	m[5] = 1 / (t - b)  // m[1][1]
	m[8] = l / (r - l)  // m[0][2]
	m[9] = b / (t - b)  // m[1][2]
	return m
}
