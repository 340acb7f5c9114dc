package viewer

import (
	"github.com/chewxy/math32"
)

// Distortion models the even-order radial polynomial distortion of a viewer's
// lenses: distort(r) = r * (1 + k1*r^2 + k2*r^4). Radii are expressed as
// tan-angles from the lens's optical axis.
type Distortion struct {
	coefficients [2]float32
}

// NewDistortion creates a Distortion from the two polynomial coefficients.
//
// Parameters:
//   - k1: coefficient of the r^2 term
//   - k2: coefficient of the r^4 term
//
// Returns:
//   - Distortion: the distortion model
func NewDistortion(k1, k2 float32) Distortion {
	return Distortion{coefficients: [2]float32{k1, k2}}
}

// Coefficients returns the polynomial coefficients (k1, k2).
//
// Returns:
//   - [2]float32: the coefficients
func (d Distortion) Coefficients() [2]float32 {
	return d.coefficients
}

// Factor evaluates the distortion polynomial 1 + k1*r2 + k2*r2^2 for a given
// squared radius.
//
// Parameters:
//   - r2: the squared radius (tan-angle squared)
//
// Returns:
//   - float32: the radial magnification factor
func (d Distortion) Factor(r2 float32) float32 {
	return 1 + d.coefficients[0]*r2 + d.coefficients[1]*r2*r2
}

// Distort applies the forward distortion to a radius.
//
// Parameters:
//   - r: the undistorted radius (tan-angle)
//
// Returns:
//   - float32: the distorted radius as seen through the lens
func (d Distortion) Distort(r float32) float32 {
	return r * d.Factor(r*r)
}

// DistortInverse solves distort(r) = radius for r using the secant method.
// Converges in a handful of iterations for physical coefficient ranges.
//
// Parameters:
//   - radius: the distorted radius to invert
//
// Returns:
//   - float32: the undistorted radius r such that Distort(r) ~= radius
func (d Distortion) DistortInverse(radius float32) float32 {
	r0 := float32(0)
	r1 := float32(1)
	dr0 := radius - d.Distort(r0)
	for math32.Abs(r1-r0) > 0.0001 {
		dr1 := radius - d.Distort(r1)
		r2 := r1 - dr1*((r1-r0)/(dr1-dr0))
		r0, r1 = r1, r2
		dr0 = dr1
	}
	return r1
}
