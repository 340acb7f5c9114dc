// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Rect is an axis-aligned rectangle in pixels with its origin at the
// bottom-left corner. Used for eye viewports relative to the full device
// display.
type Rect struct {
	// X is the horizontal offset of the rectangle's origin.
	X float32
	// Y is the vertical offset of the rectangle's origin.
	Y float32
	// Width is the horizontal extent of the rectangle.
	Width float32
	// Height is the vertical extent of the rectangle.
	Height float32
}

// CenterX returns the horizontal center of the rectangle.
//
// Returns:
//   - float32: the x coordinate of the rectangle's center
func (r Rect) CenterX() float32 {
	return r.X + r.Width/2
}

// CenterY returns the vertical center of the rectangle.
//
// Returns:
//   - float32: the y coordinate of the rectangle's center
func (r Rect) CenterY() float32 {
	return r.Y + r.Height/2
}
