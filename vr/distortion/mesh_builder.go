package distortion

// MeshBuilderOption is a functional option for configuring a meshBuilderImpl.
// Use the With* functions to create options.
type MeshBuilderOption func(*meshBuilderImpl)

// WithTessellation sets the per-eye grid density in quads per axis.
// Non-positive values are ignored, keeping the default.
//
// Parameters:
//   - columns: quads along the horizontal axis
//   - rows: quads along the vertical axis
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithTessellation(columns, rows int) MeshBuilderOption {
	return func(b *meshBuilderImpl) {
		if columns > 0 {
			b.columns = columns
		}
		if rows > 0 {
			b.rows = rows
		}
	}
}

// WithCenterMarker activates the center marker debug mode, which blows up the
// distortion polynomial near the lens axis so the distortion center is
// visually locatable.
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithCenterMarker() MeshBuilderOption {
	return func(b *meshBuilderImpl) {
		b.showCenter = true
	}
}

// WithWorkers sets the number of pool workers used for the per-vertex
// transform. Non-positive values are ignored, keeping the CPU-derived default.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithWorkers(n int) MeshBuilderOption {
	return func(b *meshBuilderImpl) {
		if n > 0 {
			b.workers = n
		}
	}
}
