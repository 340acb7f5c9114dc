package distortion

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityParams maps the base grid onto itself: unprojecting re-centers on
// (0.5, 0.5), zero coefficients leave the radius untouched, and reprojecting
// undoes the centering.
func identityParams() CalibrationParams {
	return CalibrationParams{
		Projection:             [4]float32{1, 1, -0.5, -0.5},
		Unprojection:           [4]float32{1, 1, -0.5, -0.5},
		DistortionCoefficients: [2]float32{0, 0},
	}
}

func TestBuildVertexCount(t *testing.T) {
	b := NewMeshBuilder()

	columns, rows := b.Tessellation()
	assert.Equal(t, DefaultTessellation, columns)
	assert.Equal(t, DefaultTessellation, rows)

	geom, err := b.Build(identityParams())
	require.NoError(t, err)

	// Two eyes, 40x40 quads each, two triangles per quad.
	assert.Equal(t, 2*40*40*2*3, geom.VertexCount())
	assert.Equal(t, 40, geom.Columns)
	assert.Equal(t, 40, geom.Rows)
	assert.Len(t, geom.VertexData(), geom.VertexCount()*20)
}

func TestBuildTessellationOption(t *testing.T) {
	b := NewMeshBuilder(WithTessellation(2, 3))

	geom, err := b.Build(identityParams())
	require.NoError(t, err)
	assert.Equal(t, 2*2*3*2*3, geom.VertexCount())

	// Non-positive values keep the default.
	b2 := NewMeshBuilder(WithTessellation(0, -1))
	columns, rows := b2.Tessellation()
	assert.Equal(t, DefaultTessellation, columns)
	assert.Equal(t, DefaultTessellation, rows)
}

func TestBuildEyeHalves(t *testing.T) {
	b := NewMeshBuilder()
	geom, err := b.Build(identityParams())
	require.NoError(t, err)

	n := geom.VertexCount() / 2
	for i, v := range geom.Vertices {
		if i < n {
			assert.GreaterOrEqual(t, v.UV[0], float32(0), "left UV.x at %d", i)
			assert.LessOrEqual(t, v.UV[0], float32(0.5), "left UV.x at %d", i)
			assert.GreaterOrEqual(t, v.Position[0], float32(-1), "left position.x at %d", i)
			assert.LessOrEqual(t, v.Position[0], float32(0), "left position.x at %d", i)
		} else {
			assert.GreaterOrEqual(t, v.UV[0], float32(0.5), "right UV.x at %d", i)
			assert.LessOrEqual(t, v.UV[0], float32(1), "right UV.x at %d", i)
			assert.GreaterOrEqual(t, v.Position[0], float32(0), "right position.x at %d", i)
			assert.LessOrEqual(t, v.Position[0], float32(1), "right position.x at %d", i)
		}
		assert.GreaterOrEqual(t, v.UV[1], float32(0))
		assert.LessOrEqual(t, v.UV[1], float32(1))
		assert.GreaterOrEqual(t, v.Position[1], float32(-1))
		assert.LessOrEqual(t, v.Position[1], float32(1))
		assert.Zero(t, v.Position[2])
	}
}

func TestBuildEyePairing(t *testing.T) {
	// Positions are untouched by the warp, so each right-eye vertex sits
	// exactly one unit to the right of its left-eye counterpart regardless of
	// calibration. With the identity calibration the UV relation is exact
	// too: the right half is the left half shifted into [0.5,1].
	params := identityParams()

	b := NewMeshBuilder()
	geom, err := b.Build(params)
	require.NoError(t, err)

	n := geom.VertexCount() / 2
	for i := 0; i < n; i++ {
		left := geom.Vertices[i]
		right := geom.Vertices[n+i]

		assert.InDelta(t, left.Position[0]+1, right.Position[0], 1e-6, "position.x at %d", i)
		assert.InDelta(t, left.Position[1], right.Position[1], 1e-6, "position.y at %d", i)
		assert.InDelta(t, left.UV[0]+0.5, right.UV[0], 1e-6, "UV.x at %d", i)
		assert.InDelta(t, left.UV[1], right.UV[1], 1e-6, "UV.y at %d", i)
	}
}

func TestBuildDeterministic(t *testing.T) {
	params := identityParams()
	params.DistortionCoefficients = [2]float32{0.34, 0.55}

	b := NewMeshBuilder()
	first, err := b.Build(params)
	require.NoError(t, err)
	second, err := b.Build(params)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.VertexData(), second.VertexData()), "rebuilds must be bit-identical")
}

func TestBuildInvalidCalibration(t *testing.T) {
	params := identityParams()
	params.Unprojection[0] = math32.NaN()

	b := NewMeshBuilder()
	geom, err := b.Build(params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCalibration)
	assert.Nil(t, geom)
}

func TestCenterMarker(t *testing.T) {
	b := NewMeshBuilder(WithCenterMarker())
	require.True(t, b.ShowCenter())

	geom, err := b.Build(identityParams())
	require.NoError(t, err)

	// Vertices just off the lens axis get the blown-up polynomial and land
	// far outside the normal UV range.
	var maxAbs float32
	for _, v := range geom.Vertices {
		if a := math32.Abs(v.UV[0]); a > maxAbs {
			maxAbs = a
		}
	}
	assert.Greater(t, maxAbs, float32(10), "marker should push UVs far out of range")

	b.SetShowCenter(false)
	assert.False(t, b.ShowCenter())

	plain, err := b.Build(identityParams())
	require.NoError(t, err)
	for _, v := range plain.Vertices {
		assert.LessOrEqual(t, math32.Abs(v.UV[0]), float32(1))
	}
}

func TestDistortPureBarrel(t *testing.T) {
	// A point off the lens axis moves outward under a positive-coefficient
	// polynomial.
	proj := [4]float32{1, 1, -0.5, -0.5}
	unproj := [4]float32{1, 1, -0.5, -0.5}
	coeffs := [2]float32{0.34, 0.55}

	in := [2]float32{0.75, 0.5}
	out := Distort(in, proj, unproj, coeffs, false)
	assert.Greater(t, out[0], in[0])
	assert.InDelta(t, 0.5, out[1], 1e-6)
}
