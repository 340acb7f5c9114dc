package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 7
	}
	Identity(m)

	for i, v := range m {
		if i == 0 || i == 5 || i == 10 || i == 15 {
			assert.Equal(t, float32(1), v, "diagonal element %d", i)
		} else {
			assert.Equal(t, float32(0), v, "off-diagonal element %d", i)
		}
	}
}

func TestMul4Identity(t *testing.T) {
	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	assert.Equal(t, a, out)

	Mul4(out, id, a)
	assert.Equal(t, a, out)
}

func TestMul4InPlace(t *testing.T) {
	// Scaling by 2 then translating by (1,0,0), column-major.
	scale := make([]float32, 16)
	Identity(scale)
	scale[0], scale[5], scale[10] = 2, 2, 2

	translate := make([]float32, 16)
	Identity(translate)
	translate[12] = 1

	// out aliases an input; Mul4 buffers internally.
	Mul4(translate, translate, scale)
	assert.Equal(t, float32(2), translate[0])
	assert.Equal(t, float32(1), translate[12])
}

func TestOrthographic(t *testing.T) {
	m := make([]float32, 16)
	Orthographic(m, 0, 2, 0, 2, -1, 1)

	// x' = m[0]*x + m[12]: 0 maps to -1, 2 maps to 1.
	assert.InDelta(t, -1, m[0]*0+m[12], 1e-6)
	assert.InDelta(t, 1, m[0]*2+m[12], 1e-6)

	// z' = m[10]*z + m[14]: near maps to 0, far maps to 1 (WebGPU clip space).
	assert.InDelta(t, 0, m[10]*-1+m[14], 1e-6)
	assert.InDelta(t, 1, m[10]*1+m[14], 1e-6)
}

func TestProjectionVector(t *testing.T) {
	m := make([]float32, 16)
	Identity(m)
	m[0] = 1.5
	m[5] = 2.5
	m[8] = -0.25
	m[9] = 0.75

	v := ProjectionVector(m)
	assert.Equal(t, [4]float32{1.5, 2.5, -0.25, 0.75}, v)
}

func TestSliceToBytes(t *testing.T) {
	type vertex struct {
		Position [3]float32
		UV       [2]float32
	}

	data := []vertex{{}, {}, {}}
	b := SliceToBytes(data)
	require.Len(t, b, 3*20)

	assert.Nil(t, SliceToBytes([]vertex(nil)))
}

func TestStructToBytes(t *testing.T) {
	v := struct {
		A [4]float32
	}{A: [4]float32{1, 2, 3, 4}}
	b := StructToBytes(&v)
	require.Len(t, b, 16)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, Coalesce(0, 5, 9))
	assert.Equal(t, float32(60), Coalesce(float32(0), 60))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 40}
	assert.InDelta(t, 60, r.CenterX(), 1e-6)
	assert.InDelta(t, 40, r.CenterY(), 1e-6)
}
