package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistortKnownValues(t *testing.T) {
	d := NewDistortion(0.441, 0.156)

	tests := []struct {
		name string
		r    float32
		want float32
	}{
		{name: "zero stays zero", r: 0, want: 0},
		{name: "unit radius", r: 1, want: 1.597},
		{name: "half radius", r: 0.5, want: 0.5 * (1 + 0.441*0.25 + 0.156*0.0625)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, d.Distort(tt.r), 1e-4)
		})
	}
}

func TestDistortMonotonic(t *testing.T) {
	d := NewDistortion(0.34, 0.55)

	prev := float32(-1)
	for r := float32(0); r <= 1.2; r += 0.05 {
		cur := d.Distort(r)
		assert.Greater(t, cur, prev, "distortion must increase at r=%v", r)
		prev = cur
	}
}

func TestDistortInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		k1, k2 float32
	}{
		{name: "cardboard v1", k1: 0.441, k2: 0.156},
		{name: "cardboard v2", k1: 0.34, k2: 0.55},
		{name: "no distortion", k1: 0, k2: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDistortion(tt.k1, tt.k2)
			for r := float32(0.1); r <= 0.9; r += 0.1 {
				distorted := d.Distort(r)
				recovered := d.DistortInverse(distorted)
				assert.InDelta(t, r, recovered, 1e-3, "round trip at r=%v", r)
			}
		})
	}
}

func TestFactorAtZero(t *testing.T) {
	d := NewDistortion(0.441, 0.156)
	assert.InDelta(t, 1, d.Factor(0), 1e-6)
}
