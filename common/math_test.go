package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func assertMatrixNear(t *testing.T, want, got Matrix4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	id := Identity4()
	m := BuildModelMatrix([3]float32{1, 2, 3}, [3]float32{0.3, 0.2, 0.1}, [3]float32{2, 2, 2})

	var out Matrix4
	Mul4(&out, &id, &m)
	assertMatrixNear(t, m, out)

	Mul4(&out, &m, &id)
	assertMatrixNear(t, m, out)
}

func TestMul4Order(t *testing.T) {
	// translate after rotating: the point (1,0,0) rotates to (0,1,0) then moves by (5,0,0)
	tr := Translation4(5, 0, 0)
	rot := RotationZ4(math32.Pi / 2)

	var m Matrix4
	Mul4(&m, &tr, &rot)
	x, y, z := TransformPoint(&m, 1, 0, 0)
	assert.InDelta(t, 5, x, 1e-5)
	assert.InDelta(t, 1, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)

	// and the reverse order moves first, then rotates
	Mul4(&m, &rot, &tr)
	x, y, _ = TransformPoint(&m, 1, 0, 0)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 6, y, 1e-5)
}

func TestMul4Aliasing(t *testing.T) {
	a := Translation4(1, 2, 3)
	b := Translation4(4, 5, 6)
	Mul4(&a, &a, &b)
	assertMatrixNear(t, Translation4(5, 7, 9), a)
}

func TestInvert4(t *testing.T) {
	m := BuildModelMatrix([3]float32{4, -2, 7}, [3]float32{0.5, 1.1, -0.4}, [3]float32{1, 3, 0.5})
	var inv, prod Matrix4
	assert.True(t, Invert4(&inv, &m))
	Mul4(&prod, &m, &inv)
	assertMatrixNear(t, Identity4(), prod)

	var zero Matrix4
	before := inv
	assert.False(t, Invert4(&inv, &zero))
	assert.Equal(t, before, inv)
}

func TestLookAt(t *testing.T) {
	view := LookAt([3]float32{0, 0, 10}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	_, _, z := TransformPoint(&view, 0, 0, 0)
	assert.InDelta(t, -10, z, 1e-5)
	_, _, z = TransformPoint(&view, 0, 0, 4)
	assert.InDelta(t, -6, z, 1e-5)
}

func TestSplitArrayName(t *testing.T) {
	tests := []struct {
		in, base, suffix string
	}{
		{"diffuseColor", "diffuseColor", ""},
		{"lights[2]", "lights", "[2]"},
		{"lights[2].color", "lights", "[2].color"},
	}
	for _, tt := range tests {
		base, suffix := SplitArrayName(tt.in)
		assert.Equal(t, tt.base, base, tt.in)
		assert.Equal(t, tt.suffix, suffix, tt.in)
	}
}
