package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("Identity().IsIdentity() should be true")
	}
}

func TestIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want bool
	}{
		{"identity", Identity(), true},
		{"rounding noise", Mat4{1 + 1e-12, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1e-13, 0, 0, 1}, true},
		{"translation", Translate(0, 0, 1), false},
		{"scale", Scale(2, 1, 1), false},
		{"zero", Mat4{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsIdentity(); got != tt.want {
				t.Errorf("IsIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromBasis(t *testing.T) {
	m := FromBasis(Vec3{X: 1}, Vec3{Y: 1}, Vec3{Z: 1}, Vec3{X: 5, Y: 6, Z: 7})

	if m != Translate(5, 6, 7) {
		t.Errorf("FromBasis with unit axes should equal Translate, got %v", m)
	}
	if got := m.TransformPoint(Vec3{}); got != (Vec3{5, 6, 7}) {
		t.Errorf("origin = %v, want (5, 6, 7)", got)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestRotateAxis(t *testing.T) {
	m := RotateAxis(Vec3{Y: 1}, math.Pi/2)
	got := m.TransformPoint(Vec3{X: 1})

	if !near(got, Vec3{Z: -1}) {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", got)
	}
}

func TestZUpToYUp(t *testing.T) {
	q := ZUpToYUp()
	want := [4]float64{-math.Sqrt2 / 2, 0, 0, math.Sqrt2 / 2}
	got := q.Array()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("ZUpToYUp() = %v, want %v", got, want)
		}
	}

	// Z up in the host frame must become Y up.
	up := q.ToMat4().TransformPoint(Vec3{Z: 1})
	if !near(up, Vec3{Y: 1}) {
		t.Errorf("rotated up axis = %v, want (0, 1, 0)", up)
	}
}

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatIdentity().ToMat4()
	if !m.IsIdentity() {
		t.Errorf("identity quaternion should produce identity matrix, got %v", m)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if math.Abs(length-1) > 1e-12 {
		t.Errorf("normalized quaternion length should be 1, got %v", length)
	}
	if (Quat{}).Normalize() != QuatIdentity() {
		t.Error("zero quaternion should normalize to identity")
	}
}

func near(a, b Vec3) bool {
	const tol = 1e-9
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}
