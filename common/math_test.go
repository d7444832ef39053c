package common

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float32) bool {
	return AbsF32(a-b) <= tolerance
}

func TestIdentity(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = 9
	}
	Identity(m[:])
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m[i] != want {
			t.Fatalf("m[%d] = %v, want %v", i, m[i], want)
		}
	}
}

func TestMul4(t *testing.T) {
	var id, a, out [16]float32
	Identity(id[:])
	for i := range 16 {
		a[i] = float32(i + 1)
	}

	Mul4(out[:], id[:], a[:])
	if out != a {
		t.Fatalf("identity * a = %v, want a unchanged", out)
	}

	// Translation composed with scale: T * S scales then translates.
	var tr, sc [16]float32
	Identity(tr[:])
	tr[12], tr[13], tr[14] = 1, 2, 3
	Identity(sc[:])
	sc[0], sc[5], sc[10] = 2, 2, 2
	Mul4(out[:], tr[:], sc[:])
	got := TransformPoint(out[:], [3]float32{1, 1, 1})
	if want := [3]float32{3, 4, 5}; got != want {
		t.Fatalf("(T*S) * (1,1,1) = %v, want %v", got, want)
	}

	// Aliasing the output with an input must still be correct.
	Mul4(a[:], a[:], id[:])
	for i := range 16 {
		if a[i] != float32(i+1) {
			t.Fatalf("aliased multiply corrupted a[%d] = %v", i, a[i])
		}
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/3), 1, near, far)

	// Camera at the origin looking down -Z: the near plane maps to depth 0,
	// the far plane to depth 1.
	atNear := ProjectPoint(proj[:], [3]float32{0, 0, -near})
	if !almostEqual(atNear[2], 0, 1e-6) {
		t.Fatalf("near plane depth = %v, want 0", atNear[2])
	}
	atFar := ProjectPoint(proj[:], [3]float32{0, 0, -far})
	if !almostEqual(atFar[2], 1, 1e-5) {
		t.Fatalf("far plane depth = %v, want 1", atFar[2])
	}
	mid := ProjectPoint(proj[:], [3]float32{0, 0, -10})
	if mid[2] <= 0 || mid[2] >= 1 {
		t.Fatalf("interior depth = %v, want inside (0, 1)", mid[2])
	}

	// A centered point projects to NDC x = y = 0.
	if !almostEqual(atFar[0], 0, 1e-6) || !almostEqual(atFar[1], 0, 1e-6) {
		t.Fatalf("centered point projected to (%v, %v), want the NDC origin", atFar[0], atFar[1])
	}
}

func TestOrthographicMapsBoxToClipSpace(t *testing.T) {
	var proj [16]float32
	Orthographic(proj[:], -10, 10, -5, 5, 1, 101)

	tests := []struct {
		name string
		p    [3]float32
		want [3]float32
	}{
		{"center front", [3]float32{0, 0, -1}, [3]float32{0, 0, 0}},
		{"center back", [3]float32{0, 0, -101}, [3]float32{0, 0, 1}},
		{"right top", [3]float32{10, 5, -51}, [3]float32{1, 1, 0.5}},
		{"left bottom", [3]float32{-10, -5, -51}, [3]float32{-1, -1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectPoint(proj[:], tt.p)
			for i := range 3 {
				if !almostEqual(got[i], tt.want[i], 1e-5) {
					t.Fatalf("projected %v to %v, want %v", tt.p, got, tt.want)
				}
			}
		})
	}
}

func TestLookAt(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// The eye maps to the view-space origin; the target sits straight ahead
	// on -Z at the eye distance.
	eye := TransformPoint(view[:], [3]float32{0, 0, 5})
	for i := range 3 {
		if !almostEqual(eye[i], 0, 1e-6) {
			t.Fatalf("eye transformed to %v, want the origin", eye)
		}
	}
	target := TransformPoint(view[:], [3]float32{0, 0, 0})
	if !almostEqual(target[2], -5, 1e-5) || !almostEqual(target[0], 0, 1e-6) || !almostEqual(target[1], 0, 1e-6) {
		t.Fatalf("target transformed to %v, want (0, 0, -5)", target)
	}

	// Up stays up for a horizontal look direction.
	above := TransformPoint(view[:], [3]float32{0, 1, 5})
	if !almostEqual(above[1], 1, 1e-6) {
		t.Fatalf("point above the eye transformed to %v, want y = 1", above)
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out [16]float32
	BuildModelMatrix(m[:], 1, -2, 3, 0.4, 1.1, -0.7, 2, 0.5, 1.5)

	if !Invert4(inv[:], m[:]) {
		t.Fatalf("model matrix reported as singular")
	}
	Mul4(out[:], inv[:], m[:])
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if !almostEqual(out[i], want, 1e-4) {
			t.Fatalf("inv * m deviates from identity at %d: %v", i, out[i])
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	if Invert4(out[:], zero[:]) {
		t.Fatalf("zero matrix reported as invertible")
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	var m [16]float32
	Identity(m[:])
	m[12], m[13], m[14] = 100, 200, 300

	d := TransformDirection(m[:], [3]float32{0, 0, -1})
	if want := [3]float32{0, 0, -1}; d != want {
		t.Fatalf("direction through a translation = %v, want unchanged %v", d, want)
	}
	p := TransformPoint(m[:], [3]float32{0, 0, -1})
	if want := [3]float32{100, 200, 299}; p != want {
		t.Fatalf("point through a translation = %v, want %v", p, want)
	}
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 5, 6, 7, 0, 0, 0, 2, 3, 4)

	got := TransformPoint(m[:], [3]float32{1, 1, 1})
	if want := [3]float32{7, 9, 11}; got != want {
		t.Fatalf("model transform of (1,1,1) = %v, want %v", got, want)
	}
}
