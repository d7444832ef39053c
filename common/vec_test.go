package common

import "testing"

func TestCross3RightHanded(t *testing.T) {
	x := [3]float32{1, 0, 0}
	y := [3]float32{0, 1, 0}
	z := [3]float32{0, 0, 1}
	if got := Cross3(x, y); got != z {
		t.Fatalf("x cross y = %v, want z", got)
	}
	if got := Cross3(y, x); got != ([3]float32{0, 0, -1}) {
		t.Fatalf("y cross x = %v, want -z", got)
	}
	if got := Cross3(x, x); got != ([3]float32{}) {
		t.Fatalf("x cross x = %v, want zero", got)
	}
}

func TestNormalize3(t *testing.T) {
	got := Normalize3([3]float32{0, 3, 4})
	if want := [3]float32{0, 0.6, 0.8}; got != want {
		t.Fatalf("Normalize3 = %v, want %v", got, want)
	}
	// The zero vector passes through rather than dividing by zero.
	if got := Normalize3([3]float32{}); got != ([3]float32{}) {
		t.Fatalf("Normalize3(0) = %v, want the zero vector", got)
	}
}

func TestMixAndClamp(t *testing.T) {
	if got := Mix(2, 6, 0.25); got != 3 {
		t.Fatalf("Mix(2, 6, 0.25) = %v, want 3", got)
	}
	if got := Mix3([3]float32{0, 0, 0}, [3]float32{2, 4, 8}, 0.5); got != ([3]float32{1, 2, 4}) {
		t.Fatalf("Mix3 = %v, want (1, 2, 4)", got)
	}
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Fatalf("Clamp(-1, 0, 1) = %v, want 0", got)
	}
	if got := Saturate(1.5); got != 1 {
		t.Fatalf("Saturate(1.5) = %v, want 1", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name  string
		x     float32
		want  float32
		exact bool
	}{
		{"below edge0 clamps", -1, 0, true},
		{"at edge0", 0, 0, true},
		{"midpoint", 0.5, 0.5, true},
		{"at edge1", 1, 1, true},
		{"above edge1 clamps", 2, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Smoothstep(0, 1, tt.x); got != tt.want {
				t.Fatalf("Smoothstep(0, 1, %v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}

	// Scaled edges behave like the normalized form.
	if got := Smoothstep(2, 6, 4); got != 0.5 {
		t.Fatalf("Smoothstep(2, 6, 4) = %v, want 0.5", got)
	}
}

func TestMax3(t *testing.T) {
	got := Max3([3]float32{1, 5, 3}, [3]float32{4, 2, 3})
	if want := [3]float32{4, 5, 3}; got != want {
		t.Fatalf("Max3 = %v, want %v", got, want)
	}
}
