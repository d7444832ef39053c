package common

import (
	"math"
	"testing"
)

func planeDistance(p Plane, point [3]float32) float32 {
	return p.Normal[0]*point[0] + p.Normal[1]*point[1] + p.Normal[2]*point[2] + p.Distance
}

func TestExtractFrustumFromMatrix(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/2), 1, 0.1, 100)
	f := ExtractFrustumFromMatrix(proj[:])

	inside := [3]float32{0, 0, -5}
	for i, p := range f.Planes {
		if d := planeDistance(p, inside); d <= 0 {
			t.Fatalf("interior point fails plane %d with distance %v", i, d)
		}
	}

	outside := []struct {
		name  string
		point [3]float32
		plane int
	}{
		{"beyond far", [3]float32{0, 0, -200}, FrustumFar},
		{"behind near", [3]float32{0, 0, 1}, FrustumNear},
		{"past right", [3]float32{50, 0, -5}, FrustumRight},
		{"past left", [3]float32{-50, 0, -5}, FrustumLeft},
		{"above top", [3]float32{0, 50, -5}, FrustumTop},
		{"below bottom", [3]float32{0, -50, -5}, FrustumBottom},
	}
	for _, tt := range outside {
		t.Run(tt.name, func(t *testing.T) {
			if d := planeDistance(f.Planes[tt.plane], tt.point); d >= 0 {
				t.Fatalf("point %v passes plane %d with distance %v, want negative", tt.point, tt.plane, d)
			}
		})
	}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/3), 16.0/9.0, 0.1, 100)
	f := ExtractFrustumFromMatrix(proj[:])

	for i, p := range f.Planes {
		length := float32(math.Sqrt(float64(
			p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2])))
		if AbsF32(length-1) > 1e-5 {
			t.Fatalf("plane %d normal length = %v, want 1", i, length)
		}
	}
}

func TestCullingPlanesOrderAndOmitsNear(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/2), 1, 0.1, 100)
	f := ExtractFrustumFromMatrix(proj[:])
	planes := f.CullingPlanes()

	order := [5]int{FrustumLeft, FrustumRight, FrustumTop, FrustumBottom, FrustumFar}
	for i, idx := range order {
		p := f.Planes[idx]
		want := [4]float32{p.Normal[0], p.Normal[1], p.Normal[2], p.Distance}
		if planes[i] != want {
			t.Fatalf("culling plane %d = %v, want frustum plane %d %v", i, planes[i], idx, want)
		}
	}
}
