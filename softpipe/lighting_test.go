package softpipe

import (
	"testing"

	"groundshade/engine/light"
)

func TestLambert(t *testing.T) {
	tests := []struct {
		name      string
		normal    [3]float32
		direction [3]float32
		want      float32
	}{
		{"light straight down onto up-facing surface", [3]float32{0, 1, 0}, [3]float32{0, -1, 0}, 1},
		{"light from behind clamps to zero", [3]float32{0, 1, 0}, [3]float32{0, 1, 0}, 0},
		{"grazing light", [3]float32{0, 1, 0}, [3]float32{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lambert(tt.normal, tt.direction); got != tt.want {
				t.Fatalf("Lambert(%v, %v) = %v, want %v", tt.normal, tt.direction, got, tt.want)
			}
		})
	}
}

func TestDirectLightingSkipsBackfacingShadowLookups(t *testing.T) {
	lights := []light.GPUDirectionalLight{
		{Direction: [3]float32{0, -1, 0}, Color: [4]float32{1, 1, 1, 1}},
		{Direction: [3]float32{0, 1, 0}, Color: [4]float32{1, 1, 1, 1}},
	}
	lookups := 0
	shaded := DirectLighting([3]float32{1, 1, 1}, [3]float32{0, 1, 0}, lights, func(l *light.GPUDirectionalLight) float32 {
		lookups++
		return 1
	})
	if lookups != 1 {
		t.Fatalf("shadow lookups = %d, want 1 (backfacing light must skip its lookup)", lookups)
	}
	want := [3]float32{1, 1, 1}
	if shaded != want {
		t.Fatalf("shaded = %v, want %v", shaded, want)
	}
}

func TestDirectLightingAccumulates(t *testing.T) {
	lights := []light.GPUDirectionalLight{
		{Direction: [3]float32{0, -1, 0}, Color: [4]float32{0.5, 0, 0, 1}},
		{Direction: [3]float32{0, -1, 0}, Color: [4]float32{0, 0.25, 0, 1}},
	}
	shaded := DirectLighting([3]float32{1, 1, 1}, [3]float32{0, 1, 0}, lights, nil)
	want := [3]float32{0.5, 0.25, 0}
	if shaded != want {
		t.Fatalf("shaded = %v, want %v", shaded, want)
	}
}

func TestDirectLightingAppliesShadowFactor(t *testing.T) {
	lights := []light.GPUDirectionalLight{
		{Direction: [3]float32{0, -1, 0}, Color: [4]float32{1, 1, 1, 1}},
	}
	shaded := DirectLighting([3]float32{1, 1, 1}, [3]float32{0, 1, 0}, lights, func(l *light.GPUDirectionalLight) float32 {
		return 0.25
	})
	want := [3]float32{0.25, 0.25, 0.25}
	if shaded != want {
		t.Fatalf("shaded = %v, want %v", shaded, want)
	}
}

func TestCombineUnlitTerrainAmbientFloor(t *testing.T) {
	ambient := [3]float32{0.2, 0.2, 0.2}
	albedo := [3]float32{1, 1, 1}

	// Fully shadowed terrain stays at the ambient floor.
	dark := CombineUnlitTerrain([3]float32{}, ambient, albedo)
	if dark != ambient {
		t.Fatalf("fully shadowed unlit terrain = %v, want ambient floor %v", dark, ambient)
	}

	// Direct light above the floor wins per component.
	lit := CombineUnlitTerrain([3]float32{0.8, 0.1, 0.3}, ambient, albedo)
	want := [3]float32{0.8, 0.2, 0.3}
	if lit != want {
		t.Fatalf("unlit terrain combine = %v, want per-component max %v", lit, want)
	}
}

func TestCombineLitTerrainSSAOScalesAmbientOnly(t *testing.T) {
	ambient := [3]float32{0.5, 0.5, 0.5}
	albedo := [3]float32{1, 1, 1}
	shaded := [3]float32{0.3, 0.3, 0.3}

	occluded := CombineLitTerrain(shaded, ambient, albedo, 0)
	if occluded != shaded {
		t.Fatalf("fully occluded lit terrain = %v, want direct term only %v", occluded, shaded)
	}

	open := CombineLitTerrain(shaded, ambient, albedo, 1)
	want := [3]float32{0.8, 0.8, 0.8}
	for i := range 3 {
		if !approxEqual(open[i], want[i], 1e-6) {
			t.Fatalf("unoccluded lit terrain = %v, want %v", open, want)
		}
	}
}

func TestCombineUnit(t *testing.T) {
	ambient := [3]float32{0.4, 0.4, 0.4}
	albedo := [3]float32{0.5, 0.5, 0.5}
	shaded := [3]float32{0.1, 0.1, 0.1}

	got := CombineUnit(shaded, ambient, albedo, 0.5)
	want := [3]float32{0.2, 0.2, 0.2}
	for i := range 3 {
		if !approxEqual(got[i], want[i], 1e-6) {
			t.Fatalf("unit combine = %v, want %v", got, want)
		}
	}
}
