package softpipe

import (
	"testing"

	"groundshade/common"
	"groundshade/engine/light"
)

// identityShadowLight builds a light whose view-projection is the identity,
// so view positions map straight to light NDC, occupying the whole atlas.
func identityShadowLight(resolution float32) light.GPUDirectionalLight {
	l := light.GPUDirectionalLight{
		AtlasOffset:   [2]float32{0, 0},
		AtlasSize:     [2]float32{1, 1},
		InvResolution: [2]float32{1 / resolution, 1 / resolution},
	}
	common.Identity(l.ViewProj[:])
	return l
}

func identityMatrix() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

func TestShadowFactorDepthOutsideRangeFullyLit(t *testing.T) {
	atlas := NewFloatImage(64, 64)
	// Atlas full of zeros: any sampled lookup would report shadowed.
	l := identityShadowLight(64)
	inv := identityMatrix()

	tests := []struct {
		name string
		z    float32
	}{
		{"behind the light", -0.5},
		{"beyond the far plane", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShadowFactor(atlas, &l, inv[:], [3]float32{0, 0, tt.z}); got != 1 {
				t.Fatalf("depth %v returned factor %v, want exactly 1", tt.z, got)
			}
		})
	}
}

func TestShadowFactorOutsideShrunkRectFullyLit(t *testing.T) {
	atlas := NewFloatImage(64, 64)
	l := identityShadowLight(64)
	inv := identityMatrix()

	// NDC x = -1 maps to atlas U = 0, inside the 1.5-texel border.
	got := ShadowFactor(atlas, &l, inv[:], [3]float32{-1, 0, 0.5})
	if got != 1 {
		t.Fatalf("position in the border returned factor %v, want exactly 1 (never sampled)", got)
	}
}

func TestShadowFactorShrunkRectBoundaryInclusive(t *testing.T) {
	// Atlas of zeros distinguishes sampling (factor 0) from the border
	// early-out (factor 1).
	atlas := NewFloatImage(64, 64)
	l := identityShadowLight(64)
	inv := identityMatrix()

	// Atlas U exactly at the shrunk minimum: offset + 1.5/64. All values are
	// dyadic so the UV round trip is exact.
	borderU := float32(1.5) / 64
	ndcX := borderU*2 - 1
	onEdge := ShadowFactor(atlas, &l, inv[:], [3]float32{ndcX, 0, 0.5})
	if onEdge != 0 {
		t.Fatalf("position exactly on the shrunk edge returned %v, want 0 (inclusive boundary must sample)", onEdge)
	}
}

func TestShadowFactorLitAndShadowed(t *testing.T) {
	l := identityShadowLight(64)
	inv := identityMatrix()

	lit := NewFloatImage(64, 64)
	lit.Fill(1)
	if got := ShadowFactor(lit, &l, inv[:], [3]float32{0, 0, 0.5}); got != 1 {
		t.Fatalf("unoccluded lookup = %v, want 1", got)
	}

	shadowed := NewFloatImage(64, 64)
	if got := ShadowFactor(shadowed, &l, inv[:], [3]float32{0, 0, 0.5}); got != 0 {
		t.Fatalf("occluded lookup = %v, want 0", got)
	}
}

func TestShadowFactorPCFPartial(t *testing.T) {
	l := identityShadowLight(64)
	inv := identityMatrix()

	// Split atlas: left half occludes (depth 0), right half is open (depth 1).
	atlas := NewFloatImage(64, 64)
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			atlas.Set(x, y, 1)
		}
	}

	// Center the 5-tap pattern on the split so taps straddle it.
	got := ShadowFactor(atlas, &l, inv[:], [3]float32{0, 0, 0.5})
	if got <= 0 || got >= 1 {
		t.Fatalf("PCF straddling an occlusion edge = %v, want a partial factor in (0, 1)", got)
	}
}
