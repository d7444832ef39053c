package softpipe

import (
	"testing"

	"groundshade/common"
)

func TestTextureLoadRepeatWrap(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.Texels = [][4]float32{
		{1, 0, 0, 1}, {0, 1, 0, 1},
		{0, 0, 1, 1}, {1, 1, 0, 1},
	}

	tests := []struct {
		name string
		x, y int
		want [4]float32
	}{
		{"in range", 1, 0, [4]float32{0, 1, 0, 1}},
		{"wraps right", 3, 0, [4]float32{0, 1, 0, 1}},
		{"wraps negative", -1, 0, [4]float32{0, 1, 0, 1}},
		{"wraps both axes", -2, 3, [4]float32{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Load(tt.x, tt.y); got != tt.want {
				t.Fatalf("Load(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.Texels = [][4]float32{{0, 0, 0, 0}, {1, 1, 1, 1}}

	// Texel centers return the texel exactly.
	if got := tex.Sample(0.25, 0.5); got != tex.Texels[0] {
		t.Fatalf("sample at left texel center = %v, want %v", got, tex.Texels[0])
	}
	if got := tex.Sample(0.75, 0.5); got != tex.Texels[1] {
		t.Fatalf("sample at right texel center = %v, want %v", got, tex.Texels[1])
	}

	// Halfway between the two centers blends them equally.
	mid := tex.Sample(0.5, 0.5)
	for i := range 4 {
		if !approxEqual(mid[i], 0.5, 1e-6) {
			t.Fatalf("sample between texel centers = %v, want 0.5 per channel", mid)
		}
	}
}

func TestNewTextureFromStaging(t *testing.T) {
	staging := &common.TextureStagingData{
		Width:  2,
		Height: 1,
		Pixels: []byte{
			0, 255, 0, 128,
			255, 0, 255, 0,
		},
	}
	tex := NewTextureFromStaging(staging)

	first := tex.Load(0, 0)
	if first[0] != 0 || first[2] != 0 {
		t.Fatalf("sRGB zero bytes decoded to %v, want zero channels", first)
	}
	if first[1] != 1 {
		t.Fatalf("sRGB 255 decoded to %v, want exactly 1", first[1])
	}
	// Alpha carries coverage masks and must decode linearly, not through the
	// sRGB curve.
	if want := float32(128) / 255; first[3] != want {
		t.Fatalf("alpha decoded to %v, want linear %v", first[3], want)
	}

	second := tex.Load(1, 0)
	if second[0] != 1 || second[2] != 1 || second[3] != 0 {
		t.Fatalf("second texel decoded to %v, want (1, g, 1, 0)", second)
	}
}

func TestNewImagePanicsOnBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"float image zero width", func() { NewFloatImage(0, 4) }},
		{"color image negative height", func() { NewColorImage(4, -1) }},
		{"texture zero height", func() { NewTexture(4, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected a panic for invalid dimensions")
				}
			}()
			tt.fn()
		})
	}
}
