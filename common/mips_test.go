package common

import "testing"

func TestMipLevelCountFor(t *testing.T) {
	tests := []struct {
		width, height uint32
		want          uint32
	}{
		{1, 1, 1},
		{2, 2, 2},
		{4, 4, 3},
		{256, 256, 9},
		{5, 3, 3},
		{1, 8, 4},
	}
	for _, tt := range tests {
		if got := MipLevelCountFor(tt.width, tt.height); got != tt.want {
			t.Fatalf("MipLevelCountFor(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
		}
	}
}

func solidStaging(width, height uint32, r, g, b, a byte) *TextureStagingData {
	pixels := make([]byte, width*height*4)
	for i := uint32(0); i < width*height; i++ {
		pixels[i*4] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return &TextureStagingData{Width: width, Height: height, Pixels: pixels}
}

func TestBuildMipChain(t *testing.T) {
	staging := solidStaging(8, 4, 100, 150, 200, 255)
	if err := BuildMipChain(staging); err != nil {
		t.Fatalf("BuildMipChain failed: %v", err)
	}

	// 8x4 -> 4x2 -> 2x1 -> 1x1: three generated levels below level 0.
	wantSizes := []int{4 * 2 * 4, 2 * 1 * 4, 1 * 1 * 4}
	if len(staging.Mips) != len(wantSizes) {
		t.Fatalf("generated %d mips, want %d", len(staging.Mips), len(wantSizes))
	}
	for level, mip := range staging.Mips {
		if len(mip) != wantSizes[level] {
			t.Fatalf("mip %d is %d bytes, want %d", level, len(mip), wantSizes[level])
		}
		// Downsampling a solid color keeps the color.
		for i := 0; i < len(mip); i += 4 {
			for c, want := range []byte{100, 150, 200, 255} {
				got := mip[i+c]
				diff := int(got) - int(want)
				if diff < -1 || diff > 1 {
					t.Fatalf("mip %d texel byte %d = %d, want %d", level, i+c, got, want)
				}
			}
		}
	}
}

func TestBuildMipChainReplacesExisting(t *testing.T) {
	staging := solidStaging(2, 2, 10, 20, 30, 255)
	staging.Mips = [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}
	if err := BuildMipChain(staging); err != nil {
		t.Fatalf("BuildMipChain failed: %v", err)
	}
	if len(staging.Mips) != 1 {
		t.Fatalf("stale mips survived: %d levels, want 1", len(staging.Mips))
	}
}

func TestBuildMipChainRejectsBadInput(t *testing.T) {
	if err := BuildMipChain(&TextureStagingData{Width: 0, Height: 4}); err == nil {
		t.Fatalf("zero width accepted")
	}
	bad := &TextureStagingData{Width: 4, Height: 4, Pixels: make([]byte, 7)}
	if err := BuildMipChain(bad); err == nil {
		t.Fatalf("short pixel buffer accepted")
	}
}
