package common

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// MipLevelCountFor returns the number of mip levels for a full chain down to
// 1x1 for a texture of the given dimensions.
//
// Parameters:
//   - width, height: dimensions of mip level 0 in pixels
//
// Returns:
//   - uint32: total mip level count, including level 0
func MipLevelCountFor(width, height uint32) uint32 {
	levels := uint32(1)
	for width > 1 || height > 1 {
		width = max(width/2, 1)
		height = max(height/2, 1)
		levels++
	}
	return levels
}

// BuildMipChain populates t.Mips with a full mip chain down to 1x1, generated
// from t.Pixels by successive 2x box downsampling. Each level is produced from
// the previous one, so detail degrades the way GPU-generated chains do.
//
// Parameters:
//   - t: staging data holding level 0 pixels; Mips is replaced
//
// Returns:
//   - error: error if the staging data does not describe a valid RGBA image
func BuildMipChain(t *TextureStagingData) error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("cannot build mip chain for %dx%d texture", t.Width, t.Height)
	}
	if expected := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != expected {
		return fmt.Errorf("pixel data is %d bytes, expected %d for %dx%d RGBA", len(t.Pixels), expected, t.Width, t.Height)
	}

	t.Mips = nil

	prev := &image.RGBA{
		Pix:    t.Pixels,
		Stride: int(t.Width) * 4,
		Rect:   image.Rect(0, 0, int(t.Width), int(t.Height)),
	}
	w, h := int(t.Width), int(t.Height)
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(next, next.Rect, prev, prev.Rect, xdraw.Src, nil)
		t.Mips = append(t.Mips, next.Pix)
		prev = next
	}
	return nil
}
