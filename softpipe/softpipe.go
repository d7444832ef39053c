// Package softpipe is the CPU reference implementation of the render
// pipeline: vertex fetch, depth-normal prepass, SSAO and blur, shadow atlas
// sampling, triplanar terrain shading, and unit shading, mirroring the WGSL
// kernels operation for operation in float32. It exists so every shading rule
// can be exercised in tests without a GPU, and so pass outputs can be
// eyeballed through cmd/softview on machines without a usable adapter.
package softpipe

import (
	"fmt"
	"math"

	"groundshade/common"
)

// FloatImage is a single-channel float32 render target, used for depth
// buffers, the shadow atlas, and the occlusion buffers.
type FloatImage struct {
	Width  int
	Height int
	Pix    []float32
}

// NewFloatImage creates a FloatImage of the given dimensions, zero-filled.
// Panics if either dimension is not positive.
//
// Parameters:
//   - width, height: target dimensions in pixels
//
// Returns:
//   - *FloatImage: the new image
func NewFloatImage(width, height int) *FloatImage {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("softpipe: invalid FloatImage dimensions %dx%d", width, height))
	}
	return &FloatImage{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// At returns the value at (x, y). Indices are a caller precondition.
func (f *FloatImage) At(x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

// Set stores v at (x, y). Indices are a caller precondition.
func (f *FloatImage) Set(x, y int, v float32) {
	f.Pix[y*f.Width+x] = v
}

// Fill sets every pixel to v.
func (f *FloatImage) Fill(v float32) {
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// ColorImage is a four-channel float32 render target, used for the prepass
// normal buffer (xyz in rgb) and the color output.
type ColorImage struct {
	Width  int
	Height int
	Pix    [][4]float32
}

// NewColorImage creates a ColorImage of the given dimensions, zero-filled.
// Panics if either dimension is not positive.
//
// Parameters:
//   - width, height: target dimensions in pixels
//
// Returns:
//   - *ColorImage: the new image
func NewColorImage(width, height int) *ColorImage {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("softpipe: invalid ColorImage dimensions %dx%d", width, height))
	}
	return &ColorImage{
		Width:  width,
		Height: height,
		Pix:    make([][4]float32, width*height),
	}
}

// At returns the texel at (x, y). Indices are a caller precondition.
func (c *ColorImage) At(x, y int) [4]float32 {
	return c.Pix[y*c.Width+x]
}

// Set stores v at (x, y). Indices are a caller precondition.
func (c *ColorImage) Set(x, y int, v [4]float32) {
	c.Pix[y*c.Width+x] = v
}

// Fill sets every texel to v.
func (c *ColorImage) Fill(v [4]float32) {
	for i := range c.Pix {
		c.Pix[i] = v
	}
}

// Texture is a CPU-side sampled texture with repeat addressing and bilinear
// filtering, mirroring the GPU albedo array sampler at mip level 0.
type Texture struct {
	Width  int
	Height int
	Texels [][4]float32
}

// NewTexture creates a texture of the given dimensions with all texels zero.
// Panics if either dimension is not positive.
//
// Parameters:
//   - width, height: texture dimensions in texels
//
// Returns:
//   - *Texture: the new texture
func NewTexture(width, height int) *Texture {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("softpipe: invalid Texture dimensions %dx%d", width, height))
	}
	return &Texture{
		Width:  width,
		Height: height,
		Texels: make([][4]float32, width*height),
	}
}

// NewTextureFromStaging decodes GPU staging data into a sampleable texture.
// RGB channels are decoded sRGB to linear, matching what the GPU's sRGB view
// returns from a sample; alpha stays linear, so alpha-packed coverage masks
// round-trip exactly.
//
// Parameters:
//   - staging: the staging data to decode (4 bytes per pixel, RGBA order)
//
// Returns:
//   - *Texture: the decoded texture
func NewTextureFromStaging(staging *common.TextureStagingData) *Texture {
	t := NewTexture(int(staging.Width), int(staging.Height))
	for i := range t.Texels {
		t.Texels[i] = [4]float32{
			srgbToLinear(staging.Pixels[i*4]),
			srgbToLinear(staging.Pixels[i*4+1]),
			srgbToLinear(staging.Pixels[i*4+2]),
			float32(staging.Pixels[i*4+3]) / 255,
		}
	}
	return t
}

// Load returns the texel at (x, y) with repeat wrapping.
func (t *Texture) Load(x, y int) [4]float32 {
	x = wrap(x, t.Width)
	y = wrap(y, t.Height)
	return t.Texels[y*t.Width+x]
}

// Sample bilinearly filters the texture at (u, v) with repeat addressing,
// matching a linear-filter repeat sampler at mip level 0.
//
// Parameters:
//   - u, v: texture coordinates; values outside [0, 1) wrap
//
// Returns:
//   - [4]float32: the filtered texel
func (t *Texture) Sample(u, v float32) [4]float32 {
	fx := u*float32(t.Width) - 0.5
	fy := v*float32(t.Height) - 0.5
	x0 := int(floorF32(fx))
	y0 := int(floorF32(fy))
	tx := fx - floorF32(fx)
	ty := fy - floorF32(fy)

	c00 := t.Load(x0, y0)
	c10 := t.Load(x0+1, y0)
	c01 := t.Load(x0, y0+1)
	c11 := t.Load(x0+1, y0+1)

	var out [4]float32
	for i := range 4 {
		top := common.Mix(c00[i], c10[i], tx)
		bottom := common.Mix(c01[i], c11[i], tx)
		out[i] = common.Mix(top, bottom, ty)
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func floorF32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

func srgbToLinear(b byte) float32 {
	c := float64(b) / 255
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}
