package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform struct.
// Matches GPUFrameUniform layout exactly (496 bytes, std430 aligned).
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniform is the GPU-aligned representation of the per-frame camera uniform
// buffer consumed by every pass. Matches the WGSL FrameUniform struct layout exactly
// (see GPUFrameUniformSource).
// Size: 496 bytes (std430 / WGSL aligned).
type GPUFrameUniform struct {
	View              [16]float32   // offset   0: world → view matrix (mat4x4<f32>)
	ViewProj          [16]float32   // offset  64: world → clip matrix (mat4x4<f32>)
	OriginViewProj    [16]float32   // offset 128: view-proj with camera translation removed, for skybox-style rendering (mat4x4<f32>)
	InvView           [16]float32   // offset 192: view → world matrix (mat4x4<f32>)
	InvViewProj       [16]float32   // offset 256: clip → world matrix (mat4x4<f32>)
	InvOriginViewProj [16]float32   // offset 320: inverse of OriginViewProj (mat4x4<f32>)
	Frustum           [5][4]float32 // offset 384: culling planes, left/right/top/bottom/far (array<vec4<f32>, 5>)
	Ambient           [4]float32    // offset 464: ambient light color (vec4<f32>)
	Resolution        [2]uint32     // offset 480: render target size in pixels (vec2<u32>)
	_pad              [2]uint32     // offset 488: padding to 496 bytes
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (496)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFrameUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putMat4 := func(offset int, m *[16]float32) {
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(m[i]))
		}
	}
	putMat4(0, &g.View)
	putMat4(64, &g.ViewProj)
	putMat4(128, &g.OriginViewProj)
	putMat4(192, &g.InvView)
	putMat4(256, &g.InvViewProj)
	putMat4(320, &g.InvOriginViewProj)
	for p := range 5 {
		for i := range 4 {
			binary.LittleEndian.PutUint32(buf[384+p*16+i*4:], math.Float32bits(g.Frustum[p][i]))
		}
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[464+i*4:], math.Float32bits(g.Ambient[i]))
	}
	binary.LittleEndian.PutUint32(buf[480:], g.Resolution[0])
	binary.LittleEndian.PutUint32(buf[484:], g.Resolution[1])
	binary.LittleEndian.PutUint32(buf[488:], 0) // _pad
	binary.LittleEndian.PutUint32(buf[492:], 0)
	return buf
}
