package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"groundshade/common"
)

// MaxGPULights is the maximum number of directional lights that can be
// marshaled into the GPU storage buffer per frame. The shadow atlas packs one
// sub-rectangle per shadow-casting light, which keeps the cap small.
const MaxGPULights = 8

// GPUDirectionalLightSource is the canonical WGSL definition of the DirectionalLight struct.
// Matches GPUDirectionalLight layout exactly (128 bytes, std430 aligned).
//
//go:embed assets/directional_light.wgsl
var GPUDirectionalLightSource string

// GPUDirectionalLight is the GPU-aligned representation of a single
// directional light with its shadow atlas placement.
// Matches the WGSL DirectionalLight struct layout exactly (see GPUDirectionalLightSource).
// Size: 128 bytes (std430 / WGSL aligned).
type GPUDirectionalLight struct {
	ViewProj      [16]float32 // offset   0: world → light clip matrix for shadow lookup (mat4x4<f32>)
	Direction     [3]float32  // offset  64: normalized direction, light toward scene (vec3<f32>)
	_pad0         float32     // offset  76: padding
	Color         [4]float32  // offset  80: RGB color pre-multiplied by intensity, alpha unused (vec4<f32>)
	AtlasOffset   [2]float32  // offset  96: shadow sub-rectangle top-left in atlas UV (vec2<f32>)
	AtlasSize     [2]float32  // offset 104: shadow sub-rectangle size in atlas UV (vec2<f32>)
	InvResolution [2]float32  // offset 112: 1 / shadow map resolution per axis (vec2<f32>)
	_pad1         [2]float32  // offset 120: padding to 128 bytes
}

// Size returns the size of the GPUDirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDirectionalLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (g *GPUDirectionalLight) Marshal() []byte {
	buf := make([]byte, 128)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Direction[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad0
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[96:], math.Float32bits(g.AtlasOffset[0]))
	binary.LittleEndian.PutUint32(buf[100:], math.Float32bits(g.AtlasOffset[1]))
	binary.LittleEndian.PutUint32(buf[104:], math.Float32bits(g.AtlasSize[0]))
	binary.LittleEndian.PutUint32(buf[108:], math.Float32bits(g.AtlasSize[1]))
	binary.LittleEndian.PutUint32(buf[112:], math.Float32bits(g.InvResolution[0]))
	binary.LittleEndian.PutUint32(buf[116:], math.Float32bits(g.InvResolution[1]))
	binary.LittleEndian.PutUint32(buf[120:], 0) // _pad1
	binary.LittleEndian.PutUint32(buf[124:], 0)
	return buf
}

// GPULightListSource is the canonical WGSL definition of the LightList struct:
// a 16-byte header carrying the active light count, followed by a runtime
// array of DirectionalLight records.
//
//go:embed assets/light_list.wgsl
var GPULightListSource string

// GPULightListHeader is the header prepended to the light storage buffer.
// Size: 16 bytes (u32 count + 12 bytes padding, std430 aligned).
type GPULightListHeader struct {
	LightCount uint32    // offset 0: number of active lights following the header
	_pad       [3]uint32 // offset 4: padding to 16 bytes
}

// Size returns the size of the GPULightListHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightListHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightListHeader struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightListHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], h.LightCount)
	return buf
}

// ToGPULight converts a DirectionalLight interface value into the GPU-aligned
// GPUDirectionalLight struct suitable for writing into the light storage buffer.
// The light's color is pre-multiplied by its intensity.
//
// Parameters:
//   - l: the DirectionalLight to convert
//
// Returns:
//   - GPUDirectionalLight: the GPU-aligned representation
func ToGPULight(l DirectionalLight) GPUDirectionalLight {
	c := l.Color()
	i := l.Intensity()
	return GPUDirectionalLight{
		ViewProj:      l.ViewProjection(),
		Direction:     l.Direction(),
		Color:         [4]float32{c[0] * i, c[1] * i, c[2] * i, 1},
		AtlasOffset:   l.AtlasOffset(),
		AtlasSize:     l.AtlasSize(),
		InvResolution: l.InverseResolution(),
	}
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightListHeader (16 bytes)] [GPUDirectionalLight × count (128 bytes each)]
//
// Only enabled lights are included, up to MaxGPULights. Lights beyond the
// cap are silently dropped.
//
// Parameters:
//   - lights: the full slice of lights to marshal (only enabled lights are included)
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []DirectionalLight) []byte {
	headerSize := (&GPULightListHeader{}).Size()
	lightSize := (&GPUDirectionalLight{}).Size()

	enabledCount := 0
	for _, l := range lights {
		if l.Enabled() {
			enabledCount++
			if enabledCount >= MaxGPULights {
				break
			}
		}
	}

	buf := make([]byte, headerSize+enabledCount*lightSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(enabledCount))

	offset := headerSize
	written := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if written >= MaxGPULights {
			break
		}
		gpu := ToGPULight(l)
		copy(buf[offset:offset+lightSize], gpu.Marshal())
		offset += lightSize
		written++
	}

	return buf
}

// computeDirectionalViewProj builds an orthographic view-projection matrix for
// a directional light's shadow pass. The frustum is centered on the provided
// world position and aligned to look along the light's direction.
func computeDirectionalViewProj(out *[16]float32, lightDir [3]float32, centerX, centerY, centerZ, halfExtent, near, far float32) {
	// Position the "eye" behind the center, opposite the light direction,
	// so we look from behind the scene toward the lit area.
	eyeX := centerX - lightDir[0]*far*0.5
	eyeY := centerY - lightDir[1]*far*0.5
	eyeZ := centerZ - lightDir[2]*far*0.5

	// Choose a stable up vector that isn't parallel to the light direction.
	// If the light points nearly straight up or down, use X-axis as up.
	upX, upY, upZ := float32(0), float32(1), float32(0)
	if common.AbsF32(lightDir[1]) > 0.99 {
		upX, upY, upZ = 1, 0, 0
	}

	var view [16]float32
	common.LookAt(view[:],
		eyeX, eyeY, eyeZ,
		centerX, centerY, centerZ,
		upX, upY, upZ,
	)

	var proj [16]float32
	common.Orthographic(proj[:], -halfExtent, halfExtent, -halfExtent, halfExtent, near, far)

	common.Mul4(out[:], proj[:], view[:])
}
