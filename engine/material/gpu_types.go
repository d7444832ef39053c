package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUTerrainMaterialSource is the canonical WGSL definition of the TerrainMaterial struct.
// Matches GPUTerrainMaterial layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/terrain_material.wgsl
var GPUTerrainMaterialSource string

// GPUTerrainMaterial is the GPU-aligned representation of a terrain material
// record: the base layer plus up to 3 additional albedo/alpha-mask layer
// pairs. All texture indices are 1-based with 0 meaning absent.
// Matches the WGSL TerrainMaterial struct layout exactly (see GPUTerrainMaterialSource).
// Size: 32 bytes (std430 / WGSL aligned).
type GPUTerrainMaterial struct {
	BaseLayer uint32    // offset  0: base albedo texture index (1-based, 0 = unconfigured)
	Layers    [3]uint32 // offset  4: additional albedo texture indices (1-based, 0 = absent)
	Masks     [3]uint32 // offset 16: paired alpha-mask texture indices (1-based, 0 = absent)
	Flags     uint32    // offset 28: reserved flag bits, currently always 0
}

// Size returns the size of the GPUTerrainMaterial struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUTerrainMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTerrainMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUTerrainMaterial) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], g.BaseLayer)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[4+i*4:], g.Layers[i])
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], g.Masks[i])
	}
	binary.LittleEndian.PutUint32(buf[28:32], g.Flags)
	return buf
}

// GPUUnitMaterialSource is the canonical WGSL definition of the UnitMaterial struct.
// Matches GPUUnitMaterial layout exactly (48 bytes, std430 aligned).
//
//go:embed assets/unit_material.wgsl
var GPUUnitMaterialSource string

// GPUUnitMaterial is the GPU-aligned representation of a unit material record:
// up to 3 albedo layers (1-based, 0 = absent), a fallback unicolor, and the
// alpha-cutout threshold.
// Matches the WGSL UnitMaterial struct layout exactly (see GPUUnitMaterialSource).
// Size: 48 bytes (std430 / WGSL aligned).
type GPUUnitMaterial struct {
	Layers      [3]uint32  // offset  0: albedo texture indices (1-based, 0 = absent)
	_pad0       uint32     // offset 12: padding for vec4 alignment
	Unicolor    [4]float32 // offset 16: fallback color used when the base layer is absent
	AlphaCutout float32    // offset 32: discard threshold for alpha-tested variants
	Flags       uint32     // offset 36: reserved flag bits, currently always 0
	_pad1       [2]uint32  // offset 40: padding to 48 bytes
}

// Size returns the size of the GPUUnitMaterial struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUUnitMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUnitMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUUnitMaterial) Marshal() []byte {
	buf := make([]byte, 48)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], g.Layers[i])
	}
	binary.LittleEndian.PutUint32(buf[12:16], 0) // _pad0
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Unicolor[i]))
	}
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.AlphaCutout))
	binary.LittleEndian.PutUint32(buf[36:40], g.Flags)
	binary.LittleEndian.PutUint32(buf[40:44], 0) // _pad1
	binary.LittleEndian.PutUint32(buf[44:48], 0)
	return buf
}

// MarshalTerrainMaterialBuffer marshals terrain materials into a byte buffer
// suitable for GPU upload as the terrain material storage buffer. Record order
// matches slice order; object material indices must agree with it.
//
// Parameters:
//   - materials: the terrain materials to marshal
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalTerrainMaterialBuffer(materials []TerrainMaterial) []byte {
	recordSize := (&GPUTerrainMaterial{}).Size()
	buf := make([]byte, len(materials)*recordSize)
	for i, m := range materials {
		gpu := m.ToGPU()
		copy(buf[i*recordSize:], gpu.Marshal())
	}
	return buf
}

// MarshalUnitMaterialBuffer marshals unit materials into a byte buffer
// suitable for GPU upload as the unit material storage buffer.
//
// Parameters:
//   - materials: the unit materials to marshal
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalUnitMaterialBuffer(materials []UnitMaterial) []byte {
	recordSize := (&GPUUnitMaterial{}).Size()
	buf := make([]byte, len(materials)*recordSize)
	for i, m := range materials {
		gpu := m.ToGPU()
		copy(buf[i*recordSize:], gpu.Marshal())
	}
	return buf
}
