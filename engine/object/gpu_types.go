package object

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 32 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in object space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
	return buf
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

// GPUObjectDataSource is the canonical WGSL definition of the ObjectData struct
// for the per-instance object storage buffer.
// Matches GPUObjectData layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/object_data.wgsl
var GPUObjectDataSource string

// GPUObjectData is the GPU-aligned representation of a single per-instance
// object record: the world transform plus the material table index. Vertex
// shaders index the object storage buffer at the instance index to resolve it.
// Matches the WGSL ObjectData struct layout exactly (see GPUObjectDataSource).
// Size: 80 bytes (std430 / WGSL aligned).
type GPUObjectData struct {
	Transform     [16]float32 // offset  0: 4×4 object-to-world transform matrix (64 bytes)
	MaterialIndex uint32      // offset 64: index into the material storage buffer
	_pad          [3]uint32   // offset 68: padding to 80 bytes
}

// Size returns the size of the GPUObjectData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (80).
func (g *GPUObjectData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUObjectData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Transform[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:], g.MaterialIndex)
	binary.LittleEndian.PutUint32(buf[68:], 0) // _pad
	binary.LittleEndian.PutUint32(buf[72:], 0)
	binary.LittleEndian.PutUint32(buf[76:], 0)
	return buf
}

// MarshalObjectBuffer marshals a slice of objects into a byte buffer suitable
// for GPU upload as the per-frame object storage buffer. Record order matches
// slice order; the instance index used at draw time must agree with it.
//
// Parameters:
//   - objects: the objects to marshal, in draw submission order
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalObjectBuffer(objects []Object) []byte {
	recordSize := (&GPUObjectData{}).Size()
	buf := make([]byte, len(objects)*recordSize)
	for i, o := range objects {
		gpu := GPUObjectData{
			Transform:     o.Transform(),
			MaterialIndex: o.MaterialIndex(),
		}
		copy(buf[i*recordSize:], gpu.Marshal())
	}
	return buf
}
