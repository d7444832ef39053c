package softpipe

import (
	"groundshade/common"
	"groundshade/engine/camera"
	"groundshade/engine/light"
	"groundshade/engine/material"
	"groundshade/engine/object"
)

// SceneData is the shared storage every pass reads: the same GPU-aligned
// records the real pipeline uploads, plus the decoded texture table. Texture
// indices in material records are 1-based; slot = index - 1 into Textures.
type SceneData struct {
	Frame            camera.GPUFrameUniform
	Objects          []object.GPUObjectData
	TerrainMaterials []material.GPUTerrainMaterial
	UnitMaterials    []material.GPUUnitMaterial
	Lights           []light.GPUDirectionalLight
	Textures         []*Texture
}

// Texture resolves a 1-based material texture index. Index 0 is never a valid
// argument; callers check for the absent sentinel before resolving.
func (s *SceneData) Texture(index uint32) *Texture {
	return s.Textures[index-1]
}

// FetchedVertex is the result of resolving one (instance, vertex) pair
// against the shared object and vertex storage.
type FetchedVertex struct {
	WorldPosition  [3]float32
	ObjectPosition [3]float32
	WorldNormal    [3]float32
	TexCoord       [2]float32
	MaterialIndex  uint32
}

// VertexFetch resolves (instance, vertex) into the attributes the vertex
// stage produces: world position through the object transform, the corrected
// world normal, the untransformed object-space position, UV, and the object's
// material index. Index validity is a caller precondition; there are no
// bounds checks, matching the GPU's unchecked storage reads.
//
// Parameters:
//   - objects: the per-instance object records
//   - vertices: the shared vertex storage
//   - instance: the instance index into objects
//   - vertex: the vertex index into vertices
//
// Returns:
//   - FetchedVertex: the resolved attributes
func VertexFetch(objects []object.GPUObjectData, vertices []object.GPUVertex, instance, vertex int) FetchedVertex {
	obj := &objects[instance]
	v := &vertices[vertex]
	return FetchedVertex{
		WorldPosition:  common.TransformPoint(obj.Transform[:], v.Position),
		ObjectPosition: v.Position,
		WorldNormal:    CorrectNormal(&obj.Transform, v.Normal),
		TexCoord:       v.TexCoord,
		MaterialIndex:  obj.MaterialIndex,
	}
}

// CorrectNormal transforms an object-space normal into world space with the
// inverse-squared-scale correction: each component is divided by the squared
// length of the matrix column for its axis before the rotation is applied,
// which cancels non-uniform scale without a full inverse-transpose. The
// result is renormalized.
//
// Parameters:
//   - transform: the column-major object-to-world matrix
//   - normal: the object-space normal
//
// Returns:
//   - [3]float32: the unit-length world-space normal
func CorrectNormal(transform *[16]float32, normal [3]float32) [3]float32 {
	c0 := [3]float32{transform[0], transform[1], transform[2]}
	c1 := [3]float32{transform[4], transform[5], transform[6]}
	c2 := [3]float32{transform[8], transform[9], transform[10]}

	scaled := [3]float32{
		normal[0] / common.Dot3(c0, c0),
		normal[1] / common.Dot3(c1, c1),
		normal[2] / common.Dot3(c2, c2),
	}

	world := [3]float32{
		c0[0]*scaled[0] + c1[0]*scaled[1] + c2[0]*scaled[2],
		c0[1]*scaled[0] + c1[1]*scaled[1] + c2[1]*scaled[2],
		c0[2]*scaled[0] + c1[2]*scaled[1] + c2[2]*scaled[2],
	}
	return common.Normalize3(world)
}
