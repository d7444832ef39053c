package object

import (
	"groundshade/common"
	"groundshade/engine/renderer/bind_group_provider"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	vertexData     []byte
	indexData      []byte
	indexCount     int
	boundingRadius float32
	provider       bind_group_provider.BindGroupProvider
}

// Mesh defines the interface for a GPU-ready mesh: raw vertex/index data plus
// the BindGroupProvider holding the uploaded GPU buffers. Meshes are shared —
// many Objects may reference one Mesh.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// VertexData returns the raw vertex data for this mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this mesh, measured
	// as the maximum vertex distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Provider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	Provider() bind_group_provider.BindGroupProvider
}

var _ Mesh = &mesh{}

// NewMesh creates a mesh from vertex and index slices. The raw bytes stay on
// the mesh; the host uploads them via Renderer.InitMeshBuffers before the mesh
// is first drawn.
//
// Parameters:
//   - name: the mesh identifier, also used to name the bind group provider
//   - vertices: the vertex data
//   - indices: the triangle index data
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(name string, vertices []GPUVertex, indices []uint32) Mesh {
	vertexData := make([]byte, 0, len(vertices)*32)
	for i := range vertices {
		vertexData = append(vertexData, vertices[i].Marshal()...)
	}

	return &mesh{
		name:           name,
		vertexData:     vertexData,
		indexData:      common.SliceToBytes(indices),
		indexCount:     len(indices),
		boundingRadius: ComputeBoundingRadius(vertices),
		provider:       bind_group_provider.NewBindGroupProvider(name),
	}
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) Provider() bind_group_provider.BindGroupProvider {
	return m.provider
}
