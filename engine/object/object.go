package object

import (
	"sync/atomic"

	"groundshade/common"
)

// Class selects which shading family draws an object. Pipeline variant
// selection within a family (alpha-test on/off, SSAO-aware or not) happens at
// pipeline build time, not per object.
type Class int

const (
	// ClassTerrain objects are shaded with triplanar multi-layer compositing.
	ClassTerrain Class = iota

	// ClassUnit objects are shaded with standard UV mapping and alpha-cutout.
	ClassUnit
)

// objectImpl is the implementation of the Object interface.
type objectImpl struct {
	id      uint64
	enabled atomic.Bool

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	transform [16]float32

	class         Class
	materialIndex uint32
	mesh          Mesh
}

// Object defines the interface for a single drawable instance: a world
// transform, a material table index, and a shared mesh. The host rebuilds the
// object list every frame and marshals it into the object storage buffer in
// draw submission order; the vertex shader resolves each record by instance
// index.
type Object interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Class returns the shading family for this object.
	//
	// Returns:
	//   - Class: terrain or unit
	Class() Class

	// MaterialIndex returns the index into the material storage buffer for
	// this object's class. Index validity is a caller precondition; it is not
	// bounds-checked here or on the GPU.
	//
	// Returns:
	//   - uint32: the material index
	MaterialIndex() uint32

	// Mesh returns the shared mesh for this object.
	//
	// Returns:
	//   - Mesh: the mesh, or nil if not set
	Mesh() Mesh

	// Position returns the object's world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// Scale returns the object's per-axis scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// Transform returns the object-to-world matrix as 16 floats (column-major),
	// rebuilt whenever position, rotation, or scale changes.
	//
	// Returns:
	//   - [16]float32: the object-to-world transform
	Transform() [16]float32

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMaterialIndex sets the material table index.
	//
	// Parameters:
	//   - index: the material index
	SetMaterialIndex(index uint32)

	// SetMesh assigns a shared mesh to this object.
	//
	// Parameters:
	//   - m: the mesh to associate
	SetMesh(m Mesh)

	// SetPosition updates the object's world-space position and rebuilds the transform.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation updates the object's Euler rotation (radians) and rebuilds the transform.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// SetScale updates the object's per-axis scale and rebuilds the transform.
	// Non-uniform scale is supported; consumers correct normals by the
	// inverse-squared-scale before lighting.
	//
	// Parameters:
	//   - sx, sy, sz: new scale components
	SetScale(sx, sy, sz float32)
}

var _ Object = &objectImpl{}

// objectCount is an atomic counter used to assign unique default IDs.
var objectCount atomic.Uint64

// NewObject creates a new Object of the given class with identity transform
// and any provided options applied.
//
// Parameters:
//   - class: the shading family for the object (terrain or unit)
//   - options: functional options to configure the object
//
// Returns:
//   - Object: the newly created object
func NewObject(class Class, options ...ObjectBuilderOption) Object {
	o := &objectImpl{
		id:       objectCount.Add(1),
		class:    class,
		position: [3]float32{0, 0, 0},
		rotation: [3]float32{0, 0, 0},
		scale:    [3]float32{1, 1, 1},
	}
	o.enabled.Store(true)
	o.rebuildTransform()
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *objectImpl) ID() uint64 {
	return o.id
}

func (o *objectImpl) Enabled() bool {
	return o.enabled.Load()
}

func (o *objectImpl) Class() Class {
	return o.class
}

func (o *objectImpl) MaterialIndex() uint32 {
	return o.materialIndex
}

func (o *objectImpl) Mesh() Mesh {
	return o.mesh
}

func (o *objectImpl) Position() (x, y, z float32) {
	return o.position[0], o.position[1], o.position[2]
}

func (o *objectImpl) Rotation() (rx, ry, rz float32) {
	return o.rotation[0], o.rotation[1], o.rotation[2]
}

func (o *objectImpl) Scale() (sx, sy, sz float32) {
	return o.scale[0], o.scale[1], o.scale[2]
}

func (o *objectImpl) Transform() [16]float32 {
	return o.transform
}

func (o *objectImpl) SetID(id uint64) {
	o.id = id
}

func (o *objectImpl) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

func (o *objectImpl) SetMaterialIndex(index uint32) {
	o.materialIndex = index
}

func (o *objectImpl) SetMesh(m Mesh) {
	o.mesh = m
}

func (o *objectImpl) SetPosition(x, y, z float32) {
	o.position = [3]float32{x, y, z}
	o.rebuildTransform()
}

func (o *objectImpl) SetRotation(rx, ry, rz float32) {
	o.rotation = [3]float32{rx, ry, rz}
	o.rebuildTransform()
}

func (o *objectImpl) SetScale(sx, sy, sz float32) {
	o.scale = [3]float32{sx, sy, sz}
	o.rebuildTransform()
}

// rebuildTransform recomputes the object-to-world matrix from position,
// rotation, and scale.
func (o *objectImpl) rebuildTransform() {
	common.BuildModelMatrix(o.transform[:],
		o.position[0], o.position[1], o.position[2],
		o.rotation[0], o.rotation[1], o.rotation[2],
		o.scale[0], o.scale[1], o.scale[2],
	)
}
