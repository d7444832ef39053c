package object

// ObjectBuilderOption is a function that configures an Object instance during construction.
type ObjectBuilderOption func(*objectImpl)

// WithPosition is an option builder that sets the object's world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - ObjectBuilderOption: a function that applies the position option to an objectImpl
func WithPosition(x, y, z float32) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.position = [3]float32{x, y, z}
		o.rebuildTransform()
	}
}

// WithRotation is an option builder that sets the object's Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - ObjectBuilderOption: a function that applies the rotation option to an objectImpl
func WithRotation(rx, ry, rz float32) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.rotation = [3]float32{rx, ry, rz}
		o.rebuildTransform()
	}
}

// WithScale is an option builder that sets the object's per-axis scale.
//
// Parameters:
//   - sx, sy, sz: scale components
//
// Returns:
//   - ObjectBuilderOption: a function that applies the scale option to an objectImpl
func WithScale(sx, sy, sz float32) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.scale = [3]float32{sx, sy, sz}
		o.rebuildTransform()
	}
}

// WithMaterialIndex is an option builder that sets the material table index.
//
// Parameters:
//   - index: the material index
//
// Returns:
//   - ObjectBuilderOption: a function that applies the material index option to an objectImpl
func WithMaterialIndex(index uint32) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.materialIndex = index
	}
}

// WithMesh is an option builder that assigns a shared mesh to the object.
//
// Parameters:
//   - m: the mesh to associate
//
// Returns:
//   - ObjectBuilderOption: a function that applies the mesh option to an objectImpl
func WithMesh(m Mesh) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.mesh = m
	}
}

// WithEnabled is an option builder that sets whether the object is enabled for rendering.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - ObjectBuilderOption: a function that applies the enabled option to an objectImpl
func WithEnabled(enabled bool) ObjectBuilderOption {
	return func(o *objectImpl) {
		o.enabled.Store(enabled)
	}
}
