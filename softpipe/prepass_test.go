package softpipe

import (
	"testing"

	"groundshade/engine/material"
	"groundshade/engine/object"
)

func TestPrepassOpaqueUnitsIgnoreMaterialCutout(t *testing.T) {
	const size = 16
	sc := &SceneData{
		Frame:         testFrame(size, size),
		Objects:       []object.GPUObjectData{identityObject(0)},
		UnitMaterials: []material.GPUUnitMaterial{{Layers: [3]uint32{1, 0, 0}, AlphaCutout: 0.9}},
		Textures:      []*Texture{solidTexture([4]float32{1, 1, 1, 0.3})},
	}
	draws := []Draw{{Variant: UnitOpaque, Mesh: quadMesh(), Instances: []int{0}}}

	// The opaque variant tests against the fixed minimal threshold, so alpha
	// 0.3 survives even though the material's configured cutout is 0.9. The
	// prepass must agree with the shading pass or SSAO samples holes.
	depth := NewFloatImage(size, size)
	depth.Fill(1)
	normals := NewColorImage(size, size)
	RenderPrepass(sc, draws, depth, normals)
	if d := depth.At(size/2, size/2); d >= 1 {
		t.Fatalf("opaque unit prepass depth = %v, want written (fixed threshold ignores the material cutout)", d)
	}

	// The same draw as the cutout variant honors the configured threshold and
	// discards everywhere.
	draws[0].Variant = UnitCutout
	depth.Fill(1)
	normals.Fill([4]float32{})
	RenderPrepass(sc, draws, depth, normals)
	if d := depth.At(size/2, size/2); d != 1 {
		t.Fatalf("cutout unit below its threshold wrote prepass depth %v, want cleared 1", d)
	}
}
