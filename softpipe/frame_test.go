package softpipe

import (
	"testing"

	"groundshade/common"
	"groundshade/engine/light"
	"groundshade/engine/material"
	"groundshade/engine/object"
	"groundshade/engine/renderer/ssao"
)

// quadMesh builds a unit quad in the XY plane at z = 0 facing +Z, two
// triangles, UVs spanning the quad.
func quadMesh() Mesh {
	return Mesh{
		Vertices: []object.GPUVertex{
			{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
			{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 1}},
			{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{-1, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func identityObject(materialIndex uint32) object.GPUObjectData {
	var o object.GPUObjectData
	common.Identity(o.Transform[:])
	o.MaterialIndex = materialIndex
	return o
}

func TestPipelineRenderFrameTerrainAmbient(t *testing.T) {
	const size = 32
	p := NewPipeline(size, size, WithWorkers(1), WithKernel(ssao.NewKernel(ssao.WithSeed(3, 9))))

	albedo := [4]float32{0.25, 0.5, 0.75, 1}
	sc := &SceneData{
		Frame:            testFrame(size, size),
		Objects:          []object.GPUObjectData{identityObject(0)},
		TerrainMaterials: []material.GPUTerrainMaterial{{BaseLayer: 1}},
		Textures:         []*Texture{solidTexture(albedo)},
	}
	sc.Frame.Ambient = [4]float32{1, 1, 1, 1}

	draws := []Draw{{Variant: TerrainUnlit, Mesh: quadMesh(), Instances: []int{0}}}
	color := p.RenderFrame(sc, draws)

	// No lights: unlit terrain resolves to ambient * albedo.
	center := color.At(size/2, size/2)
	for i := range 3 {
		if !approxEqual(center[i], albedo[i], 1e-4) {
			t.Fatalf("center pixel = %v, want ambient-lit albedo %v", center, albedo)
		}
	}
	if center[3] != 1 {
		t.Fatalf("center alpha = %v, want 1", center[3])
	}

	// The quad does not reach the corners; they keep the clear color.
	if corner := color.At(0, 0); corner != [4]float32{0, 0, 0, 1} {
		t.Fatalf("corner pixel = %v, want clear color", corner)
	}
	if d := p.Depth.At(0, 0); d != 1 {
		t.Fatalf("corner depth = %v, want cleared 1", d)
	}
}

func TestPipelineRenderFrameDirectionalLight(t *testing.T) {
	const size = 32
	p := NewPipeline(size, size,
		WithWorkers(1),
		WithKernel(ssao.NewKernel(ssao.WithSeed(3, 9))),
		WithShadowAtlasResolution(64),
	)

	albedo := [4]float32{0.5, 0.25, 0.125, 1}
	l := light.GPUDirectionalLight{
		Direction:     [3]float32{0, 0, -1},
		Color:         [4]float32{1, 1, 1, 1},
		AtlasSize:     [2]float32{1, 1},
		InvResolution: [2]float32{1.0 / 64, 1.0 / 64},
	}
	// Shift the light's depth window off the quad: the shadow lookup leaves
	// [0, 1] and resolves fully lit without relying on self-shadow precision.
	common.Identity(l.ViewProj[:])
	l.ViewProj[14] = -0.5

	sc := &SceneData{
		Frame:         testFrame(size, size),
		Objects:       []object.GPUObjectData{identityObject(0)},
		UnitMaterials: []material.GPUUnitMaterial{{Layers: [3]uint32{1, 0, 0}}},
		Lights:        []light.GPUDirectionalLight{l},
		Textures:      []*Texture{solidTexture(albedo)},
	}

	draws := []Draw{{Variant: UnitOpaque, Mesh: quadMesh(), Instances: []int{0}}}
	color := p.RenderFrame(sc, draws)

	// Head-on light with no ambient: the center resolves to the albedo.
	center := color.At(size/2, size/2)
	for i := range 3 {
		if !approxEqual(center[i], albedo[i], 1e-4) {
			t.Fatalf("center pixel = %v, want fully lit albedo %v", center, albedo)
		}
	}
}

func TestPipelineRenderFrameCutoutDiscards(t *testing.T) {
	const size = 32
	p := NewPipeline(size, size, WithWorkers(1), WithKernel(ssao.NewKernel(ssao.WithSeed(3, 9))))

	sc := &SceneData{
		Frame:         testFrame(size, size),
		Objects:       []object.GPUObjectData{identityObject(0)},
		UnitMaterials: []material.GPUUnitMaterial{{Layers: [3]uint32{1, 0, 0}, AlphaCutout: 0.5}},
		Textures:      []*Texture{solidTexture([4]float32{1, 1, 1, 0.05})},
	}

	draws := []Draw{{Variant: UnitCutout, Mesh: quadMesh(), Instances: []int{0}}}
	color := p.RenderFrame(sc, draws)

	center := color.At(size/2, size/2)
	if center != [4]float32{0, 0, 0, 1} {
		t.Fatalf("discarded quad left center pixel %v, want clear color", center)
	}
	if d := p.Depth.At(size/2, size/2); d != 1 {
		t.Fatalf("discarded quad wrote depth %v, want cleared 1", d)
	}
}

func TestShadingDepthTestsAgainstPrepassDepth(t *testing.T) {
	const size = 16
	p := NewPipeline(size, size, WithWorkers(1), WithKernel(ssao.NewKernel(ssao.WithSeed(3, 9))))

	sc := &SceneData{
		Frame:            testFrame(size, size),
		Objects:          []object.GPUObjectData{identityObject(0)},
		TerrainMaterials: []material.GPUTerrainMaterial{{BaseLayer: 1}},
		Textures:         []*Texture{solidTexture([4]float32{1, 1, 1, 1})},
	}
	sc.Frame.Ambient = [4]float32{1, 1, 1, 1}
	draws := []Draw{{Variant: TerrainUnlit, Mesh: quadMesh(), Instances: []int{0}}}

	// A depth buffer filled with 0 occludes every fragment. The shading pass
	// must reject everything against it rather than rasterize its own depth.
	p.Depth.Fill(0)
	p.Color.Fill([4]float32{0, 0, 0, 1})
	p.renderShading(sc, draws)

	if center := p.Color.At(size/2, size/2); center != [4]float32{0, 0, 0, 1} {
		t.Fatalf("shading drew %v against a fully occluding depth buffer, want clear color", center)
	}
	if d := p.Depth.At(size/2, size/2); d != 0 {
		t.Fatalf("shading pass wrote depth %v, want the prepass value 0 untouched", d)
	}
}

func TestPipelineResize(t *testing.T) {
	p := NewPipeline(8, 8, WithWorkers(1), WithKernel(ssao.NewKernel(ssao.WithSeed(3, 9))))
	p.Resize(16, 4)

	targets := map[string][2]int{
		"Depth":        {p.Depth.Width, p.Depth.Height},
		"OcclusionRaw": {p.OcclusionRaw.Width, p.OcclusionRaw.Height},
		"Occlusion":    {p.Occlusion.Width, p.Occlusion.Height},
	}
	for name, dims := range targets {
		if dims != [2]int{16, 4} {
			t.Fatalf("%s target is %dx%d after resize, want 16x4", name, dims[0], dims[1])
		}
	}
	if p.ShadowAtlas.Width != DefaultShadowAtlasResolution {
		t.Fatalf("shadow atlas resized to %d, want untouched %d", p.ShadowAtlas.Width, DefaultShadowAtlasResolution)
	}
}
