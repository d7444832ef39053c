package softpipe

import (
	"groundshade/common"
	"groundshade/engine/material"
	"groundshade/engine/object"
)

// Variant selects the shading rules for a draw, mirroring the GPU pipeline
// variants.
type Variant int

const (
	// TerrainLit shades terrain with SSAO and shadows, triplanar sharpness 25.
	TerrainLit Variant = iota

	// TerrainUnlit shades terrain without SSAO, triplanar sharpness 5,
	// combining ambient and direct light with max().
	TerrainUnlit

	// UnitOpaque shades units with the fixed minimal alpha cutout.
	UnitOpaque

	// UnitCutout shades units with the material's cutout, no SSAO.
	UnitCutout

	// UnitLit shades units with the material's cutout, shadows, and SSAO.
	UnitLit
)

// terrain reports whether the variant composites triplanar terrain layers.
func (v Variant) terrain() bool {
	return v == TerrainLit || v == TerrainUnlit
}

// sharpness returns the triplanar blend exponent for terrain variants.
func (v Variant) sharpness() float32 {
	if v == TerrainLit {
		return material.TriplanarSharpnessLit
	}
	return material.TriplanarSharpnessUnlit
}

// usesOcclusion reports whether the variant folds the blurred SSAO factor
// into its ambient term.
func (v Variant) usesOcclusion() bool {
	return v == TerrainLit || v == UnitLit
}

// cutout returns the discard threshold a unit variant applies: the fixed
// opaque threshold for UnitOpaque, the material's configured cutout otherwise.
func (v Variant) cutout(m *material.GPUUnitMaterial) float32 {
	if v == UnitOpaque {
		return material.OpaqueAlphaCutout
	}
	return m.AlphaCutout
}

// Mesh is shared vertex and index storage for a draw.
type Mesh struct {
	Vertices []object.GPUVertex
	Indices  []uint32
}

// Draw is one instanced draw: a mesh, the variant shading it, and the indices
// of its instances in the scene's object storage.
type Draw struct {
	Variant   Variant
	Mesh      Mesh
	Instances []int
}

// RenderPrepass rasterizes every draw into the depth and world-normal
// targets. Terrain draws are opaque; unit draws apply the variant's
// alpha-cutout discard with the exact shading-pass compositing, so prepass
// depth and shading agree on which fragments exist.
//
// Parameters:
//   - sc: the scene storage
//   - draws: the draws to rasterize
//   - depth: the depth target, cleared to 1 by the caller
//   - normals: the world-normal target
func RenderPrepass(sc *SceneData, draws []Draw, depth *FloatImage, normals *ColorImage) {
	r := NewRasterizer(depth)
	for di := range draws {
		d := &draws[di]
		for _, instance := range d.Instances {
			renderPrepassInstance(sc, d, instance, r, normals)
		}
	}
}

func renderPrepassInstance(sc *SceneData, d *Draw, instance int, r *Rasterizer, normals *ColorImage) {
	for tri := 0; tri+2 < len(d.Mesh.Indices); tri += 3 {
		var fetched [3]FetchedVertex
		var clip [3][4]float32
		for i := range 3 {
			fetched[i] = VertexFetch(sc.Objects, d.Mesh.Vertices, instance, int(d.Mesh.Indices[tri+i]))
			p := fetched[i].WorldPosition
			clip[i] = common.TransformVec4(sc.Frame.ViewProj[:], [4]float32{p[0], p[1], p[2], 1})
		}

		r.Triangle(clip, func(x, y int, w [3]float32) bool {
			if !d.Variant.terrain() {
				m := &sc.UnitMaterials[fetched[0].MaterialIndex]
				uv := Interpolate2(fetched[0].TexCoord, fetched[1].TexCoord, fetched[2].TexCoord, w)
				if UnitDiscards(UnitAlbedo(sc, m, uv), d.Variant.cutout(m)) {
					return false
				}
			}
			n := common.Normalize3(Interpolate3(fetched[0].WorldNormal, fetched[1].WorldNormal, fetched[2].WorldNormal, w))
			normals.Set(x, y, [4]float32{n[0], n[1], n[2], 0})
			return true
		})
	}
}

// RenderShadowTile rasterizes every draw depth-only into a light's shadow
// atlas tile viewport using the light's view-projection. Unit draws apply
// their cutout discard so shadows match the shaded silhouette.
//
// Parameters:
//   - sc: the scene storage
//   - draws: the draws to rasterize
//   - r: a rasterizer over the shadow atlas with the tile viewport set
//   - lightViewProj: the light's world-to-clip matrix
func RenderShadowTile(sc *SceneData, draws []Draw, r *Rasterizer, lightViewProj []float32) {
	for di := range draws {
		d := &draws[di]
		for _, instance := range d.Instances {
			for tri := 0; tri+2 < len(d.Mesh.Indices); tri += 3 {
				var fetched [3]FetchedVertex
				var clip [3][4]float32
				for i := range 3 {
					fetched[i] = VertexFetch(sc.Objects, d.Mesh.Vertices, instance, int(d.Mesh.Indices[tri+i]))
					p := fetched[i].WorldPosition
					clip[i] = common.TransformVec4(lightViewProj, [4]float32{p[0], p[1], p[2], 1})
				}

				var shade shadeFn
				if !d.Variant.terrain() {
					shade = func(x, y int, w [3]float32) bool {
						m := &sc.UnitMaterials[fetched[0].MaterialIndex]
						uv := Interpolate2(fetched[0].TexCoord, fetched[1].TexCoord, fetched[2].TexCoord, w)
						return !UnitDiscards(UnitAlbedo(sc, m, uv), d.Variant.cutout(m))
					}
				}
				r.Triangle(clip, shade)
			}
		}
	}
}
