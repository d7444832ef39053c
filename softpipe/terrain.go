package softpipe

import (
	"groundshade/common"
	"groundshade/engine/material"
)

// Diagnostic colors for malformed terrain materials, matching the WGSL
// constants: dark red for an absent base layer, bright red for a layer
// missing its paired alpha mask.
var (
	baseLayerFallback   = [4]float32{0.5, 0, 0, 1}
	missingMaskFallback = [4]float32{1, 0, 0, 1}
)

// TriplanarWeights raises the absolute normal to the sharpness exponent and
// renormalizes so the three projection weights sum to 1.
//
// Parameters:
//   - normal: the unit surface normal
//   - sharpness: the blend exponent (25 lit, 5 unlit)
//
// Returns:
//   - [3]float32: per-axis projection weights summing to 1
func TriplanarWeights(normal [3]float32, sharpness float32) [3]float32 {
	w := [3]float32{
		common.PowF32(common.AbsF32(normal[0]), sharpness),
		common.PowF32(common.AbsF32(normal[1]), sharpness),
		common.PowF32(common.AbsF32(normal[2]), sharpness),
	}
	sum := w[0] + w[1] + w[2]
	return [3]float32{w[0] / sum, w[1] / sum, w[2] / sum}
}

// TriplanarSample projects a texture onto the three axis planes at the
// grid-local position and blends by the triplanar weights: pos.zy for the X
// plane, pos.xz for Y, pos.xy for Z.
//
// Parameters:
//   - t: the texture to sample
//   - pos: the grid-local position
//   - w: the triplanar weights
//
// Returns:
//   - [4]float32: the blended sample
func TriplanarSample(t *Texture, pos [3]float32, w [3]float32) [4]float32 {
	sx := t.Sample(pos[2], pos[1])
	sy := t.Sample(pos[0], pos[2])
	sz := t.Sample(pos[0], pos[1])
	var out [4]float32
	for i := range 4 {
		out[i] = sx[i]*w[0] + sy[i]*w[1] + sz[i]*w[2]
	}
	return out
}

// TerrainAlbedo composites a terrain material at an object-space position:
// the base layer triplanar-sampled (dark red when absent), then up to three
// masked layers. A slot with both layer and mask absent stops the loop; a
// slot missing either one paints bright red and moves on; a complete slot
// mixes the layer in by the mask's alpha coverage sampled on the XY plane.
//
// Parameters:
//   - sc: the scene storage resolving texture indices
//   - m: the terrain material record
//   - objectPos: the fragment's object-space position
//   - normal: the unit surface normal
//   - sharpness: the triplanar blend exponent
//
// Returns:
//   - [4]float32: the composited albedo
func TerrainAlbedo(sc *SceneData, m *material.GPUTerrainMaterial, objectPos, normal [3]float32, sharpness float32) [4]float32 {
	gridPos := common.Scale3(objectPos, material.TerrainGridScale)
	weights := TriplanarWeights(normal, sharpness)

	albedo := baseLayerFallback
	if m.BaseLayer != material.LayerAbsent {
		albedo = TriplanarSample(sc.Texture(m.BaseLayer), gridPos, weights)
	}
	for i := range material.MaxTerrainLayers {
		layer := m.Layers[i]
		mask := m.Masks[i]
		if layer == material.LayerAbsent && mask == material.LayerAbsent {
			break
		}
		if layer == material.LayerAbsent || mask == material.LayerAbsent {
			albedo = missingMaskFallback
			continue
		}
		coverage := sc.Texture(mask).Sample(gridPos[0], gridPos[1])[3]
		layerColor := TriplanarSample(sc.Texture(layer), gridPos, weights)
		for c := range 4 {
			albedo[c] = common.Mix(albedo[c], layerColor[c], coverage)
		}
	}
	return albedo
}
