package softpipe

import (
	"groundshade/common"
	"groundshade/engine/material"
)

// UnitAlbedo composites a unit material at a UV: the material's unicolor when
// the base layer is absent, otherwise the base layer sample, then layers 1
// and 2 straight-alpha mixed in order. An absent layer stops the loop.
//
// Parameters:
//   - sc: the scene storage resolving texture indices
//   - m: the unit material record
//   - uv: the fragment's texture coordinate
//
// Returns:
//   - [4]float32: the composited albedo, alpha included for the cutout test
func UnitAlbedo(sc *SceneData, m *material.GPUUnitMaterial, uv [2]float32) [4]float32 {
	albedo := m.Unicolor
	if m.Layers[0] != material.LayerAbsent {
		albedo = sc.Texture(m.Layers[0]).Sample(uv[0], uv[1])
	}
	for i := 1; i < material.MaxUnitLayers; i++ {
		if m.Layers[i] == material.LayerAbsent {
			break
		}
		sample := sc.Texture(m.Layers[i]).Sample(uv[0], uv[1])
		for c := range 4 {
			albedo[c] = common.Mix(albedo[c], sample[c], sample[3])
		}
	}
	return albedo
}

// UnitDiscards reports whether the composited albedo fails the alpha-cutout
// test. The comparison is strict: alpha exactly equal to the cutout is kept.
//
// Parameters:
//   - albedo: the composited albedo
//   - cutout: the discard threshold
//
// Returns:
//   - bool: true when the fragment is discarded
func UnitDiscards(albedo [4]float32, cutout float32) bool {
	return albedo[3] < cutout
}
