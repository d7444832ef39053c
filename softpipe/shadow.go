package softpipe

import (
	"groundshade/common"
	"groundshade/engine/light"
)

// ShadowBorderTexels mirrors the atlas sub-rectangle shrink applied on the
// GPU: the valid sampling region pulls in by this many texels on every side
// so PCF taps never cross into a neighboring light's tile.
const ShadowBorderTexels float32 = 1.5

// ShadowFactor transforms a view-space position into a light's shadow atlas
// and returns the 5-tap PCF visibility factor: 1 fully lit, 0 fully shadowed.
// Positions whose light-space depth leaves [0, 1], or whose atlas UV falls
// outside the light's shrunk sub-rectangle, return exactly 1.0. The rectangle
// comparisons are inclusive: a UV exactly on the shrunk edge still samples.
//
// Parameters:
//   - atlas: the shadow atlas depth image
//   - l: the light whose tile is sampled
//   - invView: the view-to-world matrix
//   - viewPos: the fragment position in view space
//
// Returns:
//   - float32: the shadow visibility factor in [0, 1]
func ShadowFactor(atlas *FloatImage, l *light.GPUDirectionalLight, invView []float32, viewPos [3]float32) float32 {
	world := common.TransformPoint(invView, viewPos)
	ndc := common.ProjectPoint(l.ViewProj[:], world)
	if ndc[2] < 0 || ndc[2] > 1 {
		return 1
	}

	u := ndc[0]*0.5 + 0.5
	v := 0.5 - ndc[1]*0.5
	atlasU := l.AtlasOffset[0] + u*l.AtlasSize[0]
	atlasV := l.AtlasOffset[1] + v*l.AtlasSize[1]

	minU := l.AtlasOffset[0] + ShadowBorderTexels*l.InvResolution[0]
	minV := l.AtlasOffset[1] + ShadowBorderTexels*l.InvResolution[1]
	maxU := l.AtlasOffset[0] + l.AtlasSize[0] - ShadowBorderTexels*l.InvResolution[0]
	maxV := l.AtlasOffset[1] + l.AtlasSize[1] - ShadowBorderTexels*l.InvResolution[1]
	if atlasU < minU || atlasV < minV || atlasU > maxU || atlasV > maxV {
		return 1
	}

	halfTexelU := 0.5 * l.InvResolution[0]
	halfTexelV := 0.5 * l.InvResolution[1]
	factor := compareDepth(atlas, atlasU, atlasV, ndc[2])
	factor += compareDepth(atlas, atlasU-halfTexelU, atlasV-halfTexelV, ndc[2])
	factor += compareDepth(atlas, atlasU+halfTexelU, atlasV-halfTexelV, ndc[2])
	factor += compareDepth(atlas, atlasU-halfTexelU, atlasV+halfTexelV, ndc[2])
	factor += compareDepth(atlas, atlasU+halfTexelU, atlasV+halfTexelV, ndc[2])
	return factor / 5
}

// compareDepth mirrors a comparison sampler with linear filtering collapsed
// to the nearest texel: the reference passes when it is less than or equal to
// the stored depth.
func compareDepth(atlas *FloatImage, u, v, ref float32) float32 {
	x := clampInt(int(u*float32(atlas.Width)), 0, atlas.Width-1)
	y := clampInt(int(v*float32(atlas.Height)), 0, atlas.Height-1)
	if ref <= atlas.At(x, y) {
		return 1
	}
	return 0
}
