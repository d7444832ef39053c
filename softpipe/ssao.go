package softpipe

import (
	"groundshade/common"
	"groundshade/engine/camera"
	"groundshade/engine/renderer/ssao"
)

// viewPosition reconstructs the view-space position of a pixel from its
// device depth: clip to world via the inverse view-projection with a
// perspective divide, then world to view.
func viewPosition(frame *camera.GPUFrameUniform, x, y int, depth float32, width, height int) [3]float32 {
	u := (float32(x) + 0.5) / float32(width)
	v := (float32(y) + 0.5) / float32(height)
	ndcX := u*2 - 1
	ndcY := 1 - v*2

	world := common.TransformVec4(frame.InvViewProj[:], [4]float32{ndcX, ndcY, depth, 1})
	invW := 1 / world[3]
	worldPos := [3]float32{world[0] * invW, world[1] * invW, world[2] * invW}
	return common.TransformPoint(frame.View[:], worldPos)
}

// SSAORow computes one row of the raw occlusion buffer from the prepass depth
// and normal targets, mirroring the compute kernel pixel for pixel: view
// position reconstruction, Gram-Schmidt TBN from the tiled noise, 64
// hemisphere samples at radius 0.5 reprojected and depth-compared with bias
// 0.025 and a smoothstep range check, power 1.3, contrast 1.5, output
// 1 - occlusion. Background pixels (depth >= 1) store 1.0.
//
// Parameters:
//   - frame: the frame uniform (view, view-proj, and inverses)
//   - k: the sampling kernel constants
//   - depth: the prepass depth target
//   - normals: the prepass world-normal target
//   - out: the raw occlusion target
//   - y: the row to compute
func SSAORow(frame *camera.GPUFrameUniform, k ssao.Kernel, depth *FloatImage, normals *ColorImage, out *FloatImage, y int) {
	width, height := depth.Width, depth.Height
	samples := k.Samples()
	noise := k.Noise()

	for x := 0; x < width; x++ {
		d := depth.At(x, y)
		if d >= 1 {
			out.Set(x, y, 1)
			continue
		}

		origin := viewPosition(frame, x, y, d, width, height)
		worldNormal := normals.At(x, y)
		normal := common.Normalize3(common.TransformDirection(frame.View[:], [3]float32{worldNormal[0], worldNormal[1], worldNormal[2]}))

		n := noise[(y%ssao.NoiseTileSize)*ssao.NoiseTileSize+x%ssao.NoiseTileSize]
		tangent := common.Normalize3(common.Sub3(n, common.Scale3(normal, common.Dot3(n, normal))))
		bitangent := common.Cross3(normal, tangent)

		var occlusion float32
		for i := range ssao.KernelSize {
			s := samples[i]
			offset := [3]float32{
				tangent[0]*s[0] + bitangent[0]*s[1] + normal[0]*s[2],
				tangent[1]*s[0] + bitangent[1]*s[1] + normal[1]*s[2],
				tangent[2]*s[0] + bitangent[2]*s[1] + normal[2]*s[2],
			}
			samplePos := common.Add3(origin, common.Scale3(offset, ssao.Radius))

			sampleWorld := common.TransformPoint(frame.InvView[:], samplePos)
			sampleNDC := common.ProjectPoint(frame.ViewProj[:], sampleWorld)
			sampleU := sampleNDC[0]*0.5 + 0.5
			sampleV := 0.5 - sampleNDC[1]*0.5
			if sampleU < 0 || sampleU >= 1 || sampleV < 0 || sampleV >= 1 {
				continue
			}

			sx := int(sampleU * float32(width))
			sy := int(sampleV * float32(height))
			storedDepth := depth.At(sx, sy)
			storedZ := viewPosition(frame, sx, sy, storedDepth, width, height)[2]

			rangeCheck := common.Smoothstep(0, 1, ssao.Radius/common.AbsF32(origin[2]-storedZ))
			if storedZ >= samplePos[2]+ssao.Bias {
				occlusion += rangeCheck
			}
		}

		occlusion = common.PowF32(occlusion/float32(ssao.KernelSize), ssao.Power)
		occlusion = common.Clamp((occlusion-0.5)*ssao.Contrast+0.5, 0, 1)
		out.Set(x, y, 1-occlusion)
	}
}
