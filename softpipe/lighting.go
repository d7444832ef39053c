package softpipe

import (
	"groundshade/common"
	"groundshade/engine/light"
)

// Lambert returns the diffuse term for a surface normal against a directional
// light: max(dot(n, -direction), 0). Light directions point toward the scene.
//
// Parameters:
//   - normal: the unit surface normal in world space
//   - direction: the light's normalized direction, light toward scene
//
// Returns:
//   - float32: the diffuse factor in [0, 1]
func Lambert(normal, direction [3]float32) float32 {
	return max(common.Dot3(normal, [3]float32{-direction[0], -direction[1], -direction[2]}), 0)
}

// DirectLighting accumulates the diffuse contribution of every light:
// albedo * lambert * lightColor * shadow per light. Lights facing away from
// the surface contribute nothing and skip their shadow lookup, matching the
// shader's early continue.
//
// Parameters:
//   - albedo: the composited surface color
//   - normal: the unit surface normal in world space
//   - lights: the light list
//   - shadow: per-light shadow factor lookup; may be nil for fully lit
//
// Returns:
//   - [3]float32: the accumulated direct lighting
func DirectLighting(albedo [3]float32, normal [3]float32, lights []light.GPUDirectionalLight, shadow func(l *light.GPUDirectionalLight) float32) [3]float32 {
	var shaded [3]float32
	for i := range lights {
		l := &lights[i]
		nol := Lambert(normal, l.Direction)
		if nol <= 0 {
			continue
		}
		factor := float32(1)
		if shadow != nil {
			factor = shadow(l)
		}
		shaded[0] += albedo[0] * nol * l.Color[0] * factor
		shaded[1] += albedo[1] * nol * l.Color[1] * factor
		shaded[2] += albedo[2] * nol * l.Color[2] * factor
	}
	return shaded
}

// CombineLitTerrain composes the lit terrain output: direct lighting plus the
// ambient term scaled by albedo and the SSAO visibility factor.
func CombineLitTerrain(shaded, ambient, albedo [3]float32, ssao float32) [3]float32 {
	return [3]float32{
		shaded[0] + ambient[0]*albedo[0]*ssao,
		shaded[1] + ambient[1]*albedo[1]*ssao,
		shaded[2] + ambient[2]*albedo[2]*ssao,
	}
}

// CombineUnlitTerrain composes the unlit terrain output: the component-wise
// maximum of the ambient term and direct lighting, so shadowed terrain never
// drops below the ambient floor.
func CombineUnlitTerrain(shaded, ambient, albedo [3]float32) [3]float32 {
	return common.Max3([3]float32{
		ambient[0] * albedo[0],
		ambient[1] * albedo[1],
		ambient[2] * albedo[2],
	}, shaded)
}

// CombineUnit composes the unit output: direct lighting plus the ambient term
// scaled by SSAO and albedo. Variants without occlusion pass ssao = 1.
func CombineUnit(shaded, ambient, albedo [3]float32, ssao float32) [3]float32 {
	return [3]float32{
		shaded[0] + ambient[0]*ssao*albedo[0],
		shaded[1] + ambient[1]*ssao*albedo[1],
		shaded[2] + ambient[2]*ssao*albedo[2],
	}
}
