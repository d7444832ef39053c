// package material holds the terrain and unit material records, their
// byte-exact GPU layouts, and the shared texture table with 1-based sentinel
// addressing.
package material

// LayerAbsent is the sentinel texture-layer index meaning "no texture bound".
// Valid texture slots are stored 1-based; slot = index - 1. The sentinel is
// never dereferenced.
const LayerAbsent uint32 = 0

// MaxTerrainLayers is the number of additional albedo/alpha-mask layer pairs a
// terrain material can carry on top of its base layer.
const MaxTerrainLayers = 3

// MaxUnitLayers is the number of albedo layers a unit material can carry.
const MaxUnitLayers = 3

// TerrainGridScale converts object-space terrain positions into grid-local
// 0..1 coordinates for triplanar sampling. The grid side length is an
// empirical world constant.
const TerrainGridScale float32 = 1.0 / 533.33333

// TriplanarSharpnessLit is the exponent applied to |normal| when computing
// triplanar blend weights in the lit/shadowed terrain variant.
const TriplanarSharpnessLit float32 = 25.0

// TriplanarSharpnessUnlit is the exponent used by the simpler unlit terrain
// variant. Intentionally different from the lit variant.
const TriplanarSharpnessUnlit float32 = 5.0

// OpaqueAlphaCutout is the fixed alpha-cutout threshold used by the opaque
// unit pipeline variant, regardless of the material's configured cutout.
const OpaqueAlphaCutout float32 = 0.1

// Diagnostic fallback colors. GPU kernels cannot raise errors, so
// misconfigured materials render visually distinct colors instead.
var (
	// DiagnosticMissingBase is rendered when a terrain material's base layer
	// index is the absent sentinel (dark red).
	DiagnosticMissingBase = [3]float32{0.5, 0.0, 0.0}

	// DiagnosticMissingMask is rendered when a terrain layer has a texture
	// index but no paired alpha-mask index (bright red).
	DiagnosticMissingMask = [3]float32{1.0, 0.0, 0.0}

	// DiagnosticUnicolor is stored as a unit material's unicolor when the
	// material is textured, so a failed base-layer lookup shows lime green.
	DiagnosticUnicolor = [4]float32{0.22, 1.0, 0.0, 1.0}

	// DefaultUnicolor is the unicolor for unit materials with no explicit
	// configuration at all.
	DefaultUnicolor = [4]float32{1.0, 0.0, 0.0, 1.0}
)
