package light

import "math"

// LightBuilderOption is a function that configures a DirectionalLight instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithAtlasRect is an option builder that assigns the light's sub-rectangle of
// the shadow atlas in atlas UV space.
//
// Parameters:
//   - offsetU, offsetV: top-left corner in [0, 1]
//   - sizeU, sizeV: rectangle size in [0, 1]
//
// Returns:
//   - LightBuilderOption: a function that applies the atlas rect option to a lightImpl
func WithAtlasRect(offsetU, offsetV, sizeU, sizeV float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.atlasOffset = [2]float32{offsetU, offsetV}
		l.atlasSize = [2]float32{sizeU, sizeV}
	}
}

// WithResolution is an option builder that sets the light's shadow map
// resolution in texels.
//
// Parameters:
//   - resolution: resolution in texels
//
// Returns:
//   - LightBuilderOption: a function that applies the resolution option to a lightImpl
func WithResolution(resolution uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.resolution = resolution
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that sets whether the light has a
// shadow map rendered into the atlas.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) [3]float32 {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length == 0 {
		return [3]float32{0, 0, 0}
	}
	inv := 1.0 / length
	return [3]float32{x * inv, y * inv, z * inv}
}
