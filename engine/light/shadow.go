package light

// ShadowAtlasResolution is the default width and height in texels of the
// shared shadow atlas depth texture. All shadow-casting lights pack their
// maps into sub-rectangles of this texture.
const ShadowAtlasResolution = 4096

// DefaultShadowMapResolution is the default side length in texels of a single
// light's sub-rectangle within the atlas.
const DefaultShadowMapResolution = 2048

// ShadowBorderTexels is the inward shrink applied to a light's valid atlas
// sub-rectangle, in texels, so that PCF taps near a boundary never read an
// adjacent light's shadow data. The shrink in UV space is this value times
// the light's inverse resolution.
const ShadowBorderTexels float32 = 1.5

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// used for the directional light shadow frustum. Controls how much of the scene
// around the camera center is captured in the shadow map.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the default near plane for the directional light's
// orthographic shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane for the directional light's
// orthographic shadow projection.
const DefaultShadowFar float32 = 200.0
