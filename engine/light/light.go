package light

// lightImpl is the implementation of the DirectionalLight interface.
type lightImpl struct {
	direction    [3]float32
	color        [3]float32
	intensity    float32
	viewProj     [16]float32
	atlasOffset  [2]float32
	atlasSize    [2]float32
	resolution   uint32
	enabled      bool
	castsShadows bool
}

// DirectionalLight defines the interface for a directional light source.
//
// Directional lights have no position, only a direction, and affect all
// fragments uniformly with no distance attenuation. Each shadow-casting light
// owns a sub-rectangle of the shared shadow atlas, described by its offset and
// size in atlas UV space plus its per-map resolution.
//
// Lights are managed by the host and marshaled into a GPU storage buffer each
// frame via the gpu_types helpers.
type DirectionalLight interface {
	// Direction returns the normalized direction of the light, pointing from
	// the light toward the scene.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// ViewProjection returns the light's shadow view-projection matrix as 16
	// floats (column-major). Recomputed via UpdateShadowViewProjection.
	//
	// Returns:
	//   - [16]float32: the shadow view-projection matrix
	ViewProjection() [16]float32

	// AtlasOffset returns the top-left corner of the light's shadow map
	// sub-rectangle in atlas UV space.
	//
	// Returns:
	//   - [2]float32: offset as (u, v) in [0, 1]
	AtlasOffset() [2]float32

	// AtlasSize returns the size of the light's shadow map sub-rectangle in
	// atlas UV space.
	//
	// Returns:
	//   - [2]float32: size as (u, v) in [0, 1]
	AtlasSize() [2]float32

	// Resolution returns the light's shadow map resolution in texels (the side
	// length of its atlas sub-rectangle).
	//
	// Returns:
	//   - uint32: resolution in texels
	Resolution() uint32

	// InverseResolution returns 1 / Resolution in both axes, the texel size
	// used for PCF offsets and boundary shrinking.
	//
	// Returns:
	//   - [2]float32: inverse resolution as (1/w, 1/h)
	InverseResolution() [2]float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light has a shadow map rendered into
	// the atlas each frame.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// UpdateShadowViewProjection rebuilds the light's orthographic shadow
	// view-projection matrix. The frustum is centered on the provided world
	// position (typically the camera target) and aligned to look along the
	// light's direction.
	//
	// Parameters:
	//   - centerX, centerY, centerZ: world-space center of the shadow frustum
	//   - halfExtent: half-size of the orthographic frustum in world units
	//   - near, far: depth range of the shadow projection
	UpdateShadowViewProjection(centerX, centerY, centerZ, halfExtent, near, far float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetAtlasRect assigns the light's sub-rectangle of the shadow atlas in
	// atlas UV space.
	//
	// Parameters:
	//   - offsetU, offsetV: top-left corner in [0, 1]
	//   - sizeU, sizeV: rectangle size in [0, 1]
	SetAtlasRect(offsetU, offsetV, sizeU, sizeV float32)

	// SetResolution sets the light's shadow map resolution in texels.
	//
	// Parameters:
	//   - resolution: resolution in texels
	SetResolution(resolution uint32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light has a shadow map rendered.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ DirectionalLight = &lightImpl{}

// NewDirectionalLight creates a new DirectionalLight with sensible defaults and
// any provided options applied. By default the light points straight down, is
// white at full intensity, owns the whole atlas, and casts shadows.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - DirectionalLight: a new DirectionalLight instance
func NewDirectionalLight(opts ...LightBuilderOption) DirectionalLight {
	l := &lightImpl{
		direction:    [3]float32{0, -1, 0},
		color:        [3]float32{1, 1, 1},
		intensity:    1.0,
		viewProj:     [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		atlasOffset:  [2]float32{0, 0},
		atlasSize:    [2]float32{1, 1},
		resolution:   DefaultShadowMapResolution,
		enabled:      true,
		castsShadows: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) ViewProjection() [16]float32 {
	return l.viewProj
}

func (l *lightImpl) AtlasOffset() [2]float32 {
	return l.atlasOffset
}

func (l *lightImpl) AtlasSize() [2]float32 {
	return l.atlasSize
}

func (l *lightImpl) Resolution() uint32 {
	return l.resolution
}

func (l *lightImpl) InverseResolution() [2]float32 {
	inv := 1.0 / float32(l.resolution)
	return [2]float32{inv, inv}
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) UpdateShadowViewProjection(centerX, centerY, centerZ, halfExtent, near, far float32) {
	computeDirectionalViewProj(&l.viewProj, l.direction, centerX, centerY, centerZ, halfExtent, near, far)
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetAtlasRect(offsetU, offsetV, sizeU, sizeV float32) {
	l.atlasOffset = [2]float32{offsetU, offsetV}
	l.atlasSize = [2]float32{sizeU, sizeV}
}

func (l *lightImpl) SetResolution(resolution uint32) {
	l.resolution = resolution
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
