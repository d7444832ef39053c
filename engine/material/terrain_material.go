package material

// terrainMaterial is the implementation of the TerrainMaterial interface.
type terrainMaterial struct {
	name      string
	baseLayer uint32
	layers    [MaxTerrainLayers]uint32
	masks     [MaxTerrainLayers]uint32
	flags     uint32
}

// TerrainMaterial defines the interface for a terrain material record: one
// base albedo layer plus up to 3 additional albedo/alpha-mask layer pairs,
// all addressed through the shared texture table with 1-based indices.
//
// Records are immutable for the frame. The host marshals the full material
// list once per change via MarshalTerrainMaterialBuffer and reuses the upload
// across frames.
type TerrainMaterial interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseLayer returns the base albedo texture index (1-based, 0 = unconfigured).
	// A terrain material with an unconfigured base renders the dark-red
	// diagnostic color.
	//
	// Returns:
	//   - uint32: the base layer texture index
	BaseLayer() uint32

	// Layer returns an additional layer's albedo and alpha-mask texture
	// indices (both 1-based, 0 = absent).
	//
	// Parameters:
	//   - i: the layer slot, 0 to MaxTerrainLayers-1
	//
	// Returns:
	//   - texture: the albedo texture index
	//   - mask: the paired alpha-mask texture index
	Layer(i int) (texture, mask uint32)

	// Flags returns the reserved flag bits.
	//
	// Returns:
	//   - uint32: the flag bits
	Flags() uint32

	// ToGPU converts the material into its GPU-aligned record.
	//
	// Returns:
	//   - GPUTerrainMaterial: the GPU-aligned representation
	ToGPU() GPUTerrainMaterial
}

var _ TerrainMaterial = &terrainMaterial{}

// NewTerrainMaterial creates a terrain material with all layers absent and the
// provided options applied.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - TerrainMaterial: the newly created material
func NewTerrainMaterial(options ...TerrainMaterialBuilderOption) TerrainMaterial {
	m := &terrainMaterial{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *terrainMaterial) Name() string {
	return m.name
}

func (m *terrainMaterial) BaseLayer() uint32 {
	return m.baseLayer
}

func (m *terrainMaterial) Layer(i int) (texture, mask uint32) {
	return m.layers[i], m.masks[i]
}

func (m *terrainMaterial) Flags() uint32 {
	return m.flags
}

func (m *terrainMaterial) ToGPU() GPUTerrainMaterial {
	return GPUTerrainMaterial{
		BaseLayer: m.baseLayer,
		Layers:    m.layers,
		Masks:     m.masks,
		Flags:     m.flags,
	}
}

// TerrainMaterialBuilderOption is a function that configures a terrain material during construction.
type TerrainMaterialBuilderOption func(*terrainMaterial)

// WithTerrainName is an option builder that sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - TerrainMaterialBuilderOption: a function that applies the name option
func WithTerrainName(name string) TerrainMaterialBuilderOption {
	return func(m *terrainMaterial) {
		m.name = name
	}
}

// WithBaseLayer is an option builder that sets the base albedo texture index.
//
// Parameters:
//   - index: the 1-based texture table index
//
// Returns:
//   - TerrainMaterialBuilderOption: a function that applies the base layer option
func WithBaseLayer(index uint32) TerrainMaterialBuilderOption {
	return func(m *terrainMaterial) {
		m.baseLayer = index
	}
}

// WithTerrainLayer is an option builder that sets one additional layer's
// albedo and alpha-mask texture indices.
//
// Parameters:
//   - slot: the layer slot, 0 to MaxTerrainLayers-1
//   - texture: the 1-based albedo texture index
//   - mask: the 1-based alpha-mask texture index
//
// Returns:
//   - TerrainMaterialBuilderOption: a function that applies the layer option
func WithTerrainLayer(slot int, texture, mask uint32) TerrainMaterialBuilderOption {
	return func(m *terrainMaterial) {
		m.layers[slot] = texture
		m.masks[slot] = mask
	}
}
