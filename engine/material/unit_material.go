package material

// unitMaterial is the implementation of the UnitMaterial interface.
type unitMaterial struct {
	name        string
	layers      [MaxUnitLayers]uint32
	unicolor    [4]float32
	hasUnicolor bool
	alphaCutout float32
	hasCutout   bool
	flags       uint32
}

// UnitMaterial defines the interface for a unit material record: up to 3
// albedo layers composited by straight alpha mix, or a single unicolor when
// no textures are bound. Units use standard UV mapping, not triplanar.
//
// The configured alpha-cutout threshold drives the alpha-tested pipeline
// variants; the opaque variant ignores it and uses OpaqueAlphaCutout.
type UnitMaterial interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Layers returns the albedo texture indices (1-based, 0 = absent).
	//
	// Returns:
	//   - [MaxUnitLayers]uint32: the layer indices
	Layers() [MaxUnitLayers]uint32

	// Unicolor returns the configured fallback color and whether one was set.
	//
	// Returns:
	//   - [4]float32: the unicolor RGBA
	//   - bool: true if a unicolor was explicitly configured
	Unicolor() ([4]float32, bool)

	// AlphaCutout returns the configured alpha-cutout threshold and whether
	// one was set. Materials without a cutout draw through the opaque variant.
	//
	// Returns:
	//   - float32: the cutout threshold
	//   - bool: true if a cutout was explicitly configured
	AlphaCutout() (float32, bool)

	// Flags returns the reserved flag bits.
	//
	// Returns:
	//   - uint32: the flag bits
	Flags() uint32

	// ToGPU converts the material into its GPU-aligned record. Textured
	// materials store the lime-green diagnostic as their unicolor so a failed
	// base-layer lookup is visually obvious; untextured materials store their
	// configured unicolor, or the default when none was set.
	//
	// Returns:
	//   - GPUUnitMaterial: the GPU-aligned representation
	ToGPU() GPUUnitMaterial
}

var _ UnitMaterial = &unitMaterial{}

// NewUnitMaterial creates a unit material with all layers absent and the
// provided options applied.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - UnitMaterial: the newly created material
func NewUnitMaterial(options ...UnitMaterialBuilderOption) UnitMaterial {
	m := &unitMaterial{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *unitMaterial) Name() string {
	return m.name
}

func (m *unitMaterial) Layers() [MaxUnitLayers]uint32 {
	return m.layers
}

func (m *unitMaterial) Unicolor() ([4]float32, bool) {
	return m.unicolor, m.hasUnicolor
}

func (m *unitMaterial) AlphaCutout() (float32, bool) {
	return m.alphaCutout, m.hasCutout
}

func (m *unitMaterial) Flags() uint32 {
	return m.flags
}

func (m *unitMaterial) ToGPU() GPUUnitMaterial {
	unicolor := DefaultUnicolor
	if m.hasUnicolor {
		unicolor = m.unicolor
	} else if m.textured() {
		unicolor = DiagnosticUnicolor
	}
	cutout := m.alphaCutout
	if !m.hasCutout {
		cutout = OpaqueAlphaCutout
	}
	return GPUUnitMaterial{
		Layers:      m.layers,
		Unicolor:    unicolor,
		AlphaCutout: cutout,
		Flags:       m.flags,
	}
}

// textured reports whether any albedo layer is bound.
func (m *unitMaterial) textured() bool {
	for _, l := range m.layers {
		if l != LayerAbsent {
			return true
		}
	}
	return false
}

// UnitMaterialBuilderOption is a function that configures a unit material during construction.
type UnitMaterialBuilderOption func(*unitMaterial)

// WithUnitName is an option builder that sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - UnitMaterialBuilderOption: a function that applies the name option
func WithUnitName(name string) UnitMaterialBuilderOption {
	return func(m *unitMaterial) {
		m.name = name
	}
}

// WithUnitLayer is an option builder that sets one albedo layer's texture index.
//
// Parameters:
//   - slot: the layer slot, 0 to MaxUnitLayers-1
//   - texture: the 1-based albedo texture index
//
// Returns:
//   - UnitMaterialBuilderOption: a function that applies the layer option
func WithUnitLayer(slot int, texture uint32) UnitMaterialBuilderOption {
	return func(m *unitMaterial) {
		m.layers[slot] = texture
	}
}

// WithUnicolor is an option builder that sets the fallback unicolor used when
// the base layer is absent.
//
// Parameters:
//   - r, g, b, a: unicolor components
//
// Returns:
//   - UnitMaterialBuilderOption: a function that applies the unicolor option
func WithUnicolor(r, g, b, a float32) UnitMaterialBuilderOption {
	return func(m *unitMaterial) {
		m.unicolor = [4]float32{r, g, b, a}
		m.hasUnicolor = true
	}
}

// WithAlphaCutout is an option builder that sets the alpha-cutout threshold.
// Configuring a cutout routes the material through the alpha-tested pipeline
// variants.
//
// Parameters:
//   - cutout: the discard threshold; composited alpha strictly below it is discarded
//
// Returns:
//   - UnitMaterialBuilderOption: a function that applies the cutout option
func WithAlphaCutout(cutout float32) UnitMaterialBuilderOption {
	return func(m *unitMaterial) {
		m.alphaCutout = cutout
		m.hasCutout = true
	}
}
