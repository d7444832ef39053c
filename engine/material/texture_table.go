package material

import (
	"fmt"

	"groundshade/common"
)

// textureTable is the implementation of the TextureTable interface.
type textureTable struct {
	width  uint32
	height uint32
	slots  []*common.TextureStagingData
}

// TextureTable manages the shared indexable texture array that material layer
// indices address. Indices handed out are 1-based; 0 is the absent sentinel
// and is never dereferenced. Valid entries live at slot index - 1, matching
// the layer addressing used by the shaders.
//
// All entries share one resolution so the table uploads as a single 2D array
// texture, one layer per slot.
type TextureTable interface {
	// Add registers a staged texture and returns its 1-based table index.
	// The first texture added fixes the table's resolution; adding a texture
	// with mismatched dimensions panics, as the table can no longer upload as
	// a single array texture.
	//
	// Parameters:
	//   - staging: the texture staging data to register
	//
	// Returns:
	//   - uint32: the 1-based index for material layer references
	Add(staging *common.TextureStagingData) uint32

	// At resolves a 1-based layer index to its staging data. Resolving the
	// absent sentinel is a contract violation and panics; shading code must
	// short-circuit on sentinel indices before lookup.
	//
	// Parameters:
	//   - index: the 1-based layer index
	//
	// Returns:
	//   - *common.TextureStagingData: the staged texture at slot index - 1
	At(index uint32) *common.TextureStagingData

	// Count returns the number of registered textures.
	//
	// Returns:
	//   - int: the slot count
	Count() int

	// Slots returns the registered textures in slot order (0-based), the
	// layer order of the uploaded array texture.
	//
	// Returns:
	//   - []*common.TextureStagingData: the staged textures
	Slots() []*common.TextureStagingData

	// Resolution returns the shared texture resolution, or (0, 0) when the
	// table is empty.
	//
	// Returns:
	//   - width, height: resolution in pixels
	Resolution() (width, height uint32)
}

var _ TextureTable = &textureTable{}

// NewTextureTable creates an empty texture table.
//
// Returns:
//   - TextureTable: the newly created table
func NewTextureTable() TextureTable {
	return &textureTable{}
}

func (t *textureTable) Add(staging *common.TextureStagingData) uint32 {
	if staging == nil {
		panic("texture table: cannot add nil staging data")
	}
	if len(t.slots) == 0 {
		t.width = staging.Width
		t.height = staging.Height
	} else if staging.Width != t.width || staging.Height != t.height {
		panic(fmt.Sprintf("texture table: %dx%d texture does not match table resolution %dx%d",
			staging.Width, staging.Height, t.width, t.height))
	}
	t.slots = append(t.slots, staging)
	return uint32(len(t.slots))
}

func (t *textureTable) At(index uint32) *common.TextureStagingData {
	if index == LayerAbsent {
		panic("texture table: dereferenced the absent sentinel index 0")
	}
	return t.slots[index-1]
}

func (t *textureTable) Count() int {
	return len(t.slots)
}

func (t *textureTable) Slots() []*common.TextureStagingData {
	return t.slots
}

func (t *textureTable) Resolution() (width, height uint32) {
	return t.width, t.height
}
