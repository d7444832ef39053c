package material

import (
	"encoding/binary"
	"math"
	"testing"

	"groundshade/common"
)

func staging(width, height uint32) *common.TextureStagingData {
	return &common.TextureStagingData{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*4),
	}
}

func TestTextureTableIndicesAreOneBased(t *testing.T) {
	table := NewTextureTable()
	a := staging(4, 4)
	b := staging(4, 4)

	if got := table.Add(a); got != 1 {
		t.Fatalf("first index = %d, want 1 (0 is the absent sentinel)", got)
	}
	if got := table.Add(b); got != 2 {
		t.Fatalf("second index = %d, want 2", got)
	}
	if table.At(1) != a || table.At(2) != b {
		t.Fatalf("indices do not resolve to their staging data")
	}
	if table.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", table.Count())
	}
	if w, h := table.Resolution(); w != 4 || h != 4 {
		t.Fatalf("Resolution() = %dx%d, want 4x4", w, h)
	}
}

func TestTextureTableSentinelPanics(t *testing.T) {
	table := NewTextureTable()
	table.Add(staging(4, 4))
	defer func() {
		if recover() == nil {
			t.Fatalf("At(0) did not panic")
		}
	}()
	table.At(LayerAbsent)
}

func TestTextureTableRejectsMismatchedResolution(t *testing.T) {
	table := NewTextureTable()
	table.Add(staging(4, 4))
	defer func() {
		if recover() == nil {
			t.Fatalf("mismatched resolution did not panic")
		}
	}()
	table.Add(staging(8, 8))
}

func TestTextureTableRejectsNil(t *testing.T) {
	table := NewTextureTable()
	defer func() {
		if recover() == nil {
			t.Fatalf("Add(nil) did not panic")
		}
	}()
	table.Add(nil)
}

func TestGPUTerrainMaterialMarshalLayout(t *testing.T) {
	g := GPUTerrainMaterial{
		BaseLayer: 1,
		Layers:    [3]uint32{2, 3, 4},
		Masks:     [3]uint32{5, 6, 7},
		Flags:     9,
	}
	if g.Size() != 32 {
		t.Fatalf("Size() = %d, want 32", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 32 {
		t.Fatalf("Marshal() produced %d bytes, want 32", len(buf))
	}

	want := []uint32{1, 2, 3, 4, 5, 6, 7, 9}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != w {
			t.Fatalf("word %d = %d, want %d", i, got, w)
		}
	}
}

func TestGPUUnitMaterialMarshalLayout(t *testing.T) {
	g := GPUUnitMaterial{
		Layers:      [3]uint32{1, 2, 3},
		Unicolor:    [4]float32{0.1, 0.2, 0.3, 0.4},
		AlphaCutout: 0.5,
		Flags:       6,
	}
	if g.Size() != 48 {
		t.Fatalf("Size() = %d, want 48", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 48 {
		t.Fatalf("Marshal() produced %d bytes, want 48", len(buf))
	}

	for i := range 3 {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != uint32(i+1) {
			t.Fatalf("layer %d = %d, want %d", i, got, i+1)
		}
	}
	if got := binary.LittleEndian.Uint32(buf[12:]); got != 0 {
		t.Fatalf("padding word at 12 = %d, want 0", got)
	}
	for i := range 4 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16+i*4:]))
		if want := g.Unicolor[i]; got != want {
			t.Fatalf("unicolor[%d] = %v, want %v", i, got, want)
		}
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[32:])); got != 0.5 {
		t.Fatalf("alpha cutout = %v, want 0.5", got)
	}
	if got := binary.LittleEndian.Uint32(buf[36:]); got != 6 {
		t.Fatalf("flags = %d, want 6", got)
	}
	if binary.LittleEndian.Uint64(buf[40:]) != 0 {
		t.Fatalf("tail padding not zero")
	}
}

func TestTerrainMaterialToGPU(t *testing.T) {
	m := NewTerrainMaterial(
		WithTerrainName("cliff"),
		WithBaseLayer(1),
		WithTerrainLayer(0, 2, 3),
		WithTerrainLayer(2, 4, 5),
	)
	if m.Name() != "cliff" {
		t.Fatalf("Name() = %q, want cliff", m.Name())
	}
	g := m.ToGPU()
	if g.BaseLayer != 1 {
		t.Fatalf("base layer = %d, want 1", g.BaseLayer)
	}
	if want := [3]uint32{2, 0, 4}; g.Layers != want {
		t.Fatalf("layers = %v, want %v", g.Layers, want)
	}
	if want := [3]uint32{3, 0, 5}; g.Masks != want {
		t.Fatalf("masks = %v, want %v", g.Masks, want)
	}
}

func TestUnitMaterialToGPUUnicolorSelection(t *testing.T) {
	tests := []struct {
		name string
		m    UnitMaterial
		want [4]float32
	}{
		{
			"untextured without unicolor uses the default",
			NewUnitMaterial(),
			DefaultUnicolor,
		},
		{
			"textured without unicolor uses the diagnostic",
			NewUnitMaterial(WithUnitLayer(0, 1)),
			DiagnosticUnicolor,
		},
		{
			"configured unicolor wins over the diagnostic",
			NewUnitMaterial(WithUnitLayer(0, 1), WithUnicolor(0.1, 0.2, 0.3, 1)),
			[4]float32{0.1, 0.2, 0.3, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ToGPU().Unicolor; got != tt.want {
				t.Fatalf("unicolor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnitMaterialToGPUCutoutDefault(t *testing.T) {
	plain := NewUnitMaterial()
	if got := plain.ToGPU().AlphaCutout; got != OpaqueAlphaCutout {
		t.Fatalf("unconfigured cutout = %v, want %v", got, OpaqueAlphaCutout)
	}
	cut := NewUnitMaterial(WithAlphaCutout(0.7))
	if got := cut.ToGPU().AlphaCutout; got != 0.7 {
		t.Fatalf("configured cutout = %v, want 0.7", got)
	}
	if _, has := plain.AlphaCutout(); has {
		t.Fatalf("unconfigured material reports a cutout")
	}
	if v, has := cut.AlphaCutout(); !has || v != 0.7 {
		t.Fatalf("AlphaCutout() = (%v, %v), want (0.7, true)", v, has)
	}
}

func TestMarshalMaterialBuffers(t *testing.T) {
	terrain := []TerrainMaterial{
		NewTerrainMaterial(WithBaseLayer(1)),
		NewTerrainMaterial(WithBaseLayer(2)),
	}
	buf := MarshalTerrainMaterialBuffer(terrain)
	if len(buf) != 64 {
		t.Fatalf("terrain buffer = %d bytes, want 64", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[32:]); got != 2 {
		t.Fatalf("second record base layer = %d, want 2", got)
	}

	units := []UnitMaterial{
		NewUnitMaterial(WithUnitLayer(0, 3)),
	}
	ubuf := MarshalUnitMaterialBuffer(units)
	if len(ubuf) != 48 {
		t.Fatalf("unit buffer = %d bytes, want 48", len(ubuf))
	}
	if got := binary.LittleEndian.Uint32(ubuf); got != 3 {
		t.Fatalf("first unit layer = %d, want 3", got)
	}
}
