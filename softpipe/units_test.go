package softpipe

import (
	"testing"

	"groundshade/engine/material"
)

func TestUnitAlbedoUnicolorFallback(t *testing.T) {
	sc := &SceneData{}
	m := material.GPUUnitMaterial{Unicolor: [4]float32{0.2, 0.4, 0.6, 1}}
	got := UnitAlbedo(sc, &m, [2]float32{0.5, 0.5})
	if got != m.Unicolor {
		t.Fatalf("absent base layer composited %v, want unicolor %v", got, m.Unicolor)
	}
}

func TestUnitAlbedoBaseSample(t *testing.T) {
	blue := solidTexture([4]float32{0, 0, 1, 1})
	sc := &SceneData{Textures: []*Texture{blue}}
	m := material.GPUUnitMaterial{
		Layers:   [3]uint32{1, 0, 0},
		Unicolor: [4]float32{1, 1, 1, 1},
	}
	got := UnitAlbedo(sc, &m, [2]float32{0.25, 0.75})
	for i := range 4 {
		if !approxEqual(got[i], blue.Texels[0][i], 1e-5) {
			t.Fatalf("base layer composited %v, want texture color %v (unicolor must not apply)", got, blue.Texels[0])
		}
	}
}

func TestUnitAlbedoLayerMix(t *testing.T) {
	base := solidTexture([4]float32{1, 0, 0, 1})
	tests := []struct {
		name  string
		layer [4]float32
		want  [4]float32
	}{
		{"opaque layer replaces", [4]float32{0, 1, 0, 1}, [4]float32{0, 1, 0, 1}},
		{"transparent layer is invisible", [4]float32{0, 1, 0, 0}, [4]float32{1, 0, 0, 1}},
		{"half alpha mixes the full vector", [4]float32{0, 1, 0, 0.5}, [4]float32{0.5, 0.5, 0, 0.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &SceneData{Textures: []*Texture{base, solidTexture(tt.layer)}}
			m := material.GPUUnitMaterial{Layers: [3]uint32{1, 2, 0}}
			got := UnitAlbedo(sc, &m, [2]float32{0.5, 0.5})
			for i := range 4 {
				if !approxEqual(got[i], tt.want[i], 1e-5) {
					t.Fatalf("layer %v composited %v, want %v", tt.layer, got, tt.want)
				}
			}
		})
	}
}

func TestUnitAlbedoStopsAtAbsentLayer(t *testing.T) {
	base := solidTexture([4]float32{1, 0, 0, 1})
	top := solidTexture([4]float32{0, 0, 1, 1})
	sc := &SceneData{Textures: []*Texture{base, top}}

	// Layer 1 is absent, so layer 2's opaque blue must never apply.
	m := material.GPUUnitMaterial{Layers: [3]uint32{1, 0, 2}}
	got := UnitAlbedo(sc, &m, [2]float32{0.5, 0.5})
	for i := range 4 {
		if !approxEqual(got[i], base.Texels[0][i], 1e-5) {
			t.Fatalf("absent slot did not stop layer evaluation: got %v, want base %v", got, base.Texels[0])
		}
	}
}

func TestUnitDiscardStrict(t *testing.T) {
	tests := []struct {
		name    string
		alpha   float32
		cutout  float32
		discard bool
	}{
		{"below cutout discards", 0.09, 0.1, true},
		{"above cutout keeps", 0.11, 0.1, false},
		{"exactly at cutout keeps", 0.1, 0.1, false},
		{"zero cutout keeps everything", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitDiscards([4]float32{0, 0, 0, tt.alpha}, tt.cutout)
			if got != tt.discard {
				t.Fatalf("alpha %v against cutout %v: discard = %v, want %v", tt.alpha, tt.cutout, got, tt.discard)
			}
		})
	}
}

func TestVariantCutout(t *testing.T) {
	m := material.GPUUnitMaterial{AlphaCutout: 0.42}
	if got := UnitOpaque.cutout(&m); got != material.OpaqueAlphaCutout {
		t.Fatalf("opaque variant cutout = %v, want fixed %v", got, material.OpaqueAlphaCutout)
	}
	if got := UnitCutout.cutout(&m); got != 0.42 {
		t.Fatalf("cutout variant cutout = %v, want material value 0.42", got)
	}
	if got := UnitLit.cutout(&m); got != 0.42 {
		t.Fatalf("lit variant cutout = %v, want material value 0.42", got)
	}
}
