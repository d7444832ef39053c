package softpipe

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"groundshade/common"
	"groundshade/engine/material"
)

func solidTexture(c [4]float32) *Texture {
	t := NewTexture(2, 2)
	for i := range t.Texels {
		t.Texels[i] = c
	}
	return t
}

func approxEqual(a, b, tolerance float32) bool {
	return common.AbsF32(a-b) <= tolerance
}

func TestTriplanarWeightsSumToOne(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(7, 13))
	for _, sharpness := range []float32{material.TriplanarSharpnessLit, material.TriplanarSharpnessUnlit} {
		for range 200 {
			n := common.Normalize3([3]float32{
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
			})
			if common.Length3(n) == 0 {
				continue
			}
			w := TriplanarWeights(n, sharpness)
			sum := w[0] + w[1] + w[2]
			if !approxEqual(sum, 1, 1e-5) {
				t.Fatalf("weights for normal %v sharpness %v sum to %v, want 1", n, sharpness, sum)
			}
			for i := range 3 {
				if w[i] < 0 {
					t.Fatalf("weight %d for normal %v is negative: %v", i, n, w[i])
				}
			}
		}
	}
}

func TestTriplanarWeightsAxisAligned(t *testing.T) {
	tests := []struct {
		name   string
		normal [3]float32
		axis   int
	}{
		{"plus x", [3]float32{1, 0, 0}, 0},
		{"minus y", [3]float32{0, -1, 0}, 1},
		{"plus z", [3]float32{0, 0, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := TriplanarWeights(tt.normal, material.TriplanarSharpnessLit)
			if !approxEqual(w[tt.axis], 1, 1e-6) {
				t.Fatalf("axis-aligned normal %v: weight[%d] = %v, want 1", tt.normal, tt.axis, w[tt.axis])
			}
		})
	}
}

func TestTerrainAlbedoBaseLayerFallback(t *testing.T) {
	sc := &SceneData{}
	m := material.GPUTerrainMaterial{}
	got := TerrainAlbedo(sc, &m, [3]float32{10, 20, 30}, [3]float32{0, 1, 0}, material.TriplanarSharpnessLit)
	want := [4]float32{0.5, 0, 0, 1}
	if got != want {
		t.Fatalf("absent base layer composited %v, want dark red %v", got, want)
	}
}

func TestTerrainAlbedoMissingMaskFallback(t *testing.T) {
	green := solidTexture([4]float32{0, 1, 0, 1})
	sc := &SceneData{Textures: []*Texture{green}}

	tests := []struct {
		name string
		m    material.GPUTerrainMaterial
	}{
		{"layer without mask", material.GPUTerrainMaterial{BaseLayer: 1, Layers: [3]uint32{1, 0, 0}}},
		{"mask without layer", material.GPUTerrainMaterial{BaseLayer: 1, Masks: [3]uint32{1, 0, 0}}},
	}
	want := [4]float32{1, 0, 0, 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TerrainAlbedo(sc, &tt.m, [3]float32{}, [3]float32{0, 1, 0}, material.TriplanarSharpnessLit)
			if got != want {
				t.Fatalf("incomplete layer slot composited %v, want bright red %v", got, want)
			}
		})
	}
}

func TestTerrainAlbedoLayerShortCircuit(t *testing.T) {
	base := solidTexture([4]float32{0.25, 0.25, 0.25, 1})
	layer := solidTexture([4]float32{0, 0, 1, 1})
	mask := solidTexture([4]float32{0, 0, 0, 1})
	sc := &SceneData{Textures: []*Texture{base, layer, mask}}

	// Slot 0 is empty, so slot 1's fully-covering layer must never be reached.
	m := material.GPUTerrainMaterial{
		BaseLayer: 1,
		Layers:    [3]uint32{0, 2, 0},
		Masks:     [3]uint32{0, 3, 0},
	}
	got := TerrainAlbedo(sc, &m, [3]float32{}, [3]float32{0, 1, 0}, material.TriplanarSharpnessLit)
	for i := range 3 {
		if !approxEqual(got[i], base.Texels[0][i], 1e-5) {
			t.Fatalf("empty slot did not stop layer evaluation: got %v, want base %v", got, base.Texels[0])
		}
	}
}

func TestTerrainAlbedoMaskCoverage(t *testing.T) {
	base := solidTexture([4]float32{1, 0, 0, 1})
	layer := solidTexture([4]float32{0, 1, 0, 1})
	tests := []struct {
		name     string
		coverage float32
		want     [3]float32
	}{
		{"zero coverage keeps base", 0, [3]float32{1, 0, 0}},
		{"full coverage replaces with layer", 1, [3]float32{0, 1, 0}},
		{"half coverage mixes", 0.5, [3]float32{0.5, 0.5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := solidTexture([4]float32{0, 0, 0, tt.coverage})
			sc := &SceneData{Textures: []*Texture{base, layer, mask}}
			m := material.GPUTerrainMaterial{
				BaseLayer: 1,
				Layers:    [3]uint32{2, 0, 0},
				Masks:     [3]uint32{3, 0, 0},
			}
			got := TerrainAlbedo(sc, &m, [3]float32{}, [3]float32{0, 1, 0}, material.TriplanarSharpnessLit)
			for i := range 3 {
				if !approxEqual(got[i], tt.want[i], 1e-5) {
					t.Fatalf("coverage %v composited %v, want %v", tt.coverage, got, tt.want)
				}
			}
		})
	}
}

func TestTriplanarSampleSolidTextureIsExact(t *testing.T) {
	c := [4]float32{0.3, 0.6, 0.9, 1}
	tex := solidTexture(c)
	rng := randv2.New(randv2.NewPCG(3, 5))
	for range 50 {
		n := common.Normalize3([3]float32{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1})
		w := TriplanarWeights(n, material.TriplanarSharpnessUnlit)
		pos := [3]float32{rng.Float32() * 10, rng.Float32() * 10, rng.Float32() * 10}
		got := TriplanarSample(tex, pos, w)
		for i := range 4 {
			if !approxEqual(got[i], c[i], 1e-5) {
				t.Fatalf("solid texture triplanar sample %v, want %v", got, c)
			}
		}
	}
}

func TestTerrainGridScale(t *testing.T) {
	want := float32(1.0 / 533.33333)
	if math.Abs(float64(material.TerrainGridScale-want)) > 1e-9 {
		t.Fatalf("TerrainGridScale = %v, want %v", material.TerrainGridScale, want)
	}
}
