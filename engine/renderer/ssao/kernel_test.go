package ssao

import (
	"encoding/binary"
	"math"
	"testing"
)

func sampleLength(s [3]float32) float32 {
	return float32(math.Sqrt(float64(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])))
}

func TestKernelSamplesStayInHemisphere(t *testing.T) {
	k := NewKernel(WithSeed(41, 43))
	for i, s := range k.Samples() {
		if s[2] < 0 {
			t.Fatalf("sample %d has negative z %v; samples must stay in the upper hemisphere", i, s[2])
		}
		if l := sampleLength(s); l > 1+1e-6 {
			t.Fatalf("sample %d has length %v, want at most 1", i, l)
		}
	}
}

func TestKernelSamplesRespectFalloff(t *testing.T) {
	k := NewKernel(WithSeed(41, 43))
	for i, s := range k.Samples() {
		scale := float32(i) / float32(KernelSize)
		falloff := 0.1 + scale*scale*0.9
		if l := sampleLength(s); l > falloff+1e-6 {
			t.Fatalf("sample %d has length %v, exceeding its falloff bound %v", i, l, falloff)
		}
	}
}

func TestKernelNoiseLiesInTangentPlane(t *testing.T) {
	k := NewKernel(WithSeed(41, 43))
	for i, n := range k.Noise() {
		if n[2] != 0 {
			t.Fatalf("noise %d has z %v, want 0 (rotation stays in the tangent plane)", i, n[2])
		}
		if n[0] < -1 || n[0] > 1 || n[1] < -1 || n[1] > 1 {
			t.Fatalf("noise %d = %v, want components in [-1, 1]", i, n)
		}
	}
}

func TestKernelSeededDeterminism(t *testing.T) {
	a := NewKernel(WithSeed(7, 9))
	b := NewKernel(WithSeed(7, 9))
	if a.Samples() != b.Samples() {
		t.Fatalf("same seed produced different samples")
	}
	if a.Noise() != b.Noise() {
		t.Fatalf("same seed produced different noise")
	}
	c := NewKernel(WithSeed(7, 10))
	if a.Samples() == c.Samples() {
		t.Fatalf("different seeds produced identical samples")
	}
}

func TestMarshalSamplesLayout(t *testing.T) {
	k := NewKernel(WithSeed(41, 43))
	buf := k.MarshalSamples()
	if want := KernelSize * 16; len(buf) != want {
		t.Fatalf("MarshalSamples produced %d bytes, want %d", len(buf), want)
	}
	samples := k.Samples()
	for i, s := range samples {
		for c := range 3 {
			got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*16+c*4:]))
			if got != s[c] {
				t.Fatalf("sample %d component %d marshaled as %v, want %v", i, c, got, s[c])
			}
		}
		if binary.LittleEndian.Uint32(buf[i*16+12:]) != 0 {
			t.Fatalf("sample %d stride padding not zero", i)
		}
	}
}

func TestMarshalNoiseSnormEncoding(t *testing.T) {
	k := NewKernel(WithSeed(41, 43))
	buf := k.MarshalNoise()
	if want := NoiseTileSize * NoiseTileSize * 4; len(buf) != want {
		t.Fatalf("MarshalNoise produced %d bytes, want %d", len(buf), want)
	}
	noise := k.Noise()
	for i, n := range noise {
		for c := range 2 {
			got := int8(buf[i*4+c])
			want := int8(math.Round(float64(n[c] * 127)))
			if got != want {
				t.Fatalf("noise %d component %d encoded as %d, want %d", i, c, got, want)
			}
		}
		if buf[i*4+2] != 0 {
			t.Fatalf("noise %d z byte = %d, want 0", i, buf[i*4+2])
		}
		if int8(buf[i*4+3]) != 127 {
			t.Fatalf("noise %d alpha byte = %d, want snorm 1 (127)", i, int8(buf[i*4+3]))
		}
	}
}
