package camera

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPUFrameUniformMarshalLayout(t *testing.T) {
	var g GPUFrameUniform
	// Give every matrix a distinct base value so transposed or swapped
	// sections are caught.
	fill := func(m *[16]float32, base float32) {
		for i := range 16 {
			m[i] = base + float32(i)
		}
	}
	fill(&g.View, 100)
	fill(&g.ViewProj, 200)
	fill(&g.OriginViewProj, 300)
	fill(&g.InvView, 400)
	fill(&g.InvViewProj, 500)
	fill(&g.InvOriginViewProj, 600)
	for p := range 5 {
		for i := range 4 {
			g.Frustum[p][i] = float32(p*10 + i)
		}
	}
	g.Ambient = [4]float32{0.1, 0.2, 0.3, 1}
	g.Resolution = [2]uint32{1920, 1080}

	if g.Size() != 496 {
		t.Fatalf("Size() = %d, want 496", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 496 {
		t.Fatalf("Marshal() produced %d bytes, want 496", len(buf))
	}

	f32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	matrices := []struct {
		name   string
		offset int
		base   float32
	}{
		{"View", 0, 100},
		{"ViewProj", 64, 200},
		{"OriginViewProj", 128, 300},
		{"InvView", 192, 400},
		{"InvViewProj", 256, 500},
		{"InvOriginViewProj", 320, 600},
	}
	for _, m := range matrices {
		for i := range 16 {
			if got, want := f32(m.offset+i*4), m.base+float32(i); got != want {
				t.Fatalf("%s[%d] = %v, want %v", m.name, i, got, want)
			}
		}
	}
	for p := range 5 {
		for i := range 4 {
			if got, want := f32(384+p*16+i*4), float32(p*10+i); got != want {
				t.Fatalf("Frustum[%d][%d] = %v, want %v", p, i, got, want)
			}
		}
	}
	if f32(464) != 0.1 || f32(476) != 1 {
		t.Fatalf("ambient section mismatched: r=%v a=%v", f32(464), f32(476))
	}
	if binary.LittleEndian.Uint32(buf[480:]) != 1920 || binary.LittleEndian.Uint32(buf[484:]) != 1080 {
		t.Fatalf("resolution section mismatched")
	}
	if binary.LittleEndian.Uint64(buf[488:]) != 0 {
		t.Fatalf("tail padding not zero")
	}
}
