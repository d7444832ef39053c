package object

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPUVertexMarshalLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{4, 5, 6},
		TexCoord: [2]float32{7, 8},
	}
	if v.Size() != 32 {
		t.Fatalf("Size() = %d, want 32", v.Size())
	}
	buf := v.Marshal()
	if len(buf) != 32 {
		t.Fatalf("Marshal() produced %d bytes, want 32", len(buf))
	}
	for i := range 8 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if want := float32(i + 1); got != want {
			t.Fatalf("float %d = %v, want %v (position, normal, uv packed tightly)", i, got, want)
		}
	}
}

func TestGPUObjectDataMarshalLayout(t *testing.T) {
	g := GPUObjectData{MaterialIndex: 42}
	for i := range 16 {
		g.Transform[i] = float32(i)
	}
	if g.Size() != 80 {
		t.Fatalf("Size() = %d, want 80", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 80 {
		t.Fatalf("Marshal() produced %d bytes, want 80", len(buf))
	}
	for i := range 16 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != float32(i) {
			t.Fatalf("transform[%d] = %v, want %v", i, got, float32(i))
		}
	}
	if got := binary.LittleEndian.Uint32(buf[64:]); got != 42 {
		t.Fatalf("material index = %d, want 42", got)
	}
	for off := 68; off < 80; off += 4 {
		if binary.LittleEndian.Uint32(buf[off:]) != 0 {
			t.Fatalf("padding at offset %d not zero", off)
		}
	}
}

func TestComputeBoundingRadius(t *testing.T) {
	tests := []struct {
		name     string
		vertices []GPUVertex
		want     float32
	}{
		{"empty", nil, 0},
		{"single at origin", []GPUVertex{{}}, 0},
		{
			"farthest vertex wins",
			[]GPUVertex{
				{Position: [3]float32{1, 0, 0}},
				{Position: [3]float32{0, -5, 0}},
				{Position: [3]float32{0, 0, 2}},
			},
			5,
		},
		{
			"diagonal",
			[]GPUVertex{{Position: [3]float32{3, 4, 0}}},
			5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBoundingRadius(tt.vertices); got != tt.want {
				t.Fatalf("ComputeBoundingRadius = %v, want %v", got, tt.want)
			}
		})
	}
}
