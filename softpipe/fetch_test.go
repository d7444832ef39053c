package softpipe

import (
	"testing"

	"groundshade/common"
	"groundshade/engine/object"
)

func TestCorrectNormalIdentity(t *testing.T) {
	var m [16]float32
	common.Identity(m[:])
	n := common.Normalize3([3]float32{1, 2, 3})
	got := CorrectNormal(&m, n)
	for i := range 3 {
		if !approxEqual(got[i], n[i], 1e-6) {
			t.Fatalf("identity transform changed normal: got %v, want %v", got, n)
		}
	}
}

func TestCorrectNormalRotationPreserves(t *testing.T) {
	// 90 degree rotation about Y, column-major.
	m := [16]float32{
		0, 0, -1, 0,
		0, 1, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 1,
	}
	got := CorrectNormal(&m, [3]float32{1, 0, 0})
	want := [3]float32{0, 0, -1}
	for i := range 3 {
		if !approxEqual(got[i], want[i], 1e-6) {
			t.Fatalf("rotated normal = %v, want %v", got, want)
		}
	}
}

func TestCorrectNormalNonUniformScale(t *testing.T) {
	// Scaling by (2, 1, 1) must transform normals by the inverse-transpose:
	// a diagonal slope normal bends toward the stretched axis's complement.
	m := [16]float32{
		2, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	n := common.Normalize3([3]float32{1, 1, 0})
	got := CorrectNormal(&m, n)
	want := common.Normalize3([3]float32{0.5, 1, 0})
	for i := range 3 {
		if !approxEqual(got[i], want[i], 1e-5) {
			t.Fatalf("scaled normal = %v, want %v", got, want)
		}
	}
}

func TestVertexFetch(t *testing.T) {
	objects := []object.GPUObjectData{
		{},
		{MaterialIndex: 7},
	}
	common.Identity(objects[0].Transform[:])
	common.Identity(objects[1].Transform[:])
	// Translate instance 1 by (10, 20, 30).
	objects[1].Transform[12] = 10
	objects[1].Transform[13] = 20
	objects[1].Transform[14] = 30

	vertices := []object.GPUVertex{
		{},
		{
			Position: [3]float32{1, 2, 3},
			Normal:   [3]float32{0, 1, 0},
			TexCoord: [2]float32{0.25, 0.75},
		},
	}

	got := VertexFetch(objects, vertices, 1, 1)
	if want := [3]float32{11, 22, 33}; got.WorldPosition != want {
		t.Fatalf("world position = %v, want %v", got.WorldPosition, want)
	}
	if want := [3]float32{1, 2, 3}; got.ObjectPosition != want {
		t.Fatalf("object position = %v, want untransformed %v", got.ObjectPosition, want)
	}
	if want := [3]float32{0, 1, 0}; got.WorldNormal != want {
		t.Fatalf("world normal = %v, want %v", got.WorldNormal, want)
	}
	if want := [2]float32{0.25, 0.75}; got.TexCoord != want {
		t.Fatalf("tex coord = %v, want %v", got.TexCoord, want)
	}
	if got.MaterialIndex != 7 {
		t.Fatalf("material index = %d, want 7", got.MaterialIndex)
	}
}
