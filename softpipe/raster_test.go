package softpipe

import "testing"

// coveringTriangle builds a clip-space triangle (w = 1) that encloses the
// whole NDC square at a constant depth.
func coveringTriangle(z float32) [3][4]float32 {
	return [3][4]float32{
		{-3, -3, z, 1},
		{3, -3, z, 1},
		{0, 3, z, 1},
	}
}

func countShaded(r *Rasterizer, clip [3][4]float32) int {
	count := 0
	r.Triangle(clip, func(x, y int, w [3]float32) bool {
		count++
		return true
	})
	return count
}

func TestTriangleFullCoverageAndDepth(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	r := NewRasterizer(depth)

	if got := countShaded(r, coveringTriangle(0.5)); got != 64 {
		t.Fatalf("covering triangle shaded %d pixels, want all 64", got)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := depth.At(x, y); !approxEqual(got, 0.5, 1e-5) {
				t.Fatalf("depth at (%d, %d) = %v, want 0.5", x, y, got)
			}
		}
	}
}

func TestTriangleDepthTestStrict(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	r := NewRasterizer(depth)

	countShaded(r, coveringTriangle(0.5))

	if got := countShaded(r, coveringTriangle(0.8)); got != 0 {
		t.Fatalf("farther triangle shaded %d pixels, want 0", got)
	}
	if got := countShaded(r, coveringTriangle(0.5)); got != 0 {
		t.Fatalf("equal-depth triangle shaded %d pixels, want 0 (test is strict)", got)
	}
	if got := countShaded(r, coveringTriangle(0.2)); got != 64 {
		t.Fatalf("nearer triangle shaded %d pixels, want all 64", got)
	}
}

func TestTriangleDepthReadOnly(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	NewRasterizer(depth).Triangle(coveringTriangle(0.5), nil)
	written := append([]float32(nil), depth.Pix...)

	r := NewRasterizer(depth)
	r.SetDepthReadOnly()

	// Re-rasterizing the same triangle interpolates bit-identical depths, so
	// the less-or-equal test passes everywhere.
	if got := countShaded(r, coveringTriangle(0.5)); got != 64 {
		t.Fatalf("re-rasterized triangle shaded %d pixels, want all 64 in read-only mode", got)
	}
	if got := countShaded(r, coveringTriangle(0.8)); got != 0 {
		t.Fatalf("farther triangle shaded %d pixels, want 0", got)
	}

	// Nearer fragments pass but never write.
	if got := countShaded(r, coveringTriangle(0.2)); got != 64 {
		t.Fatalf("nearer triangle shaded %d pixels, want all 64", got)
	}
	for i := range depth.Pix {
		if depth.Pix[i] != written[i] {
			t.Fatalf("read-only rasterizer changed depth at pixel %d: %v -> %v", i, written[i], depth.Pix[i])
		}
	}
}

func TestTriangleDiscardSkipsDepthWrite(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	r := NewRasterizer(depth)

	r.Triangle(coveringTriangle(0.3), func(x, y int, w [3]float32) bool {
		return false
	})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := depth.At(x, y); got != 1 {
				t.Fatalf("discarded fragment wrote depth %v at (%d, %d)", got, x, y)
			}
		}
	}

	// Depth stayed clear, so a farther triangle still renders everywhere.
	if got := countShaded(r, coveringTriangle(0.9)); got != 64 {
		t.Fatalf("triangle behind discarded fragments shaded %d pixels, want all 64", got)
	}
}

func TestTriangleRejectsBehindEye(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	r := NewRasterizer(depth)

	clip := coveringTriangle(0.5)
	clip[1][3] = -1
	if got := countShaded(r, clip); got != 0 {
		t.Fatalf("triangle with a vertex behind the eye shaded %d pixels, want 0", got)
	}
}

func TestTriangleBothWindings(t *testing.T) {
	forward := coveringTriangle(0.5)
	reversed := [3][4]float32{forward[2], forward[1], forward[0]}

	for name, clip := range map[string][3][4]float32{"forward": forward, "reversed": reversed} {
		depth := NewFloatImage(8, 8)
		depth.Fill(1)
		r := NewRasterizer(depth)
		if got := countShaded(r, clip); got != 64 {
			t.Fatalf("%s winding shaded %d pixels, want all 64 (culling is off)", name, got)
		}
	}
}

func TestTriangleViewport(t *testing.T) {
	depth := NewFloatImage(8, 8)
	depth.Fill(1)
	r := NewRasterizer(depth)
	r.SetViewport(4, 4, 4, 4)

	if got := countShaded(r, coveringTriangle(0.5)); got != 16 {
		t.Fatalf("covering triangle in a 4x4 viewport shaded %d pixels, want 16", got)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := x >= 4 && y >= 4
			got := depth.At(x, y)
			if inside && !approxEqual(got, 0.5, 1e-5) {
				t.Fatalf("viewport pixel (%d, %d) depth = %v, want 0.5", x, y, got)
			}
			if !inside && got != 1 {
				t.Fatalf("pixel (%d, %d) outside the viewport written to %v", x, y, got)
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	w := [3]float32{0.5, 0.25, 0.25}
	got3 := Interpolate3([3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}, w)
	if got3 != w {
		t.Fatalf("Interpolate3 of the basis = %v, want the weights %v", got3, w)
	}
	got2 := Interpolate2([2]float32{0, 0}, [2]float32{1, 0}, [2]float32{0, 1}, w)
	if want := [2]float32{0.25, 0.25}; got2 != want {
		t.Fatalf("Interpolate2 = %v, want %v", got2, want)
	}
}
