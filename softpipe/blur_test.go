package softpipe

import "testing"

// rampImage fills an image with pix(x, y) = y*width + x so box-blur sums are
// small integers and the expected averages are exact in float32.
func rampImage(width, height int) *FloatImage {
	img := NewFloatImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, float32(y*width+x))
		}
	}
	return img
}

func blurAll(in *FloatImage) *FloatImage {
	out := NewFloatImage(in.Width, in.Height)
	for y := 0; y < in.Height; y++ {
		BlurRow(in, out, y)
	}
	return out
}

func TestBlurRowBorderPassthrough(t *testing.T) {
	in := rampImage(8, 8)
	out := blurAll(in)

	borders := [][2]int{
		{0, 0}, {1, 1}, {7, 0}, {6, 6}, {0, 7}, {3, 0}, {3, 1}, {0, 3}, {7, 3}, {3, 6}, {3, 7},
	}
	for _, p := range borders {
		if got, want := out.At(p[0], p[1]), in.At(p[0], p[1]); got != want {
			t.Fatalf("border pixel (%d, %d) = %v, want passthrough %v", p[0], p[1], got, want)
		}
	}
}

func TestBlurRowInteriorAverage(t *testing.T) {
	in := rampImage(8, 8)
	out := blurAll(in)

	// For the ramp, the 16-tap window at (x, y) sums to 16*(8y+x) - 72, so
	// the average is 8y + x - 4.5 exactly.
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			want := float32(8*y+x) - 4.5
			if got := out.At(x, y); got != want {
				t.Fatalf("interior pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBlurRowUniformInputUnchanged(t *testing.T) {
	in := NewFloatImage(16, 16)
	in.Fill(0.75)
	out := blurAll(in)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if got := out.At(x, y); got != 0.75 {
				t.Fatalf("uniform input blurred to %v at (%d, %d), want 0.75", got, x, y)
			}
		}
	}
}

func TestBlurRowTinyImageAllBorder(t *testing.T) {
	in := rampImage(4, 3)
	out := blurAll(in)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got, want := out.At(x, y), in.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) of an image too small to blur = %v, want %v", x, y, got, want)
			}
		}
	}
}
