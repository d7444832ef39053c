package softpipe

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"groundshade/common"
	"groundshade/engine/camera"
	"groundshade/engine/renderer/ssao"
)

// testFrame builds a frame uniform for a perspective camera at (0, 0, 3)
// looking at the origin.
func testFrame(width, height int) camera.GPUFrameUniform {
	var f camera.GPUFrameUniform
	common.LookAt(f.View[:], 0, 0, 3, 0, 0, 0, 0, 1, 0)

	var proj [16]float32
	common.Perspective(proj[:], float32(math.Pi/3), float32(width)/float32(height), 0.1, 100)
	common.Mul4(f.ViewProj[:], proj[:], f.View[:])

	if !common.Invert4(f.InvView[:], f.View[:]) {
		panic("view matrix not invertible")
	}
	if !common.Invert4(f.InvViewProj[:], f.ViewProj[:]) {
		panic("view-projection matrix not invertible")
	}
	f.Resolution = [2]uint32{uint32(width), uint32(height)}
	return f
}

func TestSSAORowBackgroundStaysOpen(t *testing.T) {
	const size = 16
	frame := testFrame(size, size)
	k := ssao.NewKernel(ssao.WithSeed(11, 17))

	depth := NewFloatImage(size, size)
	depth.Fill(1)
	normals := NewColorImage(size, size)
	out := NewFloatImage(size, size)

	for y := 0; y < size; y++ {
		SSAORow(&frame, k, depth, normals, out, y)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if got := out.At(x, y); got != 1 {
				t.Fatalf("background pixel (%d, %d) = %v, want exactly 1", x, y, got)
			}
		}
	}
}

func TestSSAORowFlatPlaneUnoccluded(t *testing.T) {
	const size = 16
	frame := testFrame(size, size)
	k := ssao.NewKernel(ssao.WithSeed(11, 17))

	// A plane through the origin facing the camera has constant device depth
	// across the whole image; every hemisphere sample lands on or in front of
	// the plane, so no sample can register as occluded.
	planeNDC := common.ProjectPoint(frame.ViewProj[:], [3]float32{0, 0, 0})
	depth := NewFloatImage(size, size)
	depth.Fill(planeNDC[2])
	normals := NewColorImage(size, size)
	normals.Fill([4]float32{0, 0, 1, 0})
	out := NewFloatImage(size, size)

	for y := 0; y < size; y++ {
		SSAORow(&frame, k, depth, normals, out, y)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if got := out.At(x, y); got != 1 {
				t.Fatalf("flat plane pixel (%d, %d) = %v, want exactly 1 (no self-occlusion)", x, y, got)
			}
		}
	}
}

// enclosureKernel aims every hemisphere sample at one fixed offset so a test
// can place an occluding surface exactly where all 64 samples land.
type enclosureKernel struct {
	sample [3]float32
}

var _ ssao.Kernel = &enclosureKernel{}

func (k *enclosureKernel) Samples() [ssao.KernelSize][3]float32 {
	var s [ssao.KernelSize][3]float32
	for i := range s {
		s[i] = k.sample
	}
	return s
}

func (k *enclosureKernel) Noise() [ssao.NoiseTileSize * ssao.NoiseTileSize][3]float32 {
	var n [ssao.NoiseTileSize * ssao.NoiseTileSize][3]float32
	for i := range n {
		n[i] = [3]float32{1, 0, 0}
	}
	return n
}

func (k *enclosureKernel) MarshalSamples() []byte { return nil }

func (k *enclosureKernel) MarshalNoise() []byte { return nil }

func TestSSAORowEnclosedPointFullyOccluded(t *testing.T) {
	const size = 16
	frame := testFrame(size, size)

	// After the 0.5 radius scale every sample sits 0.4 view units beside the
	// fragment and 0.3 units toward the camera.
	k := &enclosureKernel{sample: [3]float32{0.8, 0, 0.6}}

	// Fragment plane through the origin, and an occluding plane 0.4 view
	// units closer filling every other pixel. The occluder is past every
	// sample point plus the bias, and within the radius, so the range check
	// saturates at 1 for all 64 samples.
	fragDepth := common.ProjectPoint(frame.ViewProj[:], [3]float32{0, 0, 0})[2]
	occluderDepth := common.ProjectPoint(frame.ViewProj[:], [3]float32{0, 0, 0.4})[2]

	depth := NewFloatImage(size, size)
	depth.Fill(occluderDepth)
	cx, cy := size/2, size/2
	depth.Set(cx, cy, fragDepth)
	normals := NewColorImage(size, size)
	normals.Fill([4]float32{0, 0, 1, 0})

	out := NewFloatImage(size, size)
	SSAORow(&frame, k, depth, normals, out, cy)

	// All 64 samples occluded with a saturated range check: the contrast
	// remap clamps occlusion to 1, so the stored lighting factor is exactly 0.
	if got := out.At(cx, cy); got != 0 {
		t.Fatalf("enclosed fragment occlusion output = %v, want exactly 0", got)
	}
}

func TestSSAORowOutputInRange(t *testing.T) {
	const size = 16
	frame := testFrame(size, size)
	k := ssao.NewKernel(ssao.WithSeed(11, 17))
	rng := randv2.New(randv2.NewPCG(23, 29))

	depth := NewFloatImage(size, size)
	normals := NewColorImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			depth.Set(x, y, rng.Float32())
			n := common.Normalize3([3]float32{
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
				rng.Float32(),
			})
			normals.Set(x, y, [4]float32{n[0], n[1], n[2], 0})
		}
	}

	out := NewFloatImage(size, size)
	for y := 0; y < size; y++ {
		SSAORow(&frame, k, depth, normals, out, y)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			got := out.At(x, y)
			if got < 0 || got > 1 {
				t.Fatalf("occlusion at (%d, %d) = %v, want a value in [0, 1]", x, y, got)
			}
		}
	}
}

func TestSSAORowDeterministicForSeededKernel(t *testing.T) {
	const size = 8
	frame := testFrame(size, size)

	depth := NewFloatImage(size, size)
	depth.Fill(0.5)
	normals := NewColorImage(size, size)
	normals.Fill([4]float32{0, 0, 1, 0})

	a := NewFloatImage(size, size)
	b := NewFloatImage(size, size)
	for y := 0; y < size; y++ {
		SSAORow(&frame, ssao.NewKernel(ssao.WithSeed(1, 2)), depth, normals, a, y)
		SSAORow(&frame, ssao.NewKernel(ssao.WithSeed(1, 2)), depth, normals, b, y)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("seeded kernels diverged at pixel %d: %v vs %v", i, a.Pix[i], b.Pix[i])
		}
	}
}
