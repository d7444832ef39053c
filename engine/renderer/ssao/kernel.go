// package ssao holds the immutable sampling constants for the screen-space
// ambient occlusion pass: the 64-sample hemisphere kernel and the 4x4
// rotation-noise tile. Both are generated once at pipeline construction and
// shared read-only across all frames.
package ssao

import (
	"encoding/binary"
	"math"
	randv2 "math/rand/v2"
)

// KernelSize is the number of hemisphere sample vectors in the kernel.
// Changing it requires the matching constant in the compute shader to change
// as well.
const KernelSize = 64

// NoiseTileSize is the side length of the square rotation-noise tile. The
// compute pass indexes it at pixel % NoiseTileSize.
const NoiseTileSize = 4

// Radius is the view-space hemisphere radius samples are scattered within.
const Radius float32 = 0.5

// Bias is the minimum view-space depth difference before an occluder counts,
// suppressing self-occlusion from depth precision.
const Bias float32 = 0.025

// Power is the gain applied to normalized occlusion before the contrast remap.
const Power float32 = 1.3

// Contrast is the remap strength applied around 0.5 after the power gain.
const Contrast float32 = 1.5

// kernelImpl is the implementation of the Kernel interface.
type kernelImpl struct {
	samples [KernelSize][3]float32
	noise   [NoiseTileSize * NoiseTileSize][3]float32
}

// Kernel holds the generated SSAO sampling constants. Samples are tangent-space
// hemisphere vectors (z >= 0) with length at most 1, scaled so later samples
// reach further from the fragment. Noise vectors lie in the tangent plane
// (z = 0) and randomize the per-pixel basis rotation.
type Kernel interface {
	// Samples returns the hemisphere sample vectors.
	//
	// Returns:
	//   - [KernelSize][3]float32: the sample vectors
	Samples() [KernelSize][3]float32

	// Noise returns the rotation-noise vectors in row-major tile order.
	//
	// Returns:
	//   - [NoiseTileSize * NoiseTileSize][3]float32: the noise vectors
	Noise() [NoiseTileSize * NoiseTileSize][3]float32

	// MarshalSamples serializes the sample vectors into the kernel uniform
	// buffer layout: each vec3 padded to 16 bytes, 1024 bytes total.
	//
	// Returns:
	//   - []byte: the serialized uniform buffer
	MarshalSamples() []byte

	// MarshalNoise serializes the noise tile as RGBA8Snorm texel data for
	// upload as a NoiseTileSize x NoiseTileSize texture. Snorm keeps the
	// [-1, 1] vector range through textureLoad without needing a float
	// texture format, which base WebGPU cannot filter.
	//
	// Returns:
	//   - []byte: the serialized texel data (4 bytes per texel)
	MarshalNoise() []byte
}

var _ Kernel = &kernelImpl{}

// KernelBuilderOption is a function that configures kernel generation.
type KernelBuilderOption func(*kernelConfig)

type kernelConfig struct {
	seed1, seed2 uint64
	seeded       bool
}

// WithSeed is an option builder that makes kernel generation deterministic.
//
// Parameters:
//   - seed1, seed2: the PCG seed pair
//
// Returns:
//   - KernelBuilderOption: a function that applies the seed option
func WithSeed(seed1, seed2 uint64) KernelBuilderOption {
	return func(c *kernelConfig) {
		c.seed1 = seed1
		c.seed2 = seed2
		c.seeded = true
	}
}

// NewKernel generates the SSAO sampling constants. Each sample is a random
// direction in the upper hemisphere, scaled by a random magnitude and an
// accelerating per-index falloff (0.1 + (i/KernelSize)^2 * 0.9) so samples
// cluster near the fragment and thin out toward the radius.
//
// Parameters:
//   - options: functional options to configure generation
//
// Returns:
//   - Kernel: the generated kernel constants
func NewKernel(options ...KernelBuilderOption) Kernel {
	var cfg kernelConfig
	for _, opt := range options {
		opt(&cfg)
	}

	var rng *randv2.Rand
	if cfg.seeded {
		rng = randv2.New(randv2.NewPCG(cfg.seed1, cfg.seed2))
	} else {
		rng = randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
	}

	k := &kernelImpl{}
	for i := range KernelSize {
		sample := normalize([3]float32{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32(),
		})
		magnitude := rng.Float32()

		scale := float32(i) / float32(KernelSize)
		falloff := 0.1 + (scale*scale)*0.9
		for c := range 3 {
			k.samples[i][c] = sample[c] * magnitude * falloff
		}
	}

	for i := range NoiseTileSize * NoiseTileSize {
		k.noise[i] = [3]float32{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			0,
		}
	}

	return k
}

func (k *kernelImpl) Samples() [KernelSize][3]float32 {
	return k.samples
}

func (k *kernelImpl) Noise() [NoiseTileSize * NoiseTileSize][3]float32 {
	return k.noise
}

func (k *kernelImpl) MarshalSamples() []byte {
	// Each vec3 is padded to 16 bytes per WGSL uniform array stride rules.
	buf := make([]byte, KernelSize*16)
	for i, s := range k.samples {
		binary.LittleEndian.PutUint32(buf[i*16:], math.Float32bits(s[0]))
		binary.LittleEndian.PutUint32(buf[i*16+4:], math.Float32bits(s[1]))
		binary.LittleEndian.PutUint32(buf[i*16+8:], math.Float32bits(s[2]))
		binary.LittleEndian.PutUint32(buf[i*16+12:], 0)
	}
	return buf
}

func (k *kernelImpl) MarshalNoise() []byte {
	buf := make([]byte, NoiseTileSize*NoiseTileSize*4)
	for i, n := range k.noise {
		buf[i*4] = snorm8(n[0])
		buf[i*4+1] = snorm8(n[1])
		buf[i*4+2] = snorm8(n[2])
		buf[i*4+3] = snorm8(1)
	}
	return buf
}

// snorm8 encodes a [-1, 1] value as a signed normalized byte.
func snorm8(v float32) byte {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	return byte(int8(math.Round(float64(v * 127))))
}

// normalize scales v to unit length. A zero vector is returned unchanged.
func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	inv := 1.0 / l
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}
