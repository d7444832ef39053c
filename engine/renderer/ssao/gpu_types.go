package ssao

import (
	_ "embed"
)

// GPUKernelSource is the canonical WGSL definition of the SsaoKernel uniform
// struct. Injected into the occlusion compute shader by the pre-processor so
// the shader-side layout can never drift from MarshalSamples.
//
//go:embed assets/ssao_kernel.wgsl
var GPUKernelSource string
