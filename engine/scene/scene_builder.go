package scene

import (
	"groundshade/engine/material"
	"groundshade/engine/renderer/ssao"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithCullingDisabled disables CPU frustum culling so every enabled object is
// drawn regardless of the camera frustum. By default culling is enabled
// (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithMarshalWorkers sets the number of worker goroutines used during the
// parallel cull-and-marshal phase of PrepareFrame. Defaults to
// runtime.NumCPU()-1. Higher values may improve throughput for scenes with
// many batches; lower values reduce scheduling overhead for simple scenes.
//
// Parameters:
//   - workers: the number of marshal workers (minimum 1; lower values ignored)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMarshalWorkers(workers int) SceneBuilderOption {
	return func(s *scene) {
		if workers >= 1 {
			s.marshalWorkers = workers
		}
	}
}

// WithKernel sets the SSAO sampling constants for the scene. Defaults to a
// freshly generated random kernel; pass a seeded kernel for deterministic
// occlusion output.
//
// Parameters:
//   - k: the kernel to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithKernel(k ssao.Kernel) SceneBuilderOption {
	return func(s *scene) {
		s.kernel = k
	}
}

// WithTextureTable sets the texture table whose slots material layer indices
// refer to. Defaults to a new empty table. All textures must be staged before
// InitResources is called, as the array texture is allocated once.
//
// Parameters:
//   - t: the texture table to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextureTable(t material.TextureTable) SceneBuilderOption {
	return func(s *scene) {
		s.textures = t
	}
}
