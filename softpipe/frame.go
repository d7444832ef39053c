package softpipe

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"groundshade/common"
	"groundshade/engine/light"
	"groundshade/engine/renderer/ssao"
)

// DefaultShadowAtlasResolution is the side length of the CPU shadow atlas.
// Smaller than the GPU atlas since shadow sampling is UV-relative and the
// reference pipeline favors memory over resolution.
const DefaultShadowAtlasResolution = 1024

// Pipeline executes the full frame sequence on the CPU: depth-normal prepass,
// SSAO and blur over a worker pool, shadow atlas tiles, then the shading
// pass. Targets persist across frames and are cleared at the start of each
// RenderFrame.
type Pipeline struct {
	width  int
	height int

	kernel  ssao.Kernel
	workers int
	pool    worker.DynamicWorkerPool

	shadowAtlasResolution int

	Depth        *FloatImage
	Normals      *ColorImage
	OcclusionRaw *FloatImage
	Occlusion    *FloatImage
	ShadowAtlas  *FloatImage
	Color        *ColorImage
}

// PipelineOption is a functional option for configuring a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkers sets the number of workers for the data-parallel SSAO and blur
// kernels. Defaults to runtime.NumCPU()-1 with a minimum of 1; values below 1
// are ignored.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - PipelineOption: option function to apply
func WithWorkers(workers int) PipelineOption {
	return func(p *Pipeline) {
		if workers >= 1 {
			p.workers = workers
		}
	}
}

// WithKernel sets the SSAO sampling constants. Defaults to a freshly
// generated random kernel.
//
// Parameters:
//   - k: the kernel to use
//
// Returns:
//   - PipelineOption: option function to apply
func WithKernel(k ssao.Kernel) PipelineOption {
	return func(p *Pipeline) {
		p.kernel = k
	}
}

// WithShadowAtlasResolution sets the side length of the shadow atlas target.
//
// Parameters:
//   - resolution: atlas width and height in pixels
//
// Returns:
//   - PipelineOption: option function to apply
func WithShadowAtlasResolution(resolution int) PipelineOption {
	return func(p *Pipeline) {
		if resolution >= 1 {
			p.shadowAtlasResolution = resolution
		}
	}
}

// NewPipeline creates a Pipeline with all targets allocated at the given
// output resolution. Panics if either dimension is not positive.
//
// Parameters:
//   - width, height: output resolution in pixels
//   - options: functional options to further configure the pipeline
//
// Returns:
//   - *Pipeline: the new pipeline
func NewPipeline(width, height int, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		workers:               max(runtime.NumCPU()-1, 1),
		shadowAtlasResolution: DefaultShadowAtlasResolution,
	}
	for _, option := range options {
		option(p)
	}
	if p.kernel == nil {
		p.kernel = ssao.NewKernel()
	}
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	p.ShadowAtlas = NewFloatImage(p.shadowAtlasResolution, p.shadowAtlasResolution)
	p.Resize(width, height)
	return p
}

// Resize reallocates the resolution-dependent targets. The shadow atlas is
// unaffected.
//
// Parameters:
//   - width, height: the new output resolution in pixels
func (p *Pipeline) Resize(width, height int) {
	p.width = width
	p.height = height
	p.Depth = NewFloatImage(width, height)
	p.Normals = NewColorImage(width, height)
	p.OcclusionRaw = NewFloatImage(width, height)
	p.Occlusion = NewFloatImage(width, height)
	p.Color = NewColorImage(width, height)
}

// Kernel returns the SSAO sampling constants used by this pipeline.
func (p *Pipeline) Kernel() ssao.Kernel {
	return p.kernel
}

// RenderFrame executes the full pass sequence and returns the color target.
// Pass order matches the GPU scheduler: prepass, SSAO, blur, shadow atlas,
// shading. The returned image is owned by the pipeline and overwritten by the
// next frame.
//
// Parameters:
//   - sc: the scene storage for this frame
//   - draws: the draws to render
//
// Returns:
//   - *ColorImage: the shaded frame
func (p *Pipeline) RenderFrame(sc *SceneData, draws []Draw) *ColorImage {
	p.Depth.Fill(1)
	p.Normals.Fill([4]float32{})
	p.ShadowAtlas.Fill(1)
	p.Color.Fill([4]float32{0, 0, 0, 1})

	RenderPrepass(sc, draws, p.Depth, p.Normals)

	p.parallelRows(func(y int) {
		SSAORow(&sc.Frame, p.kernel, p.Depth, p.Normals, p.OcclusionRaw, y)
	})
	p.parallelRows(func(y int) {
		BlurRow(p.OcclusionRaw, p.Occlusion, y)
	})

	p.renderShadows(sc, draws)
	p.renderShading(sc, draws)
	return p.Color
}

// parallelRows runs fn for every output row, split into one contiguous chunk
// per worker.
func (p *Pipeline) parallelRows(fn func(y int)) {
	chunks := min(p.workers, p.height)
	rowsPerChunk := (p.height + chunks - 1) / chunks

	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		start := c * rowsPerChunk
		end := min(start+rowsPerChunk, p.height)
		if start >= end {
			break
		}
		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: c,
			Do: func() (any, error) {
				defer wg.Done()
				for y := start; y < end; y++ {
					fn(y)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// renderShadows rasterizes every shadow-casting light's tile into the atlas.
// Lights with a zero atlas size have no tile and are skipped.
func (p *Pipeline) renderShadows(sc *SceneData, draws []Draw) {
	r := NewRasterizer(p.ShadowAtlas)
	res := float32(p.shadowAtlasResolution)
	for i := range sc.Lights {
		l := &sc.Lights[i]
		if l.AtlasSize[0] <= 0 || l.AtlasSize[1] <= 0 {
			continue
		}
		r.SetViewport(
			int(l.AtlasOffset[0]*res),
			int(l.AtlasOffset[1]*res),
			int(l.AtlasSize[0]*res),
			int(l.AtlasSize[1]*res),
		)
		RenderShadowTile(sc, draws, r, l.ViewProj[:])
	}
}

// renderShading rasterizes every draw with its variant's full shading:
// compositing, cutout discard, direct lighting with PCF shadows, and the
// ambient combination with SSAO where the variant uses it. Fragments are
// depth-tested less-or-equal against the prepass depth, so only the surfaces
// the prepass established receive color.
func (p *Pipeline) renderShading(sc *SceneData, draws []Draw) {
	r := NewRasterizer(p.Depth)
	r.SetDepthReadOnly()
	ambient := [3]float32{sc.Frame.Ambient[0], sc.Frame.Ambient[1], sc.Frame.Ambient[2]}

	for di := range draws {
		d := &draws[di]
		for _, instance := range d.Instances {
			p.shadeInstance(sc, d, instance, r, ambient)
		}
	}
}

func (p *Pipeline) shadeInstance(sc *SceneData, d *Draw, instance int, r *Rasterizer, ambient [3]float32) {
	for tri := 0; tri+2 < len(d.Mesh.Indices); tri += 3 {
		var fetched [3]FetchedVertex
		var clip [3][4]float32
		var viewPos [3][3]float32
		for i := range 3 {
			fetched[i] = VertexFetch(sc.Objects, d.Mesh.Vertices, instance, int(d.Mesh.Indices[tri+i]))
			wp := fetched[i].WorldPosition
			clip[i] = common.TransformVec4(sc.Frame.ViewProj[:], [4]float32{wp[0], wp[1], wp[2], 1})
			viewPos[i] = common.TransformPoint(sc.Frame.View[:], wp)
		}

		r.Triangle(clip, func(x, y int, w [3]float32) bool {
			normal := common.Normalize3(Interpolate3(fetched[0].WorldNormal, fetched[1].WorldNormal, fetched[2].WorldNormal, w))

			var albedo [4]float32
			if d.Variant.terrain() {
				objPos := Interpolate3(fetched[0].ObjectPosition, fetched[1].ObjectPosition, fetched[2].ObjectPosition, w)
				m := &sc.TerrainMaterials[fetched[0].MaterialIndex]
				albedo = TerrainAlbedo(sc, m, objPos, normal, d.Variant.sharpness())
			} else {
				m := &sc.UnitMaterials[fetched[0].MaterialIndex]
				uv := Interpolate2(fetched[0].TexCoord, fetched[1].TexCoord, fetched[2].TexCoord, w)
				albedo = UnitAlbedo(sc, m, uv)
				if UnitDiscards(albedo, d.Variant.cutout(m)) {
					return false
				}
			}

			fragViewPos := Interpolate3(viewPos[0], viewPos[1], viewPos[2], w)
			rgb := [3]float32{albedo[0], albedo[1], albedo[2]}
			shaded := DirectLighting(rgb, normal, sc.Lights, func(l *light.GPUDirectionalLight) float32 {
				return ShadowFactor(p.ShadowAtlas, l, sc.Frame.InvView[:], fragViewPos)
			})

			ssaoFactor := float32(1)
			if d.Variant.usesOcclusion() {
				ssaoFactor = p.Occlusion.At(x, y)
			}

			var color [3]float32
			switch d.Variant {
			case TerrainLit:
				color = CombineLitTerrain(shaded, ambient, rgb, ssaoFactor)
			case TerrainUnlit:
				color = CombineUnlitTerrain(shaded, ambient, rgb)
			default:
				color = CombineUnit(shaded, ambient, rgb, ssaoFactor)
			}
			p.Color.Set(x, y, [4]float32{color[0], color[1], color[2], 1})
			return true
		})
	}
}
