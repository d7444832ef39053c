package scene

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"groundshade/common"
	"groundshade/engine/camera"
	"groundshade/engine/light"
	"groundshade/engine/material"
	"groundshade/engine/object"
	"groundshade/engine/renderer"
	"groundshade/engine/renderer/bind_group_provider"
	"groundshade/engine/renderer/pipeline"
	"groundshade/engine/renderer/shader"
	"groundshade/engine/renderer/ssao"
)

// Pipeline cache keys for every pipeline the scene registers during
// InitResources. Exposed so applications can look them up on the renderer.
const (
	PipelinePrepass            = "prepass_opaque"
	PipelinePrepassCutout      = "prepass_cutout"
	PipelinePrepassUnitsOpaque = "prepass_units_opaque"
	PipelineSsaoMain           = "ssao_main"
	PipelineSsaoBlur           = "ssao_blur"
	PipelineShadowTerrain      = "shadow_terrain"
	PipelineShadowUnits        = "shadow_units"
	PipelineTerrainLit         = "terrain_lit"
	PipelineTerrainUnlit       = "terrain_unlit"
	PipelineUnitsOpaque        = "units_opaque"
	PipelineUnitsCutout        = "units_cutout"
	PipelineUnitsLit           = "units_lit"
)

// Bind group indices shared by every render pass shader.
const (
	groupFrame     = 0
	groupObjects   = 1
	groupMaterials = 2
	groupLights    = 3
	groupOcclusion = 4
)

// Binding indices within the material and light groups.
const (
	bindingMaterialRecords = 0
	bindingAlbedoArray     = 1
	bindingAlbedoSampler   = 2
	bindingLightList       = 0
	bindingShadowAtlas     = 1
	bindingShadowSampler   = 2
)

// Binding indices within the occlusion compute groups.
const (
	ssaoBindingFrame        = 0
	ssaoBindingDepth        = 1
	ssaoBindingNormal       = 2
	ssaoBindingNoise        = 3
	ssaoBindingKernel       = 4
	ssaoBindingOcclusionOut = 5
	blurBindingIn           = 0
	blurBindingOut          = 1
)

// maxMaterials is the fixed record capacity of each material storage buffer.
// Materials can be added after InitResources without growing the buffer.
const maxMaterials = 1024

// ssaoWorkgroupSize matches the @workgroup_size of the occlusion compute
// shaders.
const ssaoWorkgroupSize = 8

// Variant selects the pipeline set an object is drawn with. Terrain variants
// require ClassTerrain objects, unit variants ClassUnit objects.
type Variant int

const (
	// VariantTerrainLit draws terrain with SSAO and shadows.
	VariantTerrainLit Variant = iota

	// VariantTerrainUnlit draws terrain without SSAO, combining ambient and
	// direct light with max().
	VariantTerrainUnlit

	// VariantUnitOpaque draws units with the fixed minimal alpha cutout.
	VariantUnitOpaque

	// VariantUnitCutout draws units with the material's configured cutout, no SSAO.
	VariantUnitCutout

	// VariantUnitLit draws units with the material cutout, shadows, and SSAO.
	VariantUnitLit
)

// class returns the object class a variant is valid for.
func (v Variant) class() object.Class {
	if v == VariantTerrainLit || v == VariantTerrainUnlit {
		return object.ClassTerrain
	}
	return object.ClassUnit
}

// pipelineKey returns the main color pass pipeline for the variant.
func (v Variant) pipelineKey() string {
	switch v {
	case VariantTerrainLit:
		return PipelineTerrainLit
	case VariantTerrainUnlit:
		return PipelineTerrainUnlit
	case VariantUnitOpaque:
		return PipelineUnitsOpaque
	case VariantUnitCutout:
		return PipelineUnitsCutout
	default:
		return PipelineUnitsLit
	}
}

// prepassKey returns the depth-normal prepass pipeline for the variant. Unit
// variants use the alpha-tested prepass matching their shading pass's discard
// threshold: the fixed minimal cutout for VariantUnitOpaque, the material's
// configured cutout otherwise.
func (v Variant) prepassKey() string {
	switch {
	case v.class() == object.ClassTerrain:
		return PipelinePrepass
	case v == VariantUnitOpaque:
		return PipelinePrepassUnitsOpaque
	default:
		return PipelinePrepassCutout
	}
}

// shadowKey returns the shadow atlas depth pipeline for the variant.
func (v Variant) shadowKey() string {
	if v.class() == object.ClassTerrain {
		return PipelineShadowTerrain
	}
	return PipelineShadowUnits
}

// usesOcclusion reports whether the variant's color pass samples the blurred
// occlusion buffer.
func (v Variant) usesOcclusion() bool {
	return v == VariantTerrainLit || v == VariantUnitLit
}

// batch groups every object sharing one mesh and one pipeline variant into a
// single instanced draw. Each batch owns the object storage buffer its
// instances index into; PrepareFrame marshals camera-visible objects first so
// the color passes can draw a prefix of the buffer while the shadow pass
// draws all of it.
type batch struct {
	variant Variant
	mesh    object.Mesh

	objects []object.Object

	provider bind_group_provider.BindGroupProvider
	capacity int

	// Refreshed by prepare each frame.
	data         []byte
	visibleCount int
	totalCount   int
}

// prepare culls the batch against the frustum planes and marshals the object
// storage buffer with visible objects ordered before hidden ones. Hidden
// objects stay in the buffer because the shadow pass draws casters the camera
// cannot see.
func (b *batch) prepare(planes [5][4]float32, cullingDisabled bool) {
	ordered := make([]object.Object, 0, len(b.objects))
	var hidden []object.Object
	radius := b.mesh.BoundingRadius()
	for _, obj := range b.objects {
		if !obj.Enabled() {
			continue
		}
		if cullingDisabled || sphereVisible(planes, obj, radius) {
			ordered = append(ordered, obj)
		} else {
			hidden = append(hidden, obj)
		}
	}
	b.visibleCount = len(ordered)
	ordered = append(ordered, hidden...)
	b.totalCount = len(ordered)
	b.data = object.MarshalObjectBuffer(ordered)
}

// sphereVisible tests the object's scaled bounding sphere against the five
// culling planes. An object is kept unless it is fully outside any plane.
func sphereVisible(planes [5][4]float32, obj object.Object, radius float32) bool {
	x, y, z := obj.Position()
	sx, sy, sz := obj.Scale()
	r := radius * max(common.AbsF32(sx), common.AbsF32(sy), common.AbsF32(sz))
	for _, p := range planes {
		if p[0]*x+p[1]*y+p[2]*z+p[3] < -r {
			return false
		}
	}
	return true
}

// shadowTile pairs a shadow-casting light with the bind group provider holding
// its per-light uniform for the atlas depth pass.
type shadowTile struct {
	light    light.DirectionalLight
	provider bind_group_provider.BindGroupProvider
}

// batchKey identifies a batch by its shared mesh and pipeline variant.
type batchKey struct {
	mesh    object.Mesh
	variant Variant
}

// objectRef locates an object's batch for removal.
type objectRef struct {
	obj   object.Object
	batch *batch
}

// Scene owns the frame graph host state: the object batches, material tables,
// light list with shadow atlas tiles, and the bind group providers wiring the
// prepass, occlusion compute, shadow, and color passes together. A frame is
// driven by calling PrepareFrame (uploads) then RenderFrame (pass encoding).
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the attached camera.
	Camera() camera.Camera

	// Renderer returns the attached renderer.
	Renderer() renderer.Renderer

	// CullingDisabled returns whether CPU frustum culling is skipped.
	CullingDisabled() bool

	// SetCullingDisabled toggles CPU frustum culling.
	//
	// Parameters:
	//   - disabled: true to draw every enabled object regardless of the frustum
	SetCullingDisabled(disabled bool)

	// TextureTable returns the shared texture table whose 1-based slot indices
	// material layer fields refer to. Textures must be added before
	// InitResources; the table is uploaded once as a 2D array texture.
	//
	// Returns:
	//   - material.TextureTable: the texture table
	TextureTable() material.TextureTable

	// AddTerrainMaterial appends a terrain material record and returns its
	// index for use as an object's material index.
	//
	// Parameters:
	//   - m: the terrain material to append
	//
	// Returns:
	//   - uint32: the record's index in the terrain material buffer
	AddTerrainMaterial(m material.TerrainMaterial) uint32

	// AddUnitMaterial appends a unit material record and returns its index
	// for use as an object's material index.
	//
	// Parameters:
	//   - m: the unit material to append
	//
	// Returns:
	//   - uint32: the record's index in the unit material buffer
	AddUnitMaterial(m material.UnitMaterial) uint32

	// AddLight registers a directional light. Shadow-casting lights are
	// assigned the next free shadow atlas tile; the light's shadow
	// view-projection remains the caller's responsibility.
	//
	// Parameters:
	//   - l: the light to add
	//
	// Returns:
	//   - error: if the light list or the shadow atlas is full
	AddLight(l light.DirectionalLight) error

	// Lights returns the registered lights.
	Lights() []light.DirectionalLight

	// Add registers an object for drawing with the given pipeline variant,
	// batching it with other objects sharing the same mesh and variant. The
	// variant's class must match the object's class and the object must carry
	// a mesh; violations panic.
	//
	// Parameters:
	//   - obj: the object to add
	//   - variant: the pipeline variant to draw it with
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj object.Object, variant Variant) uint64

	// Get returns the object with the given ID or nil.
	Get(id uint64) object.Object

	// Remove unregisters the object with the given ID.
	Remove(id uint64)

	// Count returns the number of registered objects.
	Count() int

	// Clear removes all registered objects. Materials, lights, and textures
	// are kept.
	Clear()

	// InitResources registers every pipeline, creates the shadow atlas and
	// occlusion resources, uploads the texture table and SSAO constants, and
	// builds the shared bind groups. Must be called once after the renderer
	// and camera are attached and all textures are staged, before the first
	// frame.
	//
	// Returns:
	//   - error: if any GPU resource creation fails
	InitResources() error

	// PrepareFrame uploads the per-frame GPU state: camera frame uniform,
	// material records, light list, per-tile shadow uniforms, and the culled
	// per-batch object buffers. Rebuilds size-dependent bind groups after a
	// surface resize.
	//
	// Returns:
	//   - error: if a bind group or buffer rebuild fails
	PrepareFrame() error

	// RenderFrame encodes and submits the full pass sequence: depth-normal
	// prepass, occlusion compute and blur, shadow atlas, then the color pass,
	// and presents the frame.
	//
	// Returns:
	//   - error: if any pass fails to encode
	RenderFrame() error

	// ShadowAtlasTextureView returns the shadow atlas depth view, or nil
	// before InitResources.
	ShadowAtlasTextureView() *wgpu.TextureView

	// Kernel returns the SSAO sampling constants used by this scene.
	Kernel() ssao.Kernel
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	cullingDisabled bool

	textures         material.TextureTable
	terrainMaterials []material.TerrainMaterial
	unitMaterials    []material.UnitMaterial

	lights      []light.DirectionalLight
	shadowTiles []*shadowTile

	objects    map[uint64]objectRef
	batchIndex map[batchKey]*batch
	batchList  []*batch

	kernel ssao.Kernel

	// Shared bind group providers, built by InitResources.
	terrainMatBGP bind_group_provider.BindGroupProvider
	unitMatBGP    bind_group_provider.BindGroupProvider
	lightsBGP     bind_group_provider.BindGroupProvider
	occlusionBGP  bind_group_provider.BindGroupProvider
	ssaoMainBGP   bind_group_provider.BindGroupProvider
	ssaoBlurBGP   bind_group_provider.BindGroupProvider

	// Compute shaders kept so size-dependent bind groups can be rebuilt from
	// their layouts after a resize.
	ssaoMainShader shader.Shader
	ssaoBlurShader shader.Shader

	shadowAtlasTexture *wgpu.Texture
	shadowAtlasView    *wgpu.TextureView
	shadowSampler      *wgpu.Sampler

	// targetsGeneration is the renderer target generation the size-dependent
	// bind groups were last built against.
	targetsGeneration uint64

	resourcesReady bool

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider

	// marshalPool manages a bounded set of reusable goroutines for the
	// parallel cull-and-marshal phase of PrepareFrame. Workers persist across
	// frames, avoiding per-frame goroutine spawn/teardown overhead.
	marshalPool    worker.DynamicWorkerPool
	marshalWorkers int
}

var _ Scene = &scene{}

// NewScene creates a new Scene bound to the given camera and renderer. Both
// are required and NewScene panics if either is nil. InitResources must be
// called before the first frame.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		cam:                cam,
		r:                  r,
		objects:            make(map[uint64]objectRef),
		batchIndex:         make(map[batchKey]*batch),
		marshalWorkers:     max(runtime.NumCPU()-1, 1),
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 5),
	}

	for _, option := range options {
		option(s)
	}

	if s.textures == nil {
		s.textures = material.NewTextureTable()
	}
	if s.kernel == nil {
		s.kernel = ssao.NewKernel()
	}

	// Initialize the marshal pool after options so WithMarshalWorkers can
	// override the default. Queue size of 256 accommodates typical batch
	// counts with headroom.
	s.marshalPool = worker.NewDynamicWorkerPool(s.marshalWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) TextureTable() material.TextureTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textures
}

func (s *scene) AddTerrainMaterial(m material.TerrainMaterial) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.terrainMaterials) >= maxMaterials {
		panic(fmt.Sprintf("scene %q: terrain material table is full (%d records)", s.name, maxMaterials))
	}
	s.terrainMaterials = append(s.terrainMaterials, m)
	return uint32(len(s.terrainMaterials) - 1)
}

func (s *scene) AddUnitMaterial(m material.UnitMaterial) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.unitMaterials) >= maxMaterials {
		panic(fmt.Sprintf("scene %q: unit material table is full (%d records)", s.name, maxMaterials))
	}
	s.unitMaterials = append(s.unitMaterials, m)
	return uint32(len(s.unitMaterials) - 1)
}

func (s *scene) AddLight(l light.DirectionalLight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lights) >= light.MaxGPULights {
		return fmt.Errorf("scene %q: light list is full (%d lights)", s.name, light.MaxGPULights)
	}

	if l.CastsShadows() {
		tilesPerRow := light.ShadowAtlasResolution / light.DefaultShadowMapResolution
		idx := len(s.shadowTiles)
		if idx >= tilesPerRow*tilesPerRow {
			return fmt.Errorf("scene %q: shadow atlas is full (%d tiles)", s.name, tilesPerRow*tilesPerRow)
		}
		tileSize := float32(light.DefaultShadowMapResolution) / float32(light.ShadowAtlasResolution)
		col := idx % tilesPerRow
		row := idx / tilesPerRow
		l.SetAtlasRect(float32(col)*tileSize, float32(row)*tileSize, tileSize, tileSize)
		l.SetResolution(light.DefaultShadowMapResolution)

		tile := &shadowTile{light: l}
		if s.resourcesReady {
			if err := s.initShadowTile(tile, idx); err != nil {
				return err
			}
		}
		s.shadowTiles = append(s.shadowTiles, tile)
	}

	s.lights = append(s.lights, l)
	return nil
}

func (s *scene) Lights() []light.DirectionalLight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) Add(obj object.Object, variant Variant) uint64 {
	if obj == nil {
		panic("scene: cannot add a nil object")
	}
	if obj.Class() != variant.class() {
		panic(fmt.Sprintf("scene: variant %d requires object class %d, object %d has class %d",
			variant, variant.class(), obj.ID(), obj.Class()))
	}
	m := obj.Mesh()
	if m == nil {
		panic(fmt.Sprintf("scene: object %d has no mesh", obj.ID()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Upload the shared mesh the first time any batch references it.
	if m.Provider().VertexBuffer() == nil {
		if err := s.r.InitMeshBuffers(m.Provider(), m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			panic(fmt.Sprintf("scene %q: failed to init mesh buffers for %q: %v", s.name, m.Name(), err))
		}
	}

	key := batchKey{mesh: m, variant: variant}
	b := s.batchIndex[key]
	if b == nil {
		b = &batch{variant: variant, mesh: m}
		s.batchIndex[key] = b
		s.batchList = append(s.batchList, b)
	}
	b.objects = append(b.objects, obj)
	s.objects[obj.ID()] = objectRef{obj: obj, batch: b}
	return obj.ID()
}

func (s *scene) Get(id uint64) object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.objects[id]; ok {
		return ref.obj
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.objects[id]
	if !ok {
		return
	}
	delete(s.objects, id)
	if i := slices.Index(ref.batch.objects, ref.obj); i >= 0 {
		ref.batch.objects = slices.Delete(ref.batch.objects, i, i+1)
	}
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.batchList {
		if b.provider != nil {
			b.provider.Release()
		}
	}
	s.objects = make(map[uint64]objectRef)
	s.batchIndex = make(map[batchKey]*batch)
	s.batchList = nil
}

func (s *scene) ShadowAtlasTextureView() *wgpu.TextureView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowAtlasView
}

func (s *scene) Kernel() ssao.Kernel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kernel
}

func (s *scene) InitResources() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resourcesReady {
		return nil
	}

	if err := s.registerPipelines(); err != nil {
		return err
	}

	// Shadow atlas and its comparison sampler.
	view, tex, err := s.r.CreateShadowAtlasTexture(light.ShadowAtlasResolution, light.ShadowAtlasResolution)
	if err != nil {
		return fmt.Errorf("scene %q: failed to create shadow atlas: %w", s.name, err)
	}
	s.shadowAtlasView = view
	s.shadowAtlasTexture = tex
	samp, err := s.r.CreateComparisonSampler()
	if err != nil {
		return fmt.Errorf("scene %q: failed to create comparison sampler: %w", s.name, err)
	}
	s.shadowSampler = samp

	// Frame uniform bind group on the camera's provider. The same buffer is
	// shared into the occlusion compute bind group below.
	camBGP := s.cam.BindGroupProvider()
	if camBGP == nil {
		return fmt.Errorf("scene %q: camera has no bind group provider", s.name)
	}
	if err := s.r.InitBindGroup(camBGP, s.renderGroupDescriptor(PipelineTerrainLit, groupFrame), nil, nil); err != nil {
		return fmt.Errorf("scene %q: failed to init frame bind group: %w", s.name, err)
	}

	if err := s.initMaterialBindGroups(); err != nil {
		return err
	}
	if err := s.initLightBindGroups(); err != nil {
		return err
	}
	if err := s.initOcclusionBindGroups(camBGP); err != nil {
		return err
	}

	for i, tile := range s.shadowTiles {
		if err := s.initShadowTile(tile, i); err != nil {
			return err
		}
	}

	// The kernel uniform never changes after this upload.
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.ssaoMainBGP,
		Binding:  ssaoBindingKernel,
		Offset:   0,
		Data:     s.kernel.MarshalSamples(),
	}})

	s.resourcesReady = true
	return nil
}

// registerPipelines builds every shader and pipeline the pass graph uses.
func (s *scene) registerPipelines() error {
	s.ssaoMainShader = shader.NewShader("ssao_main", shader.ShaderTypeCompute, "ssao-main.wgsl")
	s.ssaoBlurShader = shader.NewShader("ssao_blur", shader.ShaderTypeCompute, "ssao-blur.wgsl")

	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(PipelinePrepass, pipeline.PipelineTypeRender,
			pipeline.WithPass(pipeline.PassKindPrepass),
			pipeline.WithVertexShader(shader.NewShader("prepass_vert", shader.ShaderTypeVertex, "prepass.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("prepass_frag", shader.ShaderTypeFragment, "prepass.wgsl")),
		),
		pipeline.NewPipeline(PipelinePrepassCutout, pipeline.PipelineTypeRender,
			pipeline.WithPass(pipeline.PassKindPrepass),
			pipeline.WithVertexShader(shader.NewShader("prepass_cutout_vert", shader.ShaderTypeVertex, "prepass-cutout.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("prepass_cutout_frag", shader.ShaderTypeFragment, "prepass-cutout.wgsl")),
		),
		pipeline.NewPipeline(PipelinePrepassUnitsOpaque, pipeline.PipelineTypeRender,
			pipeline.WithPass(pipeline.PassKindPrepass),
			pipeline.WithVertexShader(shader.NewShader("prepass_units_opaque_vert", shader.ShaderTypeVertex, "prepass-units-opaque.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("prepass_units_opaque_frag", shader.ShaderTypeFragment, "prepass-units-opaque.wgsl")),
		),
		pipeline.NewPipeline(PipelineSsaoMain, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(s.ssaoMainShader),
		),
		pipeline.NewPipeline(PipelineSsaoBlur, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(s.ssaoBlurShader),
		),
		pipeline.NewPipeline(PipelineShadowTerrain, pipeline.PipelineTypeRender,
			pipeline.WithPass(pipeline.PassKindShadow),
			pipeline.WithVertexShader(shader.NewShader("terrain_depth_vert", shader.ShaderTypeVertex, "terrain-depth.wgsl")),
			pipeline.WithDepthBias(2, 1.5),
		),
		pipeline.NewPipeline(PipelineShadowUnits, pipeline.PipelineTypeRender,
			pipeline.WithPass(pipeline.PassKindShadow),
			pipeline.WithVertexShader(shader.NewShader("units_depth_vert", shader.ShaderTypeVertex, "units-depth.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("units_depth_frag", shader.ShaderTypeFragment, "units-depth.wgsl")),
			pipeline.WithDepthBias(2, 1.5),
			pipeline.WithCullMode(wgpu.CullModeFront),
		),
		pipeline.NewPipeline(PipelineTerrainLit, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(shader.NewShader("terrain_lit_vert", shader.ShaderTypeVertex, "terrain-lit.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("terrain_lit_frag", shader.ShaderTypeFragment, "terrain-lit.wgsl")),
		),
		pipeline.NewPipeline(PipelineTerrainUnlit, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(shader.NewShader("terrain_unlit_vert", shader.ShaderTypeVertex, "terrain-unlit.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("terrain_unlit_frag", shader.ShaderTypeFragment, "terrain-unlit.wgsl")),
		),
		pipeline.NewPipeline(PipelineUnitsOpaque, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(shader.NewShader("units_opaque_vert", shader.ShaderTypeVertex, "units-opaque.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("units_opaque_frag", shader.ShaderTypeFragment, "units-opaque.wgsl")),
		),
		pipeline.NewPipeline(PipelineUnitsCutout, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(shader.NewShader("units_cutout_vert", shader.ShaderTypeVertex, "units-cutout.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("units_cutout_frag", shader.ShaderTypeFragment, "units-cutout.wgsl")),
		),
		pipeline.NewPipeline(PipelineUnitsLit, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(shader.NewShader("units_lit_vert", shader.ShaderTypeVertex, "units-lit.wgsl")),
			pipeline.WithFragmentShader(shader.NewShader("units_lit_frag", shader.ShaderTypeFragment, "units-lit.wgsl")),
		),
	}

	if err := s.r.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("scene %q: pipeline registration failed: %w", s.name, err)
	}
	return nil
}

// initMaterialBindGroups uploads the texture table as one 2D array texture and
// builds the terrain and unit material bind groups. Both groups share the
// array texture and sampler; only the record storage buffers differ.
func (s *scene) initMaterialBindGroups() error {
	if s.textures.Count() == 0 {
		// Materials may be unicolor-only; the array texture binding still
		// needs at least one layer.
		s.textures.Add(&common.TextureStagingData{
			Pixels: []byte{255, 255, 255, 255},
			Width:  1,
			Height: 1,
		})
	}
	layers := make([]common.TextureStagingData, 0, s.textures.Count())
	for _, slot := range s.textures.Slots() {
		layers = append(layers, *slot)
	}

	s.terrainMatBGP = bind_group_provider.NewBindGroupProvider(s.name + "_terrain_materials")
	if err := s.r.InitTextureArrayView(s.terrainMatBGP, bindingAlbedoArray, layers); err != nil {
		return fmt.Errorf("scene %q: failed to upload texture table: %w", s.name, err)
	}
	if err := s.r.InitSampler(s.terrainMatBGP, bindingAlbedoSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMaxClamp:  32,
	}); err != nil {
		return fmt.Errorf("scene %q: failed to create albedo sampler: %w", s.name, err)
	}

	terrainStride := uint64((&material.GPUTerrainMaterial{}).Size())
	if err := s.r.InitBindGroup(s.terrainMatBGP, s.renderGroupDescriptor(PipelineTerrainLit, groupMaterials), nil,
		map[int]uint64{bindingMaterialRecords: maxMaterials * terrainStride}); err != nil {
		return fmt.Errorf("scene %q: failed to init terrain material bind group: %w", s.name, err)
	}

	s.unitMatBGP = bind_group_provider.NewBindGroupProvider(s.name + "_unit_materials")
	s.unitMatBGP.SetTextureView(bindingAlbedoArray, s.terrainMatBGP.TextureView(bindingAlbedoArray))
	s.unitMatBGP.SetSampler(bindingAlbedoSampler, s.terrainMatBGP.Sampler(bindingAlbedoSampler))
	unitStride := uint64((&material.GPUUnitMaterial{}).Size())
	if err := s.r.InitBindGroup(s.unitMatBGP, s.renderGroupDescriptor(PipelineUnitsLit, groupMaterials), nil,
		map[int]uint64{bindingMaterialRecords: maxMaterials * unitStride}); err != nil {
		return fmt.Errorf("scene %q: failed to init unit material bind group: %w", s.name, err)
	}
	return nil
}

// initLightBindGroups builds the light list bind group holding the light
// storage buffer, the shadow atlas view, and the comparison sampler.
func (s *scene) initLightBindGroups() error {
	s.lightsBGP = bind_group_provider.NewBindGroupProvider(s.name + "_lights")
	s.lightsBGP.SetTextureView(bindingShadowAtlas, s.shadowAtlasView)
	s.lightsBGP.SetSampler(bindingShadowSampler, s.shadowSampler)

	headerSize := uint64((&light.GPULightListHeader{}).Size())
	lightSize := uint64((&light.GPUDirectionalLight{}).Size())
	if err := s.r.InitBindGroup(s.lightsBGP, s.renderGroupDescriptor(PipelineTerrainLit, groupLights), nil,
		map[int]uint64{bindingLightList: headerSize + light.MaxGPULights*lightSize}); err != nil {
		return fmt.Errorf("scene %q: failed to init light bind group: %w", s.name, err)
	}
	return nil
}

// initOcclusionBindGroups builds the compute and shading bind groups around
// the renderer's occlusion targets, uploading the rotation-noise tile once.
func (s *scene) initOcclusionBindGroups(camBGP bind_group_provider.BindGroupProvider) error {
	s.ssaoMainBGP = bind_group_provider.NewBindGroupProvider(s.name + "_ssao_main")
	// Share the camera's frame uniform buffer instead of maintaining a copy.
	s.ssaoMainBGP.SetBuffer(ssaoBindingFrame, camBGP.Buffer(ssaoBindingFrame))
	if err := s.r.InitTextureView(s.ssaoMainBGP, ssaoBindingNoise, common.TextureStagingData{
		Pixels: s.kernel.MarshalNoise(),
		Width:  ssao.NoiseTileSize,
		Height: ssao.NoiseTileSize,
		Format: wgpu.TextureFormatRGBA8Snorm,
	}); err != nil {
		return fmt.Errorf("scene %q: failed to upload noise texture: %w", s.name, err)
	}

	s.ssaoBlurBGP = bind_group_provider.NewBindGroupProvider(s.name + "_ssao_blur")
	s.occlusionBGP = bind_group_provider.NewBindGroupProvider(s.name + "_occlusion")

	return s.rebuildSizedBindGroups()
}

// rebuildSizedBindGroups recreates every bind group referencing the
// renderer's size-dependent targets (prepass depth/normal, occlusion raw and
// blurred). Called at init and again whenever the surface is reconfigured.
func (s *scene) rebuildSizedBindGroups() error {
	s.ssaoMainBGP.SetTextureView(ssaoBindingDepth, s.r.PrepassDepthView())
	s.ssaoMainBGP.SetTextureView(ssaoBindingNormal, s.r.PrepassNormalView())
	s.ssaoMainBGP.SetTextureView(ssaoBindingOcclusionOut, s.r.OcclusionRawView())
	if err := s.r.InitBindGroup(s.ssaoMainBGP, s.ssaoMainShader.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return fmt.Errorf("scene %q: failed to init occlusion compute bind group: %w", s.name, err)
	}

	s.ssaoBlurBGP.SetTextureView(blurBindingIn, s.r.OcclusionRawView())
	s.ssaoBlurBGP.SetTextureView(blurBindingOut, s.r.OcclusionBlurredView())
	if err := s.r.InitBindGroup(s.ssaoBlurBGP, s.ssaoBlurShader.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return fmt.Errorf("scene %q: failed to init occlusion blur bind group: %w", s.name, err)
	}

	s.occlusionBGP.SetTextureView(0, s.r.OcclusionBlurredView())
	if err := s.r.InitBindGroup(s.occlusionBGP, s.renderGroupDescriptor(PipelineTerrainLit, groupOcclusion), nil, nil); err != nil {
		return fmt.Errorf("scene %q: failed to init occlusion shading bind group: %w", s.name, err)
	}

	s.targetsGeneration = s.r.TargetsGeneration()
	return nil
}

// initShadowTile builds the per-light uniform bind group used while rendering
// the light's shadow atlas tile.
func (s *scene) initShadowTile(tile *shadowTile, index int) error {
	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_shadow_tile_%d", s.name, index))
	if err := s.r.InitBindGroup(provider, s.renderGroupDescriptor(PipelineShadowTerrain, groupFrame), nil, nil); err != nil {
		return fmt.Errorf("scene %q: failed to init shadow tile %d bind group: %w", s.name, index, err)
	}
	tile.provider = provider
	return nil
}

// renderGroupDescriptor returns the bind group layout descriptor for one
// group of a registered render pipeline, merged across its vertex and
// fragment shaders with visibility normalized the same way pipeline
// registration normalizes it. Using the identical descriptor on both sides
// keeps bind groups layout-compatible with every pipeline that shares the
// group.
func (s *scene) renderGroupDescriptor(pipelineKey string, group int) wgpu.BindGroupLayoutDescriptor {
	rp := s.r.Pipeline(pipelineKey)
	if rp == nil {
		panic(fmt.Sprintf("scene %q: pipeline %q not registered", s.name, pipelineKey))
	}

	entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
	var label string
	if vs := rp.Shader(shader.ShaderTypeVertex); vs != nil {
		desc := vs.BindGroupLayoutDescriptor(group)
		label = desc.Label
		for _, e := range desc.Entries {
			entryMap[e.Binding] = e
		}
	}
	if fs := rp.Shader(shader.ShaderTypeFragment); fs != nil {
		desc := fs.BindGroupLayoutDescriptor(group)
		if label == "" {
			label = desc.Label
		}
		for _, e := range desc.Entries {
			if _, ok := entryMap[e.Binding]; !ok {
				entryMap[e.Binding] = e
			}
		}
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
	for _, e := range entryMap {
		e.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
		return int(a.Binding) - int(b.Binding)
	})
	return wgpu.BindGroupLayoutDescriptor{Label: label, Entries: entries}
}

func (s *scene) PrepareFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resourcesReady {
		return fmt.Errorf("scene %q: InitResources has not been called", s.name)
	}

	// A surface reconfigure replaced the prepass and occlusion targets; the
	// bind groups referencing them must be rebuilt before this frame.
	if gen := s.r.TargetsGeneration(); gen != s.targetsGeneration {
		if err := s.rebuildSizedBindGroups(); err != nil {
			return err
		}
	}

	s.cam.Update()
	fu := s.cam.FrameUniform()

	writes := s.writePool[:0]
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.cam.BindGroupProvider(),
		Binding:  0,
		Offset:   0,
		Data:     fu.Marshal(),
	})

	if len(s.terrainMaterials) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.terrainMatBGP,
			Binding:  bindingMaterialRecords,
			Offset:   0,
			Data:     material.MarshalTerrainMaterialBuffer(s.terrainMaterials),
		})
	}
	if len(s.unitMaterials) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.unitMatBGP,
			Binding:  bindingMaterialRecords,
			Offset:   0,
			Data:     material.MarshalUnitMaterialBuffer(s.unitMaterials),
		})
	}

	// The light list is written every frame so disabled lights drop out.
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.lightsBGP,
		Binding:  bindingLightList,
		Offset:   0,
		Data:     light.MarshalLightBuffer(s.lights),
	})
	for _, tile := range s.shadowTiles {
		gpu := light.ToGPULight(tile.light)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: tile.provider,
			Binding:  0,
			Offset:   0,
			Data:     gpu.Marshal(),
		})
	}

	// Grow object storage buffers serially — buffer creation needs the GPU.
	for _, b := range s.batchList {
		if need := len(b.objects); need > b.capacity {
			if err := s.growBatchProvider(b, max(need*2, 16)); err != nil {
				return err
			}
		}
	}

	// Cull and marshal every batch in parallel. A WaitGroup provides
	// per-frame barrier sync since pool.Wait() blocks until workers
	// idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	planes := fu.Frustum
	for i, b := range s.batchList {
		if len(b.objects) == 0 {
			b.visibleCount, b.totalCount = 0, 0
			continue
		}
		wg.Add(1)
		bCap := b
		s.marshalPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				bCap.prepare(planes, s.cullingDisabled)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, b := range s.batchList {
		if b.totalCount == 0 {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.provider,
			Binding:  0,
			Offset:   0,
			Data:     b.data,
		})
	}
	s.writePool = writes

	s.r.WriteBuffers(writes)
	return nil
}

// growBatchProvider replaces a batch's object storage provider with one sized
// for the given record capacity.
func (s *scene) growBatchProvider(b *batch, capacity int) error {
	provider := bind_group_provider.NewBindGroupProvider(
		fmt.Sprintf("%s_objects_%s_%d", s.name, b.mesh.Name(), b.variant))
	stride := uint64((&object.GPUObjectData{}).Size())
	if err := s.r.InitBindGroup(provider, s.renderGroupDescriptor(b.variant.pipelineKey(), groupObjects), nil,
		map[int]uint64{0: uint64(capacity) * stride}); err != nil {
		return fmt.Errorf("scene %q: failed to grow object buffer for %q: %w", s.name, b.mesh.Name(), err)
	}
	if b.provider != nil {
		b.provider.Release()
	}
	b.provider = provider
	b.capacity = capacity
	return nil
}

func (s *scene) RenderFrame() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.resourcesReady {
		return fmt.Errorf("scene %q: InitResources has not been called", s.name)
	}

	camBGP := s.cam.BindGroupProvider()

	// Depth-normal prepass.
	if err := s.r.BeginPrepassFrame(); err != nil {
		return fmt.Errorf("scene %q: prepass begin failed: %w", s.name, err)
	}
	for _, b := range s.batchList {
		if b.visibleCount == 0 {
			continue
		}
		groups := append(s.drawBindGroupsPool[:0], camBGP, b.provider)
		if b.variant.class() == object.ClassUnit {
			groups = append(groups, s.unitMatBGP)
		}
		if err := s.r.PrepassDrawCall(b.variant.prepassKey(), b.mesh.Provider(), uint32(b.visibleCount), groups); err != nil {
			return fmt.Errorf("scene %q: prepass draw failed: %w", s.name, err)
		}
	}
	s.r.EndPrepassFrame()

	// Occlusion compute: main pass then blur, in one submission. Dispatch
	// ordering within the encoder is the required barrier between the raw
	// write and the blur read.
	if err := s.r.BeginComputeFrame(); err != nil {
		return fmt.Errorf("scene %q: compute begin failed: %w", s.name, err)
	}
	width, height := s.cam.Resolution()
	groupsX := (width + ssaoWorkgroupSize - 1) / ssaoWorkgroupSize
	groupsY := (height + ssaoWorkgroupSize - 1) / ssaoWorkgroupSize
	s.r.DispatchCompute(PipelineSsaoMain, s.ssaoMainBGP, [3]uint32{groupsX, groupsY, 1})
	s.r.DispatchCompute(PipelineSsaoBlur, s.ssaoBlurBGP, [3]uint32{groupsX, groupsY, 1})
	s.r.EndComputeFrame()

	// Shadow atlas: one pass clearing the whole atlas, then a viewport per
	// shadow-casting light. Hidden objects still cast, so batches draw their
	// full object buffers here.
	if err := s.r.BeginShadowFrame(); err != nil {
		return fmt.Errorf("scene %q: shadow begin failed: %w", s.name, err)
	}
	s.r.BeginShadowPass(s.shadowAtlasView)
	for _, tile := range s.shadowTiles {
		l := tile.light
		if !l.Enabled() || !l.CastsShadows() {
			continue
		}
		offset := l.AtlasOffset()
		size := l.AtlasSize()
		s.r.SetShadowViewport(
			uint32(offset[0]*light.ShadowAtlasResolution),
			uint32(offset[1]*light.ShadowAtlasResolution),
			uint32(size[0]*light.ShadowAtlasResolution),
			uint32(size[1]*light.ShadowAtlasResolution),
		)
		for _, b := range s.batchList {
			if b.totalCount == 0 {
				continue
			}
			groups := append(s.drawBindGroupsPool[:0], tile.provider, b.provider)
			if b.variant.class() == object.ClassUnit {
				groups = append(groups, s.unitMatBGP)
			}
			if err := s.r.ShadowDrawCall(b.variant.shadowKey(), b.mesh.Provider(), uint32(b.totalCount), groups); err != nil {
				return fmt.Errorf("scene %q: shadow draw failed: %w", s.name, err)
			}
		}
	}
	s.r.EndShadowPass()
	s.r.EndShadowFrame()

	// Color pass.
	if err := s.r.BeginFrame(); err != nil {
		return fmt.Errorf("scene %q: frame begin failed: %w", s.name, err)
	}
	for _, b := range s.batchList {
		if b.visibleCount == 0 {
			continue
		}
		groups := append(s.drawBindGroupsPool[:0], camBGP, b.provider)
		if b.variant.class() == object.ClassTerrain {
			groups = append(groups, s.terrainMatBGP)
		} else {
			groups = append(groups, s.unitMatBGP)
		}
		groups = append(groups, s.lightsBGP)
		if b.variant.usesOcclusion() {
			groups = append(groups, s.occlusionBGP)
		}
		if err := s.r.DrawCall(b.variant.pipelineKey(), b.mesh.Provider(), uint32(b.visibleCount), groups); err != nil {
			return fmt.Errorf("scene %q: draw failed: %w", s.name, err)
		}
	}
	s.r.EndFrame()
	s.r.Present()
	return nil
}
