package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const vertexShaderSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) tex_coord: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_position: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestParseVertexLayouts(t *testing.T) {
	layouts := parseVertexLayouts(vertexShaderSource)
	if len(layouts) != 1 {
		t.Fatalf("found %d vertex layouts, want 1 (output struct must be skipped)", len(layouts))
	}

	buffers, ok := layouts[0]
	if !ok || len(buffers) != 1 {
		t.Fatalf("layout 0 missing or malformed: %v", layouts)
	}
	layout := buffers[0]
	if layout.ArrayStride != 32 {
		t.Fatalf("stride = %d, want 32", layout.ArrayStride)
	}
	if layout.StepMode != wgpu.VertexStepModeVertex {
		t.Fatalf("step mode = %v, want per-vertex", layout.StepMode)
	}

	want := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	}
	if len(layout.Attributes) != len(want) {
		t.Fatalf("found %d attributes, want %d", len(layout.Attributes), len(want))
	}
	for i, attr := range layout.Attributes {
		if attr != want[i] {
			t.Fatalf("attribute %d = %+v, want %+v", i, attr, want[i])
		}
	}
}

func TestParseVertexLayoutsSkipsNonVertexStructs(t *testing.T) {
	source := `
struct Globals {
    view: mat4x4<f32>,
    exposure: f32,
}

@compute @workgroup_size(8, 8)
fn cs_main() {}
`
	if layouts := parseVertexLayouts(source); len(layouts) != 0 {
		t.Fatalf("compute shader produced vertex layouts: %v", layouts)
	}
}

func TestParseBindGroupLayoutsBuffers(t *testing.T) {
	source := `
struct Globals {
    view: mat4x4<f32>,
    tint: vec3<f32>,
    exposure: f32,
}

struct Record {
    transform: mat4x4<f32>,
    index: u32,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(0) var<storage, read> records: array<Record>;
@group(1) @binding(1) var<storage, read_write> results: array<f32>;
`
	layouts, varNames := parseBindGroupLayouts(source, wgpu.ShaderStageCompute)
	if len(layouts) != 2 {
		t.Fatalf("found %d groups, want 2", len(layouts))
	}

	g0 := layouts[0].Entries
	if len(g0) != 1 {
		t.Fatalf("group 0 has %d entries, want 1", len(g0))
	}
	if g0[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Fatalf("globals buffer type = %v, want uniform", g0[0].Buffer.Type)
	}
	// mat4x4 (64) + vec3 at 64 (12) + f32 at 76, rounded to 16-byte alignment.
	if g0[0].Buffer.MinBindingSize != 80 {
		t.Fatalf("globals MinBindingSize = %d, want 80", g0[0].Buffer.MinBindingSize)
	}
	if g0[0].Visibility != wgpu.ShaderStageCompute {
		t.Fatalf("visibility = %v, want compute", g0[0].Visibility)
	}

	g1 := layouts[1].Entries
	if len(g1) != 2 {
		t.Fatalf("group 1 has %d entries, want 2", len(g1))
	}
	if g1[0].Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
		t.Fatalf("records buffer type = %v, want read-only storage", g1[0].Buffer.Type)
	}
	// A runtime-sized array binds at one element stride: mat4x4 (64) + u32 -> 80.
	if g1[0].Buffer.MinBindingSize != 80 {
		t.Fatalf("records MinBindingSize = %d, want 80", g1[0].Buffer.MinBindingSize)
	}
	if g1[1].Buffer.Type != wgpu.BufferBindingTypeStorage {
		t.Fatalf("results buffer type = %v, want read-write storage", g1[1].Buffer.Type)
	}
	if g1[1].Buffer.MinBindingSize != 4 {
		t.Fatalf("results MinBindingSize = %d, want 4", g1[1].Buffer.MinBindingSize)
	}

	if varNames[0][0] != "globals" || varNames[1][0] != "records" || varNames[1][1] != "results" {
		t.Fatalf("variable names = %v", varNames)
	}
}

func TestParseBindGroupLayoutsTexturesAndSamplers(t *testing.T) {
	source := `
@group(0) @binding(3) var albedo_sampler: sampler;
@group(0) @binding(0) var albedo_array: texture_2d_array<f32>;
@group(0) @binding(1) var shadow_atlas: texture_depth_2d;
@group(0) @binding(2) var shadow_sampler: sampler_comparison;
@group(0) @binding(4) var depth_target: texture_depth_multisampled_2d;
@group(0) @binding(5) var normal_target: texture_multisampled_2d<f32>;
@group(0) @binding(6) var occlusion_out: texture_storage_2d<r32float, write>;
`
	layouts, _ := parseBindGroupLayouts(source, wgpu.ShaderStageFragment)
	entries := layouts[0].Entries
	if len(entries) != 7 {
		t.Fatalf("found %d entries, want 7", len(entries))
	}

	// Entries are sorted by binding regardless of declaration order.
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Fatalf("entry %d has binding %d, want sorted order", i, e.Binding)
		}
	}

	albedo := entries[0]
	if albedo.Texture.SampleType != wgpu.TextureSampleTypeFloat ||
		albedo.Texture.ViewDimension != wgpu.TextureViewDimension2DArray ||
		albedo.Texture.Multisampled {
		t.Fatalf("albedo array classified as %+v", albedo.Texture)
	}

	atlas := entries[1]
	if atlas.Texture.SampleType != wgpu.TextureSampleTypeDepth ||
		atlas.Texture.ViewDimension != wgpu.TextureViewDimension2D ||
		atlas.Texture.Multisampled {
		t.Fatalf("shadow atlas classified as %+v", atlas.Texture)
	}

	if entries[2].Sampler.Type != wgpu.SamplerBindingTypeComparison {
		t.Fatalf("shadow sampler type = %v, want comparison", entries[2].Sampler.Type)
	}
	if entries[3].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatalf("albedo sampler type = %v, want filtering", entries[3].Sampler.Type)
	}

	depth := entries[4]
	if depth.Texture.SampleType != wgpu.TextureSampleTypeDepth || !depth.Texture.Multisampled {
		t.Fatalf("multisampled depth classified as %+v", depth.Texture)
	}

	// Multisampled float textures are never filterable.
	normal := entries[5]
	if normal.Texture.SampleType != wgpu.TextureSampleTypeUnfilterableFloat || !normal.Texture.Multisampled {
		t.Fatalf("multisampled normal classified as %+v", normal.Texture)
	}

	storage := entries[6]
	if storage.StorageTexture.Format != wgpu.TextureFormatR32Float ||
		storage.StorageTexture.Access != wgpu.StorageTextureAccessWriteOnly ||
		storage.StorageTexture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Fatalf("storage texture classified as %+v", storage.StorageTexture)
	}
}

func TestParseWorkgroupSize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [3]uint32
	}{
		{"no annotation defaults", "fn cs_main() {}", [3]uint32{1, 1, 1}},
		{"one dimension", "@compute @workgroup_size(64)\nfn cs_main() {}", [3]uint32{64, 1, 1}},
		{"two dimensions", "@compute @workgroup_size(8, 8)\nfn cs_main() {}", [3]uint32{8, 8, 1}},
		{"three dimensions", "@compute @workgroup_size(4, 2, 3)\nfn cs_main() {}", [3]uint32{4, 2, 3}},
		{"commented out is ignored", "// @workgroup_size(16, 16)\nfn cs_main() {}", [3]uint32{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseWorkgroupSize(tt.source); got != tt.want {
				t.Fatalf("parseWorkgroupSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEntryPoint(t *testing.T) {
	if got := parseEntryPoint(vertexShaderSource, ShaderTypeVertex); got != "vs_main" {
		t.Fatalf("vertex entry point = %q, want vs_main", got)
	}
	if got := parseEntryPoint(vertexShaderSource, ShaderTypeFragment); got != "fs_main" {
		t.Fatalf("fragment entry point = %q, want fs_main", got)
	}
	if got := parseEntryPoint(vertexShaderSource, ShaderTypeCompute); got != "" {
		t.Fatalf("compute entry point = %q, want empty", got)
	}

	compute := "@compute @workgroup_size(8, 8)\nfn cs_main() {}"
	if got := parseEntryPoint(compute, ShaderTypeCompute); got != "cs_main" {
		t.Fatalf("compute entry point = %q, want cs_main", got)
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{
		"Record": {size: 80, align: 16},
	}
	tests := []struct {
		typeName string
		want     wgslTypeLayout
		ok       bool
	}{
		{"f32", wgslTypeLayout{4, 4}, true},
		{"vec3<f32>", wgslTypeLayout{12, 16}, true},
		{"mat4x4<f32>", wgslTypeLayout{64, 16}, true},
		{"Record", wgslTypeLayout{80, 16}, true},
		{"array<vec4<f32>, 5>", wgslTypeLayout{80, 16}, true},
		// vec3 elements pad to a 16-byte stride inside arrays.
		{"array<vec3<f32>, 2>", wgslTypeLayout{32, 16}, true},
		{"array<Record>", wgslTypeLayout{80, 16}, true},
		{"array<f32>", wgslTypeLayout{4, 4}, true},
		{"banana", wgslTypeLayout{}, false},
		{"array<banana, 3>", wgslTypeLayout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := resolveTypeLayout(tt.typeName, known)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("resolveTypeLayout(%q) = %+v, %v; want %+v, %v", tt.typeName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestComputeStructSizesResolvesDependencies(t *testing.T) {
	// Batch references Params, which is declared after it in the source.
	source := `
struct Batch {
    header: vec4<u32>,
    items: array<Params, 3>,
}

struct Params {
    origin: vec3<f32>,
    radius: f32,
}
`
	sizes := computeStructSizes(parseStructBlocks(stripComments(source)))

	params, ok := sizes["Params"]
	if !ok || params.size != 16 || params.align != 16 {
		t.Fatalf("Params layout = %+v, want size 16 align 16", params)
	}
	batch, ok := sizes["Batch"]
	if !ok || batch.size != 64 {
		t.Fatalf("Batch layout = %+v, want size 64 (16-byte header plus 3 x 16)", batch)
	}
}

func TestComputeStructLayoutSkipsBuiltins(t *testing.T) {
	source := `
struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}
`
	sizes := computeStructSizes(parseStructBlocks(source))
	out, ok := sizes["VertexOutput"]
	if !ok || out.size != 8 {
		t.Fatalf("VertexOutput layout = %+v, want size 8 with the builtin skipped", out)
	}
}

func TestStripCommentsNestedBlocks(t *testing.T) {
	source := "a /* outer /* inner */ still stripped */ b // trailing\nc"
	got := stripComments(source)
	want := "a  b \nc\n"
	if got != want {
		t.Fatalf("stripComments = %q, want %q", got, want)
	}
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: vec2<f32>, b: array<vec4<f32>, 5>, c: f32")
	want := []string{"a: vec2<f32>", " b: array<vec4<f32>, 5>", " c: f32"}
	if len(parts) != len(want) {
		t.Fatalf("split into %d parts %v, want %d", len(parts), parts, len(want))
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("part %d = %q, want %q", i, parts[i], want[i])
		}
	}
}
