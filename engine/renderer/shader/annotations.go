// annotations.go defines the annotation types, argument constants, and parser for
// the groundshade WGSL shader pre-processor. Annotations are single-line WGSL
// comments prefixed with @gs: that drive automatic struct injection, bind group
// declaration, and resource provider registration. The parsed results are stored
// as Annotation values and consumed by the PreProcessor and the renderer to wire
// GPU resources without manual low-level plumbing.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies a groundshade annotation within
// a WGSL comment line. Every annotation must appear on a line beginning with
// "//" followed by this prefix.
const annotationPrefix = "@gs:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
// Each type corresponds to a distinct pre-processor action and produces different
// fields on the resulting Annotation struct.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// into the shader at the annotation site. The struct source is embedded from the
	// corresponding Go GPU type's .wgsl asset file. This annotation does not produce
	// a declaration and is consumed entirely during pre-processing.
	//
	// Syntax: //@gs:include <struct_type>
	//
	// Example: //@gs:include frame
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list. The declaration
	// carries the group index, binding index, and the resolved struct type, enabling the
	// renderer to semantically match bindings to resource providers without string lookups.
	//
	// Syntax: //@gs:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@gs:group 0 0 storage_uniform frame frame
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a resource provider identity for a group and binding
	// without generating any WGSL output. The WGSL binding declaration remains hand-written
	// in the shader source directly below the annotation. This is used for bindings that
	// contain raw WGSL types (textures, samplers) which have no corresponding registered
	// struct in the pre-processor's struct registry.
	//
	// An optional binding role can be appended after the provider identity to declare the
	// semantic purpose of an individual binding within a multi-binding provider group.
	// This allows the renderer to resolve binding indices from declarations instead of
	// relying on variable-name string matching.
	//
	// Syntax:
	//   //@gs:provider <group> <binding> <provider_identity>
	//   //@gs:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Examples:
	//   //@gs:provider 2 1 materials albedo_array
	//   //@gs:provider 4 0 occlusion
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @gs: annotation from a WGSL shader source line.
// It carries the annotation type, its arguments, the source line number, and optional
// group/binding indices. Annotations of type AnnotationTypeBindingGroup and
// AnnotationTypeProvider are appended to the PreProcessor's declarations list for
// consumption by the renderer during resource wiring.
type Annotation struct {
	// Type identifies which annotation was parsed (include, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "frame")
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key
	//   - provider: [0] = provider identity (e.g. "materials"), [1] = binding role (optional, e.g. "albedo_array")
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source where this annotation
	// was found. Used for error reporting.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
// Arguments fall into three categories: struct type keys (used with include and group),
// address space identifiers (used with group), and provider identity keys (used with provider).
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────
// These identify registered WGSL struct types. They can appear in @gs:include
// annotations (to inject the struct source) and in @gs:group annotations (as the
// type field, optionally wrapped in array<>). Each maps to a Go GPU type with an
// embedded .wgsl asset file.

const (
	// AnnotationArgFrame identifies the FrameUniform struct.
	// Source: engine/camera/assets/frame_uniform.wgsl
	AnnotationArgFrame AnnotationArg = "frame"

	// annotationArgVertex identifies the VertexInput struct shared by all mesh pipelines.
	// Source: engine/object/assets/vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgObjectData identifies the ObjectData struct holding per-instance transforms.
	// Source: engine/object/assets/object_data.wgsl
	AnnotationArgObjectData AnnotationArg = "object_data"

	// AnnotationArgTerrainMaterial identifies the TerrainMaterial record struct.
	// Source: engine/material/assets/terrain_material.wgsl
	AnnotationArgTerrainMaterial AnnotationArg = "terrain_material"

	// AnnotationArgUnitMaterial identifies the UnitMaterial record struct.
	// Source: engine/material/assets/unit_material.wgsl
	AnnotationArgUnitMaterial AnnotationArg = "unit_material"

	// AnnotationArgLight identifies the DirectionalLight struct for per-light GPU data.
	// Source: engine/light/assets/directional_light.wgsl
	AnnotationArgLight AnnotationArg = "light"

	// AnnotationArgLightList identifies the LightList struct (header plus light records).
	// Source: engine/light/assets/light_list.wgsl
	AnnotationArgLightList AnnotationArg = "light_list"

	// AnnotationArgSsaoKernel identifies the SsaoKernel uniform struct of hemisphere samples.
	// Source: engine/renderer/ssao/assets/ssao_kernel.wgsl
	AnnotationArgSsaoKernel AnnotationArg = "ssao_kernel"
)

// ── Address space arguments ────────────────────────────────────────────────────
// These specify the WGSL variable address space in @gs:group annotations.
// They map to WGSL var<> declarations.

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"

	// annotationArgStorageTypeReadWrite maps to var<storage, read_write> in WGSL.
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// ── Provider identity arguments ────────────────────────────────────────────────
// These identify which renderer-level resource provider owns a bind group. Used
// in @gs:provider annotations and matched by the renderer's draw call and compute
// setup logic to wire the correct BindGroupProvider for each group.

const (
	// AnnotationArgMaterials identifies the material provider (material storage,
	// albedo array texture, sampler).
	AnnotationArgMaterials AnnotationArg = "materials"

	// AnnotationArgObjects identifies the per-instance object data provider.
	AnnotationArgObjects AnnotationArg = "objects"

	// AnnotationArgLights identifies the light provider (light list storage,
	// shadow atlas depth texture, comparison sampler).
	AnnotationArgLights AnnotationArg = "lights"

	// AnnotationArgOcclusion identifies the blurred ambient occlusion texture
	// provider consumed by the occlusion-aware shading passes.
	AnnotationArgOcclusion AnnotationArg = "occlusion"

	// AnnotationArgSsao identifies the occlusion compute provider (prepass depth
	// and normal targets, kernel uniform, noise texture, storage outputs).
	AnnotationArgSsao AnnotationArg = "ssao"
)

// ── Binding role arguments ─────────────────────────────────────────────────────
// These qualify individual bindings within a multi-binding provider group. They
// appear as the optional fourth argument of an @gs:provider annotation, telling
// the renderer which texture or sampler role each binding fulfils without relying
// on variable-name string matching.

const (
	// AnnotationArgAlbedoArray identifies the shared 2D array texture addressed
	// by material layer indices.
	AnnotationArgAlbedoArray AnnotationArg = "albedo_array"

	// AnnotationArgAlbedoSampler identifies the repeat-wrap sampler paired with
	// the albedo array.
	AnnotationArgAlbedoSampler AnnotationArg = "albedo_sampler"

	// AnnotationArgShadowAtlas identifies the shadow atlas depth texture binding.
	AnnotationArgShadowAtlas AnnotationArg = "shadow_atlas"

	// AnnotationArgShadowSampler identifies the comparison sampler paired with
	// the shadow atlas.
	AnnotationArgShadowSampler AnnotationArg = "shadow_sampler"

	// AnnotationArgDepthTexture identifies the multisampled prepass depth target.
	AnnotationArgDepthTexture AnnotationArg = "depth_texture"

	// AnnotationArgNormalTexture identifies the multisampled prepass view-space
	// normal target.
	AnnotationArgNormalTexture AnnotationArg = "normal_texture"

	// AnnotationArgNoiseTexture identifies the 4x4 rotation-noise tile texture.
	AnnotationArgNoiseTexture AnnotationArg = "noise_texture"

	// AnnotationArgKernelUniform identifies the hemisphere sample kernel uniform.
	AnnotationArgKernelUniform AnnotationArg = "kernel_uniform"

	// AnnotationArgOcclusionRaw identifies the unblurred occlusion texture, the
	// main occlusion pass's output and the blur pass's input.
	AnnotationArgOcclusionRaw AnnotationArg = "occlusion_raw"

	// AnnotationArgOcclusionBlurred identifies the blurred occlusion texture
	// sampled by the shading passes.
	AnnotationArgOcclusionBlurred AnnotationArg = "occlusion_blurred"
)

// validStructTypes lists all AnnotationArg values that are accepted as struct type
// arguments in @gs:include and @gs:group annotations. Each entry must have a
// corresponding registryEntry in the PreProcessor's structRegistry.
var validStructTypes = []AnnotationArg{
	AnnotationArgFrame,
	annotationArgVertex,
	AnnotationArgObjectData,
	AnnotationArgTerrainMaterial,
	AnnotationArgUnitMaterial,
	AnnotationArgLight,
	AnnotationArgLightList,
	AnnotationArgSsaoKernel,
}

// validAddressSpaces lists all AnnotationArg values that are accepted as address
// space arguments in @gs:group annotations. Each maps to a WGSL var<> declaration.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

// validProviderIdentities lists all AnnotationArg values that are accepted as
// provider identity arguments in @gs:provider annotations. Each maps to a
// renderer-level resource provider used during draw call and compute setup wiring.
var validProviderIdentities = []AnnotationArg{
	AnnotationArgFrame,
	AnnotationArgObjects,
	AnnotationArgMaterials,
	AnnotationArgLights,
	AnnotationArgOcclusion,
	AnnotationArgSsao,
}

// validBindingRoles lists all AnnotationArg values that are accepted as binding
// role qualifiers in @gs:provider annotations. These identify the semantic purpose
// of individual bindings within a multi-binding provider group.
var validBindingRoles = []AnnotationArg{
	AnnotationArgAlbedoArray,
	AnnotationArgAlbedoSampler,
	AnnotationArgShadowAtlas,
	AnnotationArgShadowSampler,
	AnnotationArgDepthTexture,
	AnnotationArgNormalTexture,
	AnnotationArgNoiseTexture,
	AnnotationArgKernelUniform,
	AnnotationArgOcclusionRaw,
	AnnotationArgOcclusionBlurred,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @gs: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax or unknown arguments.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @gs annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @gs include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @gs include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @gs group annotation requires exactly five arguments (group number, binding number, address space, var name, struct type)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @gs group annotation: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @gs group annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @gs group annotation", lineNum, args[3])
		}
		typeArg := args[5]
		if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
			inner = strings.TrimSuffix(inner, ">")
			if !slices.Contains(validStructTypes, AnnotationArg(inner)) {
				return nil, fmt.Errorf("line %d: unknown array element type %q in @gs group annotation", lineNum, inner)
			}
		} else {
			if !slices.Contains(validStructTypes, AnnotationArg(typeArg)) {
				return nil, fmt.Errorf("line %d: unknown struct type %q in @gs group annotation", lineNum, typeArg)
			}
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @gs provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @gs provider annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @gs provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @gs provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @gs annotation type %q", lineNum, args[0])
	}
}
