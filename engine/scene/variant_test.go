package scene

import (
	"testing"

	"groundshade/engine/object"
)

func TestVariantClass(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		want    object.Class
	}{
		{"terrain lit", VariantTerrainLit, object.ClassTerrain},
		{"terrain unlit", VariantTerrainUnlit, object.ClassTerrain},
		{"unit opaque", VariantUnitOpaque, object.ClassUnit},
		{"unit cutout", VariantUnitCutout, object.ClassUnit},
		{"unit lit", VariantUnitLit, object.ClassUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.variant.class(); got != tt.want {
				t.Fatalf("class() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariantPipelineKeys(t *testing.T) {
	tests := []struct {
		name     string
		variant  Variant
		color    string
		prepass  string
		shadow   string
		occluded bool
	}{
		{"terrain lit", VariantTerrainLit, PipelineTerrainLit, PipelinePrepass, PipelineShadowTerrain, true},
		{"terrain unlit", VariantTerrainUnlit, PipelineTerrainUnlit, PipelinePrepass, PipelineShadowTerrain, false},
		{"unit opaque", VariantUnitOpaque, PipelineUnitsOpaque, PipelinePrepassUnitsOpaque, PipelineShadowUnits, false},
		{"unit cutout", VariantUnitCutout, PipelineUnitsCutout, PipelinePrepassCutout, PipelineShadowUnits, false},
		{"unit lit", VariantUnitLit, PipelineUnitsLit, PipelinePrepassCutout, PipelineShadowUnits, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.variant.pipelineKey(); got != tt.color {
				t.Fatalf("pipelineKey() = %q, want %q", got, tt.color)
			}
			if got := tt.variant.prepassKey(); got != tt.prepass {
				t.Fatalf("prepassKey() = %q, want %q", got, tt.prepass)
			}
			if got := tt.variant.shadowKey(); got != tt.shadow {
				t.Fatalf("shadowKey() = %q, want %q", got, tt.shadow)
			}
			if got := tt.variant.usesOcclusion(); got != tt.occluded {
				t.Fatalf("usesOcclusion() = %v, want %v", got, tt.occluded)
			}
		})
	}
}

func TestPipelineKeysAreDistinct(t *testing.T) {
	keys := []string{
		PipelinePrepass, PipelinePrepassCutout, PipelinePrepassUnitsOpaque,
		PipelineSsaoMain, PipelineSsaoBlur,
		PipelineShadowTerrain, PipelineShadowUnits,
		PipelineTerrainLit, PipelineTerrainUnlit,
		PipelineUnitsOpaque, PipelineUnitsCutout, PipelineUnitsLit,
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			t.Fatalf("pipeline key %q registered twice", k)
		}
		seen[k] = true
	}
}
