package shader

import "testing"

func TestParseAnnotationIgnoresPlainLines(t *testing.T) {
	lines := []string{
		"",
		"struct FrameUniform {",
		"@group(0) @binding(0) var<uniform> frame: FrameUniform;",
		"// a normal comment",
	}
	for _, line := range lines {
		a, err := parseAnnotation(line, 1)
		if err != nil {
			t.Fatalf("line %q returned error: %v", line, err)
		}
		if a != nil {
			t.Fatalf("line %q parsed as annotation %+v", line, a)
		}
	}
}

func TestParseAnnotationInclude(t *testing.T) {
	a, err := parseAnnotation("//@gs:include frame", 3)
	if err != nil {
		t.Fatalf("valid include rejected: %v", err)
	}
	if a.Type != annotationTypeInclude {
		t.Fatalf("type = %q, want include", a.Type)
	}
	if len(a.Args) != 1 || a.Args[0] != AnnotationArgFrame {
		t.Fatalf("args = %v, want [frame]", a.Args)
	}
	if a.Line != 3 {
		t.Fatalf("line = %d, want 3", a.Line)
	}
	if a.Group != nil || a.Binding != nil {
		t.Fatalf("include carries group/binding, want nil")
	}
}

func TestParseAnnotationBindingGroup(t *testing.T) {
	a, err := parseAnnotation("  //@gs:group 2 1 storage_read materials array<terrain_material>", 7)
	if err != nil {
		t.Fatalf("valid group annotation rejected: %v", err)
	}
	if a.Type != AnnotationTypeBindingGroup {
		t.Fatalf("type = %q, want group", a.Type)
	}
	if a.Group == nil || *a.Group != 2 || a.Binding == nil || *a.Binding != 1 {
		t.Fatalf("group/binding = %v/%v, want 2/1", a.Group, a.Binding)
	}
	want := []AnnotationArg{"storage_read", "materials", "array<terrain_material>"}
	if len(a.Args) != 3 {
		t.Fatalf("args = %v, want %v", a.Args, want)
	}
	for i := range want {
		if a.Args[i] != want[i] {
			t.Fatalf("args = %v, want %v", a.Args, want)
		}
	}
}

func TestParseAnnotationProvider(t *testing.T) {
	a, err := parseAnnotation("//@gs:provider 2 1 materials albedo_array", 1)
	if err != nil {
		t.Fatalf("valid provider annotation rejected: %v", err)
	}
	if a.Type != AnnotationTypeProvider {
		t.Fatalf("type = %q, want provider", a.Type)
	}
	if len(a.Args) != 2 || a.Args[0] != AnnotationArgMaterials || a.Args[1] != AnnotationArgAlbedoArray {
		t.Fatalf("args = %v, want [materials albedo_array]", a.Args)
	}

	// The binding role is optional.
	short, err := parseAnnotation("//@gs:provider 4 0 occlusion", 1)
	if err != nil {
		t.Fatalf("provider without role rejected: %v", err)
	}
	if len(short.Args) != 1 || short.Args[0] != AnnotationArgOcclusion {
		t.Fatalf("args = %v, want [occlusion]", short.Args)
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty annotation", "//@gs:"},
		{"unknown type", "//@gs:widget 1 2 3"},
		{"include with no argument", "//@gs:include"},
		{"include with unknown struct", "//@gs:include banana"},
		{"group with too few arguments", "//@gs:group 0 0 storage_uniform frame"},
		{"group with bad group number", "//@gs:group x 0 storage_uniform frame frame"},
		{"group with bad binding number", "//@gs:group 0 x storage_uniform frame frame"},
		{"group with unknown address space", "//@gs:group 0 0 shared frame frame"},
		{"group with unknown struct type", "//@gs:group 0 0 storage_uniform frame banana"},
		{"group with unknown array element", "//@gs:group 0 0 storage_read m array<banana>"},
		{"provider with too few arguments", "//@gs:provider 2 1"},
		{"provider with unknown identity", "//@gs:provider 2 1 banana"},
		{"provider with unknown role", "//@gs:provider 2 1 materials banana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAnnotation(tt.line, 5); err == nil {
				t.Fatalf("line %q accepted, want error", tt.line)
			}
		})
	}
}
