package shader

import (
	"strings"
	"testing"
)

func TestProcessIncludeInjectsStructSource(t *testing.T) {
	p := NewPreProcessor()
	source := "//@gs:include frame\n\nfn main() {}"
	got, err := p.Process(source)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.Contains(got, "struct FrameUniform {") {
		t.Fatalf("processed source missing the injected struct:\n%s", got)
	}
	if strings.Contains(got, "@gs:") {
		t.Fatalf("annotation survived processing:\n%s", got)
	}
	if !strings.Contains(got, "fn main() {}") {
		t.Fatalf("plain source lines were not preserved:\n%s", got)
	}
}

func TestProcessGroupGeneratesDeclaration(t *testing.T) {
	p := NewPreProcessor()
	got, err := p.Process("//@gs:group 0 0 storage_uniform frame frame")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := "@group(0) @binding(0) var<uniform> frame: FrameUniform;"
	if got != want {
		t.Fatalf("generated declaration = %q, want %q", got, want)
	}

	decls := p.Declarations()
	if len(decls) != 1 {
		t.Fatalf("recorded %d declarations, want 1", len(decls))
	}
	d := decls[0]
	if d.Type != AnnotationTypeBindingGroup || *d.Group != 0 || *d.Binding != 0 {
		t.Fatalf("declaration = %+v, want group annotation at 0/0", d)
	}
}

func TestProcessGroupArrayType(t *testing.T) {
	p := NewPreProcessor()
	got, err := p.Process("//@gs:group 1 0 storage_read objects array<object_data>")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := "@group(1) @binding(0) var<storage, read> objects: array<ObjectData>;"
	if got != want {
		t.Fatalf("generated declaration = %q, want %q", got, want)
	}
}

func TestProcessGroupReadWrite(t *testing.T) {
	p := NewPreProcessor()
	got, err := p.Process("//@gs:group 0 2 storage_read_write lights light_list")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := "@group(0) @binding(2) var<storage, read_write> lights: LightList;"
	if got != want {
		t.Fatalf("generated declaration = %q, want %q", got, want)
	}
}

func TestProcessProviderRecordsWithoutOutput(t *testing.T) {
	p := NewPreProcessor()
	source := strings.Join([]string{
		"//@gs:provider 2 1 materials albedo_array",
		"@group(2) @binding(1) var albedo: texture_2d_array<f32>;",
	}, "\n")
	got, err := p.Process(source)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	// The hand-written binding below the annotation is the only surviving line.
	if got != "@group(2) @binding(1) var albedo: texture_2d_array<f32>;" {
		t.Fatalf("provider annotation changed the output:\n%s", got)
	}

	decls := p.Declarations()
	if len(decls) != 1 {
		t.Fatalf("recorded %d declarations, want 1", len(decls))
	}
	d := decls[0]
	if d.Type != AnnotationTypeProvider || *d.Group != 2 || *d.Binding != 1 {
		t.Fatalf("declaration = %+v, want provider annotation at 2/1", d)
	}
	if len(d.Args) != 2 || d.Args[0] != AnnotationArgMaterials || d.Args[1] != AnnotationArgAlbedoArray {
		t.Fatalf("declaration args = %v, want [materials albedo_array]", d.Args)
	}
}

func TestProcessDeclarationsResetBetweenCalls(t *testing.T) {
	p := NewPreProcessor()
	if _, err := p.Process("//@gs:group 0 0 storage_uniform frame frame"); err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	if len(p.Declarations()) != 1 {
		t.Fatalf("first call recorded %d declarations, want 1", len(p.Declarations()))
	}

	if _, err := p.Process("fn main() {}"); err != nil {
		t.Fatalf("second Process failed: %v", err)
	}
	if len(p.Declarations()) != 0 {
		t.Fatalf("declarations carried over between calls: %v", p.Declarations())
	}
}

func TestProcessDeclarationsKeepSourceOrder(t *testing.T) {
	p := NewPreProcessor()
	source := strings.Join([]string{
		"//@gs:group 0 0 storage_uniform frame frame",
		"//@gs:provider 1 0 objects",
		"//@gs:group 2 0 storage_read materials array<terrain_material>",
	}, "\n")
	if _, err := p.Process(source); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	decls := p.Declarations()
	if len(decls) != 3 {
		t.Fatalf("recorded %d declarations, want 3", len(decls))
	}
	wantGroups := []int{0, 1, 2}
	for i, d := range decls {
		if *d.Group != wantGroups[i] {
			t.Fatalf("declaration %d has group %d, want %d", i, *d.Group, wantGroups[i])
		}
	}
	if decls[1].Type != AnnotationTypeProvider {
		t.Fatalf("declaration 1 type = %q, want provider", decls[1].Type)
	}
}

func TestProcessRejectsMalformedAnnotation(t *testing.T) {
	p := NewPreProcessor()
	if _, err := p.Process("fn main() {}\n//@gs:group 0 0 storage_uniform frame"); err == nil {
		t.Fatalf("malformed annotation accepted")
	}
	if _, err := p.Process("//@gs:include banana"); err == nil {
		t.Fatalf("unknown include struct accepted")
	}
}
