package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUDirectionalLightMarshalLayout(t *testing.T) {
	g := GPUDirectionalLight{
		Direction:     [3]float32{0.1, 0.2, 0.3},
		Color:         [4]float32{0.4, 0.5, 0.6, 1},
		AtlasOffset:   [2]float32{0.5, 0},
		AtlasSize:     [2]float32{0.5, 0.5},
		InvResolution: [2]float32{1.0 / 2048, 1.0 / 2048},
	}
	for i := range 16 {
		g.ViewProj[i] = float32(i)
	}

	if g.Size() != 128 {
		t.Fatalf("Size() = %d, want 128", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 128 {
		t.Fatalf("Marshal() produced %d bytes, want 128", len(buf))
	}

	for i := range 16 {
		if got := f32At(t, buf, i*4); got != float32(i) {
			t.Fatalf("ViewProj[%d] at offset %d = %v, want %v", i, i*4, got, float32(i))
		}
	}
	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{"direction x", 64, 0.1},
		{"direction z", 72, 0.3},
		{"pad after direction", 76, 0},
		{"color r", 80, 0.4},
		{"color a", 92, 1},
		{"atlas offset u", 96, 0.5},
		{"atlas offset v", 100, 0},
		{"atlas size u", 104, 0.5},
		{"inverse resolution u", 112, 1.0 / 2048},
		{"tail padding", 120, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f32At(t, buf, tt.offset); got != tt.want {
				t.Fatalf("offset %d = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestGPULightListHeaderMarshal(t *testing.T) {
	h := GPULightListHeader{LightCount: 5}
	if h.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", h.Size())
	}
	buf := h.Marshal()
	if len(buf) != 16 {
		t.Fatalf("Marshal() produced %d bytes, want 16", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf); got != 5 {
		t.Fatalf("light count = %d, want 5", got)
	}
	for i := 4; i < 16; i++ {
		if buf[i] != 0 {
			t.Fatalf("padding byte %d = %d, want 0", i, buf[i])
		}
	}
}

func TestToGPULightPremultipliesIntensity(t *testing.T) {
	l := NewDirectionalLight(
		WithColor(0.5, 0.25, 1),
		WithIntensity(2),
	)
	g := ToGPULight(l)
	if want := [4]float32{1, 0.5, 2, 1}; g.Color != want {
		t.Fatalf("premultiplied color = %v, want %v", g.Color, want)
	}
	if g.Direction != l.Direction() {
		t.Fatalf("direction = %v, want %v", g.Direction, l.Direction())
	}
	if g.AtlasSize != l.AtlasSize() {
		t.Fatalf("atlas size = %v, want %v", g.AtlasSize, l.AtlasSize())
	}
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	a := NewDirectionalLight()
	b := NewDirectionalLight(WithEnabled(false))
	c := NewDirectionalLight(WithIntensity(3))

	buf := MarshalLightBuffer([]DirectionalLight{a, b, c})
	if want := 16 + 2*128; len(buf) != want {
		t.Fatalf("buffer length = %d, want %d (header + 2 lights)", len(buf), want)
	}
	if got := binary.LittleEndian.Uint32(buf); got != 2 {
		t.Fatalf("header light count = %d, want 2", got)
	}
	// The second record must be light c, not the disabled b: its color is
	// premultiplied by intensity 3.
	if got := f32At(t, buf, 16+128+80); got != 3 {
		t.Fatalf("second record color r = %v, want 3", got)
	}
}

func TestMarshalLightBufferCapsAtMaxGPULights(t *testing.T) {
	lights := make([]DirectionalLight, MaxGPULights+4)
	for i := range lights {
		lights[i] = NewDirectionalLight()
	}
	buf := MarshalLightBuffer(lights)
	if want := 16 + MaxGPULights*128; len(buf) != want {
		t.Fatalf("buffer length = %d, want %d (capped at %d lights)", len(buf), want, MaxGPULights)
	}
	if got := binary.LittleEndian.Uint32(buf); got != MaxGPULights {
		t.Fatalf("header light count = %d, want %d", got, MaxGPULights)
	}
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewDirectionalLight()
	l.SetDirection(0, -2, 0)
	if want := [3]float32{0, -1, 0}; l.Direction() != want {
		t.Fatalf("direction = %v, want normalized %v", l.Direction(), want)
	}
}

func TestDirectionalLightDefaults(t *testing.T) {
	l := NewDirectionalLight()
	if !l.Enabled() || !l.CastsShadows() {
		t.Fatalf("new light enabled=%v castsShadows=%v, want both true", l.Enabled(), l.CastsShadows())
	}
	if l.Resolution() != DefaultShadowMapResolution {
		t.Fatalf("resolution = %d, want %d", l.Resolution(), DefaultShadowMapResolution)
	}
	inv := l.InverseResolution()
	if want := float32(1) / DefaultShadowMapResolution; inv[0] != want || inv[1] != want {
		t.Fatalf("inverse resolution = %v, want %v per axis", inv, want)
	}
	if want := ([2]float32{1, 1}); l.AtlasSize() != want {
		t.Fatalf("atlas size = %v, want the whole atlas %v", l.AtlasSize(), want)
	}
}

func TestSetAtlasRect(t *testing.T) {
	l := NewDirectionalLight()
	l.SetAtlasRect(0.5, 0, 0.5, 0.5)
	l.SetResolution(2048)
	if want := ([2]float32{0.5, 0}); l.AtlasOffset() != want {
		t.Fatalf("atlas offset = %v, want %v", l.AtlasOffset(), want)
	}
	if want := ([2]float32{0.5, 0.5}); l.AtlasSize() != want {
		t.Fatalf("atlas size = %v, want %v", l.AtlasSize(), want)
	}
}

func TestSunDirectionUnitLengthAndPeriodic(t *testing.T) {
	for _, tick := range []int{0, 360, 720, 1440, 2160, 2879} {
		d := SunDirection(tick)
		length := float32(math.Sqrt(float64(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])))
		if math.Abs(float64(length-1)) > 1e-5 {
			t.Fatalf("sun direction at tick %d has length %v, want 1", tick, length)
		}
	}

	// A full day wraps back to the same direction, including negative ticks.
	if SunDirection(0) != SunDirection(DayTicks) {
		t.Fatalf("tick 0 and tick %d disagree: %v vs %v", DayTicks, SunDirection(0), SunDirection(DayTicks))
	}
	if SunDirection(720) != SunDirection(720-DayTicks) {
		t.Fatalf("negative tick did not wrap: %v vs %v", SunDirection(720), SunDirection(720-DayTicks))
	}
}

func TestSunDirectionMiddayDiffersFromMidnight(t *testing.T) {
	if SunDirection(0) == SunDirection(720) {
		t.Fatalf("midnight and midday sun directions are identical: %v", SunDirection(0))
	}
	// The elevation cycle is symmetric: the two band peaks match.
	if SunDirection(720) != SunDirection(2160) {
		t.Fatalf("the two daily elevation peaks disagree: %v vs %v", SunDirection(720), SunDirection(2160))
	}
}

func TestNewSunlightNormalizesColor(t *testing.T) {
	l := NewSunlight(720, 2, 0, 0, 5)
	if want := [3]float32{1, 0, 0}; l.Color() != want {
		t.Fatalf("sunlight color = %v, want normalized %v", l.Color(), want)
	}
	if l.Intensity() != 5 {
		t.Fatalf("sunlight intensity = %v, want 5", l.Intensity())
	}
	if l.Direction() != SunDirection(720) {
		t.Fatalf("sunlight direction = %v, want %v", l.Direction(), SunDirection(720))
	}
}
