package main

import (
	"fmt"
	"log"
	"math"

	"groundshade/common"
	"groundshade/engine"
	"groundshade/engine/camera"
	"groundshade/engine/light"
	"groundshade/engine/material"
	"groundshade/engine/object"
	"groundshade/engine/renderer"
	"groundshade/engine/scene"
	"groundshade/engine/window"
)

const (
	terrainSize     = 96   // world units per side
	terrainVerts    = 64   // vertices per side
	unitGridSide    = 8    // units per side of the unit grid
	sunStartTick    = 720  // midday
	ticksPerGameDay = 0.25 // day ticks advanced per engine tick
)

func main() {
	// ── Engine + Window ─────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiling(true),
		engine.WithTickRate(60),
		engine.WithWindow(window.NewWindow(
			window.WithTitle("Groundshade Viewer"),
			window.WithWidth(1600),
			window.WithHeight(900),
		)),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		eng.Window(),
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	// ── Camera ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithFov(float32(50.0*math.Pi/180.0)),
		camera.WithAspect(float32(eng.Window().Width())/float32(eng.Window().Height())),
		camera.WithNear(0.1),
		camera.WithFar(2000),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(70),
			camera.WithTarget(0, 0, 0),
			camera.WithElevation(0.6),
			camera.WithAzimuth(0.8),
			camera.WithPanSpeed(0.6),
			camera.WithRadiusBounds(5, 500),
			camera.WithZoomSpeed(6.0),
			camera.WithMouseSensitivity(0.002),
		)),
	)
	cam.SetAmbient(0.25, 0.27, 0.32, 1.0)
	cam.SetResolution(uint32(eng.Window().Width()), uint32(eng.Window().Height()))

	// ── Scene ───────────────────────────────────────────────────────────
	sc := scene.NewScene("viewer", cam, r,
		scene.WithActive(true),
	)

	// ── Textures + Materials ────────────────────────────────────────────
	grass := sc.TextureTable().Add(noiseTexture(128, [4]byte{62, 118, 48, 255}, 22, 7))
	rock := sc.TextureTable().Add(noiseTexture(128, [4]byte{121, 116, 108, 255}, 16, 31))
	slopeMask := sc.TextureTable().Add(gradientMaskTexture(128))
	hull := sc.TextureTable().Add(noiseTexture(64, [4]byte{176, 52, 44, 255}, 12, 3))
	canopy := sc.TextureTable().Add(canopyTexture(64))

	groundMat := sc.AddTerrainMaterial(material.NewTerrainMaterial(
		material.WithTerrainName("ground"),
		material.WithBaseLayer(grass),
		material.WithTerrainLayer(0, rock, slopeMask),
	))
	hullMat := sc.AddUnitMaterial(material.NewUnitMaterial(
		material.WithUnitName("hull"),
		material.WithUnitLayer(0, hull),
	))
	canopyMat := sc.AddUnitMaterial(material.NewUnitMaterial(
		material.WithUnitName("canopy"),
		material.WithUnitLayer(0, canopy),
		material.WithAlphaCutout(0.4),
	))

	// ── Sun ─────────────────────────────────────────────────────────────
	sun := light.NewSunlight(sunStartTick, 1.0, 0.96, 0.88, 2.2)
	sun.UpdateShadowViewProjection(0, 0, 0, 60, light.DefaultShadowNear, light.DefaultShadowFar)
	if err := sc.AddLight(sun); err != nil {
		log.Fatalf("failed to add sun: %v", err)
	}

	// ── Terrain ─────────────────────────────────────────────────────────
	terrain := object.NewObject(object.ClassTerrain,
		object.WithMesh(buildTerrainMesh()),
		object.WithMaterialIndex(groundMat),
	)
	sc.Add(terrain, scene.VariantTerrainLit)

	// ── Units ───────────────────────────────────────────────────────────
	cube := buildCubeMesh()
	panel := buildPanelMesh()
	units := make([]object.Object, 0, unitGridSide*unitGridSide)
	for gz := 0; gz < unitGridSide; gz++ {
		for gx := 0; gx < unitGridSide; gx++ {
			x := (float32(gx) - float32(unitGridSide-1)/2) * 8
			z := (float32(gz) - float32(unitGridSide-1)/2) * 8
			u := object.NewObject(object.ClassUnit,
				object.WithMesh(cube),
				object.WithMaterialIndex(hullMat),
				object.WithPosition(x, terrainHeight(x, z)+1.2, z),
				object.WithScale(1.2, 1.2, 1.2),
			)
			sc.Add(u, scene.VariantUnitLit)
			units = append(units, u)

			// A cutout panel above every fourth unit.
			if (gx+gz)%4 == 0 {
				p := object.NewObject(object.ClassUnit,
					object.WithMesh(panel),
					object.WithMaterialIndex(canopyMat),
					object.WithPosition(x, terrainHeight(x, z)+4, z),
					object.WithScale(2.5, 1, 2.5),
				)
				sc.Add(p, scene.VariantUnitCutout)
			}
		}
	}

	if err := sc.InitResources(); err != nil {
		log.Fatalf("failed to init scene resources: %v", err)
	}
	eng.AddScene(0, sc)

	// ── Day cycle + unit motion ─────────────────────────────────────────
	dayTick := float64(sunStartTick)
	var spin float32
	setupInput(eng, cam, func(dt float32) {
		dayTick += ticksPerGameDay
		dir := light.SunDirection(int(dayTick) % light.DayTicks)
		sun.SetDirection(dir[0], dir[1], dir[2])
		tx, ty, tz := cam.Controller().Target()
		sun.UpdateShadowViewProjection(tx, ty, tz, 60, light.DefaultShadowNear, light.DefaultShadowFar)

		spin += dt
		for i, u := range units {
			u.SetRotation(0, spin*(0.4+0.05*float32(i%5)), 0)
		}
	})

	fmt.Println("Groundshade Viewer")
	fmt.Println("  WASD = pan   Q/E = up/down   scroll = zoom   middle-drag = orbit")
	eng.Run()
}

// setupInput wires camera controls in the usual layout: WASD/QE planar
// movement, middle-mouse orbit, scroll zoom. The extra callback runs each tick
// after input so the day cycle stays in step with movement.
func setupInput(eng engine.Engine, cam camera.Camera, tick func(dt float32)) {
	keyState := make(map[uint32]bool)

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		keyState[keyCode] = true
	})
	eng.Window().SetKeyUpCallback(func(keyCode uint32) {
		keyState[keyCode] = false
	})

	var dragging bool
	var lastX, lastY int32

	eng.Window().SetMiddleMouseDownCallback(func(x, y int32) {
		dragging = true
		lastX, lastY = x, y
	})
	eng.Window().SetMiddleMouseUpCallback(func(_, _ int32) {
		dragging = false
	})
	eng.Window().SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		dx := float32(x - lastX)
		dy := float32(y - lastY)
		ctrl := cam.Controller()
		ctrl.SetAzimuth(ctrl.Azimuth() + dx*ctrl.MouseSensitivity())
		ctrl.SetElevation(ctrl.Elevation() - dy*ctrl.MouseSensitivity())
		lastX, lastY = x, y
	})
	eng.Window().SetScrollCallback(func(delta float32) {
		cam.Controller().Zoom(delta)
	})

	eng.SetTickCallback(func(dt float32) {
		if keyState[common.KeyW] {
			cam.Controller().PanForward(1)
		}
		if keyState[common.KeyS] {
			cam.Controller().PanForward(-1)
		}
		if keyState[common.KeyA] {
			cam.Controller().PanRight(-1)
		}
		if keyState[common.KeyD] {
			cam.Controller().PanRight(1)
		}
		if keyState[common.KeyQ] {
			cam.Controller().PanUp(1)
		}
		if keyState[common.KeyE] {
			cam.Controller().PanUp(-1)
		}
		tick(dt)
	})
}

// terrainHeight is the analytic heightfield the terrain mesh samples: two
// crossed sine ridges over a gentle bowl.
func terrainHeight(x, z float32) float32 {
	fx := float64(x) * 0.11
	fz := float64(z) * 0.09
	h := 3.2*math.Sin(fx)*math.Cos(fz) + 1.4*math.Sin(fx*2.3+1.7)
	return float32(h)
}

// buildTerrainMesh triangulates the analytic heightfield into a terrainVerts
// x terrainVerts grid centered on the origin, with central-difference normals.
func buildTerrainMesh() object.Mesh {
	const step = float32(terrainSize) / float32(terrainVerts-1)
	const half = float32(terrainSize) / 2

	vertices := make([]object.GPUVertex, 0, terrainVerts*terrainVerts)
	for iz := 0; iz < terrainVerts; iz++ {
		for ix := 0; ix < terrainVerts; ix++ {
			x := float32(ix)*step - half
			z := float32(iz)*step - half
			hl := terrainHeight(x-step, z)
			hr := terrainHeight(x+step, z)
			hd := terrainHeight(x, z-step)
			hu := terrainHeight(x, z+step)
			n := common.Normalize3([3]float32{hl - hr, 2 * step, hd - hu})
			vertices = append(vertices, object.GPUVertex{
				Position: [3]float32{x, terrainHeight(x, z), z},
				Normal:   n,
				TexCoord: [2]float32{float32(ix) / float32(terrainVerts-1), float32(iz) / float32(terrainVerts-1)},
			})
		}
	}

	indices := make([]uint32, 0, (terrainVerts-1)*(terrainVerts-1)*6)
	for iz := 0; iz < terrainVerts-1; iz++ {
		for ix := 0; ix < terrainVerts-1; ix++ {
			a := uint32(iz*terrainVerts + ix)
			b := a + 1
			c := a + terrainVerts
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return object.NewMesh("terrain", vertices, indices)
}

// buildCubeMesh returns a unit cube with face normals and per-face UVs.
func buildCubeMesh() object.Mesh {
	type face struct {
		normal [3]float32
		corner [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	}
	uv := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]object.GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i := range 4 {
			vertices = append(vertices, object.GPUVertex{
				Position: f.corner[i],
				Normal:   f.normal,
				TexCoord: uv[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return object.NewMesh("unit_cube", vertices, indices)
}

// buildPanelMesh returns a horizontal double-indexed quad facing +Y, used for
// alpha-cutout canopies.
func buildPanelMesh() object.Mesh {
	vertices := []object.GPUVertex{
		{Position: [3]float32{-0.5, 0, 0.5}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{0.5, 0, 0.5}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{0.5, 0, -0.5}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{-0.5, 0, -0.5}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
	}
	// Both windings so the panel shades from either side.
	indices := []uint32{0, 1, 2, 0, 2, 3, 2, 1, 0, 3, 2, 0}
	return object.NewMesh("canopy_panel", vertices, indices)
}

// noiseTexture fills a size x size RGBA texture with the base color jittered
// by a small deterministic hash, giving the albedo some tonal variation
// without external assets.
func noiseTexture(size int, base [4]byte, amplitude int, seed uint32) *common.TextureStagingData {
	pixels := make([]byte, size*size*4)
	state := seed | 1
	for i := 0; i < size*size; i++ {
		state = state*1664525 + 1013904223
		jitter := int(state>>24)%(2*amplitude+1) - amplitude
		for c := 0; c < 3; c++ {
			v := int(base[c]) + jitter
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			pixels[i*4+c] = byte(v)
		}
		pixels[i*4+3] = base[3]
	}
	return &common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size)}
}

// gradientMaskTexture builds a blend mask whose alpha ramps with v, so the
// rock layer fades in toward one end of the terrain's UV range.
func gradientMaskTexture(size int) *common.TextureStagingData {
	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		a := byte(y * 255 / (size - 1))
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			pixels[i] = 255
			pixels[i+1] = 255
			pixels[i+2] = 255
			pixels[i+3] = a
		}
	}
	return &common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size)}
}

// canopyTexture builds a green texture with transparent holes punched in a
// diagonal pattern, exercising the alpha-cutout path.
func canopyTexture(size int) *common.TextureStagingData {
	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			pixels[i] = 46
			pixels[i+1] = 130
			pixels[i+2] = 62
			if (x/8+y/8)%2 == 0 {
				pixels[i+3] = 255
			} else {
				pixels[i+3] = 0
			}
		}
	}
	return &common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size)}
}
