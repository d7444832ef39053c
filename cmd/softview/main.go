// Command softview renders the same pass graph as the GPU viewer entirely on
// the CPU and presents the result through Ebitengine. It exists to eyeball the
// reference pipeline against the WebGPU output without a GPU in the loop.
package main

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"groundshade/common"
	"groundshade/engine/camera"
	"groundshade/engine/light"
	"groundshade/engine/material"
	"groundshade/engine/object"
	"groundshade/softpipe"
)

const (
	renderWidth  = 480
	renderHeight = 270

	terrainSize  = 60
	terrainVerts = 48
	unitGridSide = 5

	sunStartTick    = 720
	ticksPerFrame   = 1
	shadowExtent    = 45
	atlasResolution = 1024
)

type game struct {
	pipeline *softpipe.Pipeline
	sc       softpipe.SceneData
	draws    []softpipe.Draw
	sun      light.DirectionalLight

	azimuth float32
	dayTick int

	frame []byte
}

func newGame() *game {
	g := &game{
		pipeline: softpipe.NewPipeline(renderWidth, renderHeight,
			softpipe.WithShadowAtlasResolution(atlasResolution)),
		azimuth: 0.8,
		dayTick: sunStartTick,
		frame:   make([]byte, renderWidth*renderHeight*4),
	}

	// Textures are 1-based; index 0 is the absent sentinel.
	g.sc.Textures = []*softpipe.Texture{
		softpipe.NewTextureFromStaging(noiseTexture(64, [4]byte{62, 118, 48, 255}, 22, 7)),
		softpipe.NewTextureFromStaging(noiseTexture(64, [4]byte{121, 116, 108, 255}, 16, 31)),
		softpipe.NewTextureFromStaging(gradientMaskTexture(64)),
		softpipe.NewTextureFromStaging(noiseTexture(32, [4]byte{176, 52, 44, 255}, 12, 3)),
	}

	groundGPU := material.NewTerrainMaterial(
		material.WithTerrainName("ground"),
		material.WithBaseLayer(1),
		material.WithTerrainLayer(0, 2, 3),
	).ToGPU()
	hullGPU := material.NewUnitMaterial(
		material.WithUnitName("hull"),
		material.WithUnitLayer(0, 4),
	).ToGPU()
	g.sc.TerrainMaterials = []material.GPUTerrainMaterial{groundGPU}
	g.sc.UnitMaterials = []material.GPUUnitMaterial{hullGPU}

	g.sun = light.NewSunlight(sunStartTick, 1.0, 0.96, 0.88, 2.2)
	g.sun.SetResolution(atlasResolution)
	g.sun.UpdateShadowViewProjection(0, 0, 0, shadowExtent, light.DefaultShadowNear, light.DefaultShadowFar)

	// Object 0 is the terrain; the unit cubes follow.
	var identity [16]float32
	common.Identity(identity[:])
	g.sc.Objects = append(g.sc.Objects, object.GPUObjectData{Transform: identity, MaterialIndex: 0})

	unitInstances := make([]int, 0, unitGridSide*unitGridSide)
	for gz := 0; gz < unitGridSide; gz++ {
		for gx := 0; gx < unitGridSide; gx++ {
			x := (float32(gx) - float32(unitGridSide-1)/2) * 9
			z := (float32(gz) - float32(unitGridSide-1)/2) * 9
			var transform [16]float32
			common.BuildModelMatrix(transform[:], x, terrainHeight(x, z)+1.2, z, 0, 0.3*float32(gx+gz), 0, 1.6, 1.6, 1.6)
			unitInstances = append(unitInstances, len(g.sc.Objects))
			g.sc.Objects = append(g.sc.Objects, object.GPUObjectData{Transform: transform, MaterialIndex: 0})
		}
	}

	g.draws = []softpipe.Draw{
		{Variant: softpipe.TerrainLit, Mesh: buildTerrainMesh(), Instances: []int{0}},
		{Variant: softpipe.UnitLit, Mesh: buildCubeMesh(), Instances: unitInstances},
	}

	return g
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.azimuth -= 0.03
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.azimuth += 0.03
	}

	g.dayTick = (g.dayTick + ticksPerFrame) % light.DayTicks
	dir := light.SunDirection(g.dayTick)
	g.sun.SetDirection(dir[0], dir[1], dir[2])
	g.sun.UpdateShadowViewProjection(0, 0, 0, shadowExtent, light.DefaultShadowNear, light.DefaultShadowFar)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.sc.Frame = g.frameUniform()
	g.sc.Lights = []light.GPUDirectionalLight{light.ToGPULight(g.sun)}

	color := g.pipeline.RenderFrame(&g.sc, g.draws)
	for y := 0; y < renderHeight; y++ {
		for x := 0; x < renderWidth; x++ {
			c := color.At(x, y)
			i := (y*renderWidth + x) * 4
			g.frame[i] = linearToSRGB(c[0])
			g.frame[i+1] = linearToSRGB(c[1])
			g.frame[i+2] = linearToSRGB(c[2])
			g.frame[i+3] = 255
		}
	}
	screen.WritePixels(g.frame)
}

func (g *game) Layout(_, _ int) (int, int) {
	return renderWidth, renderHeight
}

// frameUniform assembles the per-frame camera uniform for an orbit camera at
// the current azimuth, matching what the GPU path uploads each frame.
func (g *game) frameUniform() camera.GPUFrameUniform {
	const radius = 55.0
	const elevation = 0.55

	eyeX := radius * float32(math.Cos(float64(elevation))*math.Sin(float64(g.azimuth)))
	eyeY := radius * float32(math.Sin(float64(elevation)))
	eyeZ := radius * float32(math.Cos(float64(elevation))*math.Cos(float64(g.azimuth)))

	var fu camera.GPUFrameUniform
	var proj [16]float32
	common.LookAt(fu.View[:], eyeX, eyeY, eyeZ, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], float32(50.0*math.Pi/180.0), float32(renderWidth)/float32(renderHeight), 0.1, 500)
	common.Mul4(fu.ViewProj[:], proj[:], fu.View[:])
	common.Invert4(fu.InvView[:], fu.View[:])
	common.Invert4(fu.InvViewProj[:], fu.ViewProj[:])
	fu.Ambient = [4]float32{0.25, 0.27, 0.32, 1}
	fu.Resolution = [2]uint32{renderWidth, renderHeight}
	return fu
}

func linearToSRGB(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	var s float64
	if v <= 0.0031308 {
		s = 12.92 * float64(v)
	} else {
		s = 1.055*math.Pow(float64(v), 1/2.4) - 0.055
	}
	return byte(s*255 + 0.5)
}

func terrainHeight(x, z float32) float32 {
	fx := float64(x) * 0.11
	fz := float64(z) * 0.09
	h := 3.2*math.Sin(fx)*math.Cos(fz) + 1.4*math.Sin(fx*2.3+1.7)
	return float32(h)
}

func buildTerrainMesh() softpipe.Mesh {
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

	return softpipe.Mesh{Vertices: vertices, Indices: indices}
}

func buildCubeMesh() softpipe.Mesh {
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

	return softpipe.Mesh{Vertices: vertices, Indices: indices}
}

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

func main() {
	ebiten.SetWindowSize(renderWidth*2, renderHeight*2)
	ebiten.SetWindowTitle("Groundshade Softview")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
