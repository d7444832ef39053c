package softpipe

// shadeFn is called for each covered, depth-passing pixel with the
// perspective-corrected barycentric weights of the triangle's three vertices.
// Returning false discards the fragment: depth is not written and no targets
// are touched.
type shadeFn func(x, y int, weights [3]float32) bool

// Rasterizer draws triangles against a depth buffer with a less-than depth
// test, matching the GPU pipeline's depth state. The viewport can be
// restricted to a sub-rectangle for shadow atlas tiles, and the depth buffer
// can be switched to read-only for shading against depth populated by an
// earlier pass.
type Rasterizer struct {
	depth *FloatImage

	depthReadOnly bool

	viewX, viewY int
	viewW, viewH int
}

// NewRasterizer creates a rasterizer over the given depth buffer with the
// viewport covering the whole target.
//
// Parameters:
//   - depth: the depth buffer to test and write against
//
// Returns:
//   - *Rasterizer: the new rasterizer
func NewRasterizer(depth *FloatImage) *Rasterizer {
	return &Rasterizer{
		depth: depth,
		viewW: depth.Width,
		viewH: depth.Height,
	}
}

// SetDepthReadOnly relaxes the depth test to less-or-equal and disables depth
// writes. Re-rasterizing the geometry of an earlier depth-writing pass then
// shades exactly the fragments that pass established: identical triangles
// interpolate identical depths, so the surviving surface passes on equality
// while anything behind it still fails.
func (r *Rasterizer) SetDepthReadOnly() {
	r.depthReadOnly = true
}

// SetViewport restricts rasterization to a sub-rectangle of the depth target.
// Clip-space coordinates map onto the rectangle, as with a GPU viewport.
//
// Parameters:
//   - x, y: the rectangle origin in pixels
//   - width, height: the rectangle size in pixels
func (r *Rasterizer) SetViewport(x, y, width, height int) {
	r.viewX, r.viewY = x, y
	r.viewW, r.viewH = width, height
}

// Triangle rasterizes one triangle from clip-space positions. Vertices behind
// the eye (w <= 0) reject the whole triangle rather than clipping, which is
// sufficient for reference rendering where geometry stays in front of the
// near plane. Depth is the interpolated NDC z (affine in screen space) with a
// strict less-than test, or less-or-equal in read-only mode; shade decides
// fragment survival before depth is written, so alpha-tested discard never
// pollutes the depth buffer.
//
// Parameters:
//   - clip: the three clip-space vertex positions
//   - shade: per-fragment callback; nil writes depth only
func (r *Rasterizer) Triangle(clip [3][4]float32, shade shadeFn) {
	for i := range 3 {
		if clip[i][3] <= 0 {
			return
		}
	}

	var invW [3]float32
	var sx, sy, sz [3]float32
	for i := range 3 {
		invW[i] = 1 / clip[i][3]
		ndcX := clip[i][0] * invW[i]
		ndcY := clip[i][1] * invW[i]
		sz[i] = clip[i][2] * invW[i]
		sx[i] = (ndcX*0.5 + 0.5) * float32(r.viewW)
		sy[i] = (0.5 - ndcY*0.5) * float32(r.viewH)
	}

	area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if area == 0 {
		return
	}

	minX := clampInt(int(min(sx[0], sx[1], sx[2])), 0, r.viewW-1)
	maxX := clampInt(int(max(sx[0], sx[1], sx[2]))+1, 0, r.viewW-1)
	minY := clampInt(int(min(sy[0], sy[1], sy[2])), 0, r.viewH-1)
	maxY := clampInt(int(max(sy[0], sy[1], sy[2]))+1, 0, r.viewH-1)

	invArea := 1 / area
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float32(px) + 0.5
			cy := float32(py) + 0.5

			b0 := edge(sx[1], sy[1], sx[2], sy[2], cx, cy) * invArea
			b1 := edge(sx[2], sy[2], sx[0], sy[0], cx, cy) * invArea
			b2 := edge(sx[0], sy[0], sx[1], sy[1], cx, cy) * invArea
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sz[0] + b1*sz[1] + b2*sz[2]
			if z < 0 || z > 1 {
				continue
			}

			tx := r.viewX + px
			ty := r.viewY + py
			stored := r.depth.At(tx, ty)
			if r.depthReadOnly {
				if z > stored {
					continue
				}
			} else if z >= stored {
				continue
			}

			if shade != nil {
				// Perspective-correct attribute weights.
				w0 := b0 * invW[0]
				w1 := b1 * invW[1]
				w2 := b2 * invW[2]
				invSum := 1 / (w0 + w1 + w2)
				if !shade(tx, ty, [3]float32{w0 * invSum, w1 * invSum, w2 * invSum}) {
					continue
				}
			}
			if !r.depthReadOnly {
				r.depth.Set(tx, ty, z)
			}
		}
	}
}

// edge evaluates the signed area of the triangle (ax,ay)-(bx,by)-(cx,cy).
func edge(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interpolate3 blends three 3-component attributes by rasterizer weights.
func Interpolate3(a, b, c [3]float32, w [3]float32) [3]float32 {
	return [3]float32{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
		a[2]*w[0] + b[2]*w[1] + c[2]*w[2],
	}
}

// Interpolate2 blends three 2-component attributes by rasterizer weights.
func Interpolate2(a, b, c [2]float32, w [3]float32) [2]float32 {
	return [2]float32{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
	}
}
