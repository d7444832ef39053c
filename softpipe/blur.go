package softpipe

// BlurRow computes one row of the blurred occlusion buffer: a 4x4 unweighted
// box blur with taps at offsets -2..+1 on both axes. Pixels within 2 of any
// border copy through unblurred rather than sampling a clamped kernel, so the
// blur never reads outside the image.
//
// Parameters:
//   - in: the raw occlusion buffer
//   - out: the blurred occlusion buffer
//   - y: the row to compute
func BlurRow(in, out *FloatImage, y int) {
	width, height := in.Width, in.Height
	border := y < 2 || y >= height-2
	for x := 0; x < width; x++ {
		if border || x < 2 || x >= width-2 {
			out.Set(x, y, in.At(x, y))
			continue
		}
		var sum float32
		for dy := -2; dy <= 1; dy++ {
			for dx := -2; dx <= 1; dx++ {
				sum += in.At(x+dx, y+dy)
			}
		}
		out.Set(x, y, sum/16)
	}
}
