package light

import "math"

// DayTicks is the number of ticks in a full day cycle. Time-of-day values are
// expressed in half-minutes, so a day spans 2880 ticks.
const DayTicks = 2880

// sunBand is one keyframe of a piecewise-linear time-of-day band.
type sunBand struct {
	tick  int
	value float32
}

// Sun elevation (phi) and azimuth (theta) keyframes over the day cycle,
// in radians. Phi dips at midday and recovers toward midnight; theta is
// constant. Values are empirical, matched to the reference sky model.
var (
	sunPhiBands = []sunBand{
		{0, 2.2165682},
		{720, 1.9198623},
		{1440, 2.2165682},
		{2160, 1.9198623},
	}
	sunThetaBands = []sunBand{
		{0, 3.926991},
		{720, 3.926991},
		{1440, 3.926991},
		{2160, 3.926991},
	}
)

// SunDirection derives the sun's direction for a time of day, given in ticks
// (half-minutes, 0 to DayTicks). Spherical angles are interpolated from the
// band tables and converted to a unit direction vector.
//
// Parameters:
//   - dayTicks: time of day in half-minutes, wrapped into [0, DayTicks)
//
// Returns:
//   - [3]float32: unit direction of the sunlight
func SunDirection(dayTicks int) [3]float32 {
	phi := interpolateBand(sunPhiBands, dayTicks)
	theta := interpolateBand(sunThetaBands, dayTicks)
	return sphericalToCartesian(1.0, phi, theta)
}

// NewSunlight creates a directional light following the sun's position for the
// given time of day, with the provided color normalized to unit length so
// intensity alone controls brightness.
//
// Parameters:
//   - dayTicks: time of day in half-minutes
//   - r, g, b: sun color components
//   - intensity: scalar intensity multiplier
//
// Returns:
//   - DirectionalLight: the configured sunlight
func NewSunlight(dayTicks int, r, g, b, intensity float32) DirectionalLight {
	dir := SunDirection(dayTicks)
	c := normalize3(r, g, b)
	return NewDirectionalLight(
		WithDirection(dir[0], dir[1], dir[2]),
		WithColor(c[0], c[1], c[2]),
		WithIntensity(intensity),
	)
}

// interpolateBand linearly interpolates a band table at the given tick,
// wrapping around the day boundary. Bands must be sorted by tick.
func interpolateBand(bands []sunBand, tick int) float32 {
	tick = ((tick % DayTicks) + DayTicks) % DayTicks

	prev := bands[len(bands)-1]
	for _, b := range bands {
		if tick < b.tick {
			span := b.tick - prev.tick
			if span < 0 {
				span += DayTicks
			}
			offset := tick - prev.tick
			if offset < 0 {
				offset += DayTicks
			}
			if span == 0 {
				return prev.value
			}
			t := float32(offset) / float32(span)
			return prev.value + (b.value-prev.value)*t
		}
		prev = b
	}

	// Past the last keyframe: wrap toward the first.
	first := bands[0]
	span := first.tick + DayTicks - prev.tick
	offset := tick - prev.tick
	if span == 0 {
		return prev.value
	}
	t := float32(offset) / float32(span)
	return prev.value + (first.value-prev.value)*t
}

// sphericalToCartesian converts spherical coordinates (radius rho, polar phi,
// azimuthal theta) to a cartesian vector.
func sphericalToCartesian(rho, phi, theta float32) [3]float32 {
	sinPhi := float32(math.Sin(float64(phi)))
	return [3]float32{
		sinPhi * float32(math.Cos(float64(theta))) * rho,
		sinPhi * float32(math.Sin(float64(theta))) * rho,
		float32(math.Cos(float64(phi))) * rho,
	}
}
