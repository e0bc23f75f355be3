package render

import "image/color"

// Scene colors.
var (
	SkyTop    = hex(0x1e2460)
	SkyBottom = hex(0xff7e47) // Also the fog color
	Sandstone = hex(0xc2b280)
	Gold      = hex(0xffd700)
	Peach     = hex(0xffdab9)
	Hair      = hex(0x000000)
	Saffron   = hex(0xff9933)
	Maroon    = hex(0x800000)
)

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Lerp blends from a to b by t in [0, 1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// Shade scales a color's brightness by f.
func Shade(c color.RGBA, f float64) color.RGBA {
	f = max(f, 0)
	mul := func(x uint8) uint8 {
		return uint8(min(float64(x)*f, 255))
	}
	return color.RGBA{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

// Fog fades colors toward Color linearly between Near and Far view depth.
type Fog struct {
	Color     color.RGBA
	Near, Far float64
}

// Apply returns c as seen through the fog at the given depth.
func (f Fog) Apply(c color.RGBA, depth float64) color.RGBA {
	if f.Far <= f.Near {
		if depth >= f.Far {
			return f.Color
		}
		return c
	}
	return Lerp(c, f.Color, (depth-f.Near)/(f.Far-f.Near))
}

// Sky returns the sky gradient color at t, 0 at the top and 1 at the horizon.
func Sky(t float64) color.RGBA {
	return Lerp(SkyTop, SkyBottom, t)
}
