package fire

import (
	"image/color"
	"math"
)

// Rim is the outer gradient stop shared by every particle.
var Rim = color.NRGBA{R: 50, G: 0, B: 0, A: 0}

// Palette returns the gradient stops for a particle with the given life.
// Fresh particles burn yellow-white; the green channel and opacity fall with
// life until the glow is a faint dark red.
func Palette(life float64) (inner, outer color.NRGBA) {
	l := clamp01(life)
	inner = color.NRGBA{
		R: 255,
		G: uint8(math.Floor(l * 200)),
		B: 0,
		A: uint8(math.Round(l * 255)),
	}
	return inner, Rim
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
