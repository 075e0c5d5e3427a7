package fire

import (
	"image/color"
	"math"
)

// Blend selects how shapes combine with what is already on the surface.
type Blend int

const (
	BlendNormal Blend = iota
	// BlendAdditive sums colour channels so overlapping glows brighten.
	BlendAdditive
)

// Surface is the drawing target for the field.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h float64)
	Clear()
	SetBlend(b Blend)
	// Glow fills a circle of the given radius with a radial gradient running
	// from inner at the centre to outer at the rim.
	Glow(x, y, radius float64, inner, outer color.NRGBA)
}

// GlowMask renders a size×size premultiplied RGBA mask: white at the centre
// fading linearly to transparent at the inscribed circle. Surfaces that draw
// glows from a sprite tint this mask by the inner colour.
func GlowMask(size int) []byte {
	return mask(size, func(w float64) float64 { return w })
}

// RimMask is the complement of GlowMask inside the circle: transparent at the
// centre, white just inside the rim, transparent outside. Tinted by the outer
// colour and added to a tinted GlowMask it completes the two-stop gradient.
func RimMask(size int) []byte {
	return mask(size, func(w float64) float64 {
		if w <= 0 {
			return 0
		}
		return 1 - w
	})
}

func mask(size int, shade func(w float64) float64) []byte {
	if size <= 0 {
		return nil
	}
	pix := make([]byte, 4*size*size)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			a := shade(GlowFalloff(float64(x)+0.5-r, float64(y)+0.5-r, r))
			v := byte(a*255 + 0.5)
			i := 4 * (y*size + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	return pix
}

// GlowFalloff returns the gradient position weight of the inner colour at
// offset (dx, dy) from a glow of the given radius: 1 at the centre, 0 at and
// beyond the rim.
func GlowFalloff(dx, dy, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	d := dx*dx + dy*dy
	if d >= radius*radius {
		return 0
	}
	return 1 - math.Sqrt(d)/radius
}
