package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/inferno/internal/fire"
)

// glowSprite is the edge of the gradient sprites in pixels.
const glowSprite = 64

// Surface draws the fire field onto an offscreen ebiten image. Each glow is a
// scaled core sprite tinted by the inner colour plus, for a visible rim, a
// rim sprite tinted by the outer colour.
type Surface struct {
	img   *ebiten.Image
	core  *ebiten.Image
	rim   *ebiten.Image
	blend ebiten.Blend
}

// NewSurface allocates a w×h fire surface.
func NewSurface(w, h int) *Surface {
	core := ebiten.NewImage(glowSprite, glowSprite)
	core.WritePixels(fire.GlowMask(glowSprite))
	rim := ebiten.NewImage(glowSprite, glowSprite)
	rim.WritePixels(fire.RimMask(glowSprite))

	return &Surface{
		img:   ebiten.NewImage(w, h),
		core:  core,
		rim:   rim,
		blend: ebiten.BlendSourceOver,
	}
}

// Image returns the surface contents.
func (s *Surface) Image() *ebiten.Image { return s.img }

// Resize reallocates the surface when the size changed.
func (s *Surface) Resize(w, h int) {
	b := s.img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
}

func (s *Surface) Size() (w, h float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Surface) Clear() { s.img.Clear() }

func (s *Surface) SetBlend(b fire.Blend) { s.blend = blendFor(b) }

func (s *Surface) Glow(x, y, radius float64, inner, outer color.NRGBA) {
	if radius <= 0 {
		return
	}
	s.stamp(s.core, x, y, radius, inner)
	if outer.A > 0 {
		s.stamp(s.rim, x, y, radius, outer)
	}
}

func (s *Surface) stamp(sprite *ebiten.Image, x, y, radius float64, c color.NRGBA) {
	op := &ebiten.DrawImageOptions{}
	scale, tx, ty := spriteTransform(x, y, radius, glowSprite)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(tx, ty)
	op.ColorScale.ScaleWithColor(c)
	op.Blend = s.blend
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(sprite, op)
}

func blendFor(b fire.Blend) ebiten.Blend {
	if b == fire.BlendAdditive {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

// spriteTransform maps a size×size sprite onto the square bounding a circle.
func spriteTransform(x, y, radius float64, size int) (scale, tx, ty float64) {
	return 2 * radius / float64(size), x - radius, y - radius
}
