package game

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iburimskiy/inferno/internal/fire"
	"github.com/iburimskiy/inferno/internal/gauge"
)

func TestButtonsDoNotOverlap(t *testing.T) {
	bs := buttons()
	assert.Len(t, bs, 3)
	for i := 1; i < len(bs); i++ {
		assert.Greater(t, bs[i].r.Y, bs[i-1].r.Y+bs[i-1].r.H)
	}

	first := bs[0].r
	assert.Equal(t, 0, hitButton(bs, first.X+1, first.Y+1))
	assert.Equal(t, actionReset, bs[hitButton(bs, bs[1].r.X+5, bs[1].r.Y+5)].action)
	assert.Equal(t, -1, hitButton(bs, first.X-1, first.Y))
}

func TestLiquidFollowsFillOffset(t *testing.T) {
	fill := gauge.DefaultParams().Fill
	cup := gobletRect()

	empty := liquidRect(gauge.FillOffset(0, fill))
	assert.Equal(t, cup.Y+150, empty.Y)
	assert.Equal(t, 10.0, empty.H)

	full := liquidRect(gauge.FillOffset(5000, fill))
	assert.Equal(t, cup.Y+10, full.Y)
	assert.Equal(t, cup.Y+cup.H, full.Y+full.H)

	assert.Equal(t, 0.0, liquidRect(cup.H+50).H)
	assert.Equal(t, cup.H, liquidRect(-5).H)
}

func TestLeverSwings(t *testing.T) {
	_, up := leverEnd(false)
	_, down := leverEnd(true)
	assert.Less(t, up, down)
	assert.False(t, leverRect().contains(gobletRect().X, gobletRect().Y))
}

func TestFireOrigin(t *testing.T) {
	assert.Equal(t, 440.0, fireOrigin(640, 200))
	assert.Equal(t, 0.0, fireOrigin(100, 200))
}

func TestBlendAndSpriteTransform(t *testing.T) {
	assert.Equal(t, blendFor(fire.BlendNormal), blendFor(fire.Blend(99)))
	assert.NotEqual(t, blendFor(fire.BlendNormal), blendFor(fire.BlendAdditive))

	scale, tx, ty := spriteTransform(100, 50, 16, 64)
	assert.Equal(t, 0.5, scale)
	assert.Equal(t, 84.0, tx)
	assert.Equal(t, 34.0, ty)
}

func TestHSV(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, hsv(0, 1, 1, 255))
	assert.Equal(t, hsv(10, 1, 1, 255), hsv(370, 1, 1, 255))
	assert.Equal(t, hsv(350, 1, 1, 9), hsv(-10, 1, 1, 9))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00.0", formatElapsed(0))
	assert.Equal(t, "00:03.2", formatElapsed(3250*time.Millisecond))
	assert.Equal(t, "01:05.0", formatElapsed(65*time.Second))
}
