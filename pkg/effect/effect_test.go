package effect_test

import (
	"image/color"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/dragonfx/pkg/effect"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

func gradientFrame(w, h int) videoframe.Frame {
	pix := make([]uint8, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix = append(pix, uint8(x*255/w), uint8(y*255/h), uint8((x+y)%256))
		}
	}
	frame, _ := videoframe.New(w, h, pix)
	return frame
}

func TestApplyIsDeterministic(t *testing.T) {
	is := is.New(t)
	frame := gradientFrame(17, 9)
	for _, e := range append(effect.All(), effect.Identity) {
		first := effect.Apply(frame, e)
		second := effect.Apply(frame, e)
		is.True(first.Equal(second)) // same input and effect gives identical output
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	is := is.New(t)
	frame := gradientFrame(8, 8)
	before := frame.Pix()
	for _, e := range effect.All() {
		effect.Apply(frame, e)
	}
	is.Equal(frame.Pix(), before)
}

func TestDwarfHalvesHeight(t *testing.T) {
	is := is.New(t)
	out := effect.Apply(gradientFrame(64, 64), effect.Dwarf)
	is.Equal(out.Dimensions(), videoframe.Dimensions{W: 64, H: 32})

	out = effect.Apply(gradientFrame(10, 7), effect.Dwarf)
	is.Equal(out.Dimensions(), videoframe.Dimensions{W: 10, H: 3})
}

func TestDwarfClampsSinglePixelHeight(t *testing.T) {
	is := is.New(t)
	out := effect.Apply(gradientFrame(12, 1), effect.Dwarf)
	is.Equal(out.Dimensions(), videoframe.Dimensions{W: 12, H: 1})
}

func TestGiantDoublesHeight(t *testing.T) {
	is := is.New(t)
	out := effect.Apply(gradientFrame(20, 5), effect.Giant)
	is.Equal(out.Dimensions(), videoframe.Dimensions{W: 20, H: 10})
}

func TestGiantAfterDwarfIsLossy(t *testing.T) {
	is := is.New(t)
	for _, h := range []int{2, 3, 9, 64, 101} {
		frame := gradientFrame(6, h)
		out := effect.Apply(effect.Apply(frame, effect.Dwarf), effect.Giant)
		is.Equal(out.Dimensions().H, 2*(h/2))
	}
}

func TestResizeOfSolidFrameKeepsColour(t *testing.T) {
	is := is.New(t)
	frame := videoframe.NewSolid(8, 8, color.RGBA{R: 40, G: 80, B: 120})
	for _, e := range []effect.Effect{effect.Dwarf, effect.Giant} {
		out := effect.Apply(frame, e)
		r, g, b := out.At(3, 2)
		is.Equal([]uint8{r, g, b}, []uint8{40, 80, 120})
	}
}

func TestGrayscaleChannelsAreEqual(t *testing.T) {
	is := is.New(t)
	frame := gradientFrame(31, 13)
	out := effect.Apply(frame, effect.GrayscaleBackground)
	is.Equal(out.Dimensions(), frame.Dimensions())

	d := out.Dimensions()
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			r, g, b := out.At(x, y)
			is.True(r == g && g == b)
			ir, ig, ib := frame.At(x, y)
			is.Equal(r, effect.Luma(ir, ig, ib))
		}
	}
}

func TestLumaOfPrimaries(t *testing.T) {
	is := is.New(t)
	is.Equal(effect.Luma(255, 0, 0), uint8(76))
	is.Equal(effect.Luma(0, 255, 0), uint8(150))
	is.Equal(effect.Luma(0, 0, 255), uint8(29))
	is.Equal(effect.Luma(255, 255, 255), uint8(255))
	is.Equal(effect.Luma(0, 0, 0), uint8(0))
}

func expectedBlend(in, overlay uint8) uint8 {
	v := 0.7*float64(in) + 0.3*float64(overlay)
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func TestOverlayEffectsBlendWithFixedColour(t *testing.T) {
	frame := gradientFrame(16, 16)
	cases := map[effect.Effect]color.RGBA{
		effect.FireBackground: {R: 255, G: 0, B: 0},
		effect.IceBackground:  {R: 173, G: 216, B: 230},
	}

	for e, overlay := range cases {
		out := effect.Apply(frame, e)
		assert.Equal(t, frame.Dimensions(), out.Dimensions(), e.String())
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				ir, ig, ib := frame.At(x, y)
				r, g, b := out.At(x, y)
				assert.Equal(t, expectedBlend(ir, overlay.R), r)
				assert.Equal(t, expectedBlend(ig, overlay.G), g)
				assert.Equal(t, expectedBlend(ib, overlay.B), b)
			}
		}
	}
}

func TestFireOnWhiteAndBlack(t *testing.T) {
	is := is.New(t)
	white := effect.Apply(videoframe.NewSolid(1, 1, color.RGBA{255, 255, 255, 255}), effect.FireBackground)
	r, g, b := white.At(0, 0)
	is.Equal([]uint8{r, g, b}, []uint8{255, 179, 179})

	black := effect.Apply(videoframe.NewSolid(1, 1, color.RGBA{}), effect.IceBackground)
	r, g, b = black.At(0, 0)
	is.Equal([]uint8{r, g, b}, []uint8{52, 65, 69})
}

func TestIdentityAndUnknownReturnInput(t *testing.T) {
	is := is.New(t)
	frame := gradientFrame(5, 5)
	is.True(effect.Apply(frame, effect.Identity).Equal(frame))
	is.True(effect.Apply(frame, effect.Effect(99)).Equal(frame))
	is.True(effect.Apply(frame, effect.Effect(-1)).Equal(frame))
}

func TestEmptyFrameSurvivesResize(t *testing.T) {
	is := is.New(t)
	var empty videoframe.Frame
	is.True(effect.Apply(empty, effect.Dwarf).Empty())
}

func TestParseNames(t *testing.T) {
	is := is.New(t)
	is.Equal(effect.Parse("dwarf"), effect.Dwarf)
	is.Equal(effect.Parse(" GIANT "), effect.Giant)
	is.Equal(effect.Parse("grayscale-background"), effect.GrayscaleBackground)
	is.Equal(effect.Parse("fire"), effect.FireBackground)
	is.Equal(effect.Parse("ice-background"), effect.IceBackground)
	is.Equal(effect.Parse("قزم"), effect.Dwarf)
	is.Equal(effect.Parse("خلفية جليدية"), effect.IceBackground)
	is.Equal(effect.Parse("sepia"), effect.Identity)

	_, ok := effect.Lookup("sepia")
	is.True(!ok)
	e, ok := effect.Lookup("none")
	is.True(ok)
	is.Equal(e, effect.Identity)
}

func TestNamesRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, e := range effect.All() {
		is.Equal(effect.Parse(e.String()), e)
		is.Equal(effect.Parse(e.Label()), e)
	}
	is.Equal(effect.Effect(42).String(), "identity")
}
