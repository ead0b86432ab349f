// Package videotest builds synthetic media for tests.
package videotest

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"strconv"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
)

func SolidSequence(count, w, h int, c color.RGBA, timing videoframe.Timing) videoframe.Sequence {
	seq := videoframe.Sequence{Timing: timing}
	for i := 0; i < count; i++ {
		seq.Frames = append(seq.Frames, videoframe.NewSolid(w, h, c))
	}
	return seq
}

// ShadedSequence gives every frame a distinct solid shade of gray so
// order can be checked after processing.
func ShadedSequence(count, w, h int, timing videoframe.Timing) videoframe.Sequence {
	seq := videoframe.Sequence{Timing: timing}
	for i := 0; i < count; i++ {
		v := uint8((i * 37) % 256)
		seq.Frames = append(seq.Frames, videoframe.NewSolid(w, h, color.RGBA{v, v, v, 255}))
	}
	return seq
}

// LabelledFrame renders text in white onto a black canvas.
func LabelledFrame(w, h int, label string) (videoframe.Frame, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)
	if err := drawText(canvas, 2, h, label); err != nil {
		return videoframe.Frame{}, err
	}
	return videoframe.FromImage(canvas), nil
}

// LabelledSequence labels frame i with its own index so order survives
// lossy round trips which flatten solid shades.
func LabelledSequence(count, w, h int, timing videoframe.Timing) (videoframe.Sequence, error) {
	seq := videoframe.Sequence{Timing: timing}
	for i := 0; i < count; i++ {
		frame, err := LabelledFrame(w, h, strconv.Itoa(i))
		if err != nil {
			return videoframe.Sequence{}, err
		}
		seq.Frames = append(seq.Frames, frame)
	}
	return seq, nil
}

// Distance sums the absolute per channel difference of two equally
// sized frames.
func Distance(a, b videoframe.Frame) int {
	pa, pb := a.Pix(), b.Pix()
	total := 0
	for i := range pa {
		d := int(pa[i]) - int(pb[i])
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// Nearest gives the index of the candidate closest to frame.
func Nearest(frame videoframe.Frame, candidates []videoframe.Frame) int {
	best, bestDistance := -1, 0
	for i, candidate := range candidates {
		if d := Distance(frame, candidate); best == -1 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    float64(canvas.Bounds().Dy()) / 2,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil()),
	}
	fontDrawer.DrawString(text)
	return nil
}

// GIF encodes frames without dithering, delays are hundredths of a second.
func GIF(frames []videoframe.Frame, delays []int) ([]byte, error) {
	g := &gif.GIF{}
	for i, frame := range frames {
		src := frame.ToRGBA()
		dst := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.Draw(dst, src.Bounds(), src, image.Point{}, draw.Src)
		g.Image = append(g.Image, dst)
		delay := 0
		if i < len(delays) {
			delay = delays[i]
		}
		g.Delay = append(g.Delay, delay)
	}
	buf := bytes.Buffer{}
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
