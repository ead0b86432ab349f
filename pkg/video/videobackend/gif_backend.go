package videobackend

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/gif"
	"math"

	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"golang.org/x/image/draw"
)

// GIF delays are counted in hundredths of a second, durations
// in a sequence are milliseconds.
const gifDelayUnitMillis = 10

// image/gif refuses a well formed stream that holds no image blocks,
// that case is an empty sequence rather than a malformed file.
const gifNoImagesErrMsg = "gif: missing image data"

type gifBackend struct {
	settings Settings
}

func (b *gifBackend) Kind() videoframe.Kind { return videoframe.AnimatedImage }

func (b *gifBackend) Decode(input []byte) (videoframe.Sequence, error) {
	seq := videoframe.Sequence{Timing: videoframe.Timing{Durations: []int{}}}

	g, err := gif.DecodeAll(bytes.NewReader(input))
	if err != nil {
		if err.Error() == gifNoImagesErrMsg {
			return seq, nil
		}
		return videoframe.Sequence{}, videoerr.Decode("malformed animated image: %v", err)
	}

	if len(g.Image) == 0 {
		return seq, nil
	}

	canvas := image.NewRGBA(screenBounds(g))
	for i, img := range g.Image {
		disposal := disposalAt(g, i)

		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)
		seq.Frames = append(seq.Frames, videoframe.FromImage(canvas))
		seq.Timing.Durations = append(seq.Timing.Durations, b.durationAt(g, i))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	log.Debug("Decoded %d animated image frames", len(seq.Frames))
	return seq, nil
}

func screenBounds(g *gif.GIF) image.Rectangle {
	if g.Config.Width > 0 && g.Config.Height > 0 {
		return image.Rect(0, 0, g.Config.Width, g.Config.Height)
	}
	r := image.Rectangle{}
	for _, img := range g.Image {
		r = r.Union(img.Bounds())
	}
	return image.Rect(0, 0, r.Max.X, r.Max.Y)
}

func disposalAt(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

func (b *gifBackend) durationAt(g *gif.GIF, i int) int {
	if i < len(g.Delay) && g.Delay[i] > 0 {
		return g.Delay[i] * gifDelayUnitMillis
	}
	return b.settings.DefaultFrameDurationMillis
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func (b *gifBackend) Encode(seq videoframe.Sequence) ([]byte, error) {
	if seq.Len() == 0 {
		return nil, videoerr.Encode("cannot write empty animated image")
	}

	out := &gif.GIF{LoopCount: 0}
	for i, frame := range seq.Frames {
		if frame.Empty() {
			return nil, videoerr.Encode("frame %d has no pixels", i)
		}
		d := frame.Dimensions()
		if d.W > out.Config.Width {
			out.Config.Width = d.W
		}
		if d.H > out.Config.Height {
			out.Config.Height = d.H
		}
		out.Image = append(out.Image, quantise(frame))
		out.Delay = append(out.Delay, b.delayAt(seq.Timing, i))
		out.Disposal = append(out.Disposal, gif.DisposalNone)
	}

	buf := bytes.Buffer{}
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, videoerr.Encode("unable to write animated image: %v", err)
	}
	return buf.Bytes(), nil
}

// delayAt re-applies the decoded duration for position i.
func (b *gifBackend) delayAt(t videoframe.Timing, i int) int {
	ms := b.settings.DefaultFrameDurationMillis
	if i < len(t.Durations) && t.Durations[i] > 0 {
		ms = t.Durations[i]
	}
	return int(math.Round(float64(ms) / gifDelayUnitMillis))
}

func quantise(frame videoframe.Frame) *image.Paletted {
	src := frame.ToRGBA()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, image.Point{})
	return dst
}
