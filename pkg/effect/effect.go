// Package effect holds the fixed set of per frame transforms. Every
// transform is pure: the input frame is never modified and the same
// input always yields the same output.
package effect

import (
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

type Effect int

// Identity is the zero value, anything outside the known set is
// treated the same way by Apply.
const (
	Identity Effect = iota
	Dwarf
	Giant
	GrayscaleBackground
	FireBackground
	IceBackground
)

const (
	blendInputWeight   = 0.7
	blendOverlayWeight = 0.3
)

var (
	FireOverlay = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	IceOverlay  = color.RGBA{R: 173, G: 216, B: 230, A: 255}
)

type descriptor struct {
	name    string
	label   string
	aliases []string
}

var descriptors = map[Effect]descriptor{
	Identity:            {name: "identity", label: "بدون مؤثر", aliases: []string{"none", ""}},
	Dwarf:               {name: "dwarf", label: "قزم"},
	Giant:               {name: "giant", label: "عملاق"},
	GrayscaleBackground: {name: "grayscale", label: "ملون وخلفية رمادية", aliases: []string{"grayscale-background", "greyscale", "gray"}},
	FireBackground:      {name: "fire", label: "خلفية نارية", aliases: []string{"fire-background"}},
	IceBackground:       {name: "ice", label: "خلفية جليدية", aliases: []string{"ice-background"}},
}

// All lists the selectable effects in menu order.
func All() []Effect {
	return []Effect{Dwarf, Giant, GrayscaleBackground, FireBackground, IceBackground}
}

func (e Effect) String() string {
	if d, ok := descriptors[e]; ok {
		return d.name
	}
	return descriptors[Identity].name
}

// Label is the Arabic menu caption shown for the effect.
func (e Effect) Label() string {
	if d, ok := descriptors[e]; ok {
		return d.label
	}
	return descriptors[Identity].label
}

// Lookup resolves an effect by name, alias or label.
func Lookup(name string) (Effect, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for e, d := range descriptors {
		if n == d.name || n == d.label {
			return e, true
		}
		for _, alias := range d.aliases {
			if n == alias {
				return e, true
			}
		}
	}
	return Identity, false
}

// Parse is Lookup without the miss signal, unknown names become Identity.
func Parse(name string) Effect {
	e, _ := Lookup(name)
	return e
}

func Apply(frame videoframe.Frame, e Effect) videoframe.Frame {
	switch e {
	case Dwarf:
		d := frame.Dimensions()
		return resize(frame, d.W, dwarfHeight(d.H))
	case Giant:
		d := frame.Dimensions()
		return resize(frame, d.W, d.H*2)
	case GrayscaleBackground:
		return frame.Map(grayscale)
	case FireBackground:
		return blend(frame, FireOverlay)
	case IceBackground:
		return blend(frame, IceOverlay)
	default:
		return frame
	}
}

// dwarfHeight halves h, a single pixel tall frame stays one pixel tall.
func dwarfHeight(h int) int {
	if h/2 < 1 {
		return 1
	}
	return h / 2
}

func resize(frame videoframe.Frame, w, h int) videoframe.Frame {
	if frame.Empty() {
		return frame
	}
	return videoframe.FromImage(transform.Resize(frame.ToRGBA(), w, h, transform.Linear))
}

// Luma uses the ITU-R 601-2 weights in 16 bit fixed point.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 1<<15) >> 16)
}

func grayscale(r, g, b uint8) (uint8, uint8, uint8) {
	l := Luma(r, g, b)
	return l, l, l
}

// BlendChannel mixes one input channel with an overlay channel.
func BlendChannel(in, overlay uint8) uint8 {
	v := blendInputWeight*float64(in) + blendOverlayWeight*float64(overlay)
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func blend(frame videoframe.Frame, overlay color.RGBA) videoframe.Frame {
	return frame.Map(func(r, g, b uint8) (uint8, uint8, uint8) {
		return BlendChannel(r, overlay.R), BlendChannel(g, overlay.G), BlendChannel(b, overlay.B)
	})
}
