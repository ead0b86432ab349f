package videoframe

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
)

// Channels is the fixed number of colour components per pixel,
// every frame is normalised to R, G, B in that order.
const Channels = 3

const (
	bytesSuffixLen = 8
	bytesMagicA    = 0x13
	bytesMagicB    = 0x31
)

type Dimensions struct {
	W, H int
}

// Frame is an immutable RGB raster. The zero value is an empty frame.
type Frame struct {
	dimensions Dimensions
	pix        []uint8
}

// New copies pix into a new frame, pix must hold exactly w*h*3 bytes.
func New(w, h int, pix []uint8) (Frame, error) {
	if w < 0 || h < 0 {
		return Frame{}, errors.New("frame dimensions must not be negative")
	}
	if len(pix) != w*h*Channels {
		return Frame{}, errors.New("frame pixel data does not match dimensions")
	}
	data := make([]uint8, len(pix))
	copy(data, pix)
	return Frame{dimensions: Dimensions{W: w, H: h}, pix: data}, nil
}

func NewSolid(w, h int, c color.RGBA) Frame {
	pix := make([]uint8, w*h*Channels)
	for i := 0; i < len(pix); i += Channels {
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}
	return Frame{dimensions: Dimensions{W: w, H: h}, pix: pix}
}

// FromImage converts any decoded image into a frame, palette and
// single channel sources get expanded into three identical channels.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, w*h*Channels)

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			for x := 0; x < w; x++ {
				o := (y*w + x) * Channels
				pix[o], pix[o+1], pix[o+2] = row[x*4], row[x*4+1], row[x*4+2]
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := src.Pix[y*src.Stride+x]
				o := (y*w + x) * Channels
				pix[o], pix[o+1], pix[o+2] = v, v, v
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
				o := (y*w + x) * Channels
				pix[o], pix[o+1], pix[o+2] = c.R, c.G, c.B
			}
		}
	}

	return Frame{dimensions: Dimensions{W: w, H: h}, pix: pix}
}

func (f Frame) Dimensions() Dimensions { return f.dimensions }

func (f Frame) Empty() bool { return f.dimensions.W == 0 || f.dimensions.H == 0 }

// At returns the colour at x, y. Out of range coordinates give black.
func (f Frame) At(x, y int) (r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.dimensions.W || y >= f.dimensions.H {
		return 0, 0, 0
	}
	o := (y*f.dimensions.W + x) * Channels
	return f.pix[o], f.pix[o+1], f.pix[o+2]
}

// Pix returns a copy of the packed RGB bytes.
func (f Frame) Pix() []uint8 {
	data := make([]uint8, len(f.pix))
	copy(data, f.pix)
	return data
}

// Map builds a new frame of the same size by passing every pixel
// through fn, the receiver is left untouched.
func (f Frame) Map(fn func(r, g, b uint8) (uint8, uint8, uint8)) Frame {
	pix := make([]uint8, len(f.pix))
	for i := 0; i < len(f.pix); i += Channels {
		pix[i], pix[i+1], pix[i+2] = fn(f.pix[i], f.pix[i+1], f.pix[i+2])
	}
	return Frame{dimensions: f.dimensions, pix: pix}
}

func (f Frame) ToRGBA() *image.RGBA {
	w, h := f.dimensions.W, f.dimensions.H
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < len(f.pix); i, j = i+Channels, j+4 {
		img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = f.pix[i], f.pix[i+1], f.pix[i+2], 0xff
	}
	return img
}

func (f Frame) Equal(o Frame) bool {
	if f.dimensions != o.dimensions || len(f.pix) != len(o.pix) {
		return false
	}
	for i := range f.pix {
		if f.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

func (f Frame) ToBytes() []byte {
	// store the rows, columns and channel count after the pixel data
	suffix := make([]byte, bytesSuffixLen)
	binary.LittleEndian.PutUint16(suffix[:2], uint16(f.dimensions.H))
	binary.LittleEndian.PutUint16(suffix[2:4], uint16(f.dimensions.W))
	binary.LittleEndian.PutUint16(suffix[4:6], uint16(Channels))
	suffix[6] = bytesMagicA
	suffix[7] = bytesMagicB

	return append(f.Pix(), suffix...)
}

func FromBytes(d []byte) (Frame, error) {
	if len(d) < bytesSuffixLen {
		return Frame{}, errors.New("frame expects at least 8 bytes to load")
	}

	dl := len(d)
	suffix := d[dl-bytesSuffixLen:]
	if suffix[6] != bytesMagicA || suffix[7] != bytesMagicB {
		return Frame{}, errors.New("frame bytes missing trailing suffix")
	}

	r := int(binary.LittleEndian.Uint16(suffix[:2]))
	c := int(binary.LittleEndian.Uint16(suffix[2:4]))
	if ch := binary.LittleEndian.Uint16(suffix[4:6]); ch != Channels {
		return Frame{}, errors.New("frame bytes hold unsupported channel count")
	}

	return New(c, r, d[:dl-bytesSuffixLen])
}
