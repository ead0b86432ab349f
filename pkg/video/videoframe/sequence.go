package videoframe

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Video Kind = iota
	AnimatedImage
)

func (k Kind) String() string {
	switch k {
	case Video:
		return "video"
	case AnimatedImage:
		return "animated image"
	default:
		return "unknown"
	}
}

func (k Kind) Extension() string {
	if k == AnimatedImage {
		return ".gif"
	}
	return ".mp4"
}

func (k Kind) ContentType() string {
	if k == AnimatedImage {
		return "image/gif"
	}
	return "video/mp4"
}

// Timing carries either a single rate for video sources or one
// display duration in milliseconds per frame for animated images.
type Timing struct {
	FPS       float64
	Durations []int
}

func (t Timing) DurationsString() string {
	parts := make([]string, 0, len(t.Durations))
	for _, d := range t.Durations {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

type Sequence struct {
	Frames []Frame
	Timing Timing
}

func (s Sequence) Len() int { return len(s.Frames) }

// Dimensions reports the size of the first frame and whether every
// other frame in the sequence matches it.
func (s Sequence) Dimensions() (Dimensions, bool) {
	if len(s.Frames) == 0 {
		return Dimensions{}, false
	}
	d := s.Frames[0].Dimensions()
	for _, f := range s.Frames[1:] {
		if f.Dimensions() != d {
			return d, false
		}
	}
	return d, true
}
