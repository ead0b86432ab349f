// Package pipeline runs one decode, transform, encode pass over a
// media buffer. Runs share nothing, the outcome of each is handed
// back as a Result for the caller to keep.
package pipeline

import (
	"github.com/tauraamui/dragonfx/pkg/effect"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/video/videobackend"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"github.com/tauraamui/dragonfx/pkg/video/videokind"
)

type Result struct {
	Kind       videoframe.Kind
	Effect     effect.Effect
	Media      []byte
	FrameCount int
	Dimensions videoframe.Dimensions
	Timing     videoframe.Timing
}

// Run applies e to every frame in order, one output frame per input frame.
func Run(seq videoframe.Sequence, e effect.Effect) (videoframe.Sequence, error) {
	if seq.Len() == 0 {
		return videoframe.Sequence{}, videoerr.ErrEmptyInput
	}

	out := videoframe.Sequence{
		Frames: make([]videoframe.Frame, 0, seq.Len()),
		Timing: copyTiming(seq.Timing),
	}
	for _, frame := range seq.Frames {
		out.Frames = append(out.Frames, effect.Apply(frame, e))
	}
	return out, nil
}

func copyTiming(t videoframe.Timing) videoframe.Timing {
	c := videoframe.Timing{FPS: t.FPS}
	if t.Durations != nil {
		c.Durations = append([]int{}, t.Durations...)
	}
	return c
}

type BackendResolver func(videoframe.Kind) videobackend.Backend

type Pipeline struct {
	resolve BackendResolver
}

func New(resolve BackendResolver) *Pipeline {
	if resolve == nil {
		resolve = videobackend.Default
	}
	return &Pipeline{resolve: resolve}
}

// ProcessDetect sniffs the kind of input before running it.
func (p *Pipeline) ProcessDetect(input []byte, e effect.Effect) (Result, error) {
	kind, err := videokind.Detect(input)
	if err != nil {
		return Result{}, err
	}
	return p.Process(input, kind, e)
}

func (p *Pipeline) Process(input []byte, kind videoframe.Kind, e effect.Effect) (Result, error) {
	backend := p.resolve(kind)

	seq, err := backend.Decode(input)
	if err != nil {
		return Result{}, err
	}
	log.Debug("Decoded %d frames from %s input", seq.Len(), kind)

	processed, err := Run(seq, e)
	if err != nil {
		return Result{}, err
	}
	dimensions, _ := processed.Dimensions()
	log.Debug("Applied effect [%s] to %d frames, output size %dx%d", e, processed.Len(), dimensions.W, dimensions.H)

	media, err := backend.Encode(processed)
	if err != nil {
		return Result{}, err
	}
	log.Debug("Encoded %d bytes of %s output", len(media), kind)

	return Result{
		Kind:       kind,
		Effect:     e,
		Media:      media,
		FrameCount: processed.Len(),
		Dimensions: dimensions,
		Timing:     processed.Timing,
	}, nil
}
