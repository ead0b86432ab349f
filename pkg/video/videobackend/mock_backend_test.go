package videobackend_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragonfx/internal/videotest"
	"github.com/tauraamui/dragonfx/pkg/video/videobackend"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

func TestMockBackendRoundTripIsExact(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock(videoframe.AnimatedImage)
	seq := videotest.ShadedSequence(3, 6, 4, videoframe.Timing{Durations: []int{100, 150, 200}})

	data, err := backend.Encode(seq)
	is.NoErr(err)

	decoded, err := backend.Decode(data)
	is.NoErr(err)
	is.Equal(decoded.Len(), 3)
	is.Equal(decoded.Timing.Durations, []int{100, 150, 200})
	for i := range seq.Frames {
		is.True(decoded.Frames[i].Equal(seq.Frames[i]))
	}
}

func TestMockBackendKeepsFPSForVideo(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock(videoframe.Video)
	data, err := backend.Encode(videotest.SolidSequence(2, 4, 4, videotest.Red, videoframe.Timing{FPS: 25}))
	is.NoErr(err)

	decoded, err := backend.Decode(data)
	is.NoErr(err)
	is.Equal(decoded.Timing.FPS, 25.0)
	is.True(decoded.Timing.Durations == nil)
}

func TestMockBackendDecodeRejectsTruncatedInput(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock(videoframe.Video)
	data, err := backend.Encode(videotest.SolidSequence(2, 4, 4, videotest.Red, videoframe.Timing{FPS: 25}))
	is.NoErr(err)

	_, err = backend.Decode(data[:len(data)-10])
	is.True(errors.Is(err, videoerr.ErrDecode))

	_, err = backend.Decode([]byte("not a container"))
	is.True(errors.Is(err, videoerr.ErrDecode))
}

func TestMockBackendEncodeRejectsEmptyAndMixedSizes(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock(videoframe.Video)
	_, err := backend.Encode(videoframe.Sequence{})
	is.True(errors.Is(err, videoerr.ErrEncode))

	mixed := videotest.SolidSequence(1, 4, 4, videotest.Red, videoframe.Timing{FPS: 10})
	mixed.Frames = append(mixed.Frames, videoframe.NewSolid(4, 2, videotest.Red))
	_, err = backend.Encode(mixed)
	is.True(errors.Is(err, videoerr.ErrEncode))
}
