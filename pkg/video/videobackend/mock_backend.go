package videobackend

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

// mockMagic opens every container written by the mock backend, its
// frames are stored raw so decode(encode(seq)) is exact.
var mockMagic = []byte("DFXM")

type mockVideoBackend struct {
	kind videoframe.Kind
}

func (b *mockVideoBackend) Kind() videoframe.Kind { return b.kind }

func (b *mockVideoBackend) Encode(seq videoframe.Sequence) ([]byte, error) {
	if seq.Len() == 0 {
		return nil, videoerr.Encode("cannot write empty sequence")
	}
	if b.kind == videoframe.Video {
		if _, consistent := seq.Dimensions(); !consistent {
			return nil, videoerr.Encode("frame dimensions differ across sequence")
		}
	}

	buf := bytes.Buffer{}
	buf.Write(mockMagic)
	writeUint32(&buf, uint32(seq.Len()))
	writeUint64(&buf, math.Float64bits(seq.Timing.FPS))
	for i, frame := range seq.Frames {
		duration := 0
		if i < len(seq.Timing.Durations) {
			duration = seq.Timing.Durations[i]
		}
		fb := frame.ToBytes()
		writeUint32(&buf, uint32(duration))
		writeUint32(&buf, uint32(len(fb)))
		buf.Write(fb)
	}
	return buf.Bytes(), nil
}

func (b *mockVideoBackend) Decode(input []byte) (videoframe.Sequence, error) {
	r := bytes.NewReader(input)
	magic := make([]byte, len(mockMagic))
	if _, err := io.ReadFull(r, magic); err != nil || !bytes.Equal(magic, mockMagic) {
		return videoframe.Sequence{}, videoerr.Decode("missing mock container header")
	}

	var count uint32
	var fpsBits uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return videoframe.Sequence{}, videoerr.Decode("truncated frame count")
	}
	if err := binary.Read(r, binary.LittleEndian, &fpsBits); err != nil {
		return videoframe.Sequence{}, videoerr.Decode("truncated frame rate")
	}

	seq := videoframe.Sequence{Timing: videoframe.Timing{FPS: math.Float64frombits(fpsBits)}}
	if b.kind == videoframe.AnimatedImage {
		seq.Timing.Durations = []int{}
	}
	for i := uint32(0); i < count; i++ {
		var duration, size uint32
		if err := binary.Read(r, binary.LittleEndian, &duration); err != nil {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: truncated header", i)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: truncated header", i)
		}
		if int64(size) > int64(r.Len()) {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: truncated data", i)
		}
		fb := make([]byte, size)
		if _, err := io.ReadFull(r, fb); err != nil {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: truncated data", i)
		}
		frame, err := videoframe.FromBytes(fb)
		if err != nil {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: %v", i, err)
		}
		seq.Frames = append(seq.Frames, frame)
		if b.kind == videoframe.AnimatedImage {
			seq.Timing.Durations = append(seq.Timing.Durations, int(duration))
		}
	}
	return seq, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	buf.Write(b)
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	buf.Write(b)
}
