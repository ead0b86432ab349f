package videobackend

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

const (
	DefaultCodec               = "mp4v"
	DefaultFPS                 = 20.0
	DefaultFrameDurationMillis = 100
	mockBackendName            = "mock"
)

// Backend decodes a whole container into memory and encodes a whole
// sequence back out, there is no streaming between the two.
type Backend interface {
	Kind() videoframe.Kind
	Decode([]byte) (videoframe.Sequence, error)
	Encode(videoframe.Sequence) ([]byte, error)
}

type Settings struct {
	Codec                      string
	DefaultFPS                 float64
	DefaultFrameDurationMillis int
	TempDir                    string
}

func (s Settings) withDefaults() Settings {
	if len(s.Codec) == 0 {
		s.Codec = DefaultCodec
	}
	if s.DefaultFPS <= 0 {
		s.DefaultFPS = DefaultFPS
	}
	if s.DefaultFrameDurationMillis <= 0 {
		s.DefaultFrameDurationMillis = DefaultFrameDurationMillis
	}
	return s
}

func Default(kind videoframe.Kind) Backend {
	return Resolve("", kind, Settings{})
}

func OpenCV(settings Settings) Backend {
	return &openCVBackend{settings: settings.withDefaults()}
}

func GIF(settings Settings) Backend {
	return &gifBackend{settings: settings.withDefaults()}
}

func Mock(kind videoframe.Kind) Backend {
	return &mockVideoBackend{kind: kind}
}

// Resolve picks the backend for kind, t names an override such as "mock".
func Resolve(t string, kind videoframe.Kind, settings Settings) Backend {
	if t == mockBackendName {
		return Mock(kind)
	}
	if kind == videoframe.AnimatedImage {
		return GIF(settings)
	}
	return OpenCV(settings)
}
