package configdef

import (
	"errors"
	"fmt"

	"github.com/tauraamui/dragonfx/pkg/video/videobackend"
	"gopkg.in/dealancer/validate.v2"
)

const maxDefaultFPS = 240

type Video struct {
	Codec      string  `json:"codec"`
	DefaultFPS float64 `json:"default_fps"`
}

type AnimatedImage struct {
	DefaultFrameDurationMillis int `json:"default_frame_duration_ms" validate:"gte=1 & lte=60000"`
}

type Values struct {
	Debug         bool          `json:"debug"`
	ListenAddress string        `json:"listen_address" validate:"empty=false"`
	MaxUploadMB   int           `json:"max_upload_mb" validate:"gte=1 & lte=2048"`
	TempDir       string        `json:"temp_dir"`
	VideoBackend  string        `json:"video_backend"`
	Video         Video         `json:"video"`
	AnimatedImage AnimatedImage `json:"animated_image"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if len(v.Video.Codec) != 4 {
		return fmt.Errorf(validationErrorHeader, errors.New("video codec must be a four character code"))
	}
	if v.Video.DefaultFPS <= 0 || v.Video.DefaultFPS > maxDefaultFPS {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("video default fps must be within (0, %d]", maxDefaultFPS))
	}
	return nil
}

func (v Values) BackendSettings() videobackend.Settings {
	return videobackend.Settings{
		Codec:                      v.Video.Codec,
		DefaultFPS:                 v.Video.DefaultFPS,
		DefaultFrameDurationMillis: v.AnimatedImage.DefaultFrameDurationMillis,
		TempDir:                    v.TempDir,
	}
}

func (v Values) MaxUploadBytes() int64 {
	return int64(v.MaxUploadMB) << 20
}
