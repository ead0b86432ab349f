package configdef_test

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragonfx/pkg/configdef"
)

const validBody = `{
	"listen_address": ":8085",
	"max_upload_mb": 64,
	"video": {"codec": "mp4v", "default_fps": 20},
	"animated_image": {"default_frame_duration_ms": 100}
}`

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	is.NoErr(config.RunValidate())
}

func TestValidateFailsForMissingListenAddress(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.ListenAddress = ""
	is.Equal(config.RunValidate().Error(), `Validation error in field "ListenAddress" of type "string" using validator "empty=false"`)
}

func TestValidateFailsForUploadLimitOutOfRange(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.MaxUploadMB = 4096
	is.Equal(config.RunValidate().Error(), `Validation error in field "MaxUploadMB" of type "int" using validator "lte=2048"`)
}

func TestValidateFailsForZeroFrameDuration(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.AnimatedImage.DefaultFrameDurationMillis = 0
	is.Equal(config.RunValidate().Error(), `Validation error in field "DefaultFrameDurationMillis" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForBadCodec(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.Video.Codec = "h264x"
	is.Equal(config.RunValidate().Error(), "validation failed: video codec must be a four character code")
}

func TestValidateFailsForNonPositiveFPS(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.Video.DefaultFPS = 0
	is.Equal(config.RunValidate().Error(), "validation failed: video default fps must be within (0, 240]")
}

func TestBackendSettingsCarryValues(t *testing.T) {
	is := is.New(t)
	config := configdef.Values{}
	is.NoErr(json.Unmarshal([]byte(validBody), &config))
	config.TempDir = "/scratch"

	settings := config.BackendSettings()
	is.Equal(settings.Codec, "mp4v")
	is.Equal(settings.DefaultFPS, 20.0)
	is.Equal(settings.DefaultFrameDurationMillis, 100)
	is.Equal(settings.TempDir, "/scratch")
	is.Equal(config.MaxUploadBytes(), int64(64<<20))
}
