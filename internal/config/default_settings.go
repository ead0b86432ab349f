package config

import (
	"github.com/tauraamui/dragonfx/pkg/configdef"
	"github.com/tauraamui/dragonfx/pkg/video/videobackend"
)

type defaultSettingKey uint

const (
	LISTENADDRESS       defaultSettingKey = 0x0
	MAXUPLOADMB         defaultSettingKey = 0x1
	VIDEOCODEC          defaultSettingKey = 0x2
	VIDEODEFAULTFPS     defaultSettingKey = 0x3
	FRAMEDURATIONMILLIS defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	LISTENADDRESS:       ":8085",
	MAXUPLOADMB:         256,
	VIDEOCODEC:          videobackend.DefaultCodec,
	VIDEODEFAULTFPS:     videobackend.DefaultFPS,
	FRAMEDURATIONMILLIS: videobackend.DefaultFrameDurationMillis,
}

func defaultValues() configdef.Values {
	values := configdef.Values{}
	applyDefaults(&values)
	return values
}

// applyDefaults fills in every field the config file left unset.
func applyDefaults(values *configdef.Values) {
	if len(values.ListenAddress) == 0 {
		values.ListenAddress = defaultSettings[LISTENADDRESS].(string)
	}
	if values.MaxUploadMB == 0 {
		values.MaxUploadMB = defaultSettings[MAXUPLOADMB].(int)
	}
	if len(values.Video.Codec) == 0 {
		values.Video.Codec = defaultSettings[VIDEOCODEC].(string)
	}
	if values.Video.DefaultFPS == 0 {
		values.Video.DefaultFPS = defaultSettings[VIDEODEFAULTFPS].(float64)
	}
	if values.AnimatedImage.DefaultFrameDurationMillis == 0 {
		values.AnimatedImage.DefaultFrameDurationMillis = defaultSettings[FRAMEDURATIONMILLIS].(int)
	}
}
