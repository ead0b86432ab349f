// Package videokind works out which media family an upload belongs to.
package videokind

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
)

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".m4v": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".flv": {}, ".wmv": {}, ".mpg": {}, ".mpeg": {},
}

// Detect sniffs the container signature of input.
func Detect(input []byte) (videoframe.Kind, error) {
	if len(input) == 0 {
		return videoframe.Video, videoerr.Decode("input is empty")
	}

	match, err := filetype.Match(input)
	if err != nil {
		return videoframe.Video, videoerr.Decode("unable to read container signature: %v", err)
	}

	switch {
	case match == matchers.TypeGif:
		return videoframe.AnimatedImage, nil
	case match.MIME.Type == "video":
		return videoframe.Video, nil
	case match == filetype.Unknown:
		return videoframe.Video, videoerr.Decode("unrecognised container")
	default:
		return videoframe.Video, videoerr.Decode("unsupported container %s", match.MIME.Value)
	}
}

// FromExtension resolves the kind from a file name alone.
func FromExtension(name string) (videoframe.Kind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".gif" {
		return videoframe.AnimatedImage, true
	}
	if _, ok := videoExtensions[ext]; ok {
		return videoframe.Video, true
	}
	return videoframe.Video, false
}
