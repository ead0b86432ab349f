package dragon

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/dragonfx/pkg/effect"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/pipeline"
	"github.com/tauraamui/dragonfx/pkg/video/videokind"
	"github.com/tauraamui/xerror"
)

var fs = afero.NewOsFs()

// ApplyFile runs one pipeline pass over the media at inPath and writes
// the encoded result to outPath. Nothing is written when the run fails.
func (s *Server) ApplyFile(e effect.Effect, inPath, outPath string) (pipeline.Result, error) {
	input, err := afero.ReadFile(fs, inPath)
	if err != nil {
		return pipeline.Result{}, xerror.Errorf("unable to read %s: %w", inPath, err)
	}

	var result pipeline.Result
	if kind, known := videokind.FromExtension(inPath); known {
		result, err = s.pipeline.Process(input, kind, e)
	} else {
		result, err = s.pipeline.ProcessDetect(input, e)
	}
	if err != nil {
		return pipeline.Result{}, err
	}

	if err := afero.WriteFile(fs, outPath, result.Media, 0644); err != nil {
		return pipeline.Result{}, xerror.Errorf("unable to write %s: %w", outPath, err)
	}
	log.Info("Wrote [%s] %s with %d frames to %s", e, result.Kind, result.FrameCount, outPath)
	return result, nil
}
