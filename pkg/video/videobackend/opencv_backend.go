package videobackend

import (
	"math"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVBackend struct {
	settings Settings
}

func (b *openCVBackend) Kind() videoframe.Kind { return videoframe.Video }

var openVideoCapture = func(path string) (*gocv.VideoCapture, error) {
	return gocv.VideoCaptureFile(path)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

var videoCaptureFPS = func(vc *gocv.VideoCapture) float64 {
	return vc.Get(gocv.VideoCaptureFPS)
}

var openVideoWriter = func(filename, codec string, fps float64, width, height int, isColor bool) (*gocv.VideoWriter, error) {
	return gocv.VideoWriterFile(filename, codec, fps, width, height, isColor)
}

func (b *openCVBackend) Decode(input []byte) (videoframe.Sequence, error) {
	path, cleanup, err := stageInput(b.settings.TempDir, videoframe.Video.Extension(), input)
	if err != nil {
		return videoframe.Sequence{}, videoerr.Decode("%v", err)
	}
	defer cleanup()

	vc, err := openVideoCapture(path)
	if err != nil {
		return videoframe.Sequence{}, videoerr.Decode("unable to open video container: %v", err)
	}
	defer vc.Close()

	if !vc.IsOpened() {
		return videoframe.Sequence{}, videoerr.Decode("video container could not be opened")
	}

	fps := videoCaptureFPS(vc)
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		log.Debug("Video reports fps of %v, using default of %v", fps, b.settings.DefaultFPS)
		fps = b.settings.DefaultFPS
	}

	mat := gocv.NewMat()
	defer mat.Close()

	seq := videoframe.Sequence{Timing: videoframe.Timing{FPS: fps}}
	for readFromVideoCapture(vc, &mat) {
		if mat.Empty() {
			break
		}
		frame, err := matToFrame(mat)
		if err != nil {
			return videoframe.Sequence{}, videoerr.Decode("frame %d: %v", len(seq.Frames), err)
		}
		seq.Frames = append(seq.Frames, frame)
	}

	log.Debug("Decoded %d video frames at %v fps", len(seq.Frames), fps)
	return seq, nil
}

func (b *openCVBackend) Encode(seq videoframe.Sequence) ([]byte, error) {
	if seq.Len() == 0 {
		return nil, videoerr.Encode("cannot write empty sequence")
	}

	dimensions, consistent := seq.Dimensions()
	if !consistent {
		return nil, videoerr.Encode("frame dimensions differ across sequence")
	}

	fps := seq.Timing.FPS
	if fps <= 0 {
		fps = b.settings.DefaultFPS
	}

	path, cleanup, err := stageOutput(b.settings.TempDir, videoframe.Video.Extension())
	if err != nil {
		return nil, videoerr.Encode("%v", err)
	}
	defer cleanup()

	if err := b.write(path, fps, dimensions, seq.Frames); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, videoerr.Encode("unable to read encoded output: %v", err)
	}
	return data, nil
}

func (b *openCVBackend) write(path string, fps float64, d videoframe.Dimensions, frames []videoframe.Frame) error {
	vw, err := openVideoWriter(path, b.settings.Codec, fps, d.W, d.H, true)
	if err != nil {
		return videoerr.Encode("unable to open video writer: %v", err)
	}
	defer vw.Close()

	if !vw.IsOpened() {
		return videoerr.Encode("codec %s is unavailable", b.settings.Codec)
	}

	for i, frame := range frames {
		if err := writeFrame(vw, frame); err != nil {
			return videoerr.Encode("frame %d: %v", i, err)
		}
	}
	return nil
}

func writeFrame(vw *gocv.VideoWriter, frame videoframe.Frame) error {
	mat, err := frameToMat(frame)
	if err != nil {
		return err
	}
	defer mat.Close()
	return vw.Write(mat)
}

// matToFrame normalises OpenCV's BGR (or gray/BGRA) channel order to RGB.
func matToFrame(mat gocv.Mat) (videoframe.Frame, error) {
	rgb := gocv.NewMat()
	defer rgb.Close()

	switch mat.Channels() {
	case 1:
		gocv.CvtColor(mat, &rgb, gocv.ColorGrayToBGR)
	case 4:
		// code 3 swaps the outer channels and drops alpha, BGRA in gives RGB out
		gocv.CvtColor(mat, &rgb, gocv.ColorRGBAToBGR)
	default:
		gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)
	}

	if rgb.Type() != gocv.MatTypeCV8UC3 {
		return videoframe.Frame{}, xerror.Errorf("unsupported frame pixel type %v", mat.Type())
	}

	return videoframe.New(rgb.Cols(), rgb.Rows(), rgb.ToBytes())
}

func frameToMat(frame videoframe.Frame) (gocv.Mat, error) {
	d := frame.Dimensions()
	rgb, err := gocv.NewMatFromBytes(d.H, d.W, gocv.MatTypeCV8UC3, frame.Pix())
	if err != nil {
		return gocv.Mat{}, err
	}
	defer rgb.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgb, &bgr, gocv.ColorBGRToRGB)
	return bgr, nil
}
