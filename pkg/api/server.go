package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/tauraamui/dragonfx/pkg/effect"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/pipeline"
	"github.com/tauraamui/dragonfx/pkg/video/videoerr"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"github.com/tauraamui/dragonfx/pkg/video/videokind"
	"github.com/tauraamui/xerror"
)

const (
	mediaFormField   = "media"
	multipartMemory  = 32 << 20
	HeaderFrames     = "X-Dragonfx-Frames"
	HeaderFPS        = "X-Dragonfx-Fps"
	HeaderDurations  = "X-Dragonfx-Durations"
	defaultMediaBase = "media"
)

type Processor interface {
	Process([]byte, videoframe.Kind, effect.Effect) (pipeline.Result, error)
	ProcessDetect([]byte, effect.Effect) (pipeline.Result, error)
}

// Server exposes the effect pipeline over HTTP so a browser can
// upload media and download the processed result.
type Server struct {
	router         *mux.Router
	processor      Processor
	maxUploadBytes int64
}

func NewServer(processor Processor, maxUploadBytes int64) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		processor:      processor,
		maxUploadBytes: maxUploadBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/effects", s.handleListEffects).Methods(http.MethodGet)
	api.HandleFunc("/effects/{effect}", s.handleApplyEffect).Methods(http.MethodPost)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type effectEntry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEffects(w http.ResponseWriter, r *http.Request) {
	entries := []effectEntry{}
	for _, e := range effect.All() {
		entries = append(entries, effectEntry{Name: e.String(), Label: e.Label()})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleApplyEffect(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["effect"]
	e, ok := effect.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown_effect", Message: fmt.Sprintf("effect %q does not exist", name)})
		return
	}

	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	input, filename, err := readUpload(r, s.maxUploadBytes)
	if errors.Is(err, errUploadTooLarge) {
		log.Warn("Rejected upload: %v", err)
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "too_large", Message: fmt.Sprintf("media too large, limit is %d bytes", s.maxUploadBytes)})
		return
	}
	if err != nil {
		log.Warn("Rejected upload: %v", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_upload", Message: "multipart field \"media\" with a file is required"})
		return
	}

	var result pipeline.Result
	if kind, known := videokind.FromExtension(filename); known {
		result, err = s.processor.Process(input, kind, e)
	} else {
		result, err = s.processor.ProcessDetect(input, e)
	}
	if err != nil {
		log.Error("Applying effect [%s] to %s failed: %v", e, filename, err)
		writeProcessError(w, err)
		return
	}

	log.Info("Applied effect [%s] to %s: %d frames", e, filename, result.FrameCount)
	writeResult(w, result, outputFilename(e, filename, result.Kind))
}

// http.MaxBytesReader reports an oversized body only through this message.
const bodyTooLargeErrMsg = "http: request body too large"

var errUploadTooLarge = errors.New("upload exceeds size limit")

func readUpload(r *http.Request, maxUploadBytes int64) ([]byte, string, error) {
	if maxUploadBytes > 0 && r.ContentLength > maxUploadBytes {
		return nil, "", xerror.Errorf("%w: declared %d bytes", errUploadTooLarge, r.ContentLength)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if strings.Contains(err.Error(), bodyTooLargeErrMsg) {
			return nil, "", xerror.Errorf("%w: %v", errUploadTooLarge, err)
		}
		return nil, "", xerror.Errorf("unable to parse upload: %w", err)
	}
	file, header, err := r.FormFile(mediaFormField)
	if err != nil {
		return nil, "", xerror.Errorf("missing %s field: %w", mediaFormField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", xerror.Errorf("unable to read upload: %w", err)
	}
	return data, header.Filename, nil
}

func outputFilename(e effect.Effect, uploaded string, kind videoframe.Kind) string {
	base := strings.TrimSuffix(filepath.Base(uploaded), filepath.Ext(uploaded))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = defaultMediaBase
	}
	return fmt.Sprintf("%s_%s%s", e, base, kind.Extension())
}

func writeResult(w http.ResponseWriter, result pipeline.Result, filename string) {
	h := w.Header()
	h.Set("Content-Type", result.Kind.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(result.Media)))
	h.Set(HeaderFrames, strconv.Itoa(result.FrameCount))
	if result.Kind == videoframe.AnimatedImage {
		h.Set(HeaderDurations, result.Timing.DurationsString())
	} else {
		h.Set(HeaderFPS, strconv.FormatFloat(result.Timing.FPS, 'f', -1, 64))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Media); err != nil {
		log.Warn("Unable to write response body: %v", err)
	}
}

func writeProcessError(w http.ResponseWriter, err error) {
	kind := videoerr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case videoerr.KindDecode, videoerr.KindEmptyInput:
		status = http.StatusUnprocessableEntity
	}
	code := string(kind)
	if kind == xerror.NA {
		code = "internal"
	}
	writeJSON(w, status, errorBody{Error: code, Message: videoerr.Describe(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("Unable to encode response: %v", err)
	}
}
