package dragon

import (
	"net"
	"sync"

	"github.com/tauraamui/dragonfx/pkg/api"
	"github.com/tauraamui/dragonfx/pkg/configdef"
	"github.com/tauraamui/dragonfx/pkg/dragon/process"
	"github.com/tauraamui/dragonfx/pkg/log"
	"github.com/tauraamui/dragonfx/pkg/pipeline"
	"github.com/tauraamui/dragonfx/pkg/video/videobackend"
	"github.com/tauraamui/dragonfx/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type Server struct {
	shutdownDone chan interface{}
	config       configdef.Values
	pipeline     *pipeline.Pipeline
	api          *api.Server
	listener     net.Listener
	mu           sync.Mutex
	processes    process.Process
}

// NewServer resolves configuration and prepares the effects pipeline,
// backend overrides the configured video backend when set.
func NewServer(cr configdef.Resolver, backend string) (*Server, error) {
	config, err := cr.Resolve()
	if err != nil {
		return nil, xerror.Errorf("unable to resolve config: %w", err)
	}

	if config.Debug {
		log.SetLevel("debug")
	}

	if len(backend) == 0 {
		backend = config.VideoBackend
	}
	settings := config.BackendSettings()
	p := pipeline.New(func(kind videoframe.Kind) videobackend.Backend {
		return videobackend.Resolve(backend, kind, settings)
	})

	return &Server{
		config:   config,
		pipeline: p,
		api:      api.NewServer(p, config.MaxUploadBytes()),
	}, nil
}

func (s *Server) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}

func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return xerror.Errorf("unable to listen on %s: %w", s.config.ListenAddress, err)
	}
	log.Info("Listening on [%s]...", listener.Addr())
	s.listener = listener
	return nil
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownProcesses()
	close(s.shutdownDone)
}

func (s *Server) Shutdown() chan interface{} {
	s.shutdownDone = make(chan interface{})
	go s.shutdown()
	return s.shutdownDone
}
