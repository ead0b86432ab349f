package dragon

import (
	"time"

	"github.com/tauraamui/dragonfx/pkg/dragon/process"
	"github.com/tauraamui/dragonfx/pkg/log"
)

const staleStagedFileAge = time.Hour

// SetupProcesses gathers the API server and the staged file sweeper
// into one group which starts, stops and waits as a unit.
func (s *Server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var procs []process.Process
	if s.listener != nil {
		serve := process.New(process.Settings{
			WaitForShutdownMsg: "Stopping effects API...",
			Process:            process.ServeHTTP(s.listener, s.api.Handler()),
		})
		procs = append(procs, serve)
	} else {
		log.Warn("Server is not listening... effects API will not be served")
	}

	sweep := process.New(process.Settings{
		WaitForShutdownMsg: "Stopping sweeping of staged files...",
		Process:            process.SweepStagedFiles(s.config.TempDir, staleStagedFileAge),
	})
	procs = append(procs, sweep)

	s.processes = process.NewGroup(procs...).Setup()
}

func (s *Server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processes == nil {
		log.Warn("No processes set up... nothing to run")
		return
	}
	s.processes.Start()
}

func (s *Server) shutdownProcesses() {
	if s.processes == nil {
		return
	}
	s.processes.Stop()
	s.processes.Wait()
}
