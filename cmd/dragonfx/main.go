package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/dragonfx/pkg/config"
	"github.com/tauraamui/dragonfx/pkg/configdef"
	"github.com/tauraamui/dragonfx/pkg/dragon"
	"github.com/tauraamui/dragonfx/pkg/effect"
	"github.com/tauraamui/dragonfx/pkg/log"
)

const (
	name        = "dragonfx"
	description = "Dragon effects service which applies visual effects to uploaded videos and GIFs"
)

type Service struct {
	daemon.Daemon
}

// Setup writes a default config file if one does not already exist
func (service *Service) Setup() (string, error) {
	log.Info("Setting up dragonfx service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for dragonfx service...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Apply(args []string) (string, error) {
	if len(args) != 3 {
		return "Usage: dragonfx apply <effect> <input> <output>", nil
	}

	e, ok := effect.Lookup(args[0])
	if !ok {
		known := []string{}
		for _, e := range effect.All() {
			known = append(known, e.String())
		}
		return "", fmt.Errorf("unknown effect %q, expected one of: %s", args[0], strings.Join(known, ", "))
	}

	server, err := dragon.NewServer(config.DefaultResolver(), os.Getenv("DRAGONFX_VIDEO_BACKEND"))
	if err != nil {
		return "", err
	}

	result, err := server.ApplyFile(e, args[1], args[2])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Applied %s to %d frames, written to %s", e, result.FrameCount, args[2]), nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: dragonfx setup | remove-setup | install | remove | start | stop | status | apply <effect> <input> <output>"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		case "apply":
			return service.Apply(os.Args[2:])
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting dragonfx...")

	server, err := dragon.NewServer(config.DefaultResolver(), os.Getenv("DRAGONFX_VIDEO_BACKEND"))
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := server.Listen(); err != nil {
		log.Fatal(err.Error())
	}
	server.SetupProcesses()
	server.RunProcesses()

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	log.Info("Shutting down server...")
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

func init() {
	log.SetLevel(os.Getenv("DRAGONFX_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
