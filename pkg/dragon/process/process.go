// Package process runs long lived work, such as serving the effects API,
// behind a uniform start, stop and wait lifecycle.
package process

import (
	"context"
	"sync"

	"github.com/tauraamui/dragonfx/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.logShutdown()
	if p.canceller != nil {
		p.canceller()
	}
}

func (p *process) Wait() {
	for _, sig := range p.signals {
		<-sig
	}
}

// NewGroup treats several processes as one, starting them in order
// and waiting on all of them concurrently.
func NewGroup(procs ...Process) Process {
	return &group{procs: procs}
}

type group struct {
	procs []Process
}

func (g *group) Setup() Process {
	for _, proc := range g.procs {
		proc.Setup()
	}
	return g
}

func (g *group) Start() {
	for _, proc := range g.procs {
		proc.Start()
	}
}

func (g *group) Stop() {
	for _, proc := range g.procs {
		proc.Stop()
	}
}

func (g *group) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(len(g.procs))
	for _, proc := range g.procs {
		go func(wg *sync.WaitGroup, proc Process) {
			proc.Wait()
			wg.Done()
		}(&wg, proc)
	}
	wg.Wait()
}
