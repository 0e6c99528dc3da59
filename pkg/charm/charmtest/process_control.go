package charmtest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

// ProcessControl is an in-memory service manager. It serves as both the
// systemd and the Pebble controller. Ops records every operation as
// "<op> <names>"; FailOn makes an op return its error. Services named in
// Crashing accept a start but end up failed.
type ProcessControl struct {
	Layers   []processcontrol.Layer
	Files    map[string][]byte
	Ops      []string
	FailOn   map[string]error
	Crashing map[string]bool

	services map[string]*processcontrol.ServiceStatus
}

func NewProcessControl() *ProcessControl {
	return &ProcessControl{
		Files:    make(map[string][]byte),
		FailOn:   make(map[string]error),
		Crashing: make(map[string]bool),
		services: make(map[string]*processcontrol.ServiceStatus),
	}
}

// Install makes a service known without starting it, as a package would
func (p *ProcessControl) Install(name string) {
	p.services[name] = &processcontrol.ServiceStatus{Name: name, State: processcontrol.ProcessStateIdle}
}

func (p *ProcessControl) record(op string, names []string) error {
	p.Ops = append(p.Ops, strings.TrimSpace(op+" "+strings.Join(names, ",")))
	return p.FailOn[op]
}

func (p *ProcessControl) setState(names []string, state processcontrol.ProcessState) error {
	for _, name := range names {
		service, ok := p.services[name]
		if !ok {
			return fmt.Errorf("service %q not found", name)
		}
		service.State = state
	}
	return nil
}

func (p *ProcessControl) AddLayer(ctx context.Context, layer processcontrol.Layer) error {
	if err := p.record("add-layer", []string{layer.Label}); err != nil {
		return err
	}
	if err := processcontrol.ValidateLayer(layer); err != nil {
		return err
	}
	p.Layers = append(p.Layers, layer)
	for name, spec := range layer.Services {
		service, ok := p.services[name]
		if !ok {
			service = &processcontrol.ServiceStatus{Name: name, State: processcontrol.ProcessStateIdle}
			p.services[name] = service
		}
		service.Startup = spec.Startup
	}
	return nil
}

func (p *ProcessControl) AutoStart(ctx context.Context) error {
	if err := p.record("autostart", nil); err != nil {
		return err
	}
	for _, service := range p.services {
		if service.Startup == processcontrol.StartupEnabled {
			service.State = processcontrol.ProcessStateRunning
		}
	}
	return nil
}

func (p *ProcessControl) Start(ctx context.Context, names ...string) error {
	if err := p.record("start", names); err != nil {
		return err
	}
	if err := p.setState(names, processcontrol.ProcessStateRunning); err != nil {
		return err
	}
	for _, name := range names {
		if p.Crashing[name] {
			p.services[name].State = processcontrol.ProcessStateFailedStart
		}
	}
	return nil
}

func (p *ProcessControl) Stop(ctx context.Context, names ...string) error {
	if err := p.record("stop", names); err != nil {
		return err
	}
	return p.setState(names, processcontrol.ProcessStateIdle)
}

func (p *ProcessControl) Restart(ctx context.Context, names ...string) error {
	if err := p.record("restart", names); err != nil {
		return err
	}
	return p.setState(names, processcontrol.ProcessStateRunning)
}

// Reload leaves the service state alone
func (p *ProcessControl) Reload(ctx context.Context, names ...string) error {
	if err := p.record("reload", names); err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := p.services[name]; !ok {
			return fmt.Errorf("service %q not found", name)
		}
	}
	return nil
}

func (p *ProcessControl) Services(ctx context.Context, names ...string) ([]processcontrol.ServiceStatus, error) {
	if err := p.FailOn["services"]; err != nil {
		return nil, err
	}
	statuses := make([]processcontrol.ServiceStatus, 0, len(p.services))
	for name, service := range p.services {
		if len(names) > 0 && !containsName(names, name) {
			continue
		}
		statuses = append(statuses, *service)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

func (p *ProcessControl) Push(ctx context.Context, path string, source io.Reader, options processcontrol.PushOptions) error {
	if err := p.record("push", []string{path}); err != nil {
		return err
	}
	data, err := io.ReadAll(source)
	if err != nil {
		return err
	}
	p.Files[path] = data
	return nil
}

// Running returns the names of running services, sorted
func (p *ProcessControl) Running() []string {
	var running []string
	for name, service := range p.services {
		if service.Running() {
			running = append(running, name)
		}
	}
	sort.Strings(running)
	return running
}

// CountOps counts recorded operations equal to op
func (p *ProcessControl) CountOps(op string) int {
	count := 0
	for _, recorded := range p.Ops {
		if recorded == op {
			count++
		}
	}
	return count
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
