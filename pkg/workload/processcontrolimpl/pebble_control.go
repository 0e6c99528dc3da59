package processcontrolimpl

import (
	"context"
	"io"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

	"github.com/canonical/pebble/client"
)

// PebbleClient is the subset of the Pebble client used to control a
// workload container
type PebbleClient interface {
	AddLayer(opts *client.AddLayerOptions) error
	Services(opts *client.ServicesOptions) ([]*client.ServiceInfo, error)
	AutoStart(opts *client.ServiceOptions) (changeID string, err error)
	Start(opts *client.ServiceOptions) (changeID string, err error)
	Stop(opts *client.ServiceOptions) (changeID string, err error)
	Restart(opts *client.ServiceOptions) (changeID string, err error)
	WaitChange(id string, opts *client.WaitChangeOptions) (*client.Change, error)
	Push(opts *client.PushOptions) error
}

// NewPebbleClient connects to the Pebble daemon of a workload container
func NewPebbleClient(socket string) (PebbleClient, error) {
	pebble, err := client.New(&client.Config{Socket: socket})
	if err != nil {
		return nil, errors.NewProcessError("failed to create pebble client", err).WithContext("socket", socket)
	}
	return pebble, nil
}

// PebbleControl controls the services of one workload container and
// writes files into it
type PebbleControl interface {
	processcontrol.PlanControl
	processcontrol.FilePusher
}

type changeFunc func(opts *client.ServiceOptions) (string, error)

type pebbleControl struct {
	pebble PebbleClient
	logger logging.Logger
}

func NewPebbleControl(pebble PebbleClient, logger logging.Logger) PebbleControl {
	return &pebbleControl{
		pebble: pebble,
		logger: logger,
	}
}

func (c *pebbleControl) AddLayer(ctx context.Context, layer processcontrol.Layer) error {
	if err := processcontrol.ValidateLayer(layer); err != nil {
		return err
	}
	data, err := layer.Marshal()
	if err != nil {
		return err
	}

	c.logger.Debugf("Adding pebble layer, label: %s, services: %v", layer.Label, layer.ServiceNames())

	err = c.pebble.AddLayer(&client.AddLayerOptions{
		Combine:   true,
		Label:     layer.Label,
		LayerData: data,
	})
	if err != nil {
		return errors.NewProcessError("failed to add pebble layer", err).WithContext("label", layer.Label)
	}
	return nil
}

func (c *pebbleControl) AutoStart(ctx context.Context) error {
	return c.change(ctx, "autostart", c.pebble.AutoStart, nil)
}

func (c *pebbleControl) Start(ctx context.Context, names ...string) error {
	return c.namedChange(ctx, "start", c.pebble.Start, names)
}

func (c *pebbleControl) Stop(ctx context.Context, names ...string) error {
	return c.namedChange(ctx, "stop", c.pebble.Stop, names)
}

func (c *pebbleControl) Restart(ctx context.Context, names ...string) error {
	return c.namedChange(ctx, "restart", c.pebble.Restart, names)
}

// Reload restarts the services: Pebble has no in-place reload
func (c *pebbleControl) Reload(ctx context.Context, names ...string) error {
	return c.namedChange(ctx, "restart", c.pebble.Restart, names)
}

func (c *pebbleControl) Services(ctx context.Context, names ...string) ([]processcontrol.ServiceStatus, error) {
	infos, err := c.pebble.Services(&client.ServicesOptions{Names: names})
	if err != nil {
		return nil, errors.NewProcessError("failed to query pebble services", err).WithContext("services", names)
	}

	statuses := make([]processcontrol.ServiceStatus, 0, len(infos))
	for _, info := range infos {
		statuses = append(statuses, processcontrol.ServiceStatus{
			Name:    info.Name,
			State:   serviceState(info.Current),
			Startup: string(info.Startup),
		})
	}
	return statuses, nil
}

func (c *pebbleControl) Push(ctx context.Context, path string, source io.Reader, options processcontrol.PushOptions) error {
	permissions := options.Permissions
	if permissions == 0 {
		permissions = 0644
	}

	c.logger.Debugf("Pushing file into workload, path: %s, make_dirs: %t", path, options.MakeDirs)

	err := c.pebble.Push(&client.PushOptions{
		Source:      source,
		Path:        path,
		MakeDirs:    options.MakeDirs,
		Permissions: permissions,
	})
	if err != nil {
		return errors.NewIOError("failed to push file into workload", err).WithContext("path", path)
	}
	return nil
}

func (c *pebbleControl) namedChange(ctx context.Context, op string, do changeFunc, names []string) error {
	if len(names) == 0 {
		return errors.NewValidationError("no service to "+op, nil)
	}
	return c.change(ctx, op, do, names)
}

func (c *pebbleControl) change(ctx context.Context, op string, do changeFunc, names []string) error {
	c.logger.Debugf("Submitting pebble change, op: %s, services: %v", op, names)

	changeID, err := do(&client.ServiceOptions{Names: names})
	if err != nil {
		return errors.NewProcessError("pebble "+op+" request failed", err).WithContext("services", names)
	}
	return c.waitChange(ctx, op, changeID, names)
}

func (c *pebbleControl) waitChange(ctx context.Context, op string, changeID string, names []string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewProcessError("cancelled before waiting for "+op+" change", err).WithContext("change", changeID)
	}

	change, err := c.pebble.WaitChange(changeID, &client.WaitChangeOptions{})
	if err != nil {
		return errors.NewProcessError("failed waiting for pebble change", err).
			WithContext("change", changeID).
			WithContext("op", op)
	}
	if change.Err != "" {
		return errors.NewProcessError("pebble "+op+" change failed", nil).
			WithContext("change", changeID).
			WithContext("services", names).
			WithContext("change_error", change.Err)
	}

	c.logger.Debugf("Pebble change done, op: %s, change: %s", op, changeID)
	return nil
}

func serviceState(status client.ServiceStatus) processcontrol.ProcessState {
	switch status {
	case client.StatusActive:
		return processcontrol.ProcessStateRunning
	case client.StatusInactive:
		return processcontrol.ProcessStateIdle
	case client.StatusBackoff, client.StatusError:
		return processcontrol.ProcessStateFailedStart
	default:
		return processcontrol.ProcessStateUnknown
	}
}
