package processcontrolimpl

import (
	"context"
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DBusAPI is the subset of the systemd dbus connection used to control units
type DBusAPI interface {
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	ReloadUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
	Close()
}

// DBusAPIFactory opens a connection to systemd
type DBusAPIFactory func(ctx context.Context) (DBusAPI, error)

// NewDBusAPI connects to the system bus
func NewDBusAPI(ctx context.Context) (DBusAPI, error) {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type unitJob func(api DBusAPI, ctx context.Context, name string, mode string, ch chan<- string) (int, error)

type systemdControl struct {
	newDBus DBusAPIFactory
	jobMode string
	logger  logging.Logger
}

// NewSystemdControl returns a ProcessControl driving systemd units over dbus.
// Service names without a unit suffix get ".service".
func NewSystemdControl(config processcontrol.SystemdControlConfig, newDBus DBusAPIFactory, logger logging.Logger) processcontrol.ProcessControl {
	jobMode := config.JobMode
	if jobMode == "" {
		jobMode = "replace"
	}
	return &systemdControl{
		newDBus: newDBus,
		jobMode: jobMode,
		logger:  logger,
	}
}

func (c *systemdControl) Start(ctx context.Context, names ...string) error {
	return c.runJobs(ctx, "start", DBusAPI.StartUnitContext, names)
}

func (c *systemdControl) Stop(ctx context.Context, names ...string) error {
	return c.runJobs(ctx, "stop", DBusAPI.StopUnitContext, names)
}

func (c *systemdControl) Restart(ctx context.Context, names ...string) error {
	return c.runJobs(ctx, "restart", DBusAPI.RestartUnitContext, names)
}

func (c *systemdControl) Reload(ctx context.Context, names ...string) error {
	return c.runJobs(ctx, "reload", DBusAPI.ReloadUnitContext, names)
}

func (c *systemdControl) Services(ctx context.Context, names ...string) ([]processcontrol.ServiceStatus, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	unitNames := make([]string, 0, len(names))
	for _, name := range names {
		unitNames = append(unitNames, unitName(name))
	}

	var units []dbus.UnitStatus
	if len(unitNames) == 0 {
		units, err = conn.ListUnitsContext(ctx)
	} else {
		units, err = conn.ListUnitsByNamesContext(ctx, unitNames)
	}
	if err != nil {
		return nil, errors.NewProcessError("failed to query units from dbus", err).WithContext("units", unitNames)
	}

	statuses := make([]processcontrol.ServiceStatus, 0, len(units))
	for _, unit := range units {
		if unit.LoadState == "not-found" || !strings.HasSuffix(unit.Name, ".service") {
			continue
		}
		statuses = append(statuses, processcontrol.ServiceStatus{
			Name:  strings.TrimSuffix(unit.Name, ".service"),
			State: unitState(unit),
		})
	}
	return statuses, nil
}

func (c *systemdControl) connect(ctx context.Context) (DBusAPI, error) {
	conn, err := c.newDBus(ctx)
	if err != nil {
		c.logger.Errorf("Failed to connect to dbus, error: %v", err)
		return nil, errors.NewProcessError("failed to connect to systemd", err)
	}
	return conn, nil
}

func (c *systemdControl) runJobs(ctx context.Context, op string, job unitJob, names []string) error {
	if len(names) == 0 {
		return errors.NewValidationError("no service to "+op, nil)
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, name := range names {
		unit := unitName(name)
		c.logger.Debugf("Submitting systemd job, op: %s, unit: %s, mode: %s", op, unit, c.jobMode)

		statusCh := make(chan string, 1)
		if _, err := job(conn, ctx, unit, c.jobMode, statusCh); err != nil {
			return errors.NewProcessError("dbus "+op+" request failed", err).WithContext("unit", unit)
		}
		if err := c.wait(ctx, op, unit, statusCh); err != nil {
			return err
		}
		c.logger.Debugf("Systemd job done, op: %s, unit: %s", op, unit)
	}
	return nil
}

func (c *systemdControl) wait(ctx context.Context, op string, unit string, statusCh <-chan string) error {
	select {
	case status := <-statusCh:
		if status != "done" {
			return errors.NewProcessError("failed to "+op+" unit", nil).
				WithContext("unit", unit).
				WithContext("job_result", status)
		}
		return nil
	case <-ctx.Done():
		return errors.NewProcessError("cancelled waiting for "+op+" job", ctx.Err()).WithContext("unit", unit)
	}
}

func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

func unitState(unit dbus.UnitStatus) processcontrol.ProcessState {
	switch unit.ActiveState {
	case "active":
		return processcontrol.ProcessStateRunning
	case "activating", "reloading":
		return processcontrol.ProcessStateStarting
	case "deactivating":
		return processcontrol.ProcessStateStopping
	case "inactive":
		return processcontrol.ProcessStateIdle
	case "failed":
		return processcontrol.ProcessStateFailedStart
	default:
		return processcontrol.ProcessStateUnknown
	}
}
