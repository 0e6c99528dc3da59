// Package machinecharm manages nginx installed on a machine: apt installs
// it, systemd runs it and config-changed rewrites its site config.
package machinecharm

import (
	"context"
	"path/filepath"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/fetch"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/nginx"
	"github.com/core-tools/hsu-charm-nginx/pkg/packages"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

	"github.com/google/renameio"
)

const (
	Name = "machine-charm"

	Fortune       = "A bug in the code is worth two in the documentation."
	FetchFileName = "test.html"
)

type Options struct {
	// ConfigPath is where the rendered site config goes
	ConfigPath string

	// ContentRoot receives fetched files
	ContentRoot string
}

func DefaultOptions() Options {
	return Options{
		ConfigPath:  nginx.MachineConfigPath,
		ContentRoot: nginx.ContentRoot,
	}
}

type Charm struct {
	options   Options
	workload  workload.Workload
	control   processcontrol.ProcessControl
	installer packages.Installer
	fetcher   *fetch.Fetcher
	logger    logging.Logger
}

func New(options Options, control processcontrol.ProcessControl, installer packages.Installer, fetcher *fetch.Fetcher, logger logging.Logger) (*Charm, error) {
	unit := workload.NginxSystemdUnit()
	if err := workload.ValidateSystemdUnit(*unit); err != nil {
		return nil, err
	}

	return &Charm{
		options:   options,
		workload:  workload.NewSystemdWorkload(nginx.ServiceName, unit, logger),
		control:   control,
		installer: installer,
		fetcher:   fetcher,
		logger:    logger,
	}, nil
}

// Register observes every hook and action the charm handles
func (c *Charm) Register(framework *charm.Framework) {
	framework.RegisterHook(charm.EventInstall, c.onInstall)
	framework.RegisterHook(charm.EventConfigChanged, c.onConfigChanged)
	framework.RegisterHook(charm.EventStart, c.onStart)
	framework.RegisterAction(charm.ActionFortune, c.onFortuneAction)
	framework.RegisterAction(charm.ActionFetchFile, c.onFetchFileAction)
}

func (c *Charm) serviceName() string {
	return c.workload.ProcessControlOptions().ServiceName
}

// onInstall turns a package failure into a blocked unit, not a hook error
func (c *Charm) onInstall(ctx context.Context, hc *charm.HookContext) error {
	c.logger.Infof("Installing Nginx package")
	c.logger.Debugf("Workload %s: %s", c.workload.ID(), c.workload.Metadata().Description)
	if err := hc.SetUnitStatus(ctx, charm.MaintenanceStatus("Installing Nginx")); err != nil {
		return err
	}

	if err := c.installer.Install(ctx, nginx.PackageName); err != nil {
		if !errors.IsInstallError(err) {
			return err
		}
		c.logger.Errorf("Failed to install packages: %s", nginx.PackageName)
		c.logger.Debugf("apt error: %v", err)
		return hc.SetUnitStatus(ctx, charm.BlockedStatus("Failed to install packages"))
	}
	return nil
}

func (c *Charm) onConfigChanged(ctx context.Context, hc *charm.HookContext) error {
	config, err := hc.Config(ctx)
	if err != nil {
		return err
	}

	var added bool
	if hc.State, added = hc.State.Record(config.Thing); added {
		c.logger.Debugf("found a new thing: %q", config.Thing)
	}

	c.logger.Infof("Nginx port: %d", config.Port)
	data, err := nginx.Render(config.Port)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(c.options.ConfigPath, data, 0644); err != nil {
		return errors.NewIOError("failed to write nginx config", err).WithContext("path", c.options.ConfigPath)
	}

	options := c.workload.ProcessControlOptions()
	if options.CanReload {
		return c.control.Reload(ctx, options.ServiceName)
	}
	return c.control.Restart(ctx, options.ServiceName)
}

func (c *Charm) onStart(ctx context.Context, hc *charm.HookContext) error {
	c.logger.Infof("Starting %s service, workload: %s", c.workload.Metadata().Name, c.workload.ID())
	if err := c.control.Start(ctx, c.serviceName()); err != nil {
		return err
	}
	if err := c.verifyRunning(ctx); err != nil {
		return err
	}
	if err := hc.SetUnitStatus(ctx, charm.ActiveStatus("Unit is ready")); err != nil {
		return err
	}

	leader, err := hc.IsLeader(ctx)
	if err != nil {
		return err
	}
	if !leader {
		return nil
	}
	return hc.SetApplicationStatus(ctx, charm.ActiveStatus("Application is ready"))
}

// verifyRunning fails when systemd finished the start job but the unit did
// not stay active
func (c *Charm) verifyRunning(ctx context.Context) error {
	name := c.serviceName()
	services, err := c.control.Services(ctx, name)
	if err != nil {
		return err
	}
	for _, service := range services {
		if service.Name == name && service.Running() {
			return nil
		}
	}
	return errors.NewProcessError("service not running after start", nil).WithContext("service", name)
}

func (c *Charm) onFortuneAction(ctx context.Context, ac *charm.ActionContext) (charm.ActionResult, error) {
	fail, err := ac.StringParam("fail")
	if err != nil {
		return charm.ActionResult{}, err
	}
	if fail != "" {
		return charm.Fail(fail), nil
	}
	return charm.Succeed(map[string]string{"fortune": Fortune}), nil
}

func (c *Charm) onFetchFileAction(ctx context.Context, ac *charm.ActionContext) (charm.ActionResult, error) {
	url, err := ac.StringParam("url")
	if err != nil {
		return charm.ActionResult{}, err
	}

	sink := fetch.NewLocalSink(filepath.Join(c.options.ContentRoot, FetchFileName), 0644)
	result := c.fetcher.Fetch(ctx, url, sink)
	return charm.Succeed(map[string]string{"result": result.Message()}), nil
}
