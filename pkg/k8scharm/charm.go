// Package k8scharm manages nginx running in a workload container next to
// the charm, through the container's Pebble daemon.
package k8scharm

import (
	"bytes"
	"context"
	"path"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/fetch"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/nginx"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

const (
	Name          = "k8s-charm"
	ContainerName = "nginx"

	Fortune       = "A bug in the code is worth two in the documentation."
	FetchFileName = "test.html"
)

// Container is the workload container as seen through Pebble
type Container interface {
	processcontrol.PlanControl
	processcontrol.FilePusher
}

type Options struct {
	// ConfigPath is the site config path inside the container
	ConfigPath string

	// ContentRoot receives fetched files inside the container
	ContentRoot string
}

func DefaultOptions() Options {
	return Options{
		ConfigPath:  nginx.ContainerConfigPath,
		ContentRoot: nginx.ContentRoot,
	}
}

type Charm struct {
	options   Options
	container Container
	fetcher   *fetch.Fetcher
	logger    logging.Logger
}

func New(options Options, container Container, fetcher *fetch.Fetcher, logger logging.Logger) *Charm {
	return &Charm{
		options:   options,
		container: container,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// Register observes every hook and action the charm handles
func (c *Charm) Register(framework *charm.Framework) {
	framework.RegisterHook(charm.WorkloadReady(ContainerName), c.onNginxPebbleReady)
	framework.RegisterHook(charm.EventConfigChanged, c.onConfigChanged)
	framework.RegisterAction(charm.ActionFortune, c.onFortuneAction)
	framework.RegisterAction(charm.ActionFetchFile, c.onFetchFileAction)
}

// workload describes nginx for config. thing ends up in the layer, so the
// unit is validated each time.
func (c *Charm) workload(config charmconfig.Config) (workload.Workload, error) {
	unit := workload.NginxPebbleUnit(config.Thing)
	if err := workload.ValidatePebbleUnit(*unit); err != nil {
		return nil, err
	}
	return workload.NewPebbleWorkload(ContainerName, unit, c.logger), nil
}

func (c *Charm) onNginxPebbleReady(ctx context.Context, hc *charm.HookContext) error {
	config, err := hc.Config(ctx)
	if err != nil {
		return err
	}

	w, err := c.workload(config)
	if err != nil {
		return err
	}
	options := w.ProcessControlOptions()
	c.logger.Infof("Adding layer %s for %s, container: %s", options.Layer.Label, w.Metadata().Name, w.ID())
	if err := c.container.AddLayer(ctx, *options.Layer); err != nil {
		return err
	}
	if err := c.container.AutoStart(ctx); err != nil {
		return err
	}
	if err := c.pushConfig(ctx, config); err != nil {
		return err
	}
	return hc.SetUnitStatus(ctx, charm.ActiveStatus(""))
}

// onConfigChanged only touches nginx once its service is in the plan;
// before that, the workload-ready hook renders the config.
func (c *Charm) onConfigChanged(ctx context.Context, hc *charm.HookContext) error {
	config, err := hc.Config(ctx)
	if err != nil {
		return err
	}

	var added bool
	if hc.State, added = hc.State.Record(config.Thing); added {
		c.logger.Debugf("found a new thing: %q", config.Thing)
	}
	c.logger.Infof("my-config-option: %s", config.MyConfigOption)

	w, err := c.workload(config)
	if err != nil {
		return err
	}
	serviceName := w.ProcessControlOptions().ServiceName
	services, err := c.container.Services(ctx, serviceName)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		c.logger.Debugf("Service %s not in plan yet, leaving config to pebble-ready", serviceName)
		return nil
	}

	if err := c.pushConfig(ctx, config); err != nil {
		return err
	}
	c.logger.Infof("Stopping Nginx")
	if err := c.container.Stop(ctx, serviceName); err != nil {
		return err
	}
	c.logger.Infof("Starting Nginx")
	return c.container.Start(ctx, serviceName)
}

func (c *Charm) pushConfig(ctx context.Context, config charmconfig.Config) error {
	c.logger.Infof("Nginx port >>> %d", config.Port)
	data, err := nginx.Render(config.Port)
	if err != nil {
		return err
	}
	c.logger.Infof("Pushing the Nginx config")
	return c.container.Push(ctx, c.options.ConfigPath, bytes.NewReader(data), processcontrol.PushOptions{
		MakeDirs:    true,
		Permissions: 0644,
	})
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

	sink := fetch.NewPushSink(c.container, path.Join(c.options.ContentRoot, FetchFileName), 0644)
	result := c.fetcher.Fetch(ctx, url, sink)
	return charm.Succeed(map[string]string{"result": result.Message()}), nil
}
