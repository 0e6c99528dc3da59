package main

import (
	"context"
	"fmt"
	"os"

	"github.com/core-tools/hsu-charm-nginx/cmd/charm/bootstrap"
	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/fetch"
	"github.com/core-tools/hsu-charm-nginx/pkg/machinecharm"
	"github.com/core-tools/hsu-charm-nginx/pkg/packages"
	"github.com/core-tools/hsu-charm-nginx/pkg/process"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrolimpl"
)

type flagOptions struct {
	bootstrap.CommonOptions
}

func main() {
	var opts flagOptions
	bootstrap.ParseFlags(&opts)

	runtime, err := bootstrap.NewRuntime(machinecharm.Name, opts.CommonOptions)
	if err != nil {
		fmt.Printf("Failed to initialize charm: %v\n", err)
		os.Exit(1)
	}
	logger := runtime.Logger

	logger.Debugf("opts: %+v", opts)

	options := machinecharm.DefaultOptions()
	if opts.ConfigPath != "" {
		options.ConfigPath = opts.ConfigPath
	}
	if opts.ContentRoot != "" {
		options.ContentRoot = opts.ContentRoot
	}

	control := processcontrolimpl.NewSystemdControl(workload.NginxSystemdUnit().Control, processcontrolimpl.NewDBusAPI, logger)
	installer := packages.NewAptInstaller(process.NewStdRunCmd("apt", logger), logger)

	framework := charm.NewFramework(charm.Options{
		Name:           machinecharm.Name,
		Host:           runtime.Tools,
		ConfigDefaults: runtime.Defaults,
		Logger:         logger,
	})
	machine, err := machinecharm.New(options, control, installer, fetch.NewFetcher(nil, logger), logger)
	if err != nil {
		runtime.Exit(err)
	}
	machine.Register(framework)

	if err := runtime.Dispatch(context.Background(), framework, opts.CommonOptions); err != nil {
		runtime.Exit(err)
	}
	runtime.Close()
}
