package main

import (
	"context"
	"fmt"
	"os"

	"github.com/core-tools/hsu-charm-nginx/cmd/charm/bootstrap"
	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/fetch"
	"github.com/core-tools/hsu-charm-nginx/pkg/k8scharm"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrolimpl"
)

type flagOptions struct {
	bootstrap.CommonOptions
	PebbleSocket string `long:"pebble-socket" default:"/charm/containers/nginx/pebble.socket" description:"socket of the workload container's Pebble"`
}

func main() {
	var opts flagOptions
	bootstrap.ParseFlags(&opts)

	runtime, err := bootstrap.NewRuntime(k8scharm.Name, opts.CommonOptions)
	if err != nil {
		fmt.Printf("Failed to initialize charm: %v\n", err)
		os.Exit(1)
	}
	logger := runtime.Logger

	logger.Debugf("opts: %+v", opts)

	options := k8scharm.DefaultOptions()
	if opts.ConfigPath != "" {
		options.ConfigPath = opts.ConfigPath
	}
	if opts.ContentRoot != "" {
		options.ContentRoot = opts.ContentRoot
	}

	pebble, err := processcontrolimpl.NewPebbleClient(opts.PebbleSocket)
	if err != nil {
		runtime.Exit(err)
	}
	container := processcontrolimpl.NewPebbleControl(pebble, logger)

	framework := charm.NewFramework(charm.Options{
		Name:           k8scharm.Name,
		Host:           runtime.Tools,
		ConfigDefaults: runtime.Defaults,
		Logger:         logger,
	})
	k8scharm.New(options, container, fetch.NewFetcher(nil, logger), logger).Register(framework)

	if err := runtime.Dispatch(context.Background(), framework, opts.CommonOptions); err != nil {
		runtime.Exit(err)
	}
	runtime.Close()
}
