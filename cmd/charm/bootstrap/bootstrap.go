// Package bootstrap holds what both charm binaries do before dispatching
// an event: parse flags, wire logging to juju-log, load config defaults.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/hooktools"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"

	flags "github.com/jessevdk/go-flags"
)

// CommonOptions are the flags shared by every charm binary
type CommonOptions struct {
	Event       string `long:"event" description:"hook or action to run, e.g. hooks/install or actions/fortune"`
	CharmDir    string `long:"charm-dir" env:"JUJU_CHARM_DIR" default:"." description:"charm directory holding config.yaml"`
	LogLevel    string `long:"log-level" default:"info" description:"debug, info, warning or error"`
	ContentRoot string `long:"content-root" description:"directory receiving fetched files"`
	ConfigPath  string `long:"config-path" description:"nginx site config path"`
}

// ParseFlags parses argv into opts, exiting on failure
func ParseFlags(opts interface{}) {
	parser := flags.NewParser(opts, flags.HelpFlag)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}
}

// Runtime is everything a charm needs from the unit it runs on
type Runtime struct {
	Logger   logging.Logger
	Tools    *hooktools.Tools
	Defaults charmconfig.Config

	sync func() error
}

// NewRuntime builds a logger that writes to stderr and juju-log, and hook
// tools that log through it.
func NewRuntime(name string, opts CommonOptions) (*Runtime, error) {
	level, err := logging.ParseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}

	var tools *hooktools.Tools
	logger, sync := logging.NewZapLogger(fmt.Sprintf("module: %s, ", name), logging.ZapOptions{
		Level: level,
		JujuLog: func(level string, message string) error {
			if tools == nil {
				return nil
			}
			return tools.JujuLog(level, message)
		},
	})
	tools = hooktools.New(logger)

	defaults, err := loadDefaults(opts.CharmDir, logger)
	if err != nil {
		sync()
		return nil, err
	}

	return &Runtime{
		Logger:   logger,
		Tools:    tools,
		Defaults: defaults,
		sync:     sync,
	}, nil
}

// loadDefaults falls back to the built-in defaults when the charm ships
// no config.yaml
func loadDefaults(charmDir string, logger logging.Logger) (charmconfig.Config, error) {
	filename := filepath.Join(charmDir, "config.yaml")
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		logger.Debugf("No %s, using built-in config defaults", filename)
		return charmconfig.DefaultConfig(), nil
	}
	return charmconfig.LoadDefaultsFromFile(filename)
}

// Dispatch resolves the current event and runs it through framework
func (r *Runtime) Dispatch(ctx context.Context, framework *charm.Framework, opts CommonOptions) error {
	name, err := charm.ResolveEventName(os.Getenv("JUJU_DISPATCH_PATH"), opts.Event, os.Args[0])
	if err != nil {
		return err
	}
	r.Logger.Debugf("Dispatching %s, charm: %s", name, framework.Name())
	return framework.Dispatch(ctx, name)
}

func (r *Runtime) Close() {
	r.sync()
}

// Exit logs err and terminates with a failing status
func (r *Runtime) Exit(err error) {
	if errors.IsValidationError(err) {
		r.Logger.Errorf("Invalid invocation: %v", err)
	} else {
		r.Logger.Errorf("Charm failed: %v", err)
	}
	r.Close()
	os.Exit(1)
}
