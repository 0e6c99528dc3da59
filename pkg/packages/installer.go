// Package packages installs distribution packages on a machine unit.
package packages

import (
	"context"
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/process"
)

const AptGet = "apt-get"

// Installer installs packages and their dependencies
type Installer interface {
	Install(ctx context.Context, packages ...string) error
}

type aptInstaller struct {
	run    process.RunCmd
	logger logging.Logger
}

// NewAptInstaller returns an Installer that runs apt-get through run
func NewAptInstaller(run process.RunCmd, logger logging.Logger) Installer {
	return &aptInstaller{
		run:    run,
		logger: logger,
	}
}

// Install refreshes the package index and installs packages. A failure
// carries apt's stderr under the "output" context key.
func (a *aptInstaller) Install(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return errors.NewValidationError("no packages to install", nil)
	}

	a.logger.Debugf("Updating apt cache")
	if err := a.aptGet(ctx, packages, "update"); err != nil {
		return err
	}
	a.logger.Debugf("Installing apt packages: %s", strings.Join(packages, ", "))
	if err := a.aptGet(ctx, packages, append([]string{"install", "-y"}, packages...)...); err != nil {
		return err
	}

	return nil
}

func (a *aptInstaller) aptGet(ctx context.Context, packages []string, args ...string) error {
	output, err := a.run(ctx, process.ExecutionConfig{
		ExecutablePath: AptGet,
		Args:           args,
		Environment:    []string{"DEBIAN_FRONTEND=noninteractive"},
	})
	if err != nil {
		installErr := errors.NewInstallError("failed to install packages: "+strings.Join(packages, " "), err).
			WithContext("command", AptGet+" "+strings.Join(args, " "))
		if output != nil {
			installErr = installErr.WithContext("output", string(output.Stderr))
		}
		return installErr
	}
	return nil
}
