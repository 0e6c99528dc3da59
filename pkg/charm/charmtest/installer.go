package charmtest

import (
	"context"
)

// Installer records installed packages; Err fails every install
type Installer struct {
	Installed []string
	Err       error

	// OnInstall runs after a successful install, e.g. to register the
	// package's service with a fake ProcessControl
	OnInstall func(packages []string)
}

func (i *Installer) Install(ctx context.Context, packages ...string) error {
	if i.Err != nil {
		return i.Err
	}
	i.Installed = append(i.Installed, packages...)
	if i.OnInstall != nil {
		i.OnInstall(packages)
	}
	return nil
}
