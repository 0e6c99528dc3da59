package processcontrol

import (
	"context"
	"io"
	"os"
)

// ProcessControl defines the contract for controlling workload services
// through the environment's service manager
type ProcessControl interface {
	// Start starts the named services and waits until the manager is done
	Start(ctx context.Context, names ...string) error

	// Stop stops the named services
	Stop(ctx context.Context, names ...string) error

	// Restart restarts the named services
	Restart(ctx context.Context, names ...string) error

	// Reload asks the named services to reread their configuration
	Reload(ctx context.Context, names ...string) error

	// Services reports the named services, or every known service when no
	// name is given. Unknown names are left out.
	Services(ctx context.Context, names ...string) ([]ServiceStatus, error)
}

// PlanControl is a ProcessControl whose services are declared by layers
// added at runtime
type PlanControl interface {
	ProcessControl

	// AddLayer merges layer into the plan under layer.Label
	AddLayer(ctx context.Context, layer Layer) error

	// AutoStart starts every service whose startup is enabled
	AutoStart(ctx context.Context) error
}

// PushOptions controls how a file is written into a workload filesystem
type PushOptions struct {
	MakeDirs    bool
	Permissions os.FileMode
}

// FilePusher writes files into the workload's filesystem
type FilePusher interface {
	Push(ctx context.Context, path string, source io.Reader, options PushOptions) error
}

// ProcessControlOptions describes how a workload's service is controlled
type ProcessControlOptions struct {
	// ServiceName is the name the service manager knows the workload by
	ServiceName string

	CanReload bool // Manager can reload configuration in place

	// Layer declares the service for plan-managed workloads, nil otherwise
	Layer *Layer
}
