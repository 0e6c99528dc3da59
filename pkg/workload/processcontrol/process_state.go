package processcontrol

// ProcessState represents the current lifecycle state of a workload service
type ProcessState string

const (
	ProcessStateIdle        ProcessState = "idle"         // Service not running
	ProcessStateStarting    ProcessState = "starting"     // Service startup or reload in progress
	ProcessStateRunning     ProcessState = "running"      // Service running normally
	ProcessStateStopping    ProcessState = "stopping"     // Shutdown in progress
	ProcessStateFailedStart ProcessState = "failed_start" // Service failed or is backing off
	ProcessStateUnknown     ProcessState = "unknown"      // Service manager reported something else
)

// ServiceStatus is the state of one named service as seen by its manager
type ServiceStatus struct {
	Name  string
	State ProcessState

	// Startup is "enabled" or "disabled" when the manager reports it
	Startup string
}

// Running reports whether the service is up
func (s ServiceStatus) Running() bool {
	return s.State == ProcessStateRunning
}
