package workload

import "github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

// SystemdUnit is a workload installed on the machine and run by systemd
type SystemdUnit struct {
	Metadata UnitMetadata
	Control  processcontrol.SystemdControlConfig
}
