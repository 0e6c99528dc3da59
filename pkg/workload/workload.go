// Package workload describes the service a charm manages and how its
// environment's service manager controls it.
package workload

import "github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

// UnitMetadata names a workload for logs and descriptions
type UnitMetadata struct {
	Name        string
	Description string
}

type Workload interface {
	ID() string
	Metadata() UnitMetadata
	ProcessControlOptions() processcontrol.ProcessControlOptions
}
