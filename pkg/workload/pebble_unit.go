package workload

import "github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"

// PebbleUnit is a workload running in a container under Pebble
type PebbleUnit struct {
	Metadata UnitMetadata
	Layer    processcontrol.Layer

	// ServiceName selects the layer service the workload is
	ServiceName string
}
