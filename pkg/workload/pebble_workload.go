package workload

import (
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

type pebbleWorkload struct {
	id          string
	metadata    UnitMetadata
	layer       processcontrol.Layer
	serviceName string
	logger      logging.Logger
}

func NewPebbleWorkload(id string, unit *PebbleUnit, logger logging.Logger) Workload {
	return &pebbleWorkload{
		id:          id,
		metadata:    unit.Metadata,
		layer:       unit.Layer,
		serviceName: unit.ServiceName,
		logger:      logger,
	}
}

func (w *pebbleWorkload) ID() string {
	return w.id
}

func (w *pebbleWorkload) Metadata() UnitMetadata {
	return w.metadata
}

func (w *pebbleWorkload) ProcessControlOptions() processcontrol.ProcessControlOptions {
	w.logger.Debugf("Preparing process control options for pebble workload, id: %s, layer: %s, service: %s",
		w.id, w.layer.Label, w.serviceName)

	layer := w.layer
	return processcontrol.ProcessControlOptions{
		ServiceName: w.serviceName,
		CanReload:   false, // Pebble only restarts
		Layer:       &layer,
	}
}
