package workload

import (
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

type systemdWorkload struct {
	id                   string
	metadata             UnitMetadata
	processControlConfig processcontrol.SystemdControlConfig
	logger               logging.Logger
}

func NewSystemdWorkload(id string, unit *SystemdUnit, logger logging.Logger) Workload {
	return &systemdWorkload{
		id:                   id,
		metadata:             unit.Metadata,
		processControlConfig: unit.Control,
		logger:               logger,
	}
}

func (w *systemdWorkload) ID() string {
	return w.id
}

func (w *systemdWorkload) Metadata() UnitMetadata {
	return w.metadata
}

func (w *systemdWorkload) ProcessControlOptions() processcontrol.ProcessControlOptions {
	w.logger.Debugf("Preparing process control options for systemd workload, id: %s, unit: %s",
		w.id, w.processControlConfig.UnitName)

	return processcontrol.ProcessControlOptions{
		ServiceName: strings.TrimSuffix(w.processControlConfig.UnitName, ".service"),
		CanReload:   true,
		Layer:       nil, // Unit file is owned by the package
	}
}
