package workload

import (
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/workload/processcontrol"
)

func ValidateSystemdUnit(unit SystemdUnit) error {
	if unit.Metadata.Name == "" {
		return errors.NewValidationError("unit name is required", nil)
	}

	return processcontrol.ValidateSystemdControlConfig(unit.Control)
}

func ValidatePebbleUnit(unit PebbleUnit) error {
	if unit.Metadata.Name == "" {
		return errors.NewValidationError("unit name is required", nil)
	}

	if err := processcontrol.ValidateLayer(unit.Layer); err != nil {
		return err
	}

	if _, ok := unit.Layer.Services[unit.ServiceName]; !ok {
		return errors.NewValidationError("service not declared by layer", nil).
			WithContext("service", unit.ServiceName).
			WithContext("label", unit.Layer.Label)
	}

	return nil
}
