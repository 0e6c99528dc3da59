package processcontrol

import (
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

// ValidateSystemdControlConfig validates systemd control configuration
func ValidateSystemdControlConfig(config SystemdControlConfig) error {
	if config.UnitName == "" {
		return errors.NewValidationError("systemd unit name is required", nil)
	}
	switch config.JobMode {
	case "", "replace", "fail", "isolate", "ignore-dependencies", "ignore-requirements":
	default:
		return errors.NewValidationError("invalid systemd job mode: "+config.JobMode, nil)
	}
	return nil
}

// ValidateLayer validates a Pebble layer
func ValidateLayer(layer Layer) error {
	if layer.Label == "" {
		return errors.NewValidationError("layer label is required", nil)
	}
	if len(layer.Services) == 0 {
		return errors.NewValidationError("layer must declare at least one service", nil).WithContext("label", layer.Label)
	}
	for name, service := range layer.Services {
		if err := validateServiceSpec(service); err != nil {
			return errors.NewValidationError("invalid service in layer", err).
				WithContext("label", layer.Label).
				WithContext("service", name)
		}
	}
	return nil
}

func validateServiceSpec(service ServiceSpec) error {
	if service.Command == "" {
		return errors.NewValidationError("service command is required", nil)
	}
	switch service.Override {
	case OverrideReplace, OverrideMerge:
	default:
		return errors.NewValidationError("service override must be replace or merge", nil)
	}
	switch service.Startup {
	case "", StartupEnabled, StartupDisabled:
	default:
		return errors.NewValidationError("invalid service startup: "+service.Startup, nil)
	}
	return nil
}
