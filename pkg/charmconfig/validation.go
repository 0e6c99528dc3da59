package charmconfig

import (
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

var optionTypes = map[string]bool{
	"string":  true,
	"int":     true,
	"float":   true,
	"boolean": true,
}

// ValidatePort validates port number
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return errors.NewValidationError("port must be between 1 and 65535", nil).WithContext("port", port)
	}
	return nil
}

// ValidateConfig validates a fully resolved configuration
func ValidateConfig(config Config) error {
	if err := ValidatePort(config.Port); err != nil {
		return errors.NewValidationError("invalid charm configuration", err)
	}
	return nil
}

func validateOptions(options map[string]Option) error {
	for _, key := range []string{KeyThing, KeyPort} {
		if _, ok := options[key]; !ok {
			return errors.NewValidationError("missing option: "+key, nil)
		}
	}
	for key, option := range options {
		if !optionTypes[option.Type] {
			return errors.NewValidationError("unsupported option type: "+option.Type, nil).WithContext("option", key)
		}
	}
	return nil
}
