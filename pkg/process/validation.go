package process

import (
	"os/exec"
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

// ValidateExecutionConfig validates execution configuration. A bare
// executable name is resolved through PATH, as hook tools and apt-get are.
func ValidateExecutionConfig(config ExecutionConfig) error {
	if config.ExecutablePath == "" {
		return errors.NewValidationError("executable path is required", nil)
	}

	if _, err := exec.LookPath(config.ExecutablePath); err != nil {
		return errors.NewValidationError("executable not found: "+config.ExecutablePath, err)
	}

	for _, env := range config.Environment {
		if !strings.Contains(env, "=") {
			return errors.NewValidationError("invalid environment variable format: "+env, nil)
		}
	}

	return nil
}
