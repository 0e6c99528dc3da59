package process

import (
	"testing"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidateExecutionConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    ExecutionConfig
		shouldErr bool
	}{
		{
			name:      "valid_absolute_path",
			config:    ExecutionConfig{ExecutablePath: "/bin/sh", Args: []string{"-c", "true"}},
			shouldErr: false,
		},
		{
			name:      "valid_bare_name_resolved_through_path",
			config:    ExecutionConfig{ExecutablePath: "sh"},
			shouldErr: false,
		},
		{
			name:      "valid_with_environment",
			config:    ExecutionConfig{ExecutablePath: "/bin/sh", Environment: []string{"DEBIAN_FRONTEND=noninteractive"}},
			shouldErr: false,
		},
		{
			name:      "empty_executable",
			config:    ExecutionConfig{},
			shouldErr: true,
		},
		{
			name:      "unknown_executable",
			config:    ExecutionConfig{ExecutablePath: "no-such-hook-tool-xyz"},
			shouldErr: true,
		},
		{
			name:      "bad_environment_entry",
			config:    ExecutionConfig{ExecutablePath: "/bin/sh", Environment: []string{"NOEQUALS"}},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExecutionConfig(tt.config)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
