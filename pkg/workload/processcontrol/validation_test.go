package processcontrol

import (
	"testing"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func validLayer() Layer {
	return Layer{
		Label:       "nginx",
		Summary:     "nginx layer",
		Description: "pebble config layer for nginx",
		Services: map[string]ServiceSpec{
			"nginx": {
				Override:    OverrideReplace,
				Summary:     "nginx",
				Command:     "nginx-debug -g 'daemon off;'",
				Startup:     StartupEnabled,
				Environment: map[string]string{"thing": "🎁"},
			},
		},
	}
}

func TestValidateLayer(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Layer)
		shouldErr bool
	}{
		{name: "valid", mutate: func(l *Layer) {}},
		{name: "missing_label", mutate: func(l *Layer) { l.Label = "" }, shouldErr: true},
		{name: "no_services", mutate: func(l *Layer) { l.Services = nil }, shouldErr: true},
		{
			name: "missing_command",
			mutate: func(l *Layer) {
				l.Services = map[string]ServiceSpec{"nginx": {Override: OverrideReplace}}
			},
			shouldErr: true,
		},
		{
			name: "bad_override",
			mutate: func(l *Layer) {
				l.Services = map[string]ServiceSpec{"nginx": {Override: "append", Command: "nginx"}}
			},
			shouldErr: true,
		},
		{
			name: "bad_startup",
			mutate: func(l *Layer) {
				l.Services = map[string]ServiceSpec{"nginx": {Override: OverrideMerge, Command: "nginx", Startup: "sometimes"}}
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := validLayer()
			tt.mutate(&layer)
			err := ValidateLayer(layer)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSystemdControlConfig(t *testing.T) {
	assert.NoError(t, ValidateSystemdControlConfig(SystemdControlConfig{UnitName: "nginx.service"}))
	assert.NoError(t, ValidateSystemdControlConfig(SystemdControlConfig{UnitName: "nginx.service", JobMode: "fail"}))
	assert.Error(t, ValidateSystemdControlConfig(SystemdControlConfig{}))
	assert.Error(t, ValidateSystemdControlConfig(SystemdControlConfig{UnitName: "nginx", JobMode: "whenever"}))
}

func TestLayerMarshal(t *testing.T) {
	data, err := validLayer().Marshal()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, "nginx layer", decoded["summary"])
	assert.NotContains(t, decoded, "label")

	services := decoded["services"].(map[string]interface{})
	nginx := services["nginx"].(map[string]interface{})
	assert.Equal(t, "replace", nginx["override"])
	assert.Equal(t, "nginx-debug -g 'daemon off;'", nginx["command"])
	assert.Equal(t, "enabled", nginx["startup"])
	assert.Equal(t, map[string]interface{}{"thing": "🎁"}, nginx["environment"])
}

func TestServiceNamesSorted(t *testing.T) {
	layer := Layer{Services: map[string]ServiceSpec{"b": {}, "a": {}, "c": {}}}
	assert.Equal(t, []string{"a", "b", "c"}, layer.ServiceNames())
}
