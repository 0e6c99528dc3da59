package processcontrol

import (
	"sort"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"

	"gopkg.in/yaml.v3"
)

const (
	StartupEnabled  = "enabled"
	StartupDisabled = "disabled"

	OverrideReplace = "replace"
	OverrideMerge   = "merge"
)

// SystemdControlConfig defines how a machine service is controlled
type SystemdControlConfig struct {
	UnitName string

	// JobMode is passed to systemd with every job, "replace" when empty
	JobMode string
}

// Layer is a Pebble configuration layer
type Layer struct {
	Label       string                 `yaml:"-"`
	Summary     string                 `yaml:"summary,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Services    map[string]ServiceSpec `yaml:"services"`
}

// ServiceSpec is one service of a Layer
type ServiceSpec struct {
	Override    string            `yaml:"override"`
	Summary     string            `yaml:"summary,omitempty"`
	Command     string            `yaml:"command"`
	Startup     string            `yaml:"startup,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

// Marshal renders the layer as the YAML document Pebble accepts
func (l Layer) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode layer", err).WithContext("label", l.Label)
	}
	return data, nil
}

// ServiceNames returns the sorted names of the services the layer declares
func (l Layer) ServiceNames() []string {
	names := make([]string, 0, len(l.Services))
	for name := range l.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
