package charmconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"

	"gopkg.in/yaml.v3"
)

const (
	KeyThing          = "thing"
	KeyPort           = "port"
	KeyMyConfigOption = "my-config-option"
)

// Config is the typed view of the charm's configuration
type Config struct {
	Thing          string
	Port           int
	MyConfigOption string
}

// OptionsFile mirrors a charm's config.yaml
type OptionsFile struct {
	Options map[string]Option `yaml:"options"`
}

// Option is one entry of config.yaml
type Option struct {
	Type        string      `yaml:"type"`
	Default     interface{} `yaml:"default,omitempty"`
	Description string      `yaml:"description,omitempty"`
}

// DefaultConfig returns the defaults shipped in the charms' config.yaml
func DefaultConfig() Config {
	return Config{
		Thing:          "🎁",
		Port:           80,
		MyConfigOption: "hello",
	}
}

// LoadDefaultsFromFile reads the defaults declared in a config.yaml
func LoadDefaultsFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.NewIOError("failed to read charm config file", err).WithContext("filename", filename)
	}

	var file OptionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, errors.NewValidationError("failed to parse charm config YAML", err).WithContext("filename", filename)
	}

	if err := validateOptions(file.Options); err != nil {
		return Config{}, errors.NewValidationError("invalid charm config file", err).WithContext("filename", filename)
	}

	defaults := make(map[string]interface{}, len(file.Options))
	for key, option := range file.Options {
		if option.Default != nil {
			defaults[key] = option.Default
		}
	}

	config, err := Config{}.Apply(defaults)
	if err != nil {
		return Config{}, errors.NewValidationError("invalid default in charm config file", err).WithContext("filename", filename)
	}
	return config, nil
}

// Apply overlays settings, as returned by config-get, onto c. Keys that are
// absent or null keep the value of c.
func (c Config) Apply(settings map[string]interface{}) (Config, error) {
	result := c

	if value, ok := settings[KeyThing]; ok && value != nil {
		thing, err := toString(value)
		if err != nil {
			return Config{}, errors.NewValidationError("invalid value for "+KeyThing, err)
		}
		result.Thing = thing
	}

	if value, ok := settings[KeyPort]; ok && value != nil {
		port, err := toInt(value)
		if err != nil {
			return Config{}, errors.NewValidationError("invalid value for "+KeyPort, err)
		}
		result.Port = port
	}

	if value, ok := settings[KeyMyConfigOption]; ok && value != nil {
		option, err := toString(value)
		if err != nil {
			return Config{}, errors.NewValidationError("invalid value for "+KeyMyConfigOption, err)
		}
		result.MyConfigOption = option
	}

	return result, nil
}

func toString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected string, got %T", value)
	}
}

// toInt accepts the number shapes produced by both JSON (float64) and
// YAML (int) decoding.
func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}
