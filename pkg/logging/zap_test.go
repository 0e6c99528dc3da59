package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jujuLogRecord struct {
	level   string
	message string
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int
		shouldErr bool
	}{
		{"debug", "debug", LogLevelDebug, false},
		{"empty_defaults_to_info", "", LogLevelInfo, false},
		{"upper_case", "INFO", LogLevelInfo, false},
		{"warning_alias", "warning", LogLevelWarn, false},
		{"error", "error", LogLevelError, false},
		{"unknown", "verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewZapLogger_ConsoleAndJujuLog(t *testing.T) {
	var output bytes.Buffer
	var records []jujuLogRecord

	logger, sync := NewZapLogger("machine-charm: ", ZapOptions{
		Level:  LogLevelInfo,
		Output: &output,
		JujuLog: func(level string, message string) error {
			records = append(records, jujuLogRecord{level, message})
			return nil
		},
	})
	defer sync()

	logger.Debugf("hidden %d", 1)
	logger.Infof("Nginx port: %d", 8080)
	logger.Warnf("careful")
	logger.Errorf("failed to install packages: %s", "nginx")

	require.Len(t, records, 3)
	assert.Equal(t, jujuLogRecord{"INFO", "machine-charm: Nginx port: 8080"}, records[0])
	assert.Equal(t, jujuLogRecord{"WARNING", "machine-charm: careful"}, records[1])
	assert.Equal(t, jujuLogRecord{"ERROR", "machine-charm: failed to install packages: nginx"}, records[2])

	assert.Contains(t, output.String(), "machine-charm: Nginx port: 8080")
	assert.NotContains(t, output.String(), "hidden")
}

func TestNewZapLogger_DebugLevel(t *testing.T) {
	var output bytes.Buffer
	var records []jujuLogRecord

	logger, _ := NewZapLogger("", ZapOptions{
		Level:  LogLevelDebug,
		Output: &output,
		JujuLog: func(level string, message string) error {
			records = append(records, jujuLogRecord{level, message})
			return nil
		},
	})

	logger.Debugf("found a new thing: %q", "foo")

	require.Len(t, records, 1)
	assert.Equal(t, "DEBUG", records[0].level)
	assert.Equal(t, `found a new thing: "foo"`, records[0].message)
	assert.Contains(t, output.String(), "DEBUG")
}

func TestJujuLogCore_Fields(t *testing.T) {
	var records []jujuLogRecord
	core := &jujuLogCore{
		LevelEnabler: zap.NewAtomicLevelAt(zap.InfoLevel),
		logf: func(level string, message string) error {
			records = append(records, jujuLogRecord{level, message})
			return nil
		},
	}

	zap.New(core).With(zap.String("unit", "nginx/0")).Info("hook done", zap.Int("port", 80))

	require.Len(t, records, 1)
	assert.Equal(t, "hook done port=80 unit=nginx/0", records[0].message)
}

func TestJujuLogCore_ForwardFailureDoesNotPanic(t *testing.T) {
	var output bytes.Buffer
	logger, _ := NewZapLogger("", ZapOptions{
		Output: &output,
		JujuLog: func(level string, message string) error {
			return errors.New("juju-log: not found")
		},
	})

	assert.NotPanics(t, func() { logger.Infof("still written") })
	assert.Contains(t, output.String(), "still written")
}
