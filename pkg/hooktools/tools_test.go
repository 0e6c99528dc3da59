package hooktools

import (
	"context"
	"fmt"
	"testing"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestLogger struct{}

func (l *TestLogger) LogLevelf(level int, format string, args ...interface{}) {}
func (l *TestLogger) Debugf(format string, args ...interface{})               {}
func (l *TestLogger) Infof(format string, args ...interface{})                {}
func (l *TestLogger) Warnf(format string, args ...interface{})                {}
func (l *TestLogger) Errorf(format string, args ...interface{})               {}

// fakeRunner records every command and answers from canned stdout per tool
type fakeRunner struct {
	calls   []process.ExecutionConfig
	stdout  map[string]string
	failing map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		stdout:  make(map[string]string),
		failing: make(map[string]string),
	}
}

func (f *fakeRunner) run(ctx context.Context, execution process.ExecutionConfig) (*process.Output, error) {
	f.calls = append(f.calls, execution)
	if stderr, ok := f.failing[execution.ExecutablePath]; ok {
		output := &process.Output{Stderr: []byte(stderr), ExitCode: 1}
		return output, errors.NewProcessError("command exited with non-zero status", fmt.Errorf("exit status 1"))
	}
	return &process.Output{Stdout: []byte(f.stdout[execution.ExecutablePath])}, nil
}

func (f *fakeRunner) lastCall(t *testing.T) process.ExecutionConfig {
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func newTestTools() (*Tools, *fakeRunner) {
	runner := newFakeRunner()
	return NewWithRunner(runner.run, &TestLogger{}), runner
}

func TestConfigGet(t *testing.T) {
	tools, runner := newTestTools()
	runner.stdout[ToolConfigGet] = `{"thing": "foo", "port": 8080, "my-config-option": "hello"}`

	settings, err := tools.ConfigGet(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "foo", settings["thing"])
	assert.Equal(t, float64(8080), settings["port"])
	assert.Equal(t, []string{"--all", "--format=json"}, runner.lastCall(t).Args)
}

func TestConfigGet_BadJSON(t *testing.T) {
	tools, runner := newTestTools()
	runner.stdout[ToolConfigGet] = `not json`

	_, err := tools.ConfigGet(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsHookToolError(err))
}

func TestStatusSet(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		message     string
		application bool
		expected    []string
	}{
		{
			name:     "unit_status",
			status:   "maintenance",
			message:  "Installing Nginx",
			expected: []string{"maintenance", "Installing Nginx"},
		},
		{
			name:     "unit_status_without_message",
			status:   "active",
			expected: []string{"active", ""},
		},
		{
			name:        "application_status",
			status:      "active",
			message:     "Application is ready",
			application: true,
			expected:    []string{"--application", "active", "Application is ready"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools, runner := newTestTools()

			err := tools.StatusSet(context.Background(), tt.status, tt.message, tt.application)

			require.NoError(t, err)
			call := runner.lastCall(t)
			assert.Equal(t, ToolStatusSet, call.ExecutablePath)
			assert.Equal(t, tt.expected, call.Args)
		})
	}
}

func TestActionGet(t *testing.T) {
	tools, runner := newTestTools()
	runner.stdout[ToolActionGet] = `{"fail": "disk full"}`

	params, err := tools.ActionGet(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "disk full", params["fail"])
	assert.Equal(t, []string{"--format=json"}, runner.lastCall(t).Args)
}

func TestActionSet_SortedArguments(t *testing.T) {
	tools, runner := newTestTools()

	err := tools.ActionSet(context.Background(), map[string]string{
		"result":  "Download succeded",
		"fortune": "A bug in the code is worth two in the documentation.",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"fortune=A bug in the code is worth two in the documentation.",
		"result=Download succeded",
	}, runner.lastCall(t).Args)
}

func TestActionSet_EmptyResultsSkipsTool(t *testing.T) {
	tools, runner := newTestTools()

	require.NoError(t, tools.ActionSet(context.Background(), nil))
	assert.Empty(t, runner.calls)
}

func TestActionFail(t *testing.T) {
	tools, runner := newTestTools()

	require.NoError(t, tools.ActionFail(context.Background(), "disk full"))

	call := runner.lastCall(t)
	assert.Equal(t, ToolActionFail, call.ExecutablePath)
	assert.Equal(t, []string{"disk full"}, call.Args)
}

func TestStateGet(t *testing.T) {
	tools, runner := newTestTools()
	runner.stdout[ToolStateGet] = `{"things": "[\"foo\"]"}`

	value, ok, err := tools.StateGet(context.Background(), "things")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["foo"]`, value)

	value, ok, err = tools.StateGet(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStateSet(t *testing.T) {
	tools, runner := newTestTools()

	require.NoError(t, tools.StateSet(context.Background(), "things", `["foo","bar"]`))

	call := runner.lastCall(t)
	assert.Equal(t, ToolStateSet, call.ExecutablePath)
	assert.Equal(t, []string{`things=["foo","bar"]`}, call.Args)
}

func TestIsLeader(t *testing.T) {
	tools, runner := newTestTools()

	runner.stdout[ToolIsLeader] = "true\n"
	leader, err := tools.IsLeader(context.Background())
	require.NoError(t, err)
	assert.True(t, leader)

	runner.stdout[ToolIsLeader] = "false\n"
	leader, err = tools.IsLeader(context.Background())
	require.NoError(t, err)
	assert.False(t, leader)
}

func TestToolFailureIsHookToolError(t *testing.T) {
	tools, runner := newTestTools()
	runner.failing[ToolStatusSet] = "ERROR permission denied"

	err := tools.StatusSet(context.Background(), "active", "", true)

	require.Error(t, err)
	assert.True(t, errors.IsHookToolError(err))

	var domainErr *errors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, ToolStatusSet, domainErr.Context["tool"])
	assert.Equal(t, "ERROR permission denied", domainErr.Context["stderr"])
}

func TestJujuLog(t *testing.T) {
	tools, runner := newTestTools()

	require.NoError(t, tools.JujuLog("WARNING", "Nginx port: 80"))

	call := runner.lastCall(t)
	assert.Equal(t, ToolJujuLog, call.ExecutablePath)
	assert.Equal(t, []string{"--log-level", "WARNING", "Nginx port: 80"}, call.Args)
}
