// Package hooktools runs the host's hook tools (config-get, status-set,
// action-get, ...) on behalf of a charm. Every call shells out once and
// decodes the tool's JSON output.
package hooktools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/process"
)

const (
	ToolConfigGet  = "config-get"
	ToolStatusSet  = "status-set"
	ToolActionGet  = "action-get"
	ToolActionSet  = "action-set"
	ToolActionFail = "action-fail"
	ToolStateGet   = "state-get"
	ToolStateSet   = "state-set"
	ToolIsLeader   = "is-leader"
	ToolJujuLog    = "juju-log"
)

type Tools struct {
	run    process.RunCmd
	logRun process.RunCmd
	logger logging.Logger
}

// New returns Tools that execute the real hook tools found on PATH
func New(logger logging.Logger) *Tools {
	tools := NewWithRunner(process.NewStdRunCmd("hook-tools", logger), logger)
	// juju-log backs the logger, so its runner must stay silent
	tools.logRun = process.NewStdRunCmd("juju-log", logging.NewLogger("", logging.LogFuncs{}))
	return tools
}

// NewWithRunner returns Tools that execute commands through run
func NewWithRunner(run process.RunCmd, logger logging.Logger) *Tools {
	return &Tools{
		run:    run,
		logRun: run,
		logger: logger,
	}
}

func (t *Tools) call(ctx context.Context, tool string, args ...string) ([]byte, error) {
	output, err := t.run(ctx, process.ExecutionConfig{
		ExecutablePath: tool,
		Args:           args,
	})
	if err != nil {
		hookErr := errors.NewHookToolError(fmt.Sprintf("%s failed", tool), err).WithContext("tool", tool)
		if output != nil && len(output.Stderr) > 0 {
			hookErr = hookErr.WithContext("stderr", string(output.Stderr))
		}
		return nil, hookErr
	}
	return output.Stdout, nil
}

func (t *Tools) callJSON(ctx context.Context, target interface{}, tool string, args ...string) error {
	stdout, err := t.call(ctx, tool, append(args, "--format=json")...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(stdout, target); err != nil {
		return errors.NewHookToolError(fmt.Sprintf("cannot decode %s output", tool), err).
			WithContext("tool", tool).
			WithContext("output", string(stdout))
	}
	return nil
}

// ConfigGet returns every charm config key, including unset ones
func (t *Tools) ConfigGet(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	if err := t.callJSON(ctx, &settings, ToolConfigGet, "--all"); err != nil {
		return nil, err
	}
	return settings, nil
}

// StatusSet sets the unit status, or the application status when
// application is true (leader only).
func (t *Tools) StatusSet(ctx context.Context, status string, message string, application bool) error {
	args := make([]string, 0, 3)
	if application {
		args = append(args, "--application")
	}
	args = append(args, status, message)
	_, err := t.call(ctx, ToolStatusSet, args...)
	return err
}

// ActionGet returns the parameters of the running action
func (t *Tools) ActionGet(ctx context.Context) (map[string]interface{}, error) {
	params := make(map[string]interface{})
	if err := t.callJSON(ctx, &params, ToolActionGet); err != nil {
		return nil, err
	}
	return params, nil
}

// ActionSet records results of the running action, one key=value each
func (t *Tools) ActionSet(ctx context.Context, results map[string]string) error {
	if len(results) == 0 {
		return nil
	}
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, key := range keys {
		args = append(args, key+"="+results[key])
	}
	_, err := t.call(ctx, ToolActionSet, args...)
	return err
}

// ActionFail marks the running action failed with message
func (t *Tools) ActionFail(ctx context.Context, message string) error {
	_, err := t.call(ctx, ToolActionFail, message)
	return err
}

// StateGet returns the unit's stored value for key; ok is false when the
// key was never set.
func (t *Tools) StateGet(ctx context.Context, key string) (value string, ok bool, err error) {
	state := make(map[string]string)
	if err := t.callJSON(ctx, &state, ToolStateGet); err != nil {
		return "", false, err
	}
	value, ok = state[key]
	return value, ok, nil
}

// StateSet stores value under key in the unit's server-side state
func (t *Tools) StateSet(ctx context.Context, key string, value string) error {
	_, err := t.call(ctx, ToolStateSet, key+"="+value)
	return err
}

// IsLeader reports whether this unit is the application leader
func (t *Tools) IsLeader(ctx context.Context) (bool, error) {
	var leader bool
	if err := t.callJSON(ctx, &leader, ToolIsLeader); err != nil {
		return false, err
	}
	return leader, nil
}

// JujuLog writes message to the unit log. It never logs itself, since it
// backs the logger.
func (t *Tools) JujuLog(level string, message string) error {
	_, err := t.logRun(context.Background(), process.ExecutionConfig{
		ExecutablePath: ToolJujuLog,
		Args:           []string{"--log-level", level, message},
	})
	return err
}
