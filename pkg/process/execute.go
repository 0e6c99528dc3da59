package process

import (
	"context"
	"os"

	domainErrors "github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"

	"github.com/juju/utils/v3/exec"
	"github.com/kballard/go-shellquote"
)

type ExecutionConfig struct {
	ExecutablePath string

	// Args are quoted before they reach the shell
	Args []string

	// Environment is added on top of the inherited environment
	Environment []string
}

// Output is what a finished command left behind
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunCmd runs a command to completion. A non-zero exit returns both the
// captured Output and a process error.
type RunCmd func(ctx context.Context, execution ExecutionConfig) (*Output, error)

// NewStdRunCmd returns a RunCmd backed by the juju command runner, the same
// one the unit agent uses to run hook commands.
func NewStdRunCmd(id string, logger logging.Logger) RunCmd {
	return func(ctx context.Context, execution ExecutionConfig) (*Output, error) {
		if ctx == nil {
			return nil, domainErrors.NewValidationError("context cannot be nil", nil).WithContext("id", id)
		}

		if err := ValidateExecutionConfig(execution); err != nil {
			logger.Errorf("Execution configuration validation failed, id: %s, error: %v", id, err)
			return nil, domainErrors.NewValidationError("invalid execution configuration", err).WithContext("id", id)
		}

		if err := ctx.Err(); err != nil {
			return nil, domainErrors.NewProcessError("command not started", err).
				WithContext("id", id).
				WithContext("executable_path", execution.ExecutablePath)
		}

		logger.Debugf("Running command, id: %s, executable: '%s', args: %v", id, execution.ExecutablePath, execution.Args)

		params := exec.RunParams{
			Commands: commandLine(execution),
		}
		if len(execution.Environment) > 0 {
			params.Environment = append(os.Environ(), execution.Environment...)
		}

		if err := params.Run(); err != nil {
			return nil, domainErrors.NewProcessError("failed to run command", err).
				WithContext("id", id).
				WithContext("executable_path", execution.ExecutablePath)
		}

		response, err := params.WaitWithCancel(ctx.Done())
		if err != nil {
			return nil, domainErrors.NewProcessError("command did not finish", err).
				WithContext("id", id).
				WithContext("executable_path", execution.ExecutablePath)
		}

		output := &Output{
			Stdout:   response.Stdout,
			Stderr:   response.Stderr,
			ExitCode: response.Code,
		}

		if output.ExitCode != 0 {
			return output, domainErrors.NewProcessError("command exited with non-zero status", nil).
				WithContext("id", id).
				WithContext("executable_path", execution.ExecutablePath).
				WithContext("exit_code", output.ExitCode).
				WithContext("stderr", string(output.Stderr))
		}

		logger.Debugf("Command finished, id: %s, executable: '%s'", id, execution.ExecutablePath)

		return output, nil
	}
}

// commandLine renders the execution as a single shell command. The runner
// executes it through bash, so every word is quoted.
func commandLine(execution ExecutionConfig) string {
	words := append([]string{execution.ExecutablePath}, execution.Args...)
	return shellquote.Join(words...)
}
