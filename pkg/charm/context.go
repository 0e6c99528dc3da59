package charm

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/storedstate"
)

// unitContext is shared by hook and action contexts
type unitContext struct {
	Event  Event
	Logger logging.Logger

	host     Host
	defaults charmconfig.Config
	config   *charmconfig.Config
}

// Config reads the charm configuration, once per invocation
func (c *unitContext) Config(ctx context.Context) (charmconfig.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}

	settings, err := c.host.ConfigGet(ctx)
	if err != nil {
		return charmconfig.Config{}, err
	}
	config, err := c.defaults.Apply(settings)
	if err != nil {
		return charmconfig.Config{}, err
	}
	if err := charmconfig.ValidateConfig(config); err != nil {
		return charmconfig.Config{}, err
	}

	c.config = &config
	return config, nil
}

// HookContext is handed to hook handlers. State is the unit's stored state
// as loaded before the handler; the framework saves it when the handler
// changed it and returned no error.
type HookContext struct {
	unitContext
	State storedstate.State
}

func (c *HookContext) SetUnitStatus(ctx context.Context, status Status) error {
	c.Logger.Debugf("Setting unit status, status: %s", status)
	return c.host.StatusSet(ctx, string(status.Name), status.Message, false)
}

// SetApplicationStatus sets the application status; only the leader may
func (c *HookContext) SetApplicationStatus(ctx context.Context, status Status) error {
	c.Logger.Debugf("Setting application status, status: %s", status)
	return c.host.StatusSet(ctx, string(status.Name), status.Message, true)
}

func (c *HookContext) IsLeader(ctx context.Context) (bool, error) {
	return c.host.IsLeader(ctx)
}

// ActionContext is handed to action handlers
type ActionContext struct {
	unitContext
	Params map[string]interface{}
}

// StringParam returns the named parameter; absent or null is "".
func (c *ActionContext) StringParam(name string) (string, error) {
	value, ok := c.Params[name]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", errors.NewValidationError(fmt.Sprintf("action parameter %q must be a string", name), nil).
			WithContext("type", fmt.Sprintf("%T", value))
	}
	return s, nil
}

// ActionResult is what an action reports. A non-empty Failure fails the
// action with that message; Results are reported either way.
type ActionResult struct {
	Results map[string]string
	Failure string
}

func Succeed(results map[string]string) ActionResult {
	return ActionResult{Results: results}
}

func Fail(message string) ActionResult {
	return ActionResult{Failure: message}
}
