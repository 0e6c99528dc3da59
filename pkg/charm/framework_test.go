package charm_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/charm/charmtest"
	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/storedstate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFramework() (*charm.Framework, *charmtest.Host, *charmtest.Logger) {
	host := charmtest.NewHost()
	logger := &charmtest.Logger{}
	framework := charm.NewFramework(charm.Options{
		Name:           "test-charm",
		Host:           host,
		ConfigDefaults: charmconfig.DefaultConfig(),
		Logger:         logger,
	})
	return framework, host, logger
}

func TestRunHook_RecordsStateAcrossInvocations(t *testing.T) {
	framework, host, _ := newTestFramework()
	framework.RegisterHook(charm.EventConfigChanged, func(ctx context.Context, hc *charm.HookContext) error {
		config, err := hc.Config(ctx)
		if err != nil {
			return err
		}
		hc.State, _ = hc.State.Record(config.Thing)
		return nil
	})
	harness := charmtest.NewHarness(host, framework)

	for _, thing := range []string{"foo", "foo", "bar"} {
		harness.UpdateConfig(map[string]interface{}{"thing": thing})
		require.NoError(t, harness.Hook(charm.EventConfigChanged))
	}

	assert.Equal(t, []string{"foo", "bar"}, harness.Things(t))
}

func TestRunHook_UnchangedStateIsNotSaved(t *testing.T) {
	framework, host, _ := newTestFramework()
	host.Errors["StateSet"] = fmt.Errorf("state-set must not be called")
	framework.RegisterHook(charm.EventStart, func(ctx context.Context, hc *charm.HookContext) error {
		return nil
	})

	assert.NoError(t, framework.RunHook(context.Background(), charm.EventStart))
}

func TestRunHook_FailedHandlerDiscardsState(t *testing.T) {
	framework, host, logger := newTestFramework()
	framework.RegisterHook(charm.EventConfigChanged, func(ctx context.Context, hc *charm.HookContext) error {
		hc.State, _ = hc.State.Record("foo")
		return errors.NewProcessError("failed to reload unit", nil)
	})

	err := framework.RunHook(context.Background(), charm.EventConfigChanged)

	require.Error(t, err)
	assert.True(t, errors.IsProcessError(err))
	assert.NotContains(t, host.State, storedstate.ThingsKey)
	assert.True(t, logger.Contains("Hook failed"))
}

func TestRunHook_UnknownHookIgnored(t *testing.T) {
	framework, _, logger := newTestFramework()

	assert.NoError(t, framework.RunHook(context.Background(), "leader-elected"))
	assert.True(t, logger.Contains("No handler for hooks/leader-elected"))
}

func TestRunHook_StatusAndLeadership(t *testing.T) {
	framework, host, _ := newTestFramework()
	framework.RegisterHook(charm.EventStart, func(ctx context.Context, hc *charm.HookContext) error {
		if err := hc.SetUnitStatus(ctx, charm.ActiveStatus("Unit is ready")); err != nil {
			return err
		}
		leader, err := hc.IsLeader(ctx)
		if err != nil || !leader {
			return err
		}
		return hc.SetApplicationStatus(ctx, charm.ActiveStatus("Application is ready"))
	})

	require.NoError(t, framework.RunHook(context.Background(), charm.EventStart))
	assert.Equal(t, charm.ActiveStatus("Unit is ready"), host.UnitStatus)
	assert.Equal(t, charm.Status{}, host.AppStatus)

	host.Leader = true
	require.NoError(t, framework.RunHook(context.Background(), charm.EventStart))
	assert.Equal(t, charm.ActiveStatus("Application is ready"), host.AppStatus)
}

func TestHookContext_ConfigInvalidPort(t *testing.T) {
	framework, host, _ := newTestFramework()
	host.Config["port"] = float64(0)
	framework.RegisterHook(charm.EventConfigChanged, func(ctx context.Context, hc *charm.HookContext) error {
		_, err := hc.Config(ctx)
		return err
	})

	err := framework.RunHook(context.Background(), charm.EventConfigChanged)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRunAction_ResultsAndFailure(t *testing.T) {
	framework, host, _ := newTestFramework()
	framework.RegisterAction(charm.ActionFortune, func(ctx context.Context, ac *charm.ActionContext) (charm.ActionResult, error) {
		fail, err := ac.StringParam("fail")
		if err != nil {
			return charm.ActionResult{}, err
		}
		if fail != "" {
			return charm.Fail(fail), nil
		}
		return charm.Succeed(map[string]string{"fortune": "yes"}), nil
	})
	harness := charmtest.NewHarness(host, framework)

	require.NoError(t, harness.Action(charm.ActionFortune, map[string]interface{}{"fail": ""}))
	assert.Equal(t, map[string]string{"fortune": "yes"}, host.ActionResults)
	assert.Empty(t, host.ActionFailure)

	require.NoError(t, harness.Action(charm.ActionFortune, map[string]interface{}{"fail": "disk full"}))
	assert.Equal(t, "disk full", host.ActionFailure)
	assert.Empty(t, host.ActionResults)

	err := harness.Action(charm.ActionFortune, map[string]interface{}{"fail": 42})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRunAction_UnknownAction(t *testing.T) {
	framework, _, _ := newTestFramework()

	err := framework.RunAction(context.Background(), "backup")

	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDispatch(t *testing.T) {
	framework, _, _ := newTestFramework()
	var ran []string
	framework.RegisterHook(charm.EventInstall, func(ctx context.Context, hc *charm.HookContext) error {
		ran = append(ran, hc.Event.String())
		return nil
	})
	framework.RegisterAction(charm.ActionFortune, func(ctx context.Context, ac *charm.ActionContext) (charm.ActionResult, error) {
		ran = append(ran, ac.Event.String())
		return charm.Succeed(nil), nil
	})

	for _, name := range []string{"hooks/install", "install", "actions/fortune", "fortune", "hooks/update-status"} {
		require.NoError(t, framework.Dispatch(context.Background(), name), name)
	}

	assert.Equal(t, []string{"hooks/install", "hooks/install", "actions/fortune", "actions/fortune"}, ran)
	assert.Equal(t, []charm.EventKind{charm.EventInstall}, framework.Hooks())
	assert.Equal(t, []charm.EventKind{charm.ActionFortune}, framework.Actions())
}

func TestDispatch_InvalidName(t *testing.T) {
	framework, _, _ := newTestFramework()

	for _, name := range []string{"", "hooks/", "actions/", "bin/something"} {
		err := framework.Dispatch(context.Background(), name)
		require.Error(t, err, name)
		assert.True(t, errors.IsValidationError(err))
	}
}
