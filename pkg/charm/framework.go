// Package charm dispatches one host invocation (a hook or an action) to the
// handler registered for it.
package charm

import (
	"context"
	"sort"

	"github.com/core-tools/hsu-charm-nginx/pkg/charmconfig"
	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"
	"github.com/core-tools/hsu-charm-nginx/pkg/storedstate"
)

type HookHandler func(ctx context.Context, hc *HookContext) error

type ActionHandler func(ctx context.Context, ac *ActionContext) (ActionResult, error)

type Options struct {
	Name           string
	Host           Host
	ConfigDefaults charmconfig.Config
	Logger         logging.Logger
}

type Framework struct {
	name     string
	host     Host
	defaults charmconfig.Config
	logger   logging.Logger
	hooks    map[EventKind]HookHandler
	actions  map[EventKind]ActionHandler
}

func NewFramework(options Options) *Framework {
	return &Framework{
		name:     options.Name,
		host:     options.Host,
		defaults: options.ConfigDefaults,
		logger:   options.Logger,
		hooks:    make(map[EventKind]HookHandler),
		actions:  make(map[EventKind]ActionHandler),
	}
}

func (f *Framework) Name() string {
	return f.name
}

// RegisterHook registers handler for a hook, replacing any previous one
func (f *Framework) RegisterHook(kind EventKind, handler HookHandler) {
	f.hooks[kind] = handler
}

// RegisterAction registers handler for an action, replacing any previous one
func (f *Framework) RegisterAction(kind EventKind, handler ActionHandler) {
	f.actions[kind] = handler
}

func (f *Framework) Hooks() []EventKind {
	kinds := make([]EventKind, 0, len(f.hooks))
	for kind := range f.hooks {
		kinds = append(kinds, kind)
	}
	return sortKinds(kinds)
}

func (f *Framework) Actions() []EventKind {
	kinds := make([]EventKind, 0, len(f.actions))
	for kind := range f.actions {
		kinds = append(kinds, kind)
	}
	return sortKinds(kinds)
}

func (f *Framework) isAction(kind EventKind) bool {
	_, ok := f.actions[kind]
	return ok
}

// Dispatch runs the handler for the named invocation
func (f *Framework) Dispatch(ctx context.Context, name string) error {
	event, err := ParseEvent(name, f.isAction)
	if err != nil {
		return err
	}
	if event.Action {
		return f.RunAction(ctx, event.Kind)
	}
	return f.RunHook(ctx, event.Kind)
}

// RunHook runs a hook handler. Hooks without a handler are ignored.
func (f *Framework) RunHook(ctx context.Context, kind EventKind) error {
	event := Event{Kind: kind}
	handler, ok := f.hooks[kind]
	if !ok {
		f.logger.Infof("No handler for %s, ignoring", event)
		return nil
	}

	loaded, err := storedstate.Load(ctx, f.host)
	if err != nil {
		return err
	}

	hc := &HookContext{
		unitContext: f.unitContext(event),
		State:       loaded.Clone(),
	}

	f.logger.Debugf("Running hook handler, event: %s, things: %v", event, loaded.Things)

	if err := handler(ctx, hc); err != nil {
		f.logger.Errorf("Hook failed, event: %s, error: %v", event, err)
		return err
	}

	if !hc.State.Equal(loaded) {
		if err := storedstate.Save(ctx, f.host, hc.State); err != nil {
			return err
		}
		f.logger.Debugf("Stored state saved, things: %v", hc.State.Things)
	}
	return nil
}

// RunAction runs an action handler and reports its result to the host
func (f *Framework) RunAction(ctx context.Context, kind EventKind) error {
	event := Event{Kind: kind, Action: true}
	handler, ok := f.actions[kind]
	if !ok {
		return errors.NewNotFoundError("no handler for action", nil).WithContext("action", string(kind))
	}

	params, err := f.host.ActionGet(ctx)
	if err != nil {
		return err
	}

	ac := &ActionContext{
		unitContext: f.unitContext(event),
		Params:      params,
	}

	f.logger.Debugf("Running action handler, event: %s", event)

	result, err := handler(ctx, ac)
	if err != nil {
		f.logger.Errorf("Action failed, event: %s, error: %v", event, err)
		return err
	}

	if err := f.host.ActionSet(ctx, result.Results); err != nil {
		return err
	}
	if result.Failure != "" {
		f.logger.Infof("Action reported failure, event: %s, message: %s", event, result.Failure)
		return f.host.ActionFail(ctx, result.Failure)
	}
	return nil
}

func (f *Framework) unitContext(event Event) unitContext {
	return unitContext{
		Event:    event,
		Logger:   f.logger,
		host:     f.host,
		defaults: f.defaults,
	}
}

func sortKinds(kinds []EventKind) []EventKind {
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
