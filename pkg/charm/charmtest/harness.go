package charmtest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
	"github.com/core-tools/hsu-charm-nginx/pkg/storedstate"

	"github.com/stretchr/testify/require"
)

// Harness delivers hooks and actions to a framework the way the agent
// would, one at a time
type Harness struct {
	Host      *Host
	Framework *charm.Framework
}

func NewHarness(host *Host, framework *charm.Framework) *Harness {
	return &Harness{Host: host, Framework: framework}
}

// UpdateConfig merges settings into the unit's config
func (h *Harness) UpdateConfig(settings map[string]interface{}) {
	for key, value := range settings {
		h.Host.Config[key] = value
	}
}

func (h *Harness) Hook(kind charm.EventKind) error {
	return h.Framework.RunHook(context.Background(), kind)
}

// Action runs an action with params, clearing the previous action's
// results and failure first
func (h *Harness) Action(kind charm.EventKind, params map[string]interface{}) error {
	h.Host.ActionParams = params
	h.Host.ActionResults = nil
	h.Host.ActionFailure = ""
	return h.Framework.RunAction(context.Background(), kind)
}

// Things returns the stored seen values
func (h *Harness) Things(t *testing.T) []string {
	t.Helper()
	raw, ok := h.Host.State[storedstate.ThingsKey]
	if !ok {
		return nil
	}
	var things []string
	require.NoError(t, json.Unmarshal([]byte(raw), &things))
	return things
}
