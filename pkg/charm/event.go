package charm

import (
	"path/filepath"
	"strings"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

// EventKind names a hook or an action
type EventKind string

const (
	EventInstall       EventKind = "install"
	EventStart         EventKind = "start"
	EventConfigChanged EventKind = "config-changed"

	ActionFortune   EventKind = "fortune"
	ActionFetchFile EventKind = "fetch-file"
)

// WorkloadReady is the hook fired when the named container's Pebble is up
func WorkloadReady(container string) EventKind {
	return EventKind(container + "-pebble-ready")
}

// Event is one invocation delivered by the host
type Event struct {
	Kind   EventKind
	Action bool
}

func (e Event) String() string {
	if e.Action {
		return "actions/" + string(e.Kind)
	}
	return "hooks/" + string(e.Kind)
}

// ResolveEventName picks the invocation name from the dispatch path, the
// explicit name, or the program name, in that order.
func ResolveEventName(dispatchPath, explicit, argv0 string) (string, error) {
	for _, name := range []string{dispatchPath, explicit} {
		if name != "" {
			return name, nil
		}
	}
	if base := filepath.Base(argv0); argv0 != "" && base != "." && base != "/" {
		return base, nil
	}
	return "", errors.NewValidationError("cannot determine event: no dispatch path, event flag or program name", nil)
}

// ParseEvent parses "hooks/<name>", "actions/<name>" or a bare name. A
// bare name is a hook unless isAction reports it as an action.
func ParseEvent(name string, isAction func(EventKind) bool) (Event, error) {
	name = strings.TrimSpace(name)
	switch {
	case strings.HasPrefix(name, "hooks/"):
		name = strings.TrimPrefix(name, "hooks/")
		if name == "" {
			break
		}
		return Event{Kind: EventKind(name)}, nil
	case strings.HasPrefix(name, "actions/"):
		name = strings.TrimPrefix(name, "actions/")
		if name == "" {
			break
		}
		return Event{Kind: EventKind(name), Action: true}, nil
	case name != "" && !strings.Contains(name, "/"):
		kind := EventKind(name)
		return Event{Kind: kind, Action: isAction != nil && isAction(kind)}, nil
	}
	return Event{}, errors.NewValidationError("invalid event name", nil).WithContext("name", name)
}
