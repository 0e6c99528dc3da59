// Package storedstate holds the values a unit has observed over its lifetime.
// The host persists them between invocations; this package only converts
// them to and from the host's key/value store.
package storedstate

import (
	"context"
	"encoding/json"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
)

// ThingsKey is the host state key holding the seen values
const ThingsKey = "things"

// Store is the host-side key/value state of the unit
type Store interface {
	StateGet(ctx context.Context, key string) (string, bool, error)
	StateSet(ctx context.Context, key string, value string) error
}

// State is the unit's durable state. Things holds every distinct config
// value seen, in first-observation order.
type State struct {
	Things []string `json:"things"`
}

// Contains reports whether thing has already been recorded
func (s State) Contains(thing string) bool {
	for _, seen := range s.Things {
		if seen == thing {
			return true
		}
	}
	return false
}

// Record returns the state with thing appended when it was not seen before.
// added reports whether the state grew. The receiver is not modified.
func (s State) Record(thing string) (next State, added bool) {
	if s.Contains(thing) {
		return s, false
	}
	things := make([]string, len(s.Things), len(s.Things)+1)
	copy(things, s.Things)
	return State{Things: append(things, thing)}, true
}

// Equal reports whether both states hold the same values in the same order
func (s State) Equal(other State) bool {
	if len(s.Things) != len(other.Things) {
		return false
	}
	for i := range s.Things {
		if s.Things[i] != other.Things[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with s
func (s State) Clone() State {
	if s.Things == nil {
		return State{}
	}
	things := make([]string, len(s.Things))
	copy(things, s.Things)
	return State{Things: things}
}

// Load reads the state from store. A unit that never saved state gets an
// empty State.
func Load(ctx context.Context, store Store) (State, error) {
	raw, ok, err := store.StateGet(ctx, ThingsKey)
	if err != nil {
		return State{}, errors.NewIOError("failed to read stored state", err).WithContext("key", ThingsKey)
	}
	if !ok || raw == "" {
		return State{}, nil
	}

	var things []string
	if err := json.Unmarshal([]byte(raw), &things); err != nil {
		return State{}, errors.NewValidationError("stored state is not a JSON list", err).
			WithContext("key", ThingsKey).
			WithContext("value", raw)
	}
	return State{Things: things}, nil
}

// Save writes the state to store
func Save(ctx context.Context, store Store, state State) error {
	things := state.Things
	if things == nil {
		things = []string{}
	}
	data, err := json.Marshal(things)
	if err != nil {
		return errors.NewInternalError("failed to encode stored state", err)
	}
	if err := store.StateSet(ctx, ThingsKey, string(data)); err != nil {
		return errors.NewIOError("failed to write stored state", err).WithContext("key", ThingsKey)
	}
	return nil
}
