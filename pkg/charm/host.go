package charm

import (
	"context"

	"github.com/core-tools/hsu-charm-nginx/pkg/storedstate"
)

// Host is what the charm needs from the agent running it. Hook tools
// implement it in production; charmtest provides an in-memory one.
type Host interface {
	storedstate.Store

	ConfigGet(ctx context.Context) (map[string]interface{}, error)
	StatusSet(ctx context.Context, status string, message string, application bool) error
	IsLeader(ctx context.Context) (bool, error)

	ActionGet(ctx context.Context) (map[string]interface{}, error)
	ActionSet(ctx context.Context, results map[string]string) error
	ActionFail(ctx context.Context, message string) error
}
