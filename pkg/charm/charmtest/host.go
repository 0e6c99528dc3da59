// Package charmtest drives charm handlers against in-memory fakes of the
// host and of the workload's service manager.
package charmtest

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-charm-nginx/pkg/charm"
)

// Host is an in-memory charm.Host. Errors maps a method name (for example
// "StatusSet") to the error it returns.
type Host struct {
	Config map[string]interface{}
	State  map[string]string
	Leader bool

	UnitStatus        charm.Status
	AppStatus         charm.Status
	UnitStatusHistory []charm.Status

	ActionParams  map[string]interface{}
	ActionResults map[string]string
	ActionFailure string

	Errors map[string]error
}

func NewHost() *Host {
	return &Host{
		Config:       make(map[string]interface{}),
		State:        make(map[string]string),
		ActionParams: make(map[string]interface{}),
		Errors:       make(map[string]error),
	}
}

var _ charm.Host = (*Host)(nil)

func (h *Host) ConfigGet(ctx context.Context) (map[string]interface{}, error) {
	if err := h.Errors["ConfigGet"]; err != nil {
		return nil, err
	}
	settings := make(map[string]interface{}, len(h.Config))
	for key, value := range h.Config {
		settings[key] = value
	}
	return settings, nil
}

func (h *Host) StatusSet(ctx context.Context, status string, message string, application bool) error {
	if err := h.Errors["StatusSet"]; err != nil {
		return err
	}
	if application {
		if !h.Leader {
			return fmt.Errorf("cannot set application status: this unit is not the leader")
		}
		h.AppStatus = charm.Status{Name: charm.StatusName(status), Message: message}
		return nil
	}
	h.UnitStatus = charm.Status{Name: charm.StatusName(status), Message: message}
	h.UnitStatusHistory = append(h.UnitStatusHistory, h.UnitStatus)
	return nil
}

func (h *Host) IsLeader(ctx context.Context) (bool, error) {
	if err := h.Errors["IsLeader"]; err != nil {
		return false, err
	}
	return h.Leader, nil
}

func (h *Host) ActionGet(ctx context.Context) (map[string]interface{}, error) {
	if err := h.Errors["ActionGet"]; err != nil {
		return nil, err
	}
	return h.ActionParams, nil
}

func (h *Host) ActionSet(ctx context.Context, results map[string]string) error {
	if err := h.Errors["ActionSet"]; err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	if h.ActionResults == nil {
		h.ActionResults = make(map[string]string)
	}
	for key, value := range results {
		h.ActionResults[key] = value
	}
	return nil
}

func (h *Host) ActionFail(ctx context.Context, message string) error {
	if err := h.Errors["ActionFail"]; err != nil {
		return err
	}
	h.ActionFailure = message
	return nil
}

func (h *Host) StateGet(ctx context.Context, key string) (string, bool, error) {
	if err := h.Errors["StateGet"]; err != nil {
		return "", false, err
	}
	value, ok := h.State[key]
	return value, ok, nil
}

func (h *Host) StateSet(ctx context.Context, key string, value string) error {
	if err := h.Errors["StateSet"]; err != nil {
		return err
	}
	h.State[key] = value
	return nil
}
