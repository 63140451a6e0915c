// Package notify pushes finished matching runs to dispatcher-facing channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portlink/streetturn/core/factory"
	"github.com/portlink/streetturn/core/matching"
)

// Notifier delivers a run to subscribers outside the service.
type Notifier interface {
	Notify(ctx context.Context, run matching.Run) error
}

// Message is the wire payload published for a run.
type Message struct {
	RunID       string                `json:"run_id"`
	OrgID       string                `json:"org_id"`
	Timestamp   time.Time             `json:"timestamp"`
	Summary     matching.Summary      `json:"summary"`
	Suggestions []matching.Suggestion `json:"suggestions"`
}

// NewMessage builds the payload of a run.
func NewMessage(run matching.Run) Message {
	sg := run.Suggestions
	if sg == nil {
		sg = []matching.Suggestion{}
	}
	return Message{
		RunID:       run.ID,
		OrgID:       run.OrgID,
		Timestamp:   run.Timestamp,
		Summary:     run.Summary,
		Suggestions: sg,
	}
}

// Multi fans a run out to every notifier and joins their errors.
type Multi []Notifier

// Notify calls every notifier even when earlier ones fail.
func (m Multi) Notify(ctx context.Context, run matching.Run) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards runs.
type Nop struct{}

func (Nop) Notify(context.Context, matching.Run) error { return nil }

var registry = factory.NewRegistry[Notifier]()

// Register adds a notifier factory identified by name.
func Register(name string, f factory.Factory[Notifier]) error {
	return registry.Register(name, f)
}

// New builds the configured notifiers. No configuration yields Nop.
func New(cfgs []factory.ModuleConfig) (Notifier, error) {
	switch len(cfgs) {
	case 0:
		return Nop{}, nil
	case 1:
		return registry.Create(cfgs[0])
	}
	out := make(Multi, 0, len(cfgs))
	for _, c := range cfgs {
		n, err := registry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("notifier %s: %w", c.Type, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Close releases notifiers that hold connections.
func Close(n Notifier) {
	switch v := n.(type) {
	case Multi:
		for _, c := range v {
			Close(c)
		}
	case interface{ Close() }:
		v.Close()
	case interface{ Close() error }:
		_ = v.Close()
	}
}
