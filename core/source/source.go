// Package source defines where the matching service reads the containers and
// bookings of an organization from.
package source

import (
	"context"
	"errors"

	"github.com/portlink/streetturn/core/model"
)

// ErrUnknownOrg is returned when a source holds no pool for the organization.
var ErrUnknownOrg = errors.New("unknown organization")

// Pool is the set of candidates matched in one run.
type Pool struct {
	Containers []model.DropOffContainer `json:"containers" yaml:"containers"`
	Bookings   []model.PickupBooking    `json:"bookings" yaml:"bookings"`
}

// Source loads the eligible pool of an organization.
type Source interface {
	Pool(ctx context.Context, orgID string) (Pool, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context, orgID string) (Pool, error)

// Pool calls f.
func (f Func) Pool(ctx context.Context, orgID string) (Pool, error) { return f(ctx, orgID) }

// FilterEligible keeps only AVAILABLE marketplace-listed containers and
// AVAILABLE bookings. The returned slices are never nil.
func FilterEligible(p Pool) Pool {
	out := Pool{
		Containers: make([]model.DropOffContainer, 0, len(p.Containers)),
		Bookings:   make([]model.PickupBooking, 0, len(p.Bookings)),
	}
	for _, c := range p.Containers {
		if c.Eligible() {
			out.Containers = append(out.Containers, c)
		}
	}
	for _, b := range p.Bookings {
		if b.Eligible() {
			out.Bookings = append(out.Bookings, b)
		}
	}
	return out
}
