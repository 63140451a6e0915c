package matching

import "github.com/portlink/streetturn/core/model"

// DefaultPartnerScore is the reputation score granted while no reputation
// source is configured.
const DefaultPartnerScore = 8.0

// PartnerScorer rates the counterparties of a pairing. Implementations backed
// by a reputation service can replace FixedPartnerScore without touching the
// rest of the scoring.
type PartnerScorer interface {
	PartnerScore(c model.DropOffContainer, b model.PickupBooking) float64
}

// FixedPartnerScore returns the same score for every pair.
type FixedPartnerScore float64

// PartnerScore implements PartnerScorer.
func (f FixedPartnerScore) PartnerScore(model.DropOffContainer, model.PickupBooking) float64 {
	return float64(f)
}
