package matching

import (
	"math"
	"time"

	"github.com/portlink/streetturn/core/model"
)

const (
	// MaxScore caps the total score of a pairing.
	MaxScore = 100.0

	maxDistanceScore = 40.0
	// distanceHorizonKM is the distance at which the distance score reaches zero.
	distanceHorizonKM = 100.0
	maxTimeScore      = 20.0
	// timeHorizonHours is the time gap at which the time score reaches zero.
	timeHorizonHours = 72.0

	qualityMatchScore    = 15.0
	qualityMismatchScore = 5.0
)

// Alignment describes how the container and booking owners relate.
type Alignment int

const (
	// AlignmentMarketplace means neither trucker nor shipping line match.
	AlignmentMarketplace Alignment = iota
	// AlignmentSameLine means only the shipping line matches.
	AlignmentSameLine
	// AlignmentSameTrucker means only the trucking company matches.
	AlignmentSameTrucker
	// AlignmentInternal means both trucker and shipping line match.
	AlignmentInternal
)

// String returns a short label used in metrics and logs.
func (a Alignment) String() string {
	switch a {
	case AlignmentInternal:
		return "internal"
	case AlignmentSameTrucker:
		return "same_trucker"
	case AlignmentSameLine:
		return "same_line"
	default:
		return "marketplace"
	}
}

// AlignmentOf compares the owning organisations of a pair.
func AlignmentOf(c model.DropOffContainer, b model.PickupBooking) Alignment {
	sameTrucker := c.TruckingCompanyID == b.TruckingCompanyID
	sameLine := c.ShippingLineID == b.ShippingLineID
	switch {
	case sameTrucker && sameLine:
		return AlignmentInternal
	case sameTrucker:
		return AlignmentSameTrucker
	case sameLine:
		return AlignmentSameLine
	default:
		return AlignmentMarketplace
	}
}

// DistanceScore awards 40 points at 0 km decreasing linearly to 0 at 100 km.
func DistanceScore(distanceKM float64) float64 {
	return clamp(maxDistanceScore*(1-distanceKM/distanceHorizonKM), 0, maxDistanceScore)
}

// TimeScore awards 20 points for no gap decreasing linearly to 0 at 72 hours.
func TimeScore(timeGapHours float64) float64 {
	return clamp(maxTimeScore*(1-timeGapHours/timeHorizonHours), 0, maxTimeScore)
}

// ComplexityScore rewards pairs that stay inside one organisation.
func ComplexityScore(a Alignment) float64 {
	switch a {
	case AlignmentInternal:
		return 15
	case AlignmentSameTrucker:
		return 10
	case AlignmentSameLine:
		return 8
	default:
		return 5
	}
}

// QualityScore penalises container-type mismatches that need VAS handling.
func QualityScore(typeMatches bool) float64 {
	if typeMatches {
		return qualityMatchScore
	}
	return qualityMismatchScore
}

// TimeGapHours returns the absolute difference between availability and
// deadline in hours.
func TimeGapHours(availableFrom, neededBy time.Time) float64 {
	return math.Abs(neededBy.Sub(availableFrom).Hours())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
