package matching

const (
	tierOptimal   = 85.0
	tierEfficient = 70.0
	tierComplex   = 50.0

	// onRoadDistanceKM is the distance under which an internal pair is handed
	// over directly on the road instead of through a depot.
	onRoadDistanceKM = 5.0
	// relocationGapHours is the time gap above which the container must wait at
	// an interim depot.
	relocationGapHours = 24.0
)

// Classify maps a scored pair to its scenario. Tiers are inclusive on their
// lower bound.
func Classify(total float64, a Alignment, typeMatches bool, distanceKM, timeGapHours float64) Scenario {
	switch {
	case total >= tierOptimal:
		if a == AlignmentInternal {
			if distanceKM < onRoadDistanceKM {
				return ScenarioInternalStreetTurn
			}
			return ScenarioInternalDepotTurn
		}
		return ScenarioMarketplaceOptimal
	case total >= tierEfficient:
		if !typeMatches {
			return ScenarioVAS
		}
		if timeGapHours > relocationGapHours {
			return ScenarioRelocation
		}
		return ScenarioMarketplaceEfficient
	case total >= tierComplex:
		return ScenarioComplex
	default:
		return ScenarioDifficult
	}
}
