package metrics

import (
	"time"

	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/model"
)

var runTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func sampleRun() matching.Run {
	sg := []matching.Suggestion{
		{
			Container: model.DropOffContainer{ID: "c1"},
			Bookings: []matching.ScoredBooking{
				{
					Booking:             model.PickupBooking{ID: "b1"},
					Score:               matching.Score{TotalScore: 86.5},
					Scenario:            matching.ScenarioInternalDepotTurn,
					DistanceKM:          8,
					EstimatedCostSaving: 120000,
				},
				{
					Booking:             model.PickupBooking{ID: "b2"},
					Score:               matching.Score{TotalScore: 55},
					Scenario:            matching.ScenarioComplex,
					DistanceKM:          30,
					EstimatedCostSaving: 0,
				},
			},
			TotalEstimatedCostSaving:  120000,
			TotalEstimatedCO2SavingKg: 30.4,
		},
	}
	return matching.Run{
		ID:          "run-1",
		OrgID:       "org1",
		Timestamp:   runTime,
		Suggestions: sg,
		Summary:     matching.Summarize(sg),
		Skipped:     3,
	}
}
