package matching

import (
	"fmt"
	"math"
)

const (
	// TruckingCostPerKM is the avoided empty-trucking cost in VND per km.
	TruckingCostPerKM = 15000.0
	// CO2PerKM is the avoided emission in kg per km.
	CO2PerKM = 0.8

	vasFee         = 500000.0
	relocationFee  = 300000.0
	storageFeeDay  = 100000.0
	storageFreeHrs = 72.0
)

const (
	ActionInspectQuality  = "inspect and handle container quality"
	ActionRequestCOD      = "create delivery-location-change request to interim depot"
	ActionArrangeStorage  = "arrange storage at depot"
	FeeVASDescription     = "VAS service (repair/cleaning)"
	FeeCODDescription     = "delivery-location change fee"
	feeStorageDescription = "storage fee (%d days)"
)

// Estimate is the cost and emission outcome of executing a pairing.
type Estimate struct {
	BaselineCost    float64
	Fees            []Fee
	RequiredActions []string
	CostSaving      float64
	CO2SavingKg     float64
}

// EstimateCosts computes the saving of a pairing net of the fees it triggers.
// Fee rules are cumulative.
func EstimateCosts(distanceKM, timeGapHours float64, typeMatches bool) Estimate {
	est := Estimate{
		BaselineCost:    distanceKM * TruckingCostPerKM,
		Fees:            []Fee{},
		RequiredActions: []string{},
		CO2SavingKg:     distanceKM * CO2PerKM,
	}
	if !typeMatches {
		est.Fees = append(est.Fees, Fee{Description: FeeVASDescription, Amount: vasFee})
		est.RequiredActions = append(est.RequiredActions, ActionInspectQuality)
	}
	if timeGapHours > relocationGapHours {
		est.Fees = append(est.Fees, Fee{Description: FeeCODDescription, Amount: relocationFee})
		est.RequiredActions = append(est.RequiredActions, ActionRequestCOD)
	}
	if timeGapHours > storageFreeHrs {
		days := int(math.Ceil((timeGapHours - storageFreeHrs) / 24))
		est.Fees = append(est.Fees, Fee{
			Description: fmt.Sprintf(feeStorageDescription, days),
			Amount:      float64(days) * storageFeeDay,
		})
		est.RequiredActions = append(est.RequiredActions, ActionArrangeStorage)
	}
	var fees float64
	for _, f := range est.Fees {
		fees += f.Amount
	}
	est.CostSaving = math.Max(0, est.BaselineCost-fees)
	return est
}
