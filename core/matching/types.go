package matching

import "github.com/portlink/streetturn/core/model"

// Scenario labels the logistics flow a pairing would follow.
type Scenario string

const (
	ScenarioInternalStreetTurn   Scenario = "Street-turn Nội bộ Trên Đường"
	ScenarioInternalDepotTurn    Scenario = "Depot Turn Nội bộ"
	ScenarioMarketplaceOptimal   Scenario = "Street-turn Marketplace Tối ưu"
	ScenarioVAS                  Scenario = "Street-turn + VAS (Chất lượng)"
	ScenarioRelocation           Scenario = "Street-turn + Thay đổi địa điểm (Thời gian)"
	ScenarioMarketplaceEfficient Scenario = "Street-turn Marketplace Hiệu quả"
	ScenarioComplex              Scenario = "Street-turn Phức tạp (Cần tối ưu)"
	ScenarioDifficult            Scenario = "Street-turn Khó khăn (Cân nhắc)"
)

// Scenarios lists every scenario from the best tier to the worst.
var Scenarios = []Scenario{
	ScenarioInternalStreetTurn,
	ScenarioInternalDepotTurn,
	ScenarioMarketplaceOptimal,
	ScenarioVAS,
	ScenarioRelocation,
	ScenarioMarketplaceEfficient,
	ScenarioComplex,
	ScenarioDifficult,
}

// Score holds the individual components of a pairing score. QualityScore
// already includes PartnerScore; PartnerScore is repeated for visibility.
type Score struct {
	DistanceScore   float64 `json:"distance_score"`
	TimeScore       float64 `json:"time_score"`
	ComplexityScore float64 `json:"complexity_score"`
	QualityScore    float64 `json:"quality_score"`
	PartnerScore    float64 `json:"partner_score"`
	TotalScore      float64 `json:"total_score"`
}

// Fee is an additional cost line required to execute a pairing.
type Fee struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// ScoredBooking is one export booking evaluated against a container.
type ScoredBooking struct {
	Booking              model.PickupBooking `json:"booking"`
	Score                Score               `json:"matching_score"`
	Scenario             Scenario            `json:"scenario_type"`
	DistanceKM           float64             `json:"distance_km"`
	TimeGapHours         float64             `json:"time_gap_hours"`
	EstimatedCostSaving  float64             `json:"estimated_cost_saving"`
	EstimatedCO2SavingKg float64             `json:"estimated_co2_saving_kg"`
	RequiredActions      []string            `json:"required_actions"`
	AdditionalFees       []Fee               `json:"additional_fees"`
}

// Suggestion groups the compatible bookings of one import container.
type Suggestion struct {
	Container                 model.DropOffContainer `json:"import_container"`
	Bookings                  []ScoredBooking        `json:"export_bookings"`
	TotalEstimatedCostSaving  float64                `json:"total_estimated_cost_saving"`
	TotalEstimatedCO2SavingKg float64                `json:"total_estimated_co2_saving_kg"`
}
