package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/portlink/streetturn/core/geo"
	"github.com/portlink/streetturn/core/logger"
	"github.com/portlink/streetturn/core/model"
)

// Engine scores container/booking pairs. The zero value is usable: it measures
// haversine distance without fallback, grants DefaultPartnerScore and does
// not log. An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	Distance geo.Calculator
	Partner  PartnerScorer
	Defaults Filters
	Log      logger.Logger
}

// Result is the outcome of one engine invocation.
type Result struct {
	Suggestions []Suggestion
	// Evaluated counts the pairs considered.
	Evaluated int
	// Rejected counts the pairs removed by filters.
	Rejected int
	// Skipped counts the pairs dropped because of a data anomaly.
	Skipped int
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg Config, log logger.Logger) *Engine {
	cfg.SetDefaults()
	return &Engine{
		Distance: geo.HaversineCalculator{FallbackKM: cfg.FallbackDistanceKM},
		Partner:  FixedPartnerScore(*cfg.PartnerScore),
		Defaults: cfg.Defaults,
		Log:      log,
	}
}

// GenerateMatchSuggestions runs a default Engine over the pools.
func GenerateMatchSuggestions(containers []model.DropOffContainer, bookings []model.PickupBooking, f Filters) ([]Suggestion, error) {
	return Engine{}.Generate(containers, bookings, f)
}

// Generate returns the ranked suggestions for the pools.
func (e Engine) Generate(containers []model.DropOffContainer, bookings []model.PickupBooking, f Filters) ([]Suggestion, error) {
	res, err := e.Match(containers, bookings, f)
	if err != nil {
		return nil, err
	}
	return res.Suggestions, nil
}

// Match runs candidate generation, scoring, classification, costing and
// ranking. It only fails on invalid filters; anomalies in individual records
// skip the affected pairs.
func (e Engine) Match(containers []model.DropOffContainer, bookings []model.PickupBooking, f Filters) (Result, error) {
	f = f.Merge(e.Defaults)
	if err := f.Validate(); err != nil {
		return Result{Suggestions: []Suggestion{}}, err
	}
	res := Result{Suggestions: []Suggestion{}}
	if len(containers) == 0 || len(bookings) == 0 {
		return res, nil
	}
	log := logger.OrNop(e.Log)
	dist := e.Distance
	if dist == nil {
		dist = geo.HaversineCalculator{}
	}
	partner := e.Partner
	if partner == nil {
		partner = FixedPartnerScore(DefaultPartnerScore)
	}

	bookingErrs := make([]error, len(bookings))
	for i, b := range bookings {
		bookingErrs[i] = b.Validate()
	}

	for _, c := range containers {
		containerErr := c.Validate()
		group := Suggestion{Container: c}
		for i, b := range bookings {
			res.Evaluated++
			if f.ContainerType != "" && b.RequiredContainerType != f.ContainerType {
				res.Rejected++
				continue
			}
			if f.ShippingLineID != "" && b.ShippingLineID != f.ShippingLineID {
				res.Rejected++
				continue
			}
			if err := firstErr(containerErr, bookingErrs[i]); err != nil {
				res.Skipped++
				log.Warnw("pair skipped", pairFields(c, b, err))
				continue
			}
			distanceKM, err := dist.DistanceKM(c.Coordinates, b.Coordinates)
			if err == nil && (math.IsNaN(distanceKM) || math.IsInf(distanceKM, 0) || distanceKM < 0) {
				err = fmt.Errorf("distance out of range: %v", distanceKM)
			}
			if err != nil {
				res.Skipped++
				log.Warnw("pair skipped", pairFields(c, b, err))
				continue
			}
			if f.MaxDistanceKM != nil && distanceKM > *f.MaxDistanceKM {
				res.Rejected++
				continue
			}
			gap := TimeGapHours(c.AvailableFrom, b.NeededBy)
			if f.MaxTimeHours != nil && gap > *f.MaxTimeHours {
				res.Rejected++
				continue
			}
			sb := e.score(c, b, distanceKM, gap, partner)
			if f.MinScore != nil && sb.Score.TotalScore < *f.MinScore {
				res.Rejected++
				continue
			}
			group.Bookings = append(group.Bookings, sb)
		}
		if len(group.Bookings) == 0 {
			continue
		}
		sort.SliceStable(group.Bookings, func(i, j int) bool {
			return group.Bookings[i].Score.TotalScore > group.Bookings[j].Score.TotalScore
		})
		for _, sb := range group.Bookings {
			group.TotalEstimatedCostSaving += sb.EstimatedCostSaving
			group.TotalEstimatedCO2SavingKg += sb.EstimatedCO2SavingKg
		}
		res.Suggestions = append(res.Suggestions, group)
	}
	sort.SliceStable(res.Suggestions, func(i, j int) bool {
		return res.Suggestions[i].TotalEstimatedCostSaving > res.Suggestions[j].TotalEstimatedCostSaving
	})
	log.Debugw("match completed", map[string]any{
		"containers":  len(containers),
		"bookings":    len(bookings),
		"evaluated":   res.Evaluated,
		"rejected":    res.Rejected,
		"skipped":     res.Skipped,
		"suggestions": len(res.Suggestions),
	})
	return res, nil
}

func (e Engine) score(c model.DropOffContainer, b model.PickupBooking, distanceKM, gap float64, partner PartnerScorer) ScoredBooking {
	align := AlignmentOf(c, b)
	typeMatches := c.ContainerType == b.RequiredContainerType
	partnerScore := partner.PartnerScore(c, b)
	if math.IsNaN(partnerScore) || partnerScore < 0 {
		partnerScore = 0
	}
	s := Score{
		DistanceScore:   DistanceScore(distanceKM),
		TimeScore:       TimeScore(gap),
		ComplexityScore: ComplexityScore(align),
		PartnerScore:    partnerScore,
	}
	quality := QualityScore(typeMatches)
	s.QualityScore = quality + partnerScore
	s.TotalScore = math.Min(MaxScore, s.DistanceScore+s.TimeScore+s.ComplexityScore+quality+partnerScore)

	est := EstimateCosts(distanceKM, gap, typeMatches)
	return ScoredBooking{
		Booking:              b,
		Score:                s,
		Scenario:             Classify(s.TotalScore, align, typeMatches, distanceKM, gap),
		DistanceKM:           distanceKM,
		TimeGapHours:         gap,
		EstimatedCostSaving:  est.CostSaving,
		EstimatedCO2SavingKg: est.CO2SavingKg,
		RequiredActions:      est.RequiredActions,
		AdditionalFees:       est.Fees,
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func pairFields(c model.DropOffContainer, b model.PickupBooking, err error) map[string]any {
	return map[string]any{
		"container_id": c.ID,
		"booking_id":   b.ID,
		"reason":       err.Error(),
	}
}
