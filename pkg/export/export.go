// Package export renders suggestions for dispatchers and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/portlink/streetturn/core/matching"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{
	"container_id", "container_number", "container_type", "available_from",
	"booking_id", "booking_number", "required_container_type", "needed_by",
	"scenario", "total_score", "distance_score", "time_score", "complexity_score",
	"quality_score", "partner_score", "distance_km", "time_gap_hours",
	"estimated_cost_saving", "estimated_co2_saving_kg", "additional_fees", "required_actions",
}

// WriteJSON writes the suggestions to w as an indented JSON array.
func WriteJSON(w io.Writer, suggestions []matching.Suggestion) error {
	if suggestions == nil {
		suggestions = []matching.Suggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suggestions)
}

// WriteCSV writes one row per scored booking, in ranking order.
func WriteCSV(w io.Writer, suggestions []matching.Suggestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, sg := range suggestions {
		c := sg.Container
		for _, b := range sg.Bookings {
			rec := []string{
				c.ID, c.ContainerNumber, c.ContainerType, formatTime(c.AvailableFrom),
				b.Booking.ID, b.Booking.BookingNumber, b.Booking.RequiredContainerType, formatTime(b.Booking.NeededBy),
				string(b.Scenario),
				formatFloat(b.Score.TotalScore),
				formatFloat(b.Score.DistanceScore),
				formatFloat(b.Score.TimeScore),
				formatFloat(b.Score.ComplexityScore),
				formatFloat(b.Score.QualityScore),
				formatFloat(b.Score.PartnerScore),
				formatFloat(b.DistanceKM),
				formatFloat(b.TimeGapHours),
				formatFloat(b.EstimatedCostSaving),
				formatFloat(b.EstimatedCO2SavingKg),
				formatFees(b.AdditionalFees),
				strings.Join(b.RequiredActions, "; "),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFees(fees []matching.Fee) string {
	parts := make([]string, len(fees))
	for i, f := range fees {
		parts[i] = f.Description + "=" + formatFloat(f.Amount)
	}
	return strings.Join(parts, "; ")
}
