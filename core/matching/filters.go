package matching

import (
	"fmt"
	"math"
)

// Filters restricts the pairs the engine emits. A nil or empty field means the
// constraint is not applied.
type Filters struct {
	MaxDistanceKM  *float64 `json:"max_distance_km,omitempty" yaml:"max_distance_km,omitempty"`
	MaxTimeHours   *float64 `json:"max_time_hours,omitempty" yaml:"max_time_hours,omitempty"`
	MinScore       *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	ContainerType  string   `json:"container_type,omitempty" yaml:"container_type,omitempty"`
	ShippingLineID string   `json:"shipping_line_id,omitempty" yaml:"shipping_line_id,omitempty"`
}

// FilterError reports an out-of-range filter value.
type FilterError struct {
	Field  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
}

// Validate rejects negative limits and scores outside [0,100].
func (f Filters) Validate() error {
	if err := checkLimit("max_distance_km", f.MaxDistanceKM); err != nil {
		return err
	}
	if err := checkLimit("max_time_hours", f.MaxTimeHours); err != nil {
		return err
	}
	if f.MinScore != nil {
		v := *f.MinScore
		if math.IsNaN(v) || v < 0 || v > MaxScore {
			return &FilterError{Field: "min_score", Reason: fmt.Sprintf("%v not in [0,100]", v)}
		}
	}
	return nil
}

// Merge returns f with unset fields taken from defaults.
func (f Filters) Merge(defaults Filters) Filters {
	if f.MaxDistanceKM == nil {
		f.MaxDistanceKM = defaults.MaxDistanceKM
	}
	if f.MaxTimeHours == nil {
		f.MaxTimeHours = defaults.MaxTimeHours
	}
	if f.MinScore == nil {
		f.MinScore = defaults.MinScore
	}
	if f.ContainerType == "" {
		f.ContainerType = defaults.ContainerType
	}
	if f.ShippingLineID == "" {
		f.ShippingLineID = defaults.ShippingLineID
	}
	return f
}

func checkLimit(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 {
		return &FilterError{Field: field, Reason: fmt.Sprintf("%v must be a non-negative number", *v)}
	}
	return nil
}

// Float returns a pointer to v, for building Filters literals.
func Float(v float64) *float64 { return &v }
