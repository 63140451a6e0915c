package matching

import "fmt"

// Config defines matching-related settings.
type Config struct {
	// FallbackDistanceKM is used when a record has no coordinates. Zero skips
	// such pairs instead.
	FallbackDistanceKM float64 `json:"fallback_distance_km"`
	// PartnerScore is the fixed partner reputation score. Unset selects
	// DefaultPartnerScore; an explicit zero is kept.
	PartnerScore *float64 `json:"partner_score"`
	// Defaults are merged into every request's filters.
	Defaults Filters `json:"defaults"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PartnerScore == nil {
		c.PartnerScore = Float(DefaultPartnerScore)
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.FallbackDistanceKM < 0 {
		return fmt.Errorf("fallback_distance_km must not be negative")
	}
	if p := c.PartnerScore; p != nil && (*p < 0 || *p > MaxScore) {
		return fmt.Errorf("partner_score %v not in [0,100]", *p)
	}
	return c.Defaults.Validate()
}
