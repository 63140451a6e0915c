package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// StatusAvailable is the lifecycle status required for a record to enter matching.
const StatusAvailable = "AVAILABLE"

var (
	// ErrMissingTimestamp is returned when a record has no usable availability or deadline.
	ErrMissingTimestamp = errors.New("missing timestamp")
	// ErrInvalidCoordinates is returned when stored coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Validate checks latitude and longitude ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinates, c.Lat, c.Lng)
	}
	return nil
}

// DropOffContainer is an import container that becomes empty and available at a
// location after unloading.
type DropOffContainer struct {
	ID                    string       `json:"id" yaml:"id"`
	ContainerNumber       string       `json:"container_number" yaml:"container_number"`
	ContainerType         string       `json:"container_type" yaml:"container_type"`
	ContainerTypeID       string       `json:"container_type_id,omitempty" yaml:"container_type_id,omitempty"`
	DropOffLocation       string       `json:"drop_off_location" yaml:"drop_off_location"`
	AvailableFrom         time.Time    `json:"available_from" yaml:"available_from"`
	TruckingCompanyID     string       `json:"trucking_company_id" yaml:"trucking_company_id"`
	ShippingLineID        string       `json:"shipping_line_id" yaml:"shipping_line_id"`
	Status                string       `json:"status" yaml:"status"`
	IsListedOnMarketplace bool         `json:"is_listed_on_marketplace" yaml:"is_listed_on_marketplace"`
	Coordinates           *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Eligible reports whether the container can be offered for a street-turn.
func (c DropOffContainer) Eligible() bool {
	return c.Status == StatusAvailable && c.IsListedOnMarketplace
}

// Validate reports anomalies that prevent the container from being paired.
func (c DropOffContainer) Validate() error {
	if c.AvailableFrom.IsZero() {
		return fmt.Errorf("container %s available_from: %w", c.ID, ErrMissingTimestamp)
	}
	if c.Coordinates != nil {
		if err := c.Coordinates.Validate(); err != nil {
			return fmt.Errorf("container %s: %w", c.ID, err)
		}
	}
	return nil
}
