package model

import (
	"fmt"
	"time"
)

// PickupBooking is an export booking requesting an empty container at a
// location before a deadline.
type PickupBooking struct {
	ID                    string       `json:"id" yaml:"id"`
	BookingNumber         string       `json:"booking_number" yaml:"booking_number"`
	RequiredContainerType string       `json:"required_container_type" yaml:"required_container_type"`
	ContainerTypeID       string       `json:"container_type_id,omitempty" yaml:"container_type_id,omitempty"`
	PickupLocation        string       `json:"pick_up_location" yaml:"pick_up_location"`
	NeededBy              time.Time    `json:"needed_by" yaml:"needed_by"`
	TruckingCompanyID     string       `json:"trucking_company_id" yaml:"trucking_company_id"`
	ShippingLineID        string       `json:"shipping_line_id" yaml:"shipping_line_id"`
	Status                string       `json:"status" yaml:"status"`
	Coordinates           *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Eligible reports whether the booking is still open.
func (b PickupBooking) Eligible() bool { return b.Status == StatusAvailable }

// Validate reports anomalies that prevent the booking from being paired.
func (b PickupBooking) Validate() error {
	if b.NeededBy.IsZero() {
		return fmt.Errorf("booking %s needed_by: %w", b.ID, ErrMissingTimestamp)
	}
	if b.Coordinates != nil {
		if err := b.Coordinates.Validate(); err != nil {
			return fmt.Errorf("booking %s: %w", b.ID, err)
		}
	}
	return nil
}
