package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portlink/streetturn/core/model"
	"github.com/portlink/streetturn/core/source"
)

const containersQuery = `
	SELECT id, container_number, container_type, COALESCE(container_type_id, ''),
	       COALESCE(drop_off_location, ''), available_from,
	       COALESCE(trucking_company_id, ''), COALESCE(shipping_line_id, ''),
	       status, is_listed_on_marketplace, latitude, longitude
	FROM import_containers
	WHERE organization_id = $1 AND status = $2 AND is_listed_on_marketplace
	ORDER BY available_from, id`

const bookingsQuery = `
	SELECT id, booking_number, required_container_type, COALESCE(container_type_id, ''),
	       COALESCE(pick_up_location, ''), needed_by,
	       COALESCE(trucking_company_id, ''), COALESCE(shipping_line_id, ''),
	       status, latitude, longitude
	FROM export_bookings
	WHERE organization_id = $1 AND status = $2
	ORDER BY needed_by, id`

// Source loads pools with two read-only queries per organization.
type Source struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewSource wraps an open pool. A zero timeout disables the per-call deadline.
func NewSource(db *pgxpool.Pool, timeout time.Duration) *Source {
	return &Source{db: db, timeout: timeout}
}

// Pool returns the organization's AVAILABLE marketplace-listed containers and
// AVAILABLE bookings.
func (s *Source) Pool(ctx context.Context, orgID string) (source.Pool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	containers, err := s.containers(ctx, orgID)
	if err != nil {
		return source.Pool{}, err
	}
	bookings, err := s.bookings(ctx, orgID)
	if err != nil {
		return source.Pool{}, err
	}
	return source.Pool{Containers: containers, Bookings: bookings}, nil
}

func (s *Source) containers(ctx context.Context, orgID string) ([]model.DropOffContainer, error) {
	rows, err := s.db.Query(ctx, containersQuery, orgID, model.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("query import_containers: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DropOffContainer, error) {
		var c model.DropOffContainer
		var lat, lng *float64
		err := row.Scan(&c.ID, &c.ContainerNumber, &c.ContainerType, &c.ContainerTypeID,
			&c.DropOffLocation, &c.AvailableFrom, &c.TruckingCompanyID, &c.ShippingLineID,
			&c.Status, &c.IsListedOnMarketplace, &lat, &lng)
		c.Coordinates = coordinates(lat, lng)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan import_containers: %w", err)
	}
	return out, nil
}

func (s *Source) bookings(ctx context.Context, orgID string) ([]model.PickupBooking, error) {
	rows, err := s.db.Query(ctx, bookingsQuery, orgID, model.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("query export_bookings: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PickupBooking, error) {
		var b model.PickupBooking
		var lat, lng *float64
		err := row.Scan(&b.ID, &b.BookingNumber, &b.RequiredContainerType, &b.ContainerTypeID,
			&b.PickupLocation, &b.NeededBy, &b.TruckingCompanyID, &b.ShippingLineID,
			&b.Status, &lat, &lng)
		b.Coordinates = coordinates(lat, lng)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan export_bookings: %w", err)
	}
	return out, nil
}

// coordinates returns nil unless both columns are set.
func coordinates(lat, lng *float64) *model.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &model.Coordinates{Lat: *lat, Lng: *lng}
}
