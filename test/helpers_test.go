package test

import (
	"time"

	"github.com/portlink/streetturn/core/model"
)

var runTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

// pools returns two containers and three bookings around Ho Chi Minh City.
// Booking b3 has no coordinates and is skipped by the engine.
func pools() ([]model.DropOffContainer, []model.PickupBooking) {
	containers := []model.DropOffContainer{
		{ID: "c1", ContainerNumber: "MSKU1", ContainerType: "40HC", AvailableFrom: runTime,
			TruckingCompanyID: "t1", ShippingLineID: "l1", Status: model.StatusAvailable,
			IsListedOnMarketplace: true, Coordinates: &model.Coordinates{Lat: 10.7626, Lng: 106.7602}},
		{ID: "c2", ContainerNumber: "MSKU2", ContainerType: "20GP", AvailableFrom: runTime,
			TruckingCompanyID: "t2", ShippingLineID: "l2", Status: model.StatusAvailable,
			IsListedOnMarketplace: true, Coordinates: &model.Coordinates{Lat: 10.95, Lng: 106.8}},
	}
	bookings := []model.PickupBooking{
		{ID: "b1", BookingNumber: "BK1", RequiredContainerType: "40HC", NeededBy: runTime.Add(6 * time.Hour),
			TruckingCompanyID: "t1", ShippingLineID: "l1", Status: model.StatusAvailable,
			Coordinates: &model.Coordinates{Lat: 10.8, Lng: 106.7}},
		{ID: "b2", BookingNumber: "BK2", RequiredContainerType: "20GP", NeededBy: runTime.Add(30 * time.Hour),
			TruckingCompanyID: "t2", ShippingLineID: "l2", Status: model.StatusAvailable,
			Coordinates: &model.Coordinates{Lat: 10.98, Lng: 106.65}},
		{ID: "b3", BookingNumber: "BK3", RequiredContainerType: "40HC", NeededBy: runTime.Add(2 * time.Hour),
			Status: model.StatusAvailable},
	}
	return containers, bookings
}
