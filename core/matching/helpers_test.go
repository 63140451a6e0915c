package matching

import (
	"math"
	"time"

	"github.com/portlink/streetturn/core/geo"
	"github.com/portlink/streetturn/core/model"
)

// lineDistance treats the longitude of each position as a kilometre mark on a
// straight road, which keeps expected distances exact in tests.
type lineDistance struct{}

func (lineDistance) DistanceKM(from, to *model.Coordinates) (float64, error) {
	if from == nil || to == nil {
		return 0, geo.ErrMissingCoordinates
	}
	return math.Abs(to.Lng - from.Lng), nil
}

func at(km float64) *model.Coordinates { return &model.Coordinates{Lng: km} }

var base = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func container(id string, km float64) model.DropOffContainer {
	return model.DropOffContainer{
		ID:                    id,
		ContainerNumber:       "MSKU" + id,
		ContainerType:         "40HC",
		DropOffLocation:       "Cat Lai",
		AvailableFrom:         base,
		TruckingCompanyID:     "trucker-a",
		ShippingLineID:        "line-x",
		Status:                model.StatusAvailable,
		IsListedOnMarketplace: true,
		Coordinates:           at(km),
	}
}

func booking(id string, km, gapHours float64) model.PickupBooking {
	return model.PickupBooking{
		ID:                    id,
		BookingNumber:         "BK" + id,
		RequiredContainerType: "40HC",
		PickupLocation:        "VSIP",
		NeededBy:              base.Add(time.Duration(gapHours * float64(time.Hour))),
		TruckingCompanyID:     "trucker-a",
		ShippingLineID:        "line-x",
		Status:                model.StatusAvailable,
		Coordinates:           at(km),
	}
}

func testEngine() Engine {
	return Engine{Distance: lineDistance{}}
}
