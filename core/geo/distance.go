// Package geo computes road-agnostic distances between container locations.
package geo

import (
	"errors"
	"math"

	"github.com/portlink/streetturn/core/model"
)

// EarthRadiusKM is the mean Earth radius used by HaversineKM.
const EarthRadiusKM = 6371.0

// ErrMissingCoordinates is returned when one side of a pair has no stored position.
var ErrMissingCoordinates = errors.New("missing coordinates")

// Calculator returns the distance in kilometres between two positions.
type Calculator interface {
	DistanceKM(from, to *model.Coordinates) (float64, error)
}

// HaversineKM returns the great-circle distance between two points.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dp/2)*math.Sin(dp/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// HaversineCalculator implements Calculator over stored coordinates. When a
// position is missing, FallbackKM is returned if positive, otherwise
// ErrMissingCoordinates.
type HaversineCalculator struct {
	FallbackKM float64
}

// DistanceKM implements Calculator.
func (h HaversineCalculator) DistanceKM(from, to *model.Coordinates) (float64, error) {
	if from == nil || to == nil {
		if h.FallbackKM > 0 {
			return h.FallbackKM, nil
		}
		return 0, ErrMissingCoordinates
	}
	if err := from.Validate(); err != nil {
		return 0, err
	}
	if err := to.Validate(); err != nil {
		return 0, err
	}
	return HaversineKM(from.Lat, from.Lng, to.Lat, to.Lng), nil
}
