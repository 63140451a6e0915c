package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portlink/streetturn/core/model"
)

func TestFilterEligible(t *testing.T) {
	p := Pool{
		Containers: []model.DropOffContainer{
			{ID: "listed", Status: model.StatusAvailable, IsListedOnMarketplace: true},
			{ID: "unlisted", Status: model.StatusAvailable},
			{ID: "taken", Status: "CONFIRMED", IsListedOnMarketplace: true},
		},
		Bookings: []model.PickupBooking{
			{ID: "open", Status: model.StatusAvailable},
			{ID: "closed", Status: "COMPLETED"},
		},
	}
	out := FilterEligible(p)
	require.Len(t, out.Containers, 1)
	assert.Equal(t, "listed", out.Containers[0].ID)
	require.Len(t, out.Bookings, 1)
	assert.Equal(t, "open", out.Bookings[0].ID)
}

func TestFilterEligible_EmptyIsNonNil(t *testing.T) {
	out := FilterEligible(Pool{})
	assert.NotNil(t, out.Containers)
	assert.NotNil(t, out.Bookings)
}

func TestFunc(t *testing.T) {
	var s Source = Func(func(_ context.Context, org string) (Pool, error) {
		if org != "o1" {
			return Pool{}, ErrUnknownOrg
		}
		return Pool{Bookings: []model.PickupBooking{{ID: "b"}}}, nil
	})
	p, err := s.Pool(context.Background(), "o1")
	require.NoError(t, err)
	assert.Len(t, p.Bookings, 1)
	_, err = s.Pool(context.Background(), "o2")
	assert.ErrorIs(t, err, ErrUnknownOrg)
}
