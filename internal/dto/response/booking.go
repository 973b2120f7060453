package response

import (
	"time"

	"ride-share/internal/data/entity"
)

type BookingResponse struct {
	ID             string          `json:"id"`
	RideID         string          `json:"rideId"`
	UserID         string          `json:"userId"`
	User           *UserSummary    `json:"user,omitempty"`
	PickupLocation entity.Location `json:"pickupLocation"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// JoinRideResponse is the composed view returned after a successful
// join: the new booking plus the updated ride with driver and
// passenger list.
type JoinRideResponse struct {
	Ride    *RideResponse    `json:"ride"`
	Booking *BookingResponse `json:"booking"`
}

func BookingToResponse(p *entity.Passenger) *BookingResponse {
	return &BookingResponse{
		ID:             p.ID.String(),
		RideID:         p.RideID.String(),
		UserID:         p.UserID.String(),
		PickupLocation: p.PickupLocation,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
	}
}
