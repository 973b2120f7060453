package entity

import (
	"github.com/google/uuid"
)

type PassengerStatus string

const (
	PassengerStatusPending   PassengerStatus = "pending"
	PassengerStatusAccepted  PassengerStatus = "accepted"
	PassengerStatusRejected  PassengerStatus = "rejected"
	PassengerStatusCompleted PassengerStatus = "completed"
	PassengerStatusCancelled PassengerStatus = "cancelled"
)

// Active reports whether the booking still occupies a seat.
// Cancelled and rejected bookings release their seat.
func (s PassengerStatus) Active() bool {
	return s != PassengerStatusCancelled && s != PassengerStatusRejected
}

// Passenger is a single user's booking against a ride. At most one
// active booking may exist per (ride, user) pair; the booking service
// enforces this under the ride row lock.
type Passenger struct {
	Base
	RideID         uuid.UUID       `db:"ride_id"`
	UserID         uuid.UUID       `db:"user_id"`
	PickupLocation Location        `db:"pickup_location"`
	Status         PassengerStatus `db:"status"`
}
