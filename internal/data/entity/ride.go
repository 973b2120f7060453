package entity

import (
	"time"

	"github.com/google/uuid"
)

type RideStatus string

const (
	RideStatusScheduled  RideStatus = "scheduled"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// rideTransitions is the full transition table. completed and
// cancelled are terminal.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusScheduled:  {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
	RideStatusCompleted:  {},
	RideStatusCancelled:  {},
}

func (s RideStatus) Valid() bool {
	_, ok := rideTransitions[s]
	return ok
}

// CanTransitionTo reports whether s -> next is a legal edge.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	for _, allowed := range rideTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type VehicleType string

const (
	VehicleTypeCar  VehicleType = "car"
	VehicleTypeBike VehicleType = "bike"
)

func (v VehicleType) Valid() bool {
	return v == VehicleTypeCar || v == VehicleTypeBike
}

// MaxCapacity is the seat ceiling per vehicle class: bikes take
// at most 2, everything else at most 4.
func (v VehicleType) MaxCapacity() int {
	if v == VehicleTypeBike {
		return 2
	}
	return 4
}

type Ride struct {
	Base
	DriverID        uuid.UUID   `db:"driver_id"`
	StartLocation   Location    `db:"start_location"`
	EndLocation     Location    `db:"end_location"`
	DepartureTime   time.Time   `db:"departure_time"`
	ArrivalTime     time.Time   `db:"arrival_time"`
	Price           float64     `db:"price"`
	VehicleType     VehicleType `db:"vehicle_type"`
	VehicleModel    string      `db:"vehicle_model"`
	VehicleColor    string      `db:"vehicle_color"`
	LicensePlate    string      `db:"license_plate"`
	VehicleCapacity int         `db:"vehicle_capacity"`
	AvailableSeats  int         `db:"available_seats"`
	Status          RideStatus  `db:"status"`
	Description     string      `db:"description"`
}
