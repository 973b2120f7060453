package request

import (
	"time"
)

// RoutePoint is a ride's start or end location on the wire.
type RoutePoint struct {
	Address     string      `json:"address" validate:"required"`
	Coordinates RouteCoords `json:"coordinates" validate:"required"`
}

type RouteCoords struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}

type CreateRideRequest struct {
	StartLocation   RoutePoint `json:"startLocation" validate:"required"`
	EndLocation     RoutePoint `json:"endLocation" validate:"required"`
	DepartureTime   time.Time  `json:"departureTime" validate:"required"`
	ArrivalTime     time.Time  `json:"arrivalTime" validate:"required"`
	Price           float64    `json:"price" validate:"gte=0"`
	VehicleType     string     `json:"vehicleType" validate:"required,oneof=car bike"`
	VehicleModel    string     `json:"vehicleModel" validate:"required"`
	VehicleColor    string     `json:"vehicleColor" validate:"required"`
	LicensePlate    string     `json:"licensePlate" validate:"required"`
	VehicleCapacity int        `json:"vehicleCapacity" validate:"required,min=1"`
	AvailableSeats  int        `json:"availableSeats" validate:"required,min=1"`
	Description     string     `json:"description"`
}

type SetRideStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
}

// ListRidesFilter narrows the ride listing to a departure window.
type ListRidesFilter struct {
	From *time.Time
	To   *time.Time
}
