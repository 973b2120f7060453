package response

import (
	"time"

	"ride-share/internal/data/entity"
)

type RideResponse struct {
	ID              string             `json:"id"`
	Driver          *UserSummary       `json:"driver,omitempty"`
	StartLocation   entity.Location    `json:"startLocation"`
	EndLocation     entity.Location    `json:"endLocation"`
	DepartureTime   time.Time          `json:"departureTime"`
	ArrivalTime     time.Time          `json:"arrivalTime"`
	Price           float64            `json:"price"`
	VehicleType     string             `json:"vehicleType"`
	VehicleModel    string             `json:"vehicleModel"`
	VehicleColor    string             `json:"vehicleColor"`
	LicensePlate    string             `json:"licensePlate"`
	VehicleCapacity int                `json:"vehicleCapacity"`
	AvailableSeats  int                `json:"availableSeats"`
	Status          string             `json:"status"`
	Description     string             `json:"description,omitempty"`
	Passengers      []*BookingResponse `json:"passengers,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

func RideToResponse(ride *entity.Ride) *RideResponse {
	return &RideResponse{
		ID:              ride.ID.String(),
		StartLocation:   ride.StartLocation,
		EndLocation:     ride.EndLocation,
		DepartureTime:   ride.DepartureTime,
		ArrivalTime:     ride.ArrivalTime,
		Price:           ride.Price,
		VehicleType:     string(ride.VehicleType),
		VehicleModel:    ride.VehicleModel,
		VehicleColor:    ride.VehicleColor,
		LicensePlate:    ride.LicensePlate,
		VehicleCapacity: ride.VehicleCapacity,
		AvailableSeats:  ride.AvailableSeats,
		Status:          string(ride.Status),
		Description:     ride.Description,
		CreatedAt:       ride.CreatedAt,
	}
}
