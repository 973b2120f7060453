package repository

import (
	"ride-share/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Ride      RideRepository
	Passenger PassengerRepository
	OTP       OTPRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Ride:      NewRideRepository(db, log),
		Passenger: NewPassengerRepository(db, log),
		OTP:       NewOTPRepository(db, log),
	}
}
