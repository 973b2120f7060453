package usecase

import (
	"ride-share/internal/data/repository"
	"ride-share/pkg/database"
	"ride-share/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Ride    RideService
	Booking BookingService
}

func NewService(db database.PgxIface, repo *repository.Repository, config *utils.Config, mailer utils.Mailer, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, mailer, log),
		User:    NewUserService(repo.User, log),
		Ride:    NewRideService(db, repo, log),
		Booking: NewBookingService(db, repo, log),
	}
}
