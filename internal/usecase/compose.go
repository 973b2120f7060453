package usecase

import (
	"context"

	"ride-share/internal/data/entity"
	"ride-share/internal/data/repository"
	"ride-share/internal/dto/response"

	"go.uber.org/zap"
)

// composeRideResponse builds the full ride view: ride fields plus
// driver summary and passenger list with their users. Passenger-user
// enrichment is best-effort; a failed lookup is logged and leaves the
// summary nil rather than failing the whole view.
func composeRideResponse(ctx context.Context, repo *repository.Repository, ride *entity.Ride, log *zap.Logger) (*response.RideResponse, error) {
	resp := response.RideToResponse(ride)

	driver, err := repo.User.FindByID(ctx, ride.DriverID)
	if err != nil {
		return nil, err
	}
	resp.Driver = response.UserToSummary(driver)

	passengers, err := repo.Passenger.FindByRideID(ctx, ride.ID)
	if err != nil {
		return nil, err
	}

	for _, p := range passengers {
		booking := response.BookingToResponse(p)
		user, err := repo.User.FindByID(ctx, p.UserID)
		if err != nil {
			log.Warn("Failed to load passenger user for ride view",
				zap.Error(err),
				zap.String("ride_id", ride.ID.String()),
				zap.String("user_id", p.UserID.String()),
			)
		}
		booking.User = response.UserToSummary(user)
		resp.Passengers = append(resp.Passengers, booking)
	}

	return resp, nil
}
