package usecase

import (
	"context"
	"errors"
	"time"

	"ride-share/internal/apperr"
	"ride-share/internal/data/entity"
	"ride-share/internal/data/repository"
	"ride-share/internal/dto/request"
	"ride-share/internal/dto/response"
	"ride-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService interface {
	JoinRide(ctx context.Context, rideID, userID uuid.UUID, pickup request.PickupLocation) (*response.JoinRideResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
}

type bookingService struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		db:   db,
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

// JoinRide reserves one seat on a ride for the caller. All
// preconditions are checked under an exclusive lock on the ride row,
// and the booking insert plus the seat decrement commit as one unit:
// either both land or neither does.
func (s *bookingService) JoinRide(ctx context.Context, rideID, userID uuid.UUID, pickup request.PickupLocation) (*response.JoinRideResponse, error) {
	// Normalize before anything touches the database. A malformed
	// pickup never opens a transaction.
	location, err := pickup.Normalize()
	if err != nil {
		s.log.Warn("Join ride rejected: bad pickup location",
			zap.String("ride_id", rideID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin join transaction", zap.Error(err))
		return nil, storageErr(err)
	}
	defer s.rollback(ctx, tx)

	// Exclusive lock on the ride row. Concurrent joiners of the same
	// ride serialize here; their lock order decides who gets the
	// remaining seats.
	ride, err := s.repo.Ride.FindByIDForUpdate(ctx, tx, rideID)
	if err != nil {
		return nil, storageErr(err)
	}
	if ride == nil {
		return nil, apperr.ErrRideNotFound
	}

	if ride.DriverID == userID {
		return nil, apperr.ErrSelfJoinForbidden
	}

	if ride.Status != entity.RideStatusScheduled {
		return nil, apperr.ErrRideUnavailable
	}

	if ride.AvailableSeats < 1 {
		return nil, apperr.ErrNoSeatsAvailable
	}

	existing, err := s.repo.Passenger.FindActiveByRideAndUser(ctx, tx, rideID, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyBooked
	}

	now := time.Now()
	passenger := &entity.Passenger{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RideID:         rideID,
		UserID:         userID,
		PickupLocation: location,
		Status:         entity.PassengerStatusPending,
	}

	if err := s.repo.Passenger.Create(ctx, tx, passenger); err != nil {
		return nil, storageErr(err)
	}

	// The decrement trusts the checks above: same lock, same
	// transaction. No re-validation of unrelated ride fields.
	if err := s.repo.Ride.AdjustSeats(ctx, tx, rideID, -1); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit join transaction",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, storageErr(err)
	}

	s.log.Info("Passenger joined ride",
		zap.String("booking_id", passenger.ID.String()),
		zap.String("ride_id", rideID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("seats_left", ride.AvailableSeats-1),
	)

	result := &response.JoinRideResponse{
		Booking: response.BookingToResponse(passenger),
	}

	// Post-commit convenience read. The booking is already durable;
	// if this fails we fall back to the view we hold from the lock.
	rideView, err := s.reloadRide(ctx, rideID)
	if err != nil {
		s.log.Warn("Joined ride but failed to load composed view",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		ride.AvailableSeats--
		rideView = response.RideToResponse(ride)
	}
	result.Ride = rideView

	return result, nil
}

// CancelBooking releases the caller's seat. The status flip and the
// seat restore run under the same ride row lock the join path uses, so
// seat accounting stays exact.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.repo.Passenger.FindByID(ctx, bookingID)
	if err != nil {
		return storageErr(err)
	}
	if booking == nil {
		return apperr.ErrBookingNotFound
	}

	if booking.UserID != userID {
		return apperr.ErrBookingNotOwned
	}

	if booking.Status != entity.PassengerStatusPending && booking.Status != entity.PassengerStatusAccepted {
		return apperr.ErrBookingNotActive
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin cancel transaction", zap.Error(err))
		return storageErr(err)
	}
	defer s.rollback(ctx, tx)

	ride, err := s.repo.Ride.FindByIDForUpdate(ctx, tx, booking.RideID)
	if err != nil {
		return storageErr(err)
	}
	if ride == nil {
		return apperr.ErrRideNotFound
	}

	// Re-check under the lock: the booking may have raced with a ride
	// cancellation or completion.
	current, err := s.repo.Passenger.FindActiveByRideAndUser(ctx, tx, booking.RideID, userID)
	if err != nil {
		return storageErr(err)
	}
	if current == nil || current.ID != booking.ID ||
		(current.Status != entity.PassengerStatusPending && current.Status != entity.PassengerStatusAccepted) {
		return apperr.ErrBookingNotActive
	}

	if err := s.repo.Passenger.UpdateStatus(ctx, tx, booking.ID, entity.PassengerStatusCancelled); err != nil {
		return storageErr(err)
	}

	if err := s.repo.Ride.AdjustSeats(ctx, tx, booking.RideID, +1); err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit cancel transaction",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return storageErr(err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("ride_id", booking.RideID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

func (s *bookingService) reloadRide(ctx context.Context, rideID uuid.UUID) (*response.RideResponse, error) {
	ride, err := s.repo.Ride.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperr.ErrRideNotFound
	}
	return composeRideResponse(ctx, s.repo, ride, s.log)
}

// rollback is a no-op after a successful commit. A real rollback
// failure is logged and never masks the error that caused it.
func (s *bookingService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.log.Error("Failed to roll back booking transaction", zap.Error(err))
	}
}
