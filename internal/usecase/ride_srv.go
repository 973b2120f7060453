package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-share/internal/apperr"
	"ride-share/internal/data/entity"
	"ride-share/internal/data/repository"
	"ride-share/internal/dto/request"
	"ride-share/internal/dto/response"
	"ride-share/pkg/database"
	"ride-share/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RideService interface {
	CreateRide(ctx context.Context, driverID uuid.UUID, req *request.CreateRideRequest) (*response.RideResponse, error)
	GetRide(ctx context.Context, rideID uuid.UUID) (*response.RideResponse, error)
	ListRides(ctx context.Context, filter request.ListRidesFilter) ([]*response.RideResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*response.RideResponse, error)
	SetStatus(ctx context.Context, rideID, callerID uuid.UUID, newStatus entity.RideStatus) (*response.RideResponse, error)
}

type rideService struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
}

func NewRideService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) RideService {
	return &rideService{
		db:   db,
		repo: repo,
		log:  log.With(zap.String("service", "ride")),
	}
}

func (s *rideService) CreateRide(ctx context.Context, driverID uuid.UUID, req *request.CreateRideRequest) (*response.RideResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create ride validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	driver, err := s.repo.User.FindByID(ctx, driverID)
	if err != nil {
		return nil, storageErr(err)
	}
	if driver == nil {
		return nil, apperr.ErrUserNotFound
	}
	if !driver.IsDriver {
		return nil, apperr.ErrDriverRequired
	}

	now := time.Now()
	if !req.DepartureTime.After(now) {
		return nil, apperr.New(apperr.KindInvalidInput, "departure_in_past", "Departure time must be in the future")
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, apperr.New(apperr.KindInvalidInput, "arrival_before_departure", "Arrival time must be after departure time")
	}

	vehicleType := entity.VehicleType(req.VehicleType)
	if req.VehicleCapacity > vehicleType.MaxCapacity() {
		return nil, apperr.New(apperr.KindInvalidInput, "capacity_exceeds_vehicle_limit",
			fmt.Sprintf("Vehicle capacity cannot exceed %d for a %s", vehicleType.MaxCapacity(), req.VehicleType))
	}
	if req.AvailableSeats > req.VehicleCapacity {
		return nil, apperr.New(apperr.KindInvalidInput, "seats_exceed_capacity", "Available seats cannot exceed vehicle capacity")
	}

	ride := &entity.Ride{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID: driverID,
		StartLocation: entity.Location{
			Address: req.StartLocation.Address,
			Lat:     req.StartLocation.Coordinates.Lat,
			Lng:     req.StartLocation.Coordinates.Lng,
		},
		EndLocation: entity.Location{
			Address: req.EndLocation.Address,
			Lat:     req.EndLocation.Coordinates.Lat,
			Lng:     req.EndLocation.Coordinates.Lng,
		},
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		Price:           req.Price,
		VehicleType:     vehicleType,
		VehicleModel:    req.VehicleModel,
		VehicleColor:    req.VehicleColor,
		LicensePlate:    req.LicensePlate,
		VehicleCapacity: req.VehicleCapacity,
		AvailableSeats:  req.AvailableSeats,
		Status:          entity.RideStatusScheduled,
		Description:     req.Description,
	}

	if err := s.repo.Ride.Create(ctx, ride); err != nil {
		return nil, storageErr(err)
	}

	s.log.Info("Ride created",
		zap.String("ride_id", ride.ID.String()),
		zap.String("driver_id", driverID.String()),
		zap.Int("seats", ride.AvailableSeats),
		zap.Time("departure", ride.DepartureTime),
	)

	resp := response.RideToResponse(ride)
	resp.Driver = response.UserToSummary(driver)
	return resp, nil
}

func (s *rideService) GetRide(ctx context.Context, rideID uuid.UUID) (*response.RideResponse, error) {
	ride, err := s.repo.Ride.FindByID(ctx, rideID)
	if err != nil {
		return nil, storageErr(err)
	}
	if ride == nil {
		return nil, apperr.ErrRideNotFound
	}

	resp, err := composeRideResponse(ctx, s.repo, ride, s.log)
	if err != nil {
		return nil, storageErr(err)
	}
	return resp, nil
}

// ListRides returns scheduled rides in the departure window, oldest
// first. Read-only, no locking.
func (s *rideService) ListRides(ctx context.Context, filter request.ListRidesFilter) ([]*response.RideResponse, error) {
	rides, err := s.repo.Ride.FindScheduled(ctx, filter.From, filter.To)
	if err != nil {
		return nil, storageErr(err)
	}

	return s.withDriverSummaries(ctx, rides), nil
}

// ListMine returns every ride the user is involved in, driving or
// riding, whatever its status, newest departure first.
func (s *rideService) ListMine(ctx context.Context, userID uuid.UUID) ([]*response.RideResponse, error) {
	rides, err := s.repo.Ride.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}

	return s.withDriverSummaries(ctx, rides), nil
}

// withDriverSummaries maps rides to responses with the driver summary
// attached. A failed driver lookup is logged and leaves the summary
// nil instead of dropping the ride from the listing.
func (s *rideService) withDriverSummaries(ctx context.Context, rides []*entity.Ride) []*response.RideResponse {
	responses := make([]*response.RideResponse, 0, len(rides))
	for _, ride := range rides {
		resp := response.RideToResponse(ride)
		driver, err := s.repo.User.FindByID(ctx, ride.DriverID)
		if err != nil {
			s.log.Warn("Failed to load driver for ride listing",
				zap.Error(err),
				zap.String("ride_id", ride.ID.String()),
				zap.String("driver_id", ride.DriverID.String()),
			)
		}
		resp.Driver = response.UserToSummary(driver)
		responses = append(responses, resp)
	}

	return responses
}

// SetStatus drives the ride lifecycle. Transitions outside the table
// (scheduled→in_progress/cancelled, in_progress→completed/cancelled)
// are rejected. On completion the driver and every passenger get their
// completed-ride counters bumped in the same transaction as the status
// write, so a crash mid-fan-out can never leave partial counts.
func (s *rideService) SetStatus(ctx context.Context, rideID, callerID uuid.UUID, newStatus entity.RideStatus) (*response.RideResponse, error) {
	if !newStatus.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid_status",
			fmt.Sprintf("Unknown ride status %q", string(newStatus)))
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to begin status transaction", zap.Error(err))
		return nil, storageErr(err)
	}
	defer s.rollback(ctx, tx)

	// Same row lock the booking path takes, so a status change never
	// interleaves with a seat mutation.
	ride, err := s.repo.Ride.FindByIDForUpdate(ctx, tx, rideID)
	if err != nil {
		return nil, storageErr(err)
	}
	if ride == nil {
		return nil, apperr.ErrRideNotFound
	}

	if ride.DriverID != callerID {
		return nil, apperr.ErrNotAuthorized
	}

	if !ride.Status.CanTransitionTo(newStatus) {
		return nil, apperr.Wrap(
			fmt.Errorf("transition %s -> %s", ride.Status, newStatus),
			apperr.ErrInvalidTransition,
		)
	}

	if err := s.repo.Ride.UpdateStatus(ctx, tx, rideID, newStatus); err != nil {
		return nil, storageErr(err)
	}

	switch newStatus {
	case entity.RideStatusCompleted:
		if err := s.propagateCompletion(ctx, tx, ride); err != nil {
			return nil, storageErr(err)
		}
	case entity.RideStatusCancelled:
		if err := s.repo.Passenger.CancelActiveByRideID(ctx, tx, rideID); err != nil {
			return nil, storageErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit status transaction",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.String("status", string(newStatus)),
		)
		return nil, storageErr(err)
	}

	s.log.Info("Ride status changed",
		zap.String("ride_id", rideID.String()),
		zap.String("from", string(ride.Status)),
		zap.String("to", string(newStatus)),
	)

	ride.Status = newStatus
	resp, err := composeRideResponse(ctx, s.repo, ride, s.log)
	if err != nil {
		// Status is committed; degrade to the bare view.
		s.log.Warn("Status changed but failed to load composed view",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return response.RideToResponse(ride), nil
	}
	return resp, nil
}

// propagateCompletion bumps the driver's as-driver counter once and
// each active passenger's as-passenger counter once, and marks their
// bookings completed. Cancelled and rejected bookings get no credit.
// The transition table guarantees this runs at most once per ride.
func (s *rideService) propagateCompletion(ctx context.Context, tx pgx.Tx, ride *entity.Ride) error {
	if err := s.repo.User.IncrementCompletedRides(ctx, tx, ride.DriverID, repository.CompletedAsDriver, 1); err != nil {
		return err
	}

	passengers, err := s.repo.Passenger.FindByRideID(ctx, ride.ID)
	if err != nil {
		return err
	}

	for _, p := range passengers {
		if !p.Status.Active() {
			continue
		}
		if err := s.repo.User.IncrementCompletedRides(ctx, tx, p.UserID, repository.CompletedAsPassenger, 1); err != nil {
			return err
		}
		if err := s.repo.Passenger.UpdateStatus(ctx, tx, p.ID, entity.PassengerStatusCompleted); err != nil {
			return err
		}
	}

	return nil
}

func (s *rideService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.log.Error("Failed to roll back ride transaction", zap.Error(err))
	}
}
