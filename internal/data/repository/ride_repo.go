package repository

import (
	"context"
	"fmt"
	"time"

	"ride-share/internal/data/entity"
	"ride-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RideRepository interface {
	Create(ctx context.Context, ride *entity.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error)
	FindScheduled(ctx context.Context, from, to *time.Time) ([]*entity.Ride, error)
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Ride, error)

	// Transaction-scoped operations. The caller owns the transaction;
	// FindByIDForUpdate takes the exclusive row lock that serializes
	// all seat mutations on a ride.
	FindByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Ride, error)
	AdjustSeats(ctx context.Context, q database.Queryer, id uuid.UUID, delta int) error
	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.RideStatus) error
}

type rideRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRideRepository(db database.PgxIface, log *zap.Logger) RideRepository {
	return &rideRepository{
		db:  db,
		log: log.With(zap.String("repository", "ride")),
	}
}

const rideColumns = `id, driver_id, start_address, start_lat, start_lng,
	       end_address, end_lat, end_lng, departure_time, arrival_time,
	       price, vehicle_type, vehicle_model, vehicle_color, license_plate,
	       vehicle_capacity, available_seats, status, description, created_at, updated_at`

func scanRide(row pgx.Row) (*entity.Ride, error) {
	var ride entity.Ride
	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.StartLocation.Address,
		&ride.StartLocation.Lat,
		&ride.StartLocation.Lng,
		&ride.EndLocation.Address,
		&ride.EndLocation.Lat,
		&ride.EndLocation.Lng,
		&ride.DepartureTime,
		&ride.ArrivalTime,
		&ride.Price,
		&ride.VehicleType,
		&ride.VehicleModel,
		&ride.VehicleColor,
		&ride.LicensePlate,
		&ride.VehicleCapacity,
		&ride.AvailableSeats,
		&ride.Status,
		&ride.Description,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *rideRepository) Create(ctx context.Context, ride *entity.Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, start_address, start_lat, start_lng,
		                   end_address, end_lat, end_lng, departure_time, arrival_time,
		                   price, vehicle_type, vehicle_model, vehicle_color, license_plate,
		                   vehicle_capacity, available_seats, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.StartLocation.Address,
		ride.StartLocation.Lat,
		ride.StartLocation.Lng,
		ride.EndLocation.Address,
		ride.EndLocation.Lat,
		ride.EndLocation.Lng,
		ride.DepartureTime,
		ride.ArrivalTime,
		ride.Price,
		ride.VehicleType,
		ride.VehicleModel,
		ride.VehicleColor,
		ride.LicensePlate,
		ride.VehicleCapacity,
		ride.AvailableSeats,
		ride.Status,
		ride.Description,
		ride.CreatedAt,
		ride.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ride",
			zap.Error(err),
			zap.String("driver_id", ride.DriverID.String()),
		)
		return fmt.Errorf("create ride: %w", err)
	}

	return nil
}

func (r *rideRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride by ID",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return nil, fmt.Errorf("find ride by ID %s: %w", id.String(), err)
	}

	return ride, nil
}

// FindByIDForUpdate reads the ride under SELECT ... FOR UPDATE. Callers
// contending for the same ride serialize here; different rides never
// block each other.
func (r *rideRepository) FindByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`

	ride, err := scanRide(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock ride row",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return nil, fmt.Errorf("lock ride %s: %w", id.String(), err)
	}

	return ride, nil
}

func (r *rideRepository) FindScheduled(ctx context.Context, from, to *time.Time) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = 'scheduled'`
	args := []interface{}{}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND departure_time >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND departure_time <= $%d", len(args))
	}
	query += " ORDER BY departure_time ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find scheduled rides", zap.Error(err))
		return nil, fmt.Errorf("find scheduled rides: %w", err)
	}
	defer rows.Close()

	var rides []*entity.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			r.log.Error("Failed to scan ride row", zap.Error(err))
			return nil, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, ride)
	}

	return rides, nil
}

// FindByParticipant returns every ride the user drives or has a
// booking on, any status, newest departure first.
func (r *rideRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1
		   OR id IN (SELECT ride_id FROM passengers WHERE user_id = $1)
		ORDER BY departure_time DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find rides by participant",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find rides for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var rides []*entity.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			r.log.Error("Failed to scan ride row", zap.Error(err))
			return nil, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, ride)
	}

	return rides, nil
}

// AdjustSeats moves available_seats by delta. No revalidation happens
// here: the caller holds the row lock and has already checked the
// preconditions.
func (r *rideRepository) AdjustSeats(ctx context.Context, q database.Queryer, id uuid.UUID, delta int) error {
	query := `UPDATE rides SET available_seats = available_seats + $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust ride seats",
			zap.Error(err),
			zap.String("ride_id", id.String()),
			zap.Int("delta", delta),
		)
		return fmt.Errorf("adjust seats on ride %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", id.String())
	}

	return nil
}

func (r *rideRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.RideStatus) error {
	query := `UPDATE rides SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update ride status",
			zap.Error(err),
			zap.String("ride_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update ride %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", id.String())
	}

	return nil
}
