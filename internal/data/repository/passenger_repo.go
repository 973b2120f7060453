package repository

import (
	"context"
	"fmt"

	"ride-share/internal/data/entity"
	"ride-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PassengerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error)
	FindByRideID(ctx context.Context, rideID uuid.UUID) ([]*entity.Passenger, error)

	// Transaction-scoped operations, used under the ride row lock.
	Create(ctx context.Context, q database.Queryer, passenger *entity.Passenger) error
	FindActiveByRideAndUser(ctx context.Context, q database.Queryer, rideID, userID uuid.UUID) (*entity.Passenger, error)
	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.PassengerStatus) error
	CancelActiveByRideID(ctx context.Context, q database.Queryer, rideID uuid.UUID) error
}

type passengerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPassengerRepository(db database.PgxIface, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

const passengerColumns = `id, ride_id, user_id, pickup_address, pickup_lat, pickup_lng, status, created_at, updated_at`

func scanPassenger(row pgx.Row) (*entity.Passenger, error) {
	var p entity.Passenger
	err := row.Scan(
		&p.ID,
		&p.RideID,
		&p.UserID,
		&p.PickupLocation.Address,
		&p.PickupLocation.Lat,
		&p.PickupLocation.Lng,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *passengerRepository) Create(ctx context.Context, q database.Queryer, passenger *entity.Passenger) error {
	query := `
		INSERT INTO passengers (id, ride_id, user_id, pickup_address, pickup_lat, pickup_lng, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		passenger.ID,
		passenger.RideID,
		passenger.UserID,
		passenger.PickupLocation.Address,
		passenger.PickupLocation.Lat,
		passenger.PickupLocation.Lng,
		passenger.Status,
		passenger.CreatedAt,
		passenger.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create passenger booking",
			zap.Error(err),
			zap.String("ride_id", passenger.RideID.String()),
			zap.String("user_id", passenger.UserID.String()),
		)
		return fmt.Errorf("create passenger booking: %w", err)
	}

	return nil
}

func (r *passengerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = $1`

	p, err := scanPassenger(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return p, nil
}

// FindActiveByRideAndUser returns the single non-cancelled,
// non-rejected booking for a (ride, user) pair, if any.
func (r *passengerRepository) FindActiveByRideAndUser(ctx context.Context, q database.Queryer, rideID, userID uuid.UUID) (*entity.Passenger, error) {
	query := `
		SELECT ` + passengerColumns + `
		FROM passengers
		WHERE ride_id = $1 AND user_id = $2 AND status NOT IN ('cancelled', 'rejected')
	`

	p, err := scanPassenger(q.QueryRow(ctx, query, rideID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active booking",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active booking for ride %s: %w", rideID.String(), err)
	}

	return p, nil
}

func (r *passengerRepository) FindByRideID(ctx context.Context, rideID uuid.UUID) ([]*entity.Passenger, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE ride_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, rideID)
	if err != nil {
		r.log.Error("Failed to find bookings by ride ID",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return nil, fmt.Errorf("find bookings by ride ID %s: %w", rideID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, p)
	}

	return passengers, nil
}

func (r *passengerRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.PassengerStatus) error {
	query := `UPDATE passengers SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

// CancelActiveByRideID cancels every active booking on a ride, used
// when the ride itself is cancelled. Seats are not restored: the ride
// is terminal at that point.
func (r *passengerRepository) CancelActiveByRideID(ctx context.Context, q database.Queryer, rideID uuid.UUID) error {
	query := `
		UPDATE passengers SET status = 'cancelled', updated_at = NOW()
		WHERE ride_id = $1 AND status NOT IN ('cancelled', 'rejected')
	`

	_, err := q.Exec(ctx, query, rideID)
	if err != nil {
		r.log.Error("Failed to cancel bookings for ride",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return fmt.Errorf("cancel bookings for ride %s: %w", rideID.String(), err)
	}

	return nil
}
