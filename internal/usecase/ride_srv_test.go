package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ride-share/internal/apperr"
	"ride-share/internal/data/entity"
	"ride-share/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func createRideReq() *request.CreateRideRequest {
	departure := time.Now().Add(2 * time.Hour)
	return &request.CreateRideRequest{
		StartLocation: request.RoutePoint{
			Address:     "Jl. Sudirman 1",
			Coordinates: request.RouteCoords{Lat: -6.2088, Lng: 106.8456},
		},
		EndLocation: request.RoutePoint{
			Address:     "Jl. Thamrin 10",
			Coordinates: request.RouteCoords{Lat: -6.1944, Lng: 106.8229},
		},
		DepartureTime:   departure,
		ArrivalTime:     departure.Add(time.Hour),
		Price:           25000,
		VehicleType:     "car",
		VehicleModel:    "Avanza",
		VehicleColor:    "Silver",
		LicensePlate:    "B 1234 XYZ",
		VehicleCapacity: 4,
		AvailableSeats:  3,
	}
}

func TestCreateRide(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	env.store.addUser(driver)

	resp, err := svc.CreateRide(context.Background(), driver.ID, createRideReq())
	require.NoError(t, err)

	assert.Equal(t, string(entity.RideStatusScheduled), resp.Status)
	assert.Equal(t, 3, resp.AvailableSeats)
	require.NotNil(t, resp.Driver)
	assert.Equal(t, driver.Name, resp.Driver.Name)

	rideID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored := env.store.ride(rideID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.RideStatusScheduled, stored.Status)
	assert.Equal(t, driver.ID, stored.DriverID)
}

func TestCreateRideRejections(t *testing.T) {
	driver := testUser("driver", true)
	rider := testUser("rider", false)

	tests := []struct {
		name     string
		callerID uuid.UUID
		mutate   func(req *request.CreateRideRequest)
		wantCode string
	}{
		{
			name:     "caller is not a driver",
			callerID: rider.ID,
			mutate:   func(req *request.CreateRideRequest) {},
			wantCode: apperr.ErrDriverRequired.Code,
		},
		{
			name:     "unknown caller",
			callerID: uuid.New(),
			mutate:   func(req *request.CreateRideRequest) {},
			wantCode: apperr.ErrUserNotFound.Code,
		},
		{
			name:     "departure in the past",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.DepartureTime = time.Now().Add(-time.Hour)
			},
			wantCode: "departure_in_past",
		},
		{
			name:     "arrival before departure",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.ArrivalTime = req.DepartureTime.Add(-30 * time.Minute)
			},
			wantCode: "arrival_before_departure",
		},
		{
			name:     "bike over capacity ceiling",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.VehicleType = "bike"
				req.VehicleCapacity = 3
				req.AvailableSeats = 1
			},
			wantCode: "capacity_exceeds_vehicle_limit",
		},
		{
			name:     "car over capacity ceiling",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.VehicleCapacity = 5
			},
			wantCode: "capacity_exceeds_vehicle_limit",
		},
		{
			name:     "seats exceed capacity",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.VehicleCapacity = 3
				req.AvailableSeats = 4
			},
			wantCode: "seats_exceed_capacity",
		},
		{
			name:     "unknown vehicle type",
			callerID: driver.ID,
			mutate: func(req *request.CreateRideRequest) {
				req.VehicleType = "boat"
			},
			wantCode: "validation_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.store.addUser(driver)
			env.store.addUser(rider)
			svc := NewRideService(env.db, env.repo, zap.NewNop())

			req := createRideReq()
			tt.mutate(req)

			_, err := svc.CreateRide(context.Background(), tt.callerID, req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}
}

func TestCreateRideBikeAtCeiling(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	env.store.addUser(driver)

	req := createRideReq()
	req.VehicleType = "bike"
	req.VehicleCapacity = 2
	req.AvailableSeats = 2

	resp, err := svc.CreateRide(context.Background(), driver.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.VehicleCapacity)
}

func TestListRidesWindow(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	env.store.addUser(driver)

	now := time.Now()
	early := testRide(driver.ID, 2)
	early.DepartureTime = now.Add(1 * time.Hour)
	late := testRide(driver.ID, 2)
	late.DepartureTime = now.Add(10 * time.Hour)
	cancelled := testRide(driver.ID, 2)
	cancelled.DepartureTime = now.Add(2 * time.Hour)
	cancelled.Status = entity.RideStatusCancelled
	env.store.addRide(early)
	env.store.addRide(late)
	env.store.addRide(cancelled)

	all, err := svc.ListRides(context.Background(), request.ListRidesFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Oldest departure first, cancelled rides excluded.
	assert.Equal(t, early.ID.String(), all[0].ID)
	assert.Equal(t, late.ID.String(), all[1].ID)

	from := now.Add(5 * time.Hour)
	windowed, err := svc.ListRides(context.Background(), request.ListRidesFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, late.ID.String(), windowed[0].ID)
}

func TestGetRideNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	_, err := svc.GetRide(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrRideNotFound)
}

func TestSetStatusTransitions(t *testing.T) {
	tests := []struct {
		from    entity.RideStatus
		to      entity.RideStatus
		allowed bool
	}{
		{entity.RideStatusScheduled, entity.RideStatusInProgress, true},
		{entity.RideStatusScheduled, entity.RideStatusCancelled, true},
		{entity.RideStatusScheduled, entity.RideStatusCompleted, false},
		{entity.RideStatusInProgress, entity.RideStatusCompleted, true},
		{entity.RideStatusInProgress, entity.RideStatusCancelled, true},
		{entity.RideStatusInProgress, entity.RideStatusScheduled, false},
		{entity.RideStatusCompleted, entity.RideStatusCancelled, false},
		{entity.RideStatusCompleted, entity.RideStatusInProgress, false},
		{entity.RideStatusCancelled, entity.RideStatusScheduled, false},
		{entity.RideStatusCancelled, entity.RideStatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			env := newTestEnv()
			svc := NewRideService(env.db, env.repo, zap.NewNop())

			driver := testUser("driver", true)
			ride := testRide(driver.ID, 2)
			ride.Status = tt.from
			env.store.addUser(driver)
			env.store.addRide(ride)

			resp, err := svc.SetStatus(context.Background(), ride.ID, driver.ID, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, string(tt.to), resp.Status)
				assert.Equal(t, tt.to, env.store.ride(ride.ID).Status)
			} else {
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
				assert.Equal(t, tt.from, env.store.ride(ride.ID).Status)
			}
		})
	}
}

func TestSetStatusAuthorization(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	other := testUser("other", true)
	ride := testRide(driver.ID, 2)
	env.store.addUser(driver)
	env.store.addUser(other)
	env.store.addRide(ride)

	_, err := svc.SetStatus(context.Background(), ride.ID, other.ID, entity.RideStatusInProgress)
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	_, err = svc.SetStatus(context.Background(), uuid.New(), driver.ID, entity.RideStatusInProgress)
	assert.ErrorIs(t, err, apperr.ErrRideNotFound)

	_, err = svc.SetStatus(context.Background(), ride.ID, driver.ID, entity.RideStatus("parked"))
	assert.Equal(t, "invalid_status", apperr.CodeOf(err))
}

func TestSetStatusCompletionFanOut(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	active1 := testUser("active1", false)
	active2 := testUser("active2", false)
	quitter := testUser("quitter", false)
	for _, u := range []*entity.User{driver, active1, active2, quitter} {
		env.store.addUser(u)
	}

	ride := testRide(driver.ID, 4)
	ride.Status = entity.RideStatusInProgress
	env.store.addRide(ride)

	now := time.Now()
	for i, u := range []*entity.User{active1, active2} {
		env.store.addBooking(&entity.Passenger{
			Base:           entity.Base{ID: uuid.New(), CreatedAt: now.Add(time.Duration(i) * time.Second), UpdatedAt: now},
			RideID:         ride.ID,
			UserID:         u.ID,
			PickupLocation: testPickup(),
			Status:         entity.PassengerStatusAccepted,
		})
	}
	cancelledBooking := &entity.Passenger{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		RideID:         ride.ID,
		UserID:         quitter.ID,
		PickupLocation: testPickup(),
		Status:         entity.PassengerStatusCancelled,
	}
	env.store.addBooking(cancelledBooking)

	resp, err := svc.SetStatus(context.Background(), ride.ID, driver.ID, entity.RideStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RideStatusCompleted), resp.Status)

	// Driver gets one as-driver credit, each active passenger one
	// as-passenger credit. The cancelled booking gets nothing.
	assert.Equal(t, 1, env.store.user(driver.ID).CompletedRidesAsDriver)
	assert.Equal(t, 1, env.store.user(active1.ID).CompletedRidesAsPassenger)
	assert.Equal(t, 1, env.store.user(active2.ID).CompletedRidesAsPassenger)
	assert.Equal(t, 0, env.store.user(quitter.ID).CompletedRidesAsPassenger)
	assert.Equal(t, entity.PassengerStatusCancelled, env.store.booking(cancelledBooking.ID).Status)

	for _, b := range env.store.bookingsForRide(ride.ID) {
		if b.ID != cancelledBooking.ID {
			assert.Equal(t, entity.PassengerStatusCompleted, b.Status)
		}
	}

	// Terminal: completing again changes nothing.
	_, err = svc.SetStatus(context.Background(), ride.ID, driver.ID, entity.RideStatusCompleted)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, 1, env.store.user(driver.ID).CompletedRidesAsDriver)
}

func TestSetStatusCompletionAtomicity(t *testing.T) {
	env := newTestEnv()
	env.users.incrementErr = errors.New("write failed")
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	rider := testUser("rider", false)
	env.store.addUser(driver)
	env.store.addUser(rider)

	ride := testRide(driver.ID, 4)
	ride.Status = entity.RideStatusInProgress
	env.store.addRide(ride)
	env.store.addBooking(&entity.Passenger{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		RideID:         ride.ID,
		UserID:         rider.ID,
		PickupLocation: testPickup(),
		Status:         entity.PassengerStatusAccepted,
	})

	_, err := svc.SetStatus(context.Background(), ride.ID, driver.ID, entity.RideStatusCompleted)
	require.Error(t, err)

	// The whole transition rolled back with the fan-out.
	assert.Equal(t, entity.RideStatusInProgress, env.store.ride(ride.ID).Status)
	assert.Equal(t, 0, env.store.user(driver.ID).CompletedRidesAsDriver)
	assert.Equal(t, 0, env.store.user(rider.ID).CompletedRidesAsPassenger)
}

func TestSetStatusCancellationCascades(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	rider := testUser("rider", false)
	env.store.addUser(driver)
	env.store.addUser(rider)

	ride := testRide(driver.ID, 3)
	env.store.addRide(ride)
	booking := &entity.Passenger{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		RideID:         ride.ID,
		UserID:         rider.ID,
		PickupLocation: testPickup(),
		Status:         entity.PassengerStatusPending,
	}
	env.store.addBooking(booking)

	_, err := svc.SetStatus(context.Background(), ride.ID, driver.ID, entity.RideStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, entity.RideStatusCancelled, env.store.ride(ride.ID).Status)
	assert.Equal(t, entity.PassengerStatusCancelled, env.store.booking(booking.ID).Status)
	// No completion credit on cancellation.
	assert.Equal(t, 0, env.store.user(driver.ID).CompletedRidesAsDriver)
	assert.Equal(t, 0, env.store.user(rider.ID).CompletedRidesAsPassenger)
}

func TestListMine(t *testing.T) {
	env := newTestEnv()
	svc := NewRideService(env.db, env.repo, zap.NewNop())

	driver := testUser("driver", true)
	rider := testUser("rider", false)
	other := testUser("other", true)
	env.store.addUser(driver)
	env.store.addUser(rider)
	env.store.addUser(other)

	now := time.Now()
	driven := testRide(driver.ID, 2)
	driven.DepartureTime = now.Add(1 * time.Hour)
	joined := testRide(other.ID, 2)
	joined.DepartureTime = now.Add(5 * time.Hour)
	joined.Status = entity.RideStatusCompleted
	unrelated := testRide(other.ID, 2)
	unrelated.DepartureTime = now.Add(3 * time.Hour)
	env.store.addRide(driven)
	env.store.addRide(joined)
	env.store.addRide(unrelated)

	env.store.addBooking(&entity.Passenger{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		RideID:         joined.ID,
		UserID:         driver.ID,
		PickupLocation: testPickup(),
		Status:         entity.PassengerStatusCompleted,
	})

	rides, err := svc.ListMine(context.Background(), driver.ID)
	require.NoError(t, err)
	require.Len(t, rides, 2)

	// Newest departure first; rides outside scheduled status still show.
	assert.Equal(t, joined.ID.String(), rides[0].ID)
	assert.Equal(t, string(entity.RideStatusCompleted), rides[0].Status)
	assert.Equal(t, driven.ID.String(), rides[1].ID)

	none, err := svc.ListMine(context.Background(), rider.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListRidesDriverLookupFailureIsLogged(t *testing.T) {
	env := newTestEnv()
	core, logs := observer.New(zap.WarnLevel)
	svc := NewRideService(env.db, env.repo, zap.New(core))

	driver := testUser("driver", true)
	env.store.addUser(driver)
	env.store.addRide(testRide(driver.ID, 2))

	env.users.findErr = errors.New("connection reset")

	rides, err := svc.ListRides(context.Background(), request.ListRidesFilter{})
	require.NoError(t, err)
	require.Len(t, rides, 1)

	// The listing degrades to a nil driver summary and the failure
	// lands in the log instead of being dropped.
	assert.Nil(t, rides[0].Driver)
	require.Equal(t, 1, logs.FilterMessage("Failed to load driver for ride listing").Len())
}
