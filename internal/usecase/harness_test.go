package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ride-share/internal/data/entity"
	"ride-share/internal/data/repository"
	"ride-share/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore backs the repository fakes. rowMu plays the role of the
// ride row lock: FindByIDForUpdate acquires it and the transaction
// holds it until commit or rollback, so concurrent joins serialize the
// same way they do against postgres.
type memStore struct {
	rowMu sync.Mutex
	mu    sync.Mutex

	rides    map[uuid.UUID]*entity.Ride
	users    map[uuid.UUID]*entity.User
	bookings map[uuid.UUID]*entity.Passenger
	otps     []*entity.OTP
}

func newMemStore() *memStore {
	return &memStore{
		rides:    make(map[uuid.UUID]*entity.Ride),
		users:    make(map[uuid.UUID]*entity.User),
		bookings: make(map[uuid.UUID]*entity.Passenger),
	}
}

func (s *memStore) addUser(u *entity.User) {
	c := *u
	s.users[u.ID] = &c
}

func (s *memStore) addRide(r *entity.Ride) {
	c := *r
	s.rides[r.ID] = &c
}

func (s *memStore) addBooking(p *entity.Passenger) {
	c := *p
	s.bookings[p.ID] = &c
}

func (s *memStore) ride(id uuid.UUID) *entity.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rides[id]; ok {
		c := *r
		return &c
	}
	return nil
}

func (s *memStore) user(id uuid.UUID) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (s *memStore) booking(id uuid.UUID) *entity.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.bookings[id]; ok {
		c := *p
		return &c
	}
	return nil
}

func (s *memStore) bookingsForRide(rideID uuid.UUID) []*entity.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Passenger
	for _, p := range s.bookings {
		if p.RideID == rideID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// fakeTx buffers writes and applies them atomically on Commit, the
// way a real transaction would. Rollback discards them. Both release
// the row lock if this transaction took it.
type fakeTx struct {
	pgx.Tx
	store     *memStore
	pending   []func(*memStore)
	locked    bool
	done      bool
	commitErr error
}

func (t *fakeTx) lockRow() {
	if !t.locked {
		t.store.rowMu.Lock()
		t.locked = true
	}
}

func (t *fakeTx) release() {
	if t.locked {
		t.store.rowMu.Unlock()
		t.locked = false
	}
}

func (t *fakeTx) stage(op func(*memStore)) {
	t.pending = append(t.pending, op)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.commitErr != nil {
		t.pending = nil
		t.release()
		return t.commitErr
	}
	t.store.mu.Lock()
	for _, op := range t.pending {
		op(t.store)
	}
	t.store.mu.Unlock()
	t.pending = nil
	t.release()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.pending = nil
	t.release()
	return nil
}

type fakeDB struct {
	database.PgxIface
	store     *memStore
	beginErr  error
	commitErr error
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return &fakeTx{store: db.store, commitErr: db.commitErr}, nil
}

// memRideRepo is the store-backed ride repository with per-method
// failure injection.
type memRideRepo struct {
	store            *memStore
	findForUpdateErr error
	adjustSeatsErr   error
	updateStatusErr  error
}

func (r *memRideRepo) Create(ctx context.Context, ride *entity.Ride) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *ride
	r.store.rides[ride.ID] = &c
	return nil
}

func (r *memRideRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	return r.store.ride(id), nil
}

func (r *memRideRepo) FindScheduled(ctx context.Context, from, to *time.Time) ([]*entity.Ride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Ride
	for _, ride := range r.store.rides {
		if ride.Status != entity.RideStatusScheduled {
			continue
		}
		if from != nil && ride.DepartureTime.Before(*from) {
			continue
		}
		if to != nil && ride.DepartureTime.After(*to) {
			continue
		}
		c := *ride
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (r *memRideRepo) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Ride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Ride
	for _, ride := range r.store.rides {
		involved := ride.DriverID == userID
		if !involved {
			for _, p := range r.store.bookings {
				if p.RideID == ride.ID && p.UserID == userID {
					involved = true
					break
				}
			}
		}
		if involved {
			c := *ride
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.After(out[j].DepartureTime) })
	return out, nil
}

func (r *memRideRepo) FindByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Ride, error) {
	if r.findForUpdateErr != nil {
		return nil, r.findForUpdateErr
	}
	q.(*fakeTx).lockRow()
	return r.store.ride(id), nil
}

func (r *memRideRepo) AdjustSeats(ctx context.Context, q database.Queryer, id uuid.UUID, delta int) error {
	if r.adjustSeatsErr != nil {
		return r.adjustSeatsErr
	}
	q.(*fakeTx).stage(func(s *memStore) {
		if ride, ok := s.rides[id]; ok {
			ride.AvailableSeats += delta
		}
	})
	return nil
}

func (r *memRideRepo) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.RideStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	q.(*fakeTx).stage(func(s *memStore) {
		if ride, ok := s.rides[id]; ok {
			ride.Status = status
		}
	})
	return nil
}

type memPassengerRepo struct {
	store      *memStore
	createErr  error
	findActErr error
}

func (r *memPassengerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	return r.store.booking(id), nil
}

func (r *memPassengerRepo) FindByRideID(ctx context.Context, rideID uuid.UUID) ([]*entity.Passenger, error) {
	return r.store.bookingsForRide(rideID), nil
}

func (r *memPassengerRepo) Create(ctx context.Context, q database.Queryer, passenger *entity.Passenger) error {
	if r.createErr != nil {
		return r.createErr
	}
	c := *passenger
	q.(*fakeTx).stage(func(s *memStore) {
		s.bookings[c.ID] = &c
	})
	return nil
}

func (r *memPassengerRepo) FindActiveByRideAndUser(ctx context.Context, q database.Queryer, rideID, userID uuid.UUID) (*entity.Passenger, error) {
	if r.findActErr != nil {
		return nil, r.findActErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.bookings {
		if p.RideID == rideID && p.UserID == userID && p.Status.Active() {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memPassengerRepo) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.PassengerStatus) error {
	q.(*fakeTx).stage(func(s *memStore) {
		if p, ok := s.bookings[id]; ok {
			p.Status = status
		}
	})
	return nil
}

func (r *memPassengerRepo) CancelActiveByRideID(ctx context.Context, q database.Queryer, rideID uuid.UUID) error {
	q.(*fakeTx).stage(func(s *memStore) {
		for _, p := range s.bookings {
			if p.RideID == rideID && p.Status.Active() {
				p.Status = entity.PassengerStatusCancelled
			}
		}
	})
	return nil
}

type memUserRepo struct {
	store        *memStore
	findErr      error
	incrementErr error
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *user
	r.store.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.store.user(id), nil
}

func (r *memUserRepo) FindPublicByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u := r.store.user(id)
	if u == nil {
		return nil, nil
	}
	u.Email = ""
	u.PasswordHash = ""
	u.EmailVerified = false
	u.VerificationAttempts = 0
	return u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *user
	r.store.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *memUserRepo) IncrementVerificationAttempts(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		u.VerificationAttempts++
	}
	return nil
}

func (r *memUserRepo) IncrementCompletedRides(ctx context.Context, q database.Queryer, id uuid.UUID, role repository.CompletedRole, delta int) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	q.(*fakeTx).stage(func(s *memStore) {
		u, ok := s.users[id]
		if !ok {
			return
		}
		if role == repository.CompletedAsDriver {
			u.CompletedRidesAsDriver += delta
		} else {
			u.CompletedRidesAsPassenger += delta
		}
	})
	return nil
}

type memOTPRepo struct {
	store *memStore
}

func (r *memOTPRepo) Create(ctx context.Context, otp *entity.OTP) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *otp
	r.store.otps = append(r.store.otps, &c)
	return nil
}

func (r *memOTPRepo) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.OTP, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *entity.OTP
	for _, o := range r.store.otps {
		if o.UserID != userID {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *memOTPRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.otps {
		if o.ID == id {
			o.Used = true
		}
	}
	return nil
}

// testEnv wires the fakes into the aggregate the services expect.
type testEnv struct {
	store      *memStore
	db         *fakeDB
	rides      *memRideRepo
	passengers *memPassengerRepo
	users      *memUserRepo
	otps       *memOTPRepo
	repo       *repository.Repository
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:      store,
		db:         &fakeDB{store: store},
		rides:      &memRideRepo{store: store},
		passengers: &memPassengerRepo{store: store},
		users:      &memUserRepo{store: store},
		otps:       &memOTPRepo{store: store},
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Ride:      env.rides,
		Passenger: env.passengers,
		OTP:       env.otps,
	}
	return env
}

func testUser(name string, isDriver bool) *entity.User {
	now := time.Now()
	return &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     name,
		Email:    name + "@example.com",
		Phone:    "081234567890",
		IsDriver: isDriver,
		Rating:   5,
	}
}

func testRide(driverID uuid.UUID, seats int) *entity.Ride {
	now := time.Now()
	return &entity.Ride{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:        driverID,
		StartLocation:   entity.Location{Address: "Jl. Sudirman 1", Lat: -6.2088, Lng: 106.8456},
		EndLocation:     entity.Location{Address: "Jl. Thamrin 10", Lat: -6.1944, Lng: 106.8229},
		DepartureTime:   now.Add(2 * time.Hour),
		ArrivalTime:     now.Add(3 * time.Hour),
		Price:           25000,
		VehicleType:     entity.VehicleTypeCar,
		VehicleModel:    "Avanza",
		VehicleColor:    "Silver",
		LicensePlate:    "B 1234 XYZ",
		VehicleCapacity: 4,
		AvailableSeats:  seats,
		Status:          entity.RideStatusScheduled,
	}
}

func testPickup() entity.Location {
	return entity.Location{Address: "Jl. Gatot Subroto 5", Lat: -6.23, Lng: 106.82}
}
