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

// CompletedRole selects which completed-ride counter an increment
// targets.
type CompletedRole string

const (
	CompletedAsDriver    CompletedRole = "driver"
	CompletedAsPassenger CompletedRole = "passenger"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindPublicByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
	IncrementVerificationAttempts(ctx context.Context, id uuid.UUID) error

	// IncrementCompletedRides bumps one of the two completed-ride
	// counters by delta; transaction-scoped so ride completion can
	// batch the fan-out with the status write.
	IncrementCompletedRides(ctx context.Context, q database.Queryer, id uuid.UUID, role CompletedRole, delta int) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, name, email, password, phone, is_driver, rating,
	       completed_rides_as_driver, completed_rides_as_passenger,
	       email_verified, verification_attempts, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.IsDriver,
		&user.Rating,
		&user.CompletedRidesAsDriver,
		&user.CompletedRidesAsPassenger,
		&user.EmailVerified,
		&user.VerificationAttempts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, phone, is_driver, rating,
		                   completed_rides_as_driver, completed_rides_as_passenger,
		                   email_verified, verification_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.IsDriver,
		user.Rating,
		user.CompletedRidesAsDriver,
		user.CompletedRidesAsPassenger,
		user.EmailVerified,
		user.VerificationAttempts,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

// FindPublicByID loads only the columns safe to show other users.
// Credentials and verification state stay behind; the returned entity
// carries zero values there.
func (r *userRepository) FindPublicByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, name, phone, is_driver, rating,
		       completed_rides_as_driver, completed_rides_as_passenger, created_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.IsDriver,
		&user.Rating,
		&user.CompletedRidesAsDriver,
		&user.CompletedRidesAsPassenger,
		&user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find public profile",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find public profile %s: %w", id.String(), err)
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, is_driver = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Phone,
		user.IsDriver,
		user.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", user.ID.String())
	}

	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		r.log.Error("Failed to update password",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("update password for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (r *userRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET email_verified = true, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark email verified",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("mark email verified for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (r *userRepository) IncrementVerificationAttempts(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET verification_attempts = verification_attempts + 1, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment verification attempts",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("increment verification attempts for user %s: %w", id.String(), err)
	}

	return nil
}

func (r *userRepository) IncrementCompletedRides(ctx context.Context, q database.Queryer, id uuid.UUID, role CompletedRole, delta int) error {
	column := "completed_rides_as_passenger"
	if role == CompletedAsDriver {
		column = "completed_rides_as_driver"
	}

	query := fmt.Sprintf(`UPDATE users SET %s = %s + $2, updated_at = NOW() WHERE id = $1`, column, column)

	result, err := q.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to increment completed rides",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("increment completed rides for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}
