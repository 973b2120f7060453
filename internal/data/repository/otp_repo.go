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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.OTP, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO otps (id, user_id, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Code,
		otp.ExpiresAt,
		otp.Used,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
		)
		return fmt.Errorf("create OTP: %w", err)
	}

	return nil
}

func (r *otpRepository) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.OTP, error) {
	query := `
		SELECT id, user_id, code, expires_at, used, created_at
		FROM otps
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.Used,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find OTP for user %s: %w", userID.String(), err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE otps SET used = true WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark OTP used",
			zap.Error(err),
			zap.String("otp_id", id.String()),
		)
		return fmt.Errorf("mark OTP %s used: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s not found", id.String())
	}

	return nil
}
