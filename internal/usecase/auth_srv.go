package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-share/internal/apperr"
	"ride-share/internal/data/entity"
	"ride-share/internal/data/repository"
	"ride-share/internal/dto/request"
	"ride-share/internal/dto/response"
	"ride-share/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	SendOTP(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	mailer utils.Mailer
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, mailer utils.Mailer, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mailer: mailer,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		IsDriver:     req.IsDriver,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, storageErr(err)
	}

	// Verification email goes out in the background; registration
	// never waits on mail.
	go s.sendVerificationOTP(user)

	token, err := utils.GenerateToken(user.ID, s.config.JWT)
	if err != nil {
		s.log.Error("Failed to issue token after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("is_driver", user.IsDriver),
	)

	return &response.AuthResponse{
		Token: token,
		User:  response.UserToResponse(user),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, s.config.JWT)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		Token: token,
		User:  response.UserToResponse(user),
	}, nil
}

func (s *authService) SendOTP(ctx context.Context, email string) error {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return storageErr(err)
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	if user.VerificationAttempts >= s.config.OTP.MaxAttempts {
		return apperr.ErrOTPAttemptsMaxed
	}

	now := time.Now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Code:      utils.GenerateOTP(s.config.OTP.Length),
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return storageErr(err)
	}

	if err := s.repo.User.IncrementVerificationAttempts(ctx, user.ID); err != nil {
		return storageErr(err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		otp.Code, s.config.OTP.ExpiryMinutes)
	if err := s.mailer.Send(user.Email, "Verify your email", body); err != nil {
		s.log.Error("Failed to send OTP email",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("send OTP email: %w", err)
	}

	s.log.Info("OTP sent", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return storageErr(err)
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	otp, err := s.repo.OTP.FindLatestByUserID(ctx, user.ID)
	if err != nil {
		return storageErr(err)
	}
	if otp == nil || otp.Used || otp.Expired(time.Now()) || otp.Code != req.Code {
		return apperr.ErrOTPInvalid
	}

	if err := s.repo.OTP.MarkUsed(ctx, otp.ID); err != nil {
		return storageErr(err)
	}

	if err := s.repo.User.SetEmailVerified(ctx, user.ID); err != nil {
		return storageErr(err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) sendVerificationOTP(user *entity.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.SendOTP(ctx, user.Email); err != nil {
		s.log.Warn("Failed to send verification OTP after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}
}
