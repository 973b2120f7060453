package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-share/internal/apperr"
	"ride-share/internal/data/repository"
	"ride-share/internal/dto/request"
	"ride-share/internal/dto/response"
	"ride-share/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*response.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type userService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		users: users,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	return response.UserToResponse(user), nil
}

// GetPublicProfile is the view any caller gets of another user:
// reputation fields only.
func (s *userService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*response.PublicProfileResponse, error) {
	user, err := s.users.FindPublicByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	return response.UserToPublicProfile(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storageErr(err)
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	return response.UserToResponse(user), nil
}

// ChangePassword verifies the caller's current password before storing
// a hash of the new one.
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Change password validation failed", zap.Any("errors", errs))
		return apperr.New(apperr.KindInvalidInput, "validation_failed",
			fmt.Sprintf("Validation failed: %s", utils.FormatValidationErrors(errs)))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storageErr(err)
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperr.ErrWrongPassword
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return storageErr(err)
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))

	return nil
}
