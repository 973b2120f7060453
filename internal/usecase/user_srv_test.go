package usecase

import (
	"context"
	"testing"

	"ride-share/internal/apperr"
	"ride-share/internal/dto/request"
	"ride-share/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, zap.NewNop())

	user := testUser("budi", true)
	user.CompletedRidesAsDriver = 7
	env.store.addUser(user)

	resp, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, resp.Name)
	assert.Equal(t, 7, resp.CompletedRidesAsDriver)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, zap.NewNop())

	user := testUser("budi", false)
	env.store.addUser(user)

	resp, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{
		Name: "Budi Revisi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Revisi", resp.Name)
	// Untouched fields keep their values.
	assert.Equal(t, user.Phone, resp.Phone)

	stored := env.store.user(user.ID)
	assert.Equal(t, "Budi Revisi", stored.Name)

	_, err = svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{
		Name: "x",
	})
	require.Error(t, err)
	assert.Equal(t, "validation_failed", apperr.CodeOf(err))
}

func TestGetPublicProfile(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, zap.NewNop())

	user := testUser("siti", true)
	user.Rating = 4.6
	user.CompletedRidesAsDriver = 12
	user.CompletedRidesAsPassenger = 3
	env.store.addUser(user)

	resp, err := svc.GetPublicProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "siti", resp.Name)
	assert.Equal(t, 4.6, resp.Rating)
	assert.Equal(t, 12, resp.CompletedRidesAsDriver)
	assert.Equal(t, 3, resp.CompletedRidesAsPassenger)

	_, err = svc.GetPublicProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, zap.NewNop())

	user := testUser("budi", false)
	hash, err := utils.HashPassword("rahasia-lama")
	require.NoError(t, err)
	user.PasswordHash = hash
	env.store.addUser(user)

	err = svc.ChangePassword(context.Background(), user.ID, &request.ChangePasswordRequest{
		CurrentPassword: "salah-total",
		NewPassword:     "rahasia-baru",
	})
	assert.ErrorIs(t, err, apperr.ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID, &request.ChangePasswordRequest{
		CurrentPassword: "rahasia-lama",
		NewPassword:     "pendek",
	})
	require.Error(t, err)
	assert.Equal(t, "validation_failed", apperr.CodeOf(err))

	err = svc.ChangePassword(context.Background(), user.ID, &request.ChangePasswordRequest{
		CurrentPassword: "rahasia-lama",
		NewPassword:     "rahasia-baru",
	})
	require.NoError(t, err)

	stored := env.store.user(user.ID)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "rahasia-baru"))
	assert.False(t, utils.CheckPassword(stored.PasswordHash, "rahasia-lama"))

	err = svc.ChangePassword(context.Background(), uuid.New(), &request.ChangePasswordRequest{
		CurrentPassword: "rahasia-baru",
		NewPassword:     "rahasia-lagi",
	})
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}
