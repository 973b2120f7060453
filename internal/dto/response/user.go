package response

import (
	"time"

	"ride-share/internal/data/entity"
)

type UserResponse struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	Email                     string    `json:"email"`
	Phone                     string    `json:"phone"`
	IsDriver                  bool      `json:"isDriver"`
	Rating                    float64   `json:"rating"`
	CompletedRidesAsDriver    int       `json:"completedRidesAsDriver"`
	CompletedRidesAsPassenger int       `json:"completedRidesAsPassenger"`
	EmailVerified             bool      `json:"emailVerified"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// UserSummary is the public slice of a profile attached to rides.
type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Rating float64 `json:"rating"`
}

// PublicProfileResponse is what any caller may see about another
// user: reputation fields only, no email or verification state.
type PublicProfileResponse struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	Phone                     string    `json:"phone"`
	IsDriver                  bool      `json:"isDriver"`
	Rating                    float64   `json:"rating"`
	CompletedRidesAsDriver    int       `json:"completedRidesAsDriver"`
	CompletedRidesAsPassenger int       `json:"completedRidesAsPassenger"`
	CreatedAt                 time.Time `json:"createdAt"`
}

func UserToPublicProfile(user *entity.User) *PublicProfileResponse {
	return &PublicProfileResponse{
		ID:                        user.ID.String(),
		Name:                      user.Name,
		Phone:                     user.Phone,
		IsDriver:                  user.IsDriver,
		Rating:                    user.Rating,
		CompletedRidesAsDriver:    user.CompletedRidesAsDriver,
		CompletedRidesAsPassenger: user.CompletedRidesAsPassenger,
		CreatedAt:                 user.CreatedAt,
	}
}

func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:                        user.ID.String(),
		Name:                      user.Name,
		Email:                     user.Email,
		Phone:                     user.Phone,
		IsDriver:                  user.IsDriver,
		Rating:                    user.Rating,
		CompletedRidesAsDriver:    user.CompletedRidesAsDriver,
		CompletedRidesAsPassenger: user.CompletedRidesAsPassenger,
		EmailVerified:             user.EmailVerified,
		CreatedAt:                 user.CreatedAt,
	}
}

func UserToSummary(user *entity.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:     user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
		Rating: user.Rating,
	}
}
