package response

import (
	"time"

	"user-accounts/internal/data/entity"
)

// DateLayout is the wire format of date_of_birth
const DateLayout = "2006-01-02"

// UserResponse is the public view of a user. Credentials never leave the store.
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	DateOfBirth   string    `json:"date_of_birth"`
	Address       string    `json:"address"`
	PhoneNumber   string    `json:"phone_number"`
	LicenseNumber string    `json:"license_number"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Gender:        user.Gender,
		Email:         user.Email,
		Username:      user.Username,
		DateOfBirth:   user.DateOfBirth.Format(DateLayout),
		Address:       user.Address,
		PhoneNumber:   user.PhoneNumber,
		LicenseNumber: user.LicenseNumber,
		IsVerified:    user.IsVerified,
		CreatedAt:     user.CreatedAt,
	}
}

// UsersToResponse never returns nil so an empty result encodes as [].
func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, UserToResponse(user))
	}
	return out
}
