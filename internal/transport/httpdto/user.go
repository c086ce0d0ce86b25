package httpdto

import (
	"time"

	"meetings-api/internal/domain/user"
)

// UserDTO is the public profile of a user.
type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

func ToUserDTO(u user.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.DateJoined.UTC(),
	}
}
