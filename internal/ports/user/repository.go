package user

import (
	"context"

	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository is the storage port for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
	// Delete removes the user together with their posts, comments and
	// follow edges in either direction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName(),
	}
}

// SignupInput is the data a new account is registered with.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}
