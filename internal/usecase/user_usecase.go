package usecase

import (
	"context"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput carries the fields for a new account or a new role profile on
// an existing account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     entity.Role
	// Buyer fields
	DeliveryAddress string
	// Seller fields
	StoreName        string
	StoreDescription string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput bundles the authenticated user with a fresh token pair.
type AuthOutput struct {
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// ProfileUpdateInput carries the editable profile fields. Nil pointers leave
// the current value untouched.
type ProfileUpdateInput struct {
	Name             *string
	Phone            *string
	DeliveryAddress  *string
	StoreName        *string
	StoreDescription *string
}

// UserUsecase governs accounts, credentials and sessions.
type UserUsecase interface {
	// Register creates a new account, or attaches the requested role profile
	// to an existing account when the credentials match.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and opens a session.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error)

	// Logout revokes the session behind the given refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// GetProfile returns the user with both role profiles preloaded.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile applies partial profile edits.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *ProfileUpdateInput) (*entity.User, error)
}
