package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"
)

// ErrAuthNotFound is returned when no authentication record matches.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines the interface for credential database operations.
type AuthRepository interface {
	// CreateAuthentication persists a new credential for a user.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves a credential by provider and provider user ID.
	FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error)
}
