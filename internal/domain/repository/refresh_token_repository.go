package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the interface for session persistence.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a session by its SHA-256 token hash.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// FindRefreshTokensByUserID retrieves all sessions for a user, newest first.
	FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error)

	// DeleteRefreshToken removes a single session.
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error

	// DeleteRefreshTokensByUserID removes every session of a user (logout everywhere).
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteOldestRefreshTokens trims a user's sessions down to keep slots,
	// dropping the oldest first. Used to enforce the max-active-sessions cap.
	DeleteOldestRefreshTokens(ctx context.Context, userID uuid.UUID, keep int) error
}
