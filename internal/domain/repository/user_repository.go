package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user database operations.
type UserRepository interface {
	// Create persists a new user together with any attached profiles.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by ID, preloading buyer and seller profiles.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by email, preloading buyer and seller profiles.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update persists changes to the user and its profiles.
	Update(ctx context.Context, user *entity.User) error

	// ApplyRating folds a new rating value into the ratee's profile average.
	// Which profile is updated depends on the rated party's role in the order.
	ApplyRating(ctx context.Context, rateeID uuid.UUID, role entity.Role, value int) error
}
