package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// ErrRatingNotFound is returned when a rating is not found.
var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the interface for rating database operations.
type RatingRepository interface {
	// InsertRatingIfAbsent writes the rating unless one already exists for the
	// same (order, rater) pair (INSERT ... ON CONFLICT DO NOTHING). It returns
	// the stored rating and whether this call created it; replayed submissions
	// get the original row back unchanged.
	InsertRatingIfAbsent(ctx context.Context, rating *entity.Rating) (*entity.Rating, bool, error)

	// FindRatingByOrderAndRater retrieves the rating a user gave on an order.
	FindRatingByOrderAndRater(ctx context.Context, orderID, raterID uuid.UUID) (*entity.Rating, error)

	// FindRatingsForUser retrieves all ratings received by a user, newest first.
	FindRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]*entity.Rating, error)
}
