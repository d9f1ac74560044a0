// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a 1-5 score attached to a completed order, submitted by either
// party about the other. At most one rating exists per (order, rater) pair;
// the first submission wins and replays return the stored rating unchanged.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	RaterID   uuid.UUID `json:"rater_id"`
	RateeID   uuid.UUID `json:"ratee_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRating builds a rating, enforcing the 1..5 value invariant.
func NewRating(orderID, raterID, rateeID uuid.UUID, value int) (*Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrRatingValueInvalid
	}

	return &Rating{
		ID:        uuid.New(),
		OrderID:   orderID,
		RaterID:   raterID,
		RateeID:   rateeID,
		Value:     value,
		CreatedAt: time.Now(),
	}, nil
}
