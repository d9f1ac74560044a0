package model

import (
	"time"

	"github.com/google/uuid"
)

// RatingModel is the GORM-specific struct for the 'ratings' table.
// The unique index on (order_id, rater_id) enforces one rating per party
// per order; the first write wins.
type RatingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_order_rater"`
	RaterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_order_rater"`
	RateeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RatingModel) TableName() string {
	return "ratings"
}
