package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferModel is the GORM-specific struct for the 'offers' table.
// The unique index on (seller_id, idempotency_key) makes retried
// submissions observable as duplicate key violations.
type OfferModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ShoppingListID uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_offers_seller_idempotency_key"`
	Price          float64   `gorm:"type:decimal(12,2);not null"`
	Notes          string    `gorm:"type:text"`
	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_offers_seller_idempotency_key"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (OfferModel) TableName() string {
	return "offers"
}
