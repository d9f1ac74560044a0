package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
// The unique index on offer_id guarantees at most one order per accepted offer.
type OrderModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ShoppingListID uuid.UUID `gorm:"type:uuid;not null;index"`
	OfferID        uuid.UUID `gorm:"type:uuid;not null;unique"`
	BuyerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalPrice     float64   `gorm:"type:decimal(12,2);not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'confirmed';index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ShippedAt      *time.Time
	CompletedAt    *time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
