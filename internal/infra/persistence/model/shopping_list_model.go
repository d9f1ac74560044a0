package model

import (
	"time"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// ShoppingListModel is the GORM-specific struct for the 'shopping_lists' table.
// Items are stored as a JSONB document; they are read and written as a whole
// and never queried individually.
type ShoppingListModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BuyerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title        string            `gorm:"type:varchar(200);not null"`
	Items        []entity.ListItem `gorm:"type:jsonb;serializer:json;not null"`
	MinBudget    *float64          `gorm:"type:decimal(12,2)"`
	MaxBudget    *float64          `gorm:"type:decimal(12,2)"`
	DeliveryType string            `gorm:"type:varchar(20);not null"`
	DeliveryDate *time.Time
	Status       string `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}
