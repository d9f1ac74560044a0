package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(30)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	BuyerProfile    *BuyerProfileModel    `gorm:"foreignKey:UserID"`
	SellerProfile   *SellerProfileModel   `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BuyerProfileModel mirrors the 'buyer_profiles' table. UserID references users.id (UUID).
type BuyerProfileModel struct {
	UserID          uuid.UUID `gorm:"primaryKey"`
	DeliveryAddress string    `gorm:"type:text"`
	Rating          float64   `gorm:"type:decimal(3,2);not null;default:0"`
	RatingCount     int       `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (BuyerProfileModel) TableName() string {
	return "buyer_profiles"
}

// SellerProfileModel mirrors the 'seller_profiles' table. UserID references users.id (UUID).
type SellerProfileModel struct {
	UserID           uuid.UUID `gorm:"primaryKey"`
	StoreName        string    `gorm:"type:varchar(100);not null"`
	StoreDescription string    `gorm:"type:text"`
	Rating           float64   `gorm:"type:decimal(3,2);not null;default:0"`
	RatingCount      int       `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (SellerProfileModel) TableName() string {
	return "seller_profiles"
}
