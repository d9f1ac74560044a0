// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// It contains only the most fundamental identity information shared across all roles.
type User struct {
	ID            uuid.UUID      // The Global Unique Identifier (GUID) for the user.
	Email         string         // The user's primary contact email, used as a login identifier.
	Name          string         // The user's display name or real name.
	Phone         string         // Optional contact phone number.
	BuyerProfile  *BuyerProfile  // Pointer to the buyer-specific profile. Nil if this person has no 'buyer' role.
	SellerProfile *SellerProfile // Pointer to the seller-specific profile. Nil if this person has no 'seller' role.
	CreatedAt     time.Time      // Timestamp of when this user account was created.
	UpdatedAt     time.Time      // Timestamp of the last modification to this user's data.
}

// Roles derives the set of roles from the profiles attached to the user.
func (u *User) Roles() Roles {
	roles := make(Roles, 0, 2)
	if u.BuyerProfile != nil {
		roles = append(roles, RoleBuyer)
	}
	if u.SellerProfile != nil {
		roles = append(roles, RoleSeller)
	}

	return roles
}

// BuyerProfile holds data specific to the "buyer" role.
type BuyerProfile struct {
	UserID          uuid.UUID // Foreign Key that links this profile to a core User entity.
	DeliveryAddress string    // The buyer's default delivery address for orders.
	Rating          float64   // Average rating received from sellers on completed orders.
	RatingCount     int       // Number of ratings behind the average.
	UpdatedAt       time.Time // Timestamp of the last modification to this profile.
}

// SellerProfile holds data specific to the "seller" role.
type SellerProfile struct {
	UserID           uuid.UUID // Foreign Key that links this profile to a core User entity.
	StoreName        string    // The seller's store name shown to buyers.
	StoreDescription string    // A description of the store and what it sells.
	Rating           float64   // Average rating received from buyers on completed orders.
	RatingCount      int       // Number of ratings behind the average.
	UpdatedAt        time.Time // Timestamp of the last modification to this profile.
}

// Authentication represents a single method of logging in (a credential).
type Authentication struct {
	ID             uuid.UUID // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID // Links this authentication method to the User it belongs to.
	Provider       string    // The authentication provider, e.g., "email".
	ProviderUserID string    // The user's unique ID at the provider (the email address for "email").
	PasswordHash   string    // Stores the bcrypt-hashed password, only used when the Provider is "email".
	CreatedAt      time.Time // Timestamp of when this authentication method was linked to the user account.
}

// ProviderTypeEmail is the provider value for email/password credentials.
const ProviderTypeEmail = "email"

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new Access Token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
