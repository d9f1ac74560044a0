// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus represents the state of a seller's offer.
type OfferStatus string

const (
	// OfferStatusPending means the offer awaits the buyer's decision.
	OfferStatusPending OfferStatus = "pending"
	// OfferStatusAccepted means the buyer accepted this offer.
	OfferStatusAccepted OfferStatus = "accepted"
	// OfferStatusRejected means a sibling offer was accepted instead.
	OfferStatusRejected OfferStatus = "rejected"
)

// IsValid checks if the OfferStatus is a valid value.
func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected:
		return true
	default:
		return false
	}
}

// Offer is a seller's bid (total price plus notes) against a shopping list.
type Offer struct {
	ID             uuid.UUID   `json:"id"`
	ShoppingListID uuid.UUID   `json:"shopping_list_id"`
	SellerID       uuid.UUID   `json:"seller_id"`
	Price          float64     `json:"price"`
	Notes          string      `json:"notes,omitempty"`
	IdempotencyKey string      `json:"-"` // Client-generated token deduplicating retried submissions.
	Status         OfferStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewOffer builds a pending offer, enforcing the positive-price invariant.
func NewOffer(listID, sellerID uuid.UUID, price float64, notes, idempotencyKey string) (*Offer, error) {
	if price <= 0 {
		return nil, ErrOfferPriceInvalid
	}

	return &Offer{
		ID:             uuid.New(),
		ShoppingListID: listID,
		SellerID:       sellerID,
		Price:          price,
		Notes:          notes,
		IdempotencyKey: idempotencyKey,
		Status:         OfferStatusPending,
		CreatedAt:      time.Now(),
	}, nil
}
