// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
// Transitions are strictly forward: confirmed -> enviado -> completed.
type OrderStatus string

const (
	// OrderStatusConfirmed is the initial status set when an offer is accepted.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusEnviado means the seller has shipped or dispatched the order.
	OrderStatusEnviado OrderStatus = "enviado"
	// OrderStatusCompleted means the buyer confirmed delivery.
	OrderStatusCompleted OrderStatus = "completed"
)

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusEnviado, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// Order is the fulfillment record created when an offer is accepted. It is
// mutated only through the lifecycle engine, never by either party directly.
type Order struct {
	ID             uuid.UUID   `json:"id"`
	ShoppingListID uuid.UUID   `json:"shopping_list_id"`
	OfferID        uuid.UUID   `json:"offer_id"`
	BuyerID        uuid.UUID   `json:"buyer_id"`
	SellerID       uuid.UUID   `json:"seller_id"`
	TotalPrice     float64     `json:"total_price"` // Copied from the accepted offer at creation time, immutable.
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	ShippedAt      *time.Time  `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

// IsParty reports whether the given user is the buyer or the seller of the order.
func (o *Order) IsParty(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

// CounterpartyOf returns the other party of the order relative to userID.
// The second return value is false when userID is not a party at all.
func (o *Order) CounterpartyOf(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case o.BuyerID:
		return o.SellerID, true
	case o.SellerID:
		return o.BuyerID, true
	default:
		return uuid.Nil, false
	}
}

// NewOrderFromOffer creates the confirmed order produced by accepting an offer.
func NewOrderFromOffer(list *ShoppingList, offer *Offer) *Order {
	return &Order{
		ID:             uuid.New(),
		ShoppingListID: list.ID,
		OfferID:        offer.ID,
		BuyerID:        list.BuyerID,
		SellerID:       offer.SellerID,
		TotalPrice:     offer.Price,
		Status:         OrderStatusConfirmed,
		CreatedAt:      time.Now(),
	}
}
