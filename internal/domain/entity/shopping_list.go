// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListStatus represents the state of a shopping list.
type ListStatus string

const (
	// ListStatusActive means the list is open and sellers may submit offers.
	ListStatusActive ListStatus = "active"
	// ListStatusPending means the list is temporarily closed to new offers.
	ListStatusPending ListStatus = "pending"
	// ListStatusCompleted means an offer was accepted and the list is closed.
	ListStatusCompleted ListStatus = "completed"
)

// IsValid checks if the ListStatus is a valid value.
func (s ListStatus) IsValid() bool {
	switch s {
	case ListStatusActive, ListStatusPending, ListStatusCompleted:
		return true
	default:
		return false
	}
}

// DeliveryType represents how a fulfilled list should reach the buyer.
type DeliveryType string

const (
	// DeliveryTypeDelivery means the seller delivers to the buyer's address.
	DeliveryTypeDelivery DeliveryType = "delivery"
	// DeliveryTypePickup means the buyer picks the order up from the seller.
	DeliveryTypePickup DeliveryType = "pickup"
)

// IsValid checks if the DeliveryType is a valid value.
func (d DeliveryType) IsValid() bool {
	switch d {
	case DeliveryTypeDelivery, DeliveryTypePickup:
		return true
	default:
		return false
	}
}

// ListItem is a single requested product line on a shopping list.
type ListItem struct {
	Name     string  `json:"name"`            // Product name, required.
	Quantity float64 `json:"quantity"`        // Requested amount, must be positive.
	Unit     string  `json:"unit"`            // Measurement unit, e.g., "kg", "unidad".
	Brand    string  `json:"brand,omitempty"` // Optional preferred brand.
	Notes    string  `json:"notes,omitempty"` // Optional free-text notes for the seller.
}

// ShoppingList is a buyer-authored request for items within a budget range, open to offers.
type ShoppingList struct {
	ID           uuid.UUID    `json:"id"`
	BuyerID      uuid.UUID    `json:"buyer_id"`
	Title        string       `json:"title"`
	Items        []ListItem   `json:"items"`
	MinBudget    *float64     `json:"min_budget,omitempty"`
	MaxBudget    *float64     `json:"max_budget,omitempty"`
	DeliveryType DeliveryType `json:"delivery_type"`
	DeliveryDate *time.Time   `json:"delivery_date,omitempty"`
	Status       ListStatus   `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// IsExpired reports whether the list's offer window has closed.
func (l *ShoppingList) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// ListDraft carries the buyer-supplied fields for a new shopping list.
type ListDraft struct {
	Title        string
	Items        []ListItem
	MinBudget    *float64
	MaxBudget    *float64
	DeliveryType DeliveryType
	DeliveryDate *time.Time
}

// Validate enforces the creation invariants: at least one item with a
// non-empty name and positive quantity, and a coherent budget range.
func (d *ListDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrListTitleRequired
	}
	if len(d.Items) == 0 {
		return ErrListItemsRequired
	}
	for _, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			return ErrListItemNameRequired
		}
		if item.Quantity <= 0 {
			return ErrListItemQuantityInvalid
		}
	}
	if d.MinBudget != nil && *d.MinBudget < 0 {
		return ErrListBudgetNegative
	}
	if d.MaxBudget != nil && *d.MaxBudget < 0 {
		return ErrListBudgetNegative
	}
	if d.MinBudget != nil && d.MaxBudget != nil && *d.MinBudget > *d.MaxBudget {
		return ErrListBudgetRange
	}
	if !d.DeliveryType.IsValid() {
		return ErrListDeliveryTypeInvalid
	}

	return nil
}

// NewShoppingList builds an active shopping list from a validated draft.
// The expiry window is supplied by the caller (configuration-driven).
func NewShoppingList(buyerID uuid.UUID, draft *ListDraft, ttl time.Duration) (*ShoppingList, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	return &ShoppingList{
		ID:           uuid.New(),
		BuyerID:      buyerID,
		Title:        strings.TrimSpace(draft.Title),
		Items:        draft.Items,
		MinBudget:    draft.MinBudget,
		MaxBudget:    draft.MaxBudget,
		DeliveryType: draft.DeliveryType,
		DeliveryDate: draft.DeliveryDate,
		Status:       ListStatusActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}, nil
}
