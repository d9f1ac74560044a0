// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for shopping list persistence.
var (
	// ErrListNotFound is returned when a shopping list is not found.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrListStatusConflict is returned when a conditional status update
	// matched no row, meaning the expected current status no longer holds.
	ErrListStatusConflict = errors.New("shopping list status changed concurrently")
)

// ShoppingListRepository defines the interface for shopping-list database operations.
type ShoppingListRepository interface {
	// CreateList persists a new shopping list.
	CreateList(ctx context.Context, list *entity.ShoppingList) error

	// FindListByID retrieves a shopping list by its unique ID.
	FindListByID(ctx context.Context, id uuid.UUID) (*entity.ShoppingList, error)

	// FindListByIDForUpdate retrieves a shopping list and row-locks it for the
	// duration of the enclosing transaction (SELECT ... FOR UPDATE). This is
	// the serialization point for concurrent accept-offer attempts.
	FindListByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ShoppingList, error)

	// FindActiveLists retrieves all active lists, newest first. This is the
	// seller-facing marketplace view.
	FindActiveLists(ctx context.Context) ([]*entity.ShoppingList, error)

	// FindListsByBuyer retrieves all lists owned by a buyer, newest first.
	FindListsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.ShoppingList, error)

	// UpdateListStatus performs a compare-and-set on the list status. It
	// returns ErrListStatusConflict when the list is no longer in `from`.
	UpdateListStatus(ctx context.Context, id uuid.UUID, from, to entity.ListStatus) error
}
