// Package usecase defines the application's use case interfaces and their
// input/output types. Implementations live in impl/.
package usecase

import (
	"context"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// ListUsecase governs shopping-list creation and the read-side list views.
type ListUsecase interface {
	// CreateList validates the draft and opens a new active list for the buyer.
	CreateList(ctx context.Context, buyerID uuid.UUID, draft *entity.ListDraft) (*entity.ShoppingList, error)

	// GetActiveLists returns all active lists, newest first (seller marketplace view).
	GetActiveLists(ctx context.Context) ([]*entity.ShoppingList, error)

	// GetListsByBuyer returns the buyer's own lists, newest first.
	GetListsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.ShoppingList, error)

	// GetListDetails returns a single list by ID.
	GetListDetails(ctx context.Context, listID uuid.UUID) (*entity.ShoppingList, error)
}
