package usecase

import (
	"context"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// OfferInput carries the seller-supplied fields of a new offer.
type OfferInput struct {
	ShoppingListID uuid.UUID
	Price          float64
	Notes          string
	// IdempotencyKey is a client-generated token. Retrying a timed-out
	// submission with the same key returns the already created offer instead
	// of creating a duplicate.
	IdempotencyKey string
}

// OfferUsecase governs offer submission and the offer read views.
type OfferUsecase interface {
	// SubmitOffer creates a pending offer against an active list and notifies
	// the list's buyer. Replays with a known idempotency key return the
	// original offer.
	SubmitOffer(ctx context.Context, sellerID uuid.UUID, input *OfferInput) (*entity.Offer, error)

	// GetOffersForList returns a list's offers, cheapest first. Only the
	// list's buyer may call this view.
	GetOffersForList(ctx context.Context, callerID, listID uuid.UUID) ([]*entity.Offer, error)

	// GetOffersBySeller returns the seller's own offers, newest first.
	GetOffersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Offer, error)

	// GetOfferDetails returns a single offer by ID.
	GetOfferDetails(ctx context.Context, offerID uuid.UUID) (*entity.Offer, error)
}
