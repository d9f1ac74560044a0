package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for offer persistence.
var (
	// ErrOfferNotFound is returned when an offer is not found.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrDuplicateOffer is returned when an idempotency key collides with an
	// already stored offer from the same seller.
	ErrDuplicateOffer = errors.New("offer already submitted")
	// ErrOfferStatusConflict is returned when a conditional status update
	// matched no row.
	ErrOfferStatusConflict = errors.New("offer status changed concurrently")
)

// OfferRepository defines the interface for offer database operations.
type OfferRepository interface {
	// CreateOffer persists a new offer. A unique constraint on
	// (seller_id, idempotency_key) surfaces retried submissions as
	// ErrDuplicateOffer.
	CreateOffer(ctx context.Context, offer *entity.Offer) error

	// FindOfferByID retrieves an offer by its unique ID.
	FindOfferByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)

	// FindOfferByIdempotencyKey retrieves a seller's offer by its idempotency
	// key, used to replay duplicate submissions.
	FindOfferByIdempotencyKey(ctx context.Context, sellerID uuid.UUID, key string) (*entity.Offer, error)

	// FindOffersByList retrieves all offers for a list, cheapest first.
	// The price-ascending ordering is deliberate: buyers see the most
	// competitive offer on top.
	FindOffersByList(ctx context.Context, listID uuid.UUID) ([]*entity.Offer, error)

	// FindOffersBySeller retrieves all offers created by a seller, newest first.
	FindOffersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Offer, error)

	// UpdateOfferStatus performs a compare-and-set on a single offer's status.
	UpdateOfferStatus(ctx context.Context, id uuid.UUID, from, to entity.OfferStatus) error

	// RejectSiblingOffers marks every pending offer of the list except the
	// accepted one as rejected, returning the seller IDs whose offers were
	// rejected (for notification fan-out).
	RejectSiblingOffers(ctx context.Context, listID, acceptedOfferID uuid.UUID) ([]uuid.UUID, error)
}
