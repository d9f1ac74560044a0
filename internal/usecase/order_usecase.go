package usecase

import (
	"context"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderDetails bundles an order with the display data the order screens need.
type OrderDetails struct {
	Order      *entity.Order     `json:"order"`
	ListTitle  string            `json:"list_title"`
	ListItems  []entity.ListItem `json:"list_items"`
	BuyerName  string            `json:"buyer_name"`
	SellerName string            `json:"seller_name"` // Store name when the seller has one.
}

// OrderUsecase is the lifecycle engine's order-side surface: accepting offers,
// advancing fulfillment, ratings, and the order read views.
type OrderUsecase interface {
	// AcceptOffer atomically accepts the offer, rejects its siblings, closes
	// the list and creates the confirmed order. Exactly one concurrent accept
	// per list can succeed.
	AcceptOffer(ctx context.Context, buyerID, offerID uuid.UUID) (*entity.Order, error)

	// AdvanceOrder moves an order along confirmed -> enviado -> completed.
	// Only the seller may ship; only the buyer may confirm delivery.
	AdvanceOrder(ctx context.Context, actorID, orderID uuid.UUID, target entity.OrderStatus) (*entity.Order, error)

	// SubmitRating records a 1-5 rating on a completed order. Resubmissions by
	// the same rater are idempotent: the first stored rating wins.
	SubmitRating(ctx context.Context, raterID, orderID uuid.UUID, value int) (*entity.Rating, error)

	// GetRatingsForUser returns the ratings a user has received, newest first.
	GetRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]*entity.Rating, error)

	// GetOrdersByBuyer returns the buyer's orders, newest first.
	GetOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	// GetOrdersBySeller returns the seller's orders, newest first.
	GetOrdersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// GetOrderDetails returns the order plus list and party display data.
	// Only a party to the order may call it.
	GetOrderDetails(ctx context.Context, callerID, orderID uuid.UUID) (*OrderDetails, error)

	// GetPickupQR returns a PNG QR code for a pickup order's handoff.
	// Only a party to the order may call it.
	GetPickupQR(ctx context.Context, callerID, orderID uuid.UUID) ([]byte, error)
}
