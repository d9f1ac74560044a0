package repository

import (
	"context"
	"time"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusConflict is returned when a conditional status update
	// matched no row, meaning the order already moved on.
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order database operations.
type OrderRepository interface {
	// CreateOrder persists a new order. Orders are only ever created inside
	// the accept-offer transaction.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order by its unique ID.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindOrdersByBuyer retrieves all orders where the user is the buyer, newest first.
	FindOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	// FindOrdersBySeller retrieves all orders where the user is the seller, newest first.
	FindOrdersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// AdvanceOrderStatus performs a compare-and-set status update
	// (UPDATE ... WHERE id = ? AND status = ?), stamping the transition time
	// into the matching timestamp column. Zero rows affected surfaces as
	// ErrOrderStatusConflict; that is how a lost race is observed.
	AdvanceOrderStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, at time.Time) error
}
