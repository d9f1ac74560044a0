// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"coti/internal/domain/entity"
	domainerrors "coti/internal/domain/errors"
	"coti/internal/domain/repository"
	"coti/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists a new order. Orders are only ever created inside the
// accept-offer transaction; the unique index on offer_id backs that up.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("order already exists for offer")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid list or offer reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt

	return nil
}

// FindOrderByID retrieves an order by its unique ID.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// FindOrdersByBuyer retrieves all orders where the user is the buyer, newest first.
func (repo *orderRepository) FindOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by buyer")
	}

	return toOrderDomainSlice(orderModels), nil
}

// FindOrdersBySeller retrieves all orders where the user is the seller, newest first.
func (repo *orderRepository) FindOrdersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by seller")
	}

	return toOrderDomainSlice(orderModels), nil
}

// AdvanceOrderStatus performs a compare-and-set status update, stamping the
// transition time into the matching timestamp column. Zero affected rows
// means the order already moved on; that is how a lost race is observed.
func (repo *orderRepository) AdvanceOrderStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, at time.Time) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	switch to {
	case entity.OrderStatusEnviado:
		updates["shipped_at"] = at
	case entity.OrderStatusCompleted:
		updates["completed_at"] = at
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to advance order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderStatusConflict
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:             data.ID,
		ShoppingListID: data.ShoppingListID,
		OfferID:        data.OfferID,
		BuyerID:        data.BuyerID,
		SellerID:       data.SellerID,
		TotalPrice:     data.TotalPrice,
		Status:         entity.OrderStatus(data.Status),
		CreatedAt:      data.CreatedAt,
		ShippedAt:      data.ShippedAt,
		CompletedAt:    data.CompletedAt,
	}
}

func toOrderDomainSlice(models []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(models))
	for _, orderM := range models {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:             data.ID,
		ShoppingListID: data.ShoppingListID,
		OfferID:        data.OfferID,
		BuyerID:        data.BuyerID,
		SellerID:       data.SellerID,
		TotalPrice:     data.TotalPrice,
		Status:         string(data.Status),
		CreatedAt:      data.CreatedAt,
		ShippedAt:      data.ShippedAt,
		CompletedAt:    data.CompletedAt,
	}
}
