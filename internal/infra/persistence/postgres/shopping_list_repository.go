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
	"gorm.io/gorm/clause"
)

// shoppingListRepository implements the repository.ShoppingListRepository interface.
type shoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository is the constructor for shoppingListRepository.
func NewShoppingListRepository(db *gorm.DB) repository.ShoppingListRepository {
	return &shoppingListRepository{
		db: db,
	}
}

// CreateList persists a new shopping list.
func (repo *shoppingListRepository) CreateList(ctx context.Context, list *entity.ShoppingList) error {
	listM := fromShoppingListDomain(list)

	if err := repo.db.WithContext(ctx).Create(listM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid buyer reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required list information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create shopping list")
	}

	// Update the entity with generated values
	list.ID = listM.ID
	list.CreatedAt = listM.CreatedAt

	return nil
}

// FindListByID retrieves a shopping list by its unique ID.
func (repo *shoppingListRepository) FindListByID(ctx context.Context, id uuid.UUID) (*entity.ShoppingList, error) {
	var listM model.ShoppingListModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListNotFound
		}

		return nil, errors.Wrap(err, "failed to find shopping list by ID")
	}

	return toShoppingListDomain(&listM), nil
}

// FindListByIDForUpdate retrieves a shopping list and row-locks it for the
// duration of the enclosing transaction. Concurrent accept-offer attempts
// on the same list serialize here.
func (repo *shoppingListRepository) FindListByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ShoppingList, error) {
	var listM model.ShoppingListModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&listM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListNotFound
		}

		return nil, errors.Wrap(err, "failed to lock shopping list")
	}

	return toShoppingListDomain(&listM), nil
}

// FindActiveLists retrieves all active, unexpired lists, newest first.
// Expired lists keep their stored status and simply drop out of the
// marketplace view.
func (repo *shoppingListRepository) FindActiveLists(ctx context.Context) ([]*entity.ShoppingList, error) {
	var listModels []*model.ShoppingListModel

	if err := repo.db.WithContext(ctx).
		Where("status = ? AND expires_at > ?", string(entity.ListStatusActive), time.Now()).
		Order("created_at DESC").
		Find(&listModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active shopping lists")
	}

	return toShoppingListDomainSlice(listModels), nil
}

// FindListsByBuyer retrieves all lists owned by a buyer, newest first.
func (repo *shoppingListRepository) FindListsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.ShoppingList, error) {
	var listModels []*model.ShoppingListModel

	if err := repo.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&listModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find shopping lists by buyer")
	}

	return toShoppingListDomainSlice(listModels), nil
}

// UpdateListStatus performs a compare-and-set on the list status.
// Zero affected rows means the expected current status no longer holds.
func (repo *shoppingListRepository) UpdateListStatus(ctx context.Context, id uuid.UUID, from, to entity.ListStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ShoppingListModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update shopping list status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrListStatusConflict
	}

	return nil
}

// --- Mapper Functions ---

// toShoppingListDomain converts a GORM ShoppingListModel to a domain ShoppingList entity.
func toShoppingListDomain(data *model.ShoppingListModel) *entity.ShoppingList {
	if data == nil {
		return nil
	}

	return &entity.ShoppingList{
		ID:           data.ID,
		BuyerID:      data.BuyerID,
		Title:        data.Title,
		Items:        data.Items,
		MinBudget:    data.MinBudget,
		MaxBudget:    data.MaxBudget,
		DeliveryType: entity.DeliveryType(data.DeliveryType),
		DeliveryDate: data.DeliveryDate,
		Status:       entity.ListStatus(data.Status),
		CreatedAt:    data.CreatedAt,
		ExpiresAt:    data.ExpiresAt,
	}
}

func toShoppingListDomainSlice(models []*model.ShoppingListModel) []*entity.ShoppingList {
	lists := make([]*entity.ShoppingList, 0, len(models))
	for _, listM := range models {
		lists = append(lists, toShoppingListDomain(listM))
	}

	return lists
}

// fromShoppingListDomain converts a domain ShoppingList entity to a GORM ShoppingListModel.
func fromShoppingListDomain(data *entity.ShoppingList) *model.ShoppingListModel {
	if data == nil {
		return nil
	}

	var deliveryDate *time.Time
	if data.DeliveryDate != nil {
		d := *data.DeliveryDate
		deliveryDate = &d
	}

	return &model.ShoppingListModel{
		ID:           data.ID,
		BuyerID:      data.BuyerID,
		Title:        data.Title,
		Items:        data.Items,
		MinBudget:    data.MinBudget,
		MaxBudget:    data.MaxBudget,
		DeliveryType: string(data.DeliveryType),
		DeliveryDate: deliveryDate,
		Status:       string(data.Status),
		CreatedAt:    data.CreatedAt,
		ExpiresAt:    data.ExpiresAt,
	}
}
