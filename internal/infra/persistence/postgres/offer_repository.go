// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"coti/internal/domain/entity"
	domainerrors "coti/internal/domain/errors"
	"coti/internal/domain/repository"
	"coti/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// offerRepository implements the repository.OfferRepository interface.
type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository is the constructor for offerRepository.
func NewOfferRepository(db *gorm.DB) repository.OfferRepository {
	return &offerRepository{
		db: db,
	}
}

// CreateOffer persists a new offer. The unique index on
// (seller_id, idempotency_key) surfaces retried submissions.
func (repo *offerRepository) CreateOffer(ctx context.Context, offer *entity.Offer) error {
	offerM := fromOfferDomain(offer)

	if err := repo.db.WithContext(ctx).Create(offerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateOffer
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid list or seller reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create offer")
	}

	// Update the entity with generated values
	offer.ID = offerM.ID
	offer.CreatedAt = offerM.CreatedAt

	return nil
}

// FindOfferByID retrieves an offer by its unique ID.
func (repo *offerRepository) FindOfferByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var offerM model.OfferModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&offerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOfferNotFound
		}

		return nil, errors.Wrap(err, "failed to find offer by ID")
	}

	return toOfferDomain(&offerM), nil
}

// FindOfferByIdempotencyKey retrieves a seller's offer by its idempotency key.
func (repo *offerRepository) FindOfferByIdempotencyKey(ctx context.Context, sellerID uuid.UUID, key string) (*entity.Offer, error) {
	var offerM model.OfferModel

	if err := repo.db.WithContext(ctx).
		Where("seller_id = ? AND idempotency_key = ?", sellerID, key).
		First(&offerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOfferNotFound
		}

		return nil, errors.Wrap(err, "failed to find offer by idempotency key")
	}

	return toOfferDomain(&offerM), nil
}

// FindOffersByList retrieves all offers for a list, cheapest first.
func (repo *offerRepository) FindOffersByList(ctx context.Context, listID uuid.UUID) ([]*entity.Offer, error) {
	var offerModels []*model.OfferModel

	if err := repo.db.WithContext(ctx).
		Where("shopping_list_id = ?", listID).
		Order("price ASC, created_at ASC").
		Find(&offerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find offers by list")
	}

	return toOfferDomainSlice(offerModels), nil
}

// FindOffersBySeller retrieves all offers created by a seller, newest first.
func (repo *offerRepository) FindOffersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Offer, error) {
	var offerModels []*model.OfferModel

	if err := repo.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&offerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find offers by seller")
	}

	return toOfferDomainSlice(offerModels), nil
}

// UpdateOfferStatus performs a compare-and-set on a single offer's status.
func (repo *offerRepository) UpdateOfferStatus(ctx context.Context, id uuid.UUID, from, to entity.OfferStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OfferModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update offer status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOfferStatusConflict
	}

	return nil
}

// RejectSiblingOffers marks every pending offer of the list except the
// accepted one as rejected. The rejected sellers' IDs come back for the
// notification fan-out, collected via RETURNING.
func (repo *offerRepository) RejectSiblingOffers(ctx context.Context, listID, acceptedOfferID uuid.UUID) ([]uuid.UUID, error) {
	var sellerIDs []uuid.UUID

	if err := repo.db.WithContext(ctx).Raw(
		"UPDATE offers SET status = ?, updated_at = NOW()"+
			" WHERE shopping_list_id = ? AND id <> ? AND status = ?"+
			" RETURNING seller_id",
		string(entity.OfferStatusRejected), listID, acceptedOfferID, string(entity.OfferStatusPending),
	).Scan(&sellerIDs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to reject sibling offers")
	}

	return sellerIDs, nil
}

// --- Mapper Functions ---

// toOfferDomain converts a GORM OfferModel to a domain Offer entity.
func toOfferDomain(data *model.OfferModel) *entity.Offer {
	if data == nil {
		return nil
	}

	return &entity.Offer{
		ID:             data.ID,
		ShoppingListID: data.ShoppingListID,
		SellerID:       data.SellerID,
		Price:          data.Price,
		Notes:          data.Notes,
		IdempotencyKey: data.IdempotencyKey,
		Status:         entity.OfferStatus(data.Status),
		CreatedAt:      data.CreatedAt,
	}
}

func toOfferDomainSlice(models []*model.OfferModel) []*entity.Offer {
	offers := make([]*entity.Offer, 0, len(models))
	for _, offerM := range models {
		offers = append(offers, toOfferDomain(offerM))
	}

	return offers
}

// fromOfferDomain converts a domain Offer entity to a GORM OfferModel.
func fromOfferDomain(data *entity.Offer) *model.OfferModel {
	if data == nil {
		return nil
	}

	return &model.OfferModel{
		ID:             data.ID,
		ShoppingListID: data.ShoppingListID,
		SellerID:       data.SellerID,
		Price:          data.Price,
		Notes:          data.Notes,
		IdempotencyKey: data.IdempotencyKey,
		Status:         string(data.Status),
		CreatedAt:      data.CreatedAt,
	}
}
