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
	"gorm.io/gorm/clause"
)

// ratingRepository implements the repository.RatingRepository interface.
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *gorm.DB) repository.RatingRepository {
	return &ratingRepository{
		db: db,
	}
}

// InsertRatingIfAbsent writes the rating unless one already exists for the
// same (order, rater) pair. INSERT ... ON CONFLICT DO NOTHING makes the
// first submission win; replays get the stored row back unchanged.
func (repo *ratingRepository) InsertRatingIfAbsent(ctx context.Context, rating *entity.Rating) (*entity.Rating, bool, error) {
	ratingM := fromRatingDomain(rating)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "rater_id"}},
			DoNothing: true,
		}).
		Create(ratingM)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return nil, false, domainerrors.ErrValidationFailed.WrapMessage("rating value out of range")
		}
		if isForeignKeyConstraintViolation(result.Error) {
			return nil, false, domainerrors.NewDatabaseExecuteError(result.Error, "invalid order reference")
		}

		return nil, false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to insert rating")
	}

	// A conflicting row already existed; return it unchanged.
	if result.RowsAffected == 0 {
		existing, err := repo.FindRatingByOrderAndRater(ctx, rating.OrderID, rating.RaterID)
		if err != nil {
			return nil, false, err
		}

		return existing, false, nil
	}

	rating.ID = ratingM.ID
	rating.CreatedAt = ratingM.CreatedAt

	return rating, true, nil
}

// FindRatingByOrderAndRater retrieves the rating a user gave on an order.
func (repo *ratingRepository) FindRatingByOrderAndRater(ctx context.Context, orderID, raterID uuid.UUID) (*entity.Rating, error) {
	var ratingM model.RatingModel

	if err := repo.db.WithContext(ctx).
		Where("order_id = ? AND rater_id = ?", orderID, raterID).
		First(&ratingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRatingNotFound
		}

		return nil, errors.Wrap(err, "failed to find rating")
	}

	return toRatingDomain(&ratingM), nil
}

// FindRatingsForUser retrieves all ratings received by a user, newest first.
func (repo *ratingRepository) FindRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]*entity.Rating, error) {
	var ratingModels []*model.RatingModel

	if err := repo.db.WithContext(ctx).
		Where("ratee_id = ?", rateeID).
		Order("created_at DESC").
		Find(&ratingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find ratings for user")
	}

	ratings := make([]*entity.Rating, 0, len(ratingModels))
	for _, ratingM := range ratingModels {
		ratings = append(ratings, toRatingDomain(ratingM))
	}

	return ratings, nil
}

// --- Mapper Functions ---

// toRatingDomain converts a GORM RatingModel to a domain Rating entity.
func toRatingDomain(data *model.RatingModel) *entity.Rating {
	if data == nil {
		return nil
	}

	return &entity.Rating{
		ID:        data.ID,
		OrderID:   data.OrderID,
		RaterID:   data.RaterID,
		RateeID:   data.RateeID,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
	}
}

// fromRatingDomain converts a domain Rating entity to a GORM RatingModel.
func fromRatingDomain(data *entity.Rating) *model.RatingModel {
	if data == nil {
		return nil
	}

	return &model.RatingModel{
		ID:        data.ID,
		OrderID:   data.OrderID,
		RaterID:   data.RaterID,
		RateeID:   data.RateeID,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
	}
}
