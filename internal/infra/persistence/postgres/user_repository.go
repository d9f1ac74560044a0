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

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID, preloading both role profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("BuyerProfile").
		Preload("SellerProfile").
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading both role profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("BuyerProfile").
		Preload("SellerProfile").
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its attached profiles.
// GORM's Create with associations inserts into users, buyer_profiles
// and/or seller_profiles in one statement batch.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid foreign key reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	if user.BuyerProfile != nil && userM.BuyerProfile != nil {
		user.BuyerProfile.UserID = userM.BuyerProfile.UserID
		user.BuyerProfile.UpdatedAt = userM.BuyerProfile.UpdatedAt
	}
	if user.SellerProfile != nil && userM.SellerProfile != nil {
		user.SellerProfile.UserID = userM.SellerProfile.UserID
		user.SellerProfile.UpdatedAt = userM.SellerProfile.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its attached profiles.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt
	if user.BuyerProfile != nil && userM.BuyerProfile != nil {
		user.BuyerProfile.UpdatedAt = userM.BuyerProfile.UpdatedAt
	}
	if user.SellerProfile != nil && userM.SellerProfile != nil {
		user.SellerProfile.UpdatedAt = userM.SellerProfile.UpdatedAt
	}

	return nil
}

// ApplyRating folds a new rating value into the ratee's profile average.
// The fold runs entirely in SQL so concurrent ratings never lose an update.
func (repo *userRepository) ApplyRating(ctx context.Context, rateeID uuid.UUID, role entity.Role, value int) error {
	table := "buyer_profiles"
	if role == entity.RoleSeller {
		table = "seller_profiles"
	}

	result := repo.db.WithContext(ctx).Exec(
		"UPDATE "+table+
			" SET rating = (rating * rating_count + ?) / (rating_count + 1),"+
			" rating_count = rating_count + 1,"+
			" updated_at = NOW()"+
			" WHERE user_id = ?",
		value, rateeID,
	)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to apply rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:            data.ID,
		Email:         data.Email,
		Name:          data.Name,
		Phone:         data.Phone,
		BuyerProfile:  toBuyerProfileDomain(data.BuyerProfile),
		SellerProfile: toSellerProfileDomain(data.SellerProfile),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:            data.ID,
		Email:         data.Email,
		Name:          data.Name,
		Phone:         data.Phone,
		BuyerProfile:  fromBuyerProfileDomain(data.BuyerProfile),
		SellerProfile: fromSellerProfileDomain(data.SellerProfile),
	}
}

func toBuyerProfileDomain(data *model.BuyerProfileModel) *entity.BuyerProfile {
	if data == nil {
		return nil
	}

	return &entity.BuyerProfile{
		UserID:          data.UserID,
		DeliveryAddress: data.DeliveryAddress,
		Rating:          data.Rating,
		RatingCount:     data.RatingCount,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromBuyerProfileDomain(data *entity.BuyerProfile) *model.BuyerProfileModel {
	if data == nil {
		return nil
	}

	return &model.BuyerProfileModel{
		UserID:          data.UserID,
		DeliveryAddress: data.DeliveryAddress,
		Rating:          data.Rating,
		RatingCount:     data.RatingCount,
		UpdatedAt:       data.UpdatedAt,
	}
}

func toSellerProfileDomain(data *model.SellerProfileModel) *entity.SellerProfile {
	if data == nil {
		return nil
	}

	return &entity.SellerProfile{
		UserID:           data.UserID,
		StoreName:        data.StoreName,
		StoreDescription: data.StoreDescription,
		Rating:           data.Rating,
		RatingCount:      data.RatingCount,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromSellerProfileDomain(data *entity.SellerProfile) *model.SellerProfileModel {
	if data == nil {
		return nil
	}

	return &model.SellerProfileModel{
		UserID:           data.UserID,
		StoreName:        data.StoreName,
		StoreDescription: data.StoreDescription,
		Rating:           data.Rating,
		RatingCount:      data.RatingCount,
		UpdatedAt:        data.UpdatedAt,
	}
}
