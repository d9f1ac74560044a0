package impl

import (
	"context"
	"log/slog"
	"time"

	"coti/config"
	deliverycontext "coti/internal/delivery/context"
	"coti/internal/domain/entity"
	domainerrors "coti/internal/domain/errors"
	"coti/internal/domain/repository"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// listService implements the ListUsecase interface.
type listService struct {
	listRepo repository.ShoppingListRepository
	listTTL  time.Duration
	logger   *slog.Logger
}

// ListServiceParams holds dependencies for ListService, injected by Fx.
type ListServiceParams struct {
	fx.In

	ListRepo repository.ShoppingListRepository
	Config   *config.Config
	Logger   *slog.Logger
}

// NewListService is the constructor for listService.
func NewListService(params ListServiceParams) usecase.ListUsecase {
	return &listService{
		listRepo: params.ListRepo,
		listTTL:  params.Config.ListTTLOrDefault(),
		logger:   params.Logger,
	}
}

func (srv *listService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateList validates the draft and opens a new active list for the buyer.
func (srv *listService) CreateList(ctx context.Context, buyerID uuid.UUID, draft *entity.ListDraft) (*entity.ShoppingList, error) {
	list, err := entity.NewShoppingList(buyerID, draft, srv.listTTL)
	if err != nil {
		srv.log(ctx).Warn("Rejected invalid list draft", slog.Any("buyerID", buyerID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid list draft")
	}

	if err := srv.listRepo.CreateList(ctx, list); err != nil {
		srv.log(ctx).Error("Failed to create shopping list", slog.Any("buyerID", buyerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create shopping list")
	}

	srv.log(ctx).Info("Shopping list created", slog.Any("listID", list.ID), slog.Any("buyerID", buyerID))

	return list, nil
}

// GetActiveLists returns all active lists, newest first.
func (srv *listService) GetActiveLists(ctx context.Context) ([]*entity.ShoppingList, error) {
	lists, err := srv.listRepo.FindActiveLists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active lists")
	}

	return lists, nil
}

// GetListsByBuyer returns the buyer's own lists, newest first.
func (srv *listService) GetListsByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.ShoppingList, error) {
	lists, err := srv.listRepo.FindListsByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find lists by buyer")
	}

	return lists, nil
}

// GetListDetails returns a single list by ID.
func (srv *listService) GetListDetails(ctx context.Context, listID uuid.UUID) (*entity.ShoppingList, error) {
	list, err := srv.listRepo.FindListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, errors.Wrap(domainerrors.ErrListNotFound, "list lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find list by id")
	}

	return list, nil
}
