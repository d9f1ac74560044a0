package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "coti/internal/delivery/context"
	"coti/internal/domain/entity"
	domainerrors "coti/internal/domain/errors"
	"coti/internal/domain/lifecycle"
	"coti/internal/domain/repository"
	"coti/internal/domain/service"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// offerService implements the OfferUsecase interface.
type offerService struct {
	txManager repository.TransactionManager
	offerRepo repository.OfferRepository
	listRepo  repository.ShoppingListRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OfferServiceParams holds dependencies for OfferService, injected by Fx.
type OfferServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OfferRepo repository.OfferRepository
	ListRepo  repository.ShoppingListRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOfferService is the constructor for offerService.
func NewOfferService(params OfferServiceParams) usecase.OfferUsecase {
	return &offerService{
		txManager: params.TxManager,
		offerRepo: params.OfferRepo,
		listRepo:  params.ListRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *offerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitOffer creates a pending offer against an active list. A replay with a
// known idempotency key returns the already stored offer and sends no second
// notification.
func (srv *offerService) SubmitOffer(ctx context.Context, sellerID uuid.UUID, input *usecase.OfferInput) (*entity.Offer, error) {
	offer, err := entity.NewOffer(input.ShoppingListID, sellerID, input.Price, input.Notes, input.IdempotencyKey)
	if err != nil {
		srv.log(ctx).Warn("Rejected invalid offer", slog.Any("sellerID", sellerID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid offer input")
	}

	var (
		list   *entity.ShoppingList
		replay bool
	)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		listRepo := repoFactory.ShoppingListRepo()
		offerRepo := repoFactory.OfferRepo()

		// Lock the list row. A submit racing an accept serializes here and
		// re-reads the list as completed instead of inserting a pending offer
		// onto a closed list.
		var findErr error
		list, findErr = listRepo.FindListByIDForUpdate(ctx, input.ShoppingListID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrListNotFound) {
				return errors.Wrap(domainerrors.ErrListNotFound, "offer target not found")
			}

			return errors.Wrap(findErr, "failed to lock list for offer")
		}

		if list.BuyerID == sellerID {
			return errors.Wrap(domainerrors.ErrForbidden, "offer submitted on own list")
		}

		if !lifecycle.CanSubmitOffer(list, time.Now()) {
			if list.Status == entity.ListStatusActive {
				return errors.Wrap(domainerrors.ErrListExpired, "offer submitted against an expired list")
			}

			return errors.Wrap(domainerrors.ErrListNotActive, "offer submitted against a closed list")
		}

		createErr := offerRepo.CreateOffer(ctx, offer)
		if errors.Is(createErr, repository.ErrDuplicateOffer) {
			// Retried submission. Surface the original offer instead.
			existing, lookupErr := offerRepo.FindOfferByIdempotencyKey(ctx, sellerID, input.IdempotencyKey)
			if lookupErr != nil {
				return errors.Wrap(lookupErr, "failed to load offer for idempotent replay")
			}
			offer = existing
			replay = true

			return nil
		}
		if createErr != nil {
			return errors.Wrap(createErr, "failed to create offer")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to execute offer submission transaction",
			slog.Any("sellerID", sellerID), slog.Any("listID", input.ShoppingListID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute offer submission transaction")
	}

	if replay {
		srv.log(ctx).Info("Replayed duplicate offer submission",
			slog.Any("offerID", offer.ID), slog.Any("sellerID", sellerID))

		return offer, nil
	}

	srv.log(ctx).Info("Offer submitted",
		slog.Any("offerID", offer.ID), slog.Any("listID", list.ID), slog.Any("sellerID", sellerID))

	publishEvent(ctx, srv.publisher, srv.logger, offerReceivedEvent(list, offer))

	return offer, nil
}

// GetOffersForList returns a list's offers, cheapest first. Only the list's
// buyer may see the offers on their list.
func (srv *offerService) GetOffersForList(ctx context.Context, callerID, listID uuid.UUID) ([]*entity.Offer, error) {
	list, err := srv.listRepo.FindListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, errors.Wrap(domainerrors.ErrListNotFound, "list lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find list by id")
	}

	if list.BuyerID != callerID {
		return nil, errors.Wrap(domainerrors.ErrNotListBuyer, "offers view denied")
	}

	offers, err := srv.offerRepo.FindOffersByList(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find offers by list")
	}

	return offers, nil
}

// GetOffersBySeller returns the seller's own offers, newest first.
func (srv *offerService) GetOffersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Offer, error) {
	offers, err := srv.offerRepo.FindOffersBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find offers by seller")
	}

	return offers, nil
}

// GetOfferDetails returns a single offer by ID.
func (srv *offerService) GetOfferDetails(ctx context.Context, offerID uuid.UUID) (*entity.Offer, error) {
	offer, err := srv.offerRepo.FindOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOfferNotFound, "offer lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find offer by id")
	}

	return offer, nil
}
