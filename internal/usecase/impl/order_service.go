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

// orderService implements the OrderUsecase interface. It owns every write
// that moves a list, offer or order between statuses.
type orderService struct {
	txManager  repository.TransactionManager
	orderRepo  repository.OrderRepository
	offerRepo  repository.OfferRepository
	listRepo   repository.ShoppingListRepository
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	qrService  service.QRCodeService
	publisher  service.EventPublisher
	logger     *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	OrderRepo  repository.OrderRepository
	OfferRepo  repository.OfferRepository
	ListRepo   repository.ShoppingListRepository
	UserRepo   repository.UserRepository
	RatingRepo repository.RatingRepository
	QRService  service.QRCodeService
	Publisher  service.EventPublisher
	Logger     *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:  params.TxManager,
		orderRepo:  params.OrderRepo,
		offerRepo:  params.OfferRepo,
		listRepo:   params.ListRepo,
		userRepo:   params.UserRepo,
		ratingRepo: params.RatingRepo,
		qrService:  params.QRService,
		publisher:  params.Publisher,
		logger:     params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AcceptOffer performs the pivotal transaction of the marketplace. Inside one
// database transaction it accepts the offer, rejects every sibling, completes
// the list and creates the confirmed order. The list row is locked first, so
// of N concurrent accepts on the same list exactly one commits and the rest
// observe a closed list.
func (srv *orderService) AcceptOffer(ctx context.Context, buyerID, offerID uuid.UUID) (*entity.Order, error) {
	srv.log(ctx).Info("Accepting offer", slog.Any("buyerID", buyerID), slog.Any("offerID", offerID))

	var (
		order             *entity.Order
		list              *entity.ShoppingList
		rejectedSellerIDs []uuid.UUID
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()
		listRepo := repoFactory.ShoppingListRepo()
		orderRepo := repoFactory.OrderRepo()

		offer, err := offerRepo.FindOfferByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return errors.Wrap(domainerrors.ErrOfferNotFound, "accept target not found")
			}

			return errors.Wrap(err, "failed to find offer for accept")
		}

		// Lock the list row. Concurrent accepts on the same list serialize
		// here; the losers re-read the list as completed.
		list, err = listRepo.FindListByIDForUpdate(ctx, offer.ShoppingListID)
		if err != nil {
			if errors.Is(err, repository.ErrListNotFound) {
				return errors.Wrap(domainerrors.ErrListNotFound, "list of accepted offer not found")
			}

			return errors.Wrap(err, "failed to lock list for accept")
		}

		if err := acceptDecisionError(lifecycle.CanAcceptOffer(list, offer, buyerID)); err != nil {
			return err
		}

		if err := offerRepo.UpdateOfferStatus(ctx, offer.ID, entity.OfferStatusPending, entity.OfferStatusAccepted); err != nil {
			return errors.Wrap(err, "failed to mark offer accepted")
		}

		rejectedSellerIDs, err = offerRepo.RejectSiblingOffers(ctx, list.ID, offer.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reject sibling offers")
		}

		if err := listRepo.UpdateListStatus(ctx, list.ID, entity.ListStatusActive, entity.ListStatusCompleted); err != nil {
			return errors.Wrap(err, "failed to complete list")
		}

		order = entity.NewOrderFromOffer(list, offer)
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Accept offer failed",
			slog.Any("buyerID", buyerID), slog.Any("offerID", offerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute accept offer transaction")
	}

	srv.log(ctx).Info("Offer accepted",
		slog.Any("orderID", order.ID), slog.Any("offerID", offerID),
		slog.Int("rejectedSiblings", len(rejectedSellerIDs)))

	publishEvent(ctx, srv.publisher, srv.logger, offerAcceptedEvent(list, order))
	if len(rejectedSellerIDs) > 0 {
		publishEvent(ctx, srv.publisher, srv.logger, offerRejectedEvent(list, rejectedSellerIDs))
	}

	return order, nil
}

func acceptDecisionError(decision lifecycle.AcceptDecision) error {
	switch decision {
	case lifecycle.AcceptOK:
		return nil
	case lifecycle.AcceptNotListBuyer:
		return errors.Wrap(domainerrors.ErrNotListBuyer, "accept attempted by non-owner")
	case lifecycle.AcceptListNotActive:
		return errors.Wrap(domainerrors.ErrListNotActive, "accept attempted on a closed list")
	case lifecycle.AcceptOfferNotPending:
		return errors.Wrap(domainerrors.ErrOfferNotPending, "accept attempted on a decided offer")
	case lifecycle.AcceptOfferListMismatch:
		return errors.Wrap(domainerrors.ErrOfferNotFound, "offer does not belong to the list")
	default:
		return errors.Wrap(domainerrors.ErrInternalError, "unknown accept decision")
	}
}

// AdvanceOrder moves an order one step forward. The status write is a
// compare-and-set, so two simultaneous advances cannot both apply.
func (srv *orderService) AdvanceOrder(ctx context.Context, actorID, orderID uuid.UUID, target entity.OrderStatus) (*entity.Order, error) {
	if !target.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown target order status")
	}

	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "advance target not found")
		}

		return nil, errors.Wrap(err, "failed to find order for advance")
	}

	if err := srv.checkAdvance(order, actorID, target); err != nil {
		srv.log(ctx).Warn("Rejected order advance",
			slog.Any("orderID", orderID), slog.Any("actorID", actorID),
			slog.String("from", string(order.Status)), slog.String("to", string(target)), slog.Any("error", err))

		return nil, err
	}

	now := time.Now()
	if err := srv.orderRepo.AdvanceOrderStatus(ctx, order.ID, order.Status, target, now); err != nil {
		if errors.Is(err, repository.ErrOrderStatusConflict) {
			// Lost a race: someone advanced the order between our read and write.
			return nil, errors.Wrap(domainerrors.ErrOrderInvalidTransition, "order status changed concurrently")
		}

		return nil, errors.Wrap(err, "failed to advance order status")
	}

	order.Status = target
	switch target {
	case entity.OrderStatusEnviado:
		order.ShippedAt = &now
	case entity.OrderStatusCompleted:
		order.CompletedAt = &now
	}

	srv.log(ctx).Info("Order advanced",
		slog.Any("orderID", order.ID), slog.String("status", string(target)), slog.Any("actorID", actorID))

	switch target {
	case entity.OrderStatusEnviado:
		publishEvent(ctx, srv.publisher, srv.logger, orderShippedEvent(order))
	case entity.OrderStatusCompleted:
		publishEvent(ctx, srv.publisher, srv.logger, orderCompletedEvent(order))
	}

	return order, nil
}

func (srv *orderService) checkAdvance(order *entity.Order, actorID uuid.UUID, target entity.OrderStatus) error {
	switch lifecycle.CheckOrderAdvance(order, actorID, target) {
	case lifecycle.AdvanceOK:
		return nil
	case lifecycle.AdvanceNotParty:
		return errors.Wrap(domainerrors.ErrNotOrderParty, "advance attempted by a stranger")
	case lifecycle.AdvanceWrongActor:
		if lifecycle.RequiredActorFor(order.Status, target) == lifecycle.PartySeller {
			return errors.Wrap(domainerrors.ErrNotOrderSeller, "only the seller may ship")
		}

		return errors.Wrap(domainerrors.ErrNotOrderBuyer, "only the buyer may confirm delivery")
	case lifecycle.AdvanceIllegalTransition:
		return errors.Wrap(domainerrors.ErrOrderInvalidTransition, "no such transition")
	default:
		return errors.Wrap(domainerrors.ErrInternalError, "unknown advance decision")
	}
}

// SubmitRating records a 1-5 rating on a completed order. The first rating
// per (order, rater) wins; replays return the stored rating unchanged.
func (srv *orderService) SubmitRating(ctx context.Context, raterID, orderID uuid.UUID, value int) (*entity.Rating, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "rating target not found")
		}

		return nil, errors.Wrap(err, "failed to find order for rating")
	}

	if !order.IsParty(raterID) {
		return nil, errors.Wrap(domainerrors.ErrNotOrderParty, "rating attempted by a stranger")
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, errors.Wrap(domainerrors.ErrOrderNotCompleted, "rating attempted before completion")
	}

	rateeID, _ := order.CounterpartyOf(raterID)

	rating, err := entity.NewRating(orderID, raterID, rateeID, value)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "invalid rating value")
	}

	rateeRole := entity.RoleBuyer
	if rateeID == order.SellerID {
		rateeRole = entity.RoleSeller
	}

	var stored *entity.Rating

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ratingRepo := repoFactory.RatingRepo()
		userRepo := repoFactory.UserRepo()

		result, created, insertErr := ratingRepo.InsertRatingIfAbsent(ctx, rating)
		if insertErr != nil {
			return errors.Wrap(insertErr, "failed to insert rating")
		}
		stored = result

		if !created {
			// Replay. The profile average was already updated by the first write.
			return nil
		}

		if err := userRepo.ApplyRating(ctx, rateeID, rateeRole, value); err != nil {
			return errors.Wrap(err, "failed to apply rating to profile")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to execute rating transaction",
			slog.Any("orderID", orderID), slog.Any("raterID", raterID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute rating transaction")
	}

	srv.log(ctx).Info("Rating submitted",
		slog.Any("orderID", orderID), slog.Any("raterID", raterID), slog.Int("value", stored.Value))

	return stored, nil
}

// GetRatingsForUser returns the ratings a user has received, newest first.
func (srv *orderService) GetRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]*entity.Rating, error) {
	ratings, err := srv.ratingRepo.FindRatingsForUser(ctx, rateeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find ratings for user")
	}

	return ratings, nil
}

// GetOrdersByBuyer returns the buyer's orders, newest first.
func (srv *orderService) GetOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by buyer")
	}

	return orders, nil
}

// GetOrdersBySeller returns the seller's orders, newest first.
func (srv *orderService) GetOrdersBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindOrdersBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by seller")
	}

	return orders, nil
}

// GetOrderDetails returns the order plus the list and party display data.
func (srv *orderService) GetOrderDetails(ctx context.Context, callerID, orderID uuid.UUID) (*usecase.OrderDetails, error) {
	order, err := srv.loadPartyOrder(ctx, callerID, orderID)
	if err != nil {
		return nil, err
	}

	list, err := srv.listRepo.FindListByID(ctx, order.ShoppingListID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find list of order")
	}

	buyer, err := srv.userRepo.FindByID(ctx, order.BuyerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order buyer")
	}

	seller, err := srv.userRepo.FindByID(ctx, order.SellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order seller")
	}

	sellerName := seller.Name
	if seller.SellerProfile != nil && seller.SellerProfile.StoreName != "" {
		sellerName = seller.SellerProfile.StoreName
	}

	return &usecase.OrderDetails{
		Order:      order,
		ListTitle:  list.Title,
		ListItems:  list.Items,
		BuyerName:  buyer.Name,
		SellerName: sellerName,
	}, nil
}

// GetPickupQR returns the PNG QR code a buyer presents at the store for a
// pickup order's handoff.
func (srv *orderService) GetPickupQR(ctx context.Context, callerID, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.loadPartyOrder(ctx, callerID, orderID)
	if err != nil {
		return nil, err
	}

	list, err := srv.listRepo.FindListByID(ctx, order.ShoppingListID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find list of order")
	}

	if list.DeliveryType != entity.DeliveryTypePickup {
		return nil, errors.Wrap(domainerrors.ErrOrderNotPickup, "QR requested for a delivery order")
	}

	png, err := srv.qrService.GeneratePickupQR(order.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate pickup QR", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate pickup QR")
	}

	return png, nil
}

func (srv *orderService) loadPartyOrder(ctx context.Context, callerID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	if !order.IsParty(callerID) {
		return nil, errors.Wrap(domainerrors.ErrNotOrderParty, "order view denied")
	}

	return order, nil
}
