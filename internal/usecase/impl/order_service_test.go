package impl

import (
	"context"
	"testing"

	"coti/internal/domain/entity"
	domainerrors "coti/internal/domain/errors"
	"coti/internal/domain/service"
	"coti/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_AcceptOffer_AcceptsOneRejectsSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	sellerA := env.seedSeller(t, "tienda-a", "Tienda A")
	sellerB := env.seedSeller(t, "tienda-b", "Tienda B")
	sellerC := env.seedSeller(t, "tienda-c", "Tienda C")

	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offerA := env.seedOffer(t, list.ID, sellerA.ID, 120)
	offerB := env.seedOffer(t, list.ID, sellerB.ID, 95)
	offerC := env.seedOffer(t, list.ID, sellerC.ID, 140)

	order, err := env.orders.AcceptOffer(ctx, buyer.ID, offerB.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
	assert.Equal(t, buyer.ID, order.BuyerID)
	assert.Equal(t, sellerB.ID, order.SellerID)
	assert.Equal(t, offerB.Price, order.TotalPrice)
	assert.Equal(t, list.ID, order.ShoppingListID)

	assert.Equal(t, entity.OfferStatusAccepted, env.store.offers[offerB.ID].Status)
	assert.Equal(t, entity.OfferStatusRejected, env.store.offers[offerA.ID].Status)
	assert.Equal(t, entity.OfferStatusRejected, env.store.offers[offerC.ID].Status)
	assert.Equal(t, entity.ListStatusCompleted, env.store.lists[list.ID].Status)

	accepted := env.publisher.eventsOfKind(service.EventOfferAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, []string{sellerB.ID.String()}, accepted[0].RecipientIDs)

	rejected := env.publisher.eventsOfKind(service.EventOfferRejected)
	require.Len(t, rejected, 1)
	assert.ElementsMatch(t, []string{sellerA.ID.String(), sellerC.ID.String()}, rejected[0].RecipientIDs)
}

func TestOrderService_AcceptOffer_SecondAcceptLosesRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	sellerA := env.seedSeller(t, "tienda-a", "Tienda A")
	sellerB := env.seedSeller(t, "tienda-b", "Tienda B")

	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offerA := env.seedOffer(t, list.ID, sellerA.ID, 100)
	offerB := env.seedOffer(t, list.ID, sellerB.ID, 110)

	_, err := env.orders.AcceptOffer(ctx, buyer.ID, offerA.ID)
	require.NoError(t, err)

	// Accepting the sibling after the list closed must fail with a conflict,
	// and neither the sibling's status nor the list may change again.
	_, err = env.orders.AcceptOffer(ctx, buyer.ID, offerB.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrListNotActive))
	assert.Equal(t, entity.OfferStatusRejected, env.store.offers[offerB.ID].Status)

	// Only one order exists.
	assert.Len(t, env.store.orders, 1)
}

func TestOrderService_AcceptOffer_OnlyListOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	stranger := env.seedBuyer(t, "jose")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")

	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)

	_, err := env.orders.AcceptOffer(ctx, stranger.ID, offer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotListBuyer))

	// Nothing moved.
	assert.Equal(t, entity.ListStatusActive, env.store.lists[list.ID].Status)
	assert.Equal(t, entity.OfferStatusPending, env.store.offers[offer.ID].Status)
	assert.Empty(t, env.store.orders)
}

func TestOrderService_AcceptOffer_DecidedOffer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")

	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	env.store.offers[offer.ID].Status = entity.OfferStatusRejected

	_, err := env.orders.AcceptOffer(ctx, buyer.ID, offer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOfferNotPending))
}

func TestOrderService_AcceptOffer_UnknownOffer(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.seedBuyer(t, "maria")

	_, err := env.orders.AcceptOffer(context.Background(), buyer.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOfferNotFound))
}

func TestOrderService_AcceptOffer_RollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	sellerA := env.seedSeller(t, "tienda-a", "Tienda A")
	sellerB := env.seedSeller(t, "tienda-b", "Tienda B")

	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offerA := env.seedOffer(t, list.ID, sellerA.ID, 100)
	offerB := env.seedOffer(t, list.ID, sellerB.ID, 110)

	// The last write of the transaction fails; every earlier write must be
	// rolled back with it.
	env.store.createOrderErr = errors.New("write failed")

	_, err := env.orders.AcceptOffer(ctx, buyer.ID, offerA.ID)
	require.Error(t, err)

	assert.Equal(t, entity.ListStatusActive, env.store.lists[list.ID].Status)
	assert.Equal(t, entity.OfferStatusPending, env.store.offers[offerA.ID].Status)
	assert.Equal(t, entity.OfferStatusPending, env.store.offers[offerB.ID].Status)
	assert.Empty(t, env.store.orders)
	assert.Empty(t, env.publisher.eventsOfKind(service.EventOfferAccepted))

	// The accept succeeds once the backend recovers.
	env.store.createOrderErr = nil
	_, err = env.orders.AcceptOffer(ctx, buyer.ID, offerA.ID)
	require.NoError(t, err)
}

func TestOrderService_AdvanceOrder_FullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	shipped, err := env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusEnviado, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)

	shippedEvents := env.publisher.eventsOfKind(service.EventOrderShipped)
	require.Len(t, shippedEvents, 1)
	assert.Equal(t, []string{buyer.ID.String()}, shippedEvents[0].RecipientIDs)

	completed, err := env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completion opens the rating window for both parties, so both get the
	// notification.
	completedEvents := env.publisher.eventsOfKind(service.EventOrderCompleted)
	require.Len(t, completedEvents, 1)
	assert.Contains(t, completedEvents[0].RecipientIDs, buyer.ID.String())
	assert.Contains(t, completedEvents[0].RecipientIDs, seller.ID.String())
}

func TestOrderService_AdvanceOrder_ActorRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	stranger := env.seedSeller(t, "tienda-x", "Tienda X")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	// The buyer cannot ship.
	_, err := env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusEnviado)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOrderSeller))

	// A stranger cannot do anything.
	_, err = env.orders.AdvanceOrder(ctx, stranger.ID, order.ID, entity.OrderStatusEnviado)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOrderParty))

	// Skipping straight to completed is not a legal edge.
	_, err = env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderInvalidTransition))

	_, err = env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)

	// The seller cannot confirm delivery.
	_, err = env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOrderBuyer))

	// Shipping twice is not legal either.
	_, err = env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderInvalidTransition))
}

func TestOrderService_AdvanceOrder_LostRaceSurfacesConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	// Another request advances the order between our read and our write.
	env.store.beforeAdvance = func(s *memStore) {
		s.orders[order.ID].Status = entity.OrderStatusEnviado
	}

	_, err := env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderInvalidTransition))
}

func TestOrderService_SubmitRating_BothPartiesOnceEach(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	_, err := env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)
	_, err = env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	buyerRating, err := env.orders.SubmitRating(ctx, buyer.ID, order.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, buyerRating.RateeID)

	sellerRating, err := env.orders.SubmitRating(ctx, seller.ID, order.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, sellerRating.RateeID)

	assert.InDelta(t, 5.0, env.store.users[seller.ID].SellerProfile.Rating, 0.001)
	assert.Equal(t, 1, env.store.users[seller.ID].SellerProfile.RatingCount)
	assert.InDelta(t, 4.0, env.store.users[buyer.ID].BuyerProfile.Rating, 0.001)
	assert.Equal(t, 1, env.store.users[buyer.ID].BuyerProfile.RatingCount)
}

func TestOrderService_SubmitRating_ReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	_, err := env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)
	_, err = env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	first, err := env.orders.SubmitRating(ctx, buyer.ID, order.ID, 5)
	require.NoError(t, err)

	// A retry with a different value returns the stored rating unchanged and
	// does not move the profile average again.
	second, err := env.orders.SubmitRating(ctx, buyer.ID, order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Value)

	assert.InDelta(t, 5.0, env.store.users[seller.ID].SellerProfile.Rating, 0.001)
	assert.Equal(t, 1, env.store.users[seller.ID].SellerProfile.RatingCount)
}

func TestOrderService_SubmitRating_Preconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	stranger := env.seedBuyer(t, "jose")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	// Not completed yet.
	_, err := env.orders.SubmitRating(ctx, buyer.ID, order.ID, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotCompleted))

	// Stranger.
	_, err = env.orders.SubmitRating(ctx, stranger.ID, order.ID, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOrderParty))

	_, err = env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)
	_, err = env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	// Out-of-range values.
	for _, value := range []int{0, 6, -1} {
		_, err = env.orders.SubmitRating(ctx, buyer.ID, order.ID, value)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

func TestOrderService_GetOrderDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	stranger := env.seedBuyer(t, "jose")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	details, err := env.orders.GetOrderDetails(ctx, buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, details.Order.ID)
	assert.Equal(t, list.Title, details.ListTitle)
	assert.Equal(t, "maria", details.BuyerName)
	assert.Equal(t, "Tienda A", details.SellerName)
	assert.Len(t, details.ListItems, 1)

	_, err = env.orders.GetOrderDetails(ctx, stranger.ID, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOrderParty))
}

func TestOrderService_GetPickupQR(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	pickupList := env.seedList(t, buyer.ID, entity.DeliveryTypePickup)
	pickupOffer := env.seedOffer(t, pickupList.ID, seller.ID, 80)
	pickupOrder := env.acceptedOrder(t, buyer.ID, pickupOffer.ID)

	png, err := env.orders.GetPickupQR(ctx, buyer.ID, pickupOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("qr:"+pickupOrder.ID.String()), png)

	// Delivery orders have no pickup QR.
	deliveryList := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	deliveryOffer := env.seedOffer(t, deliveryList.ID, seller.ID, 90)
	deliveryOrder := env.acceptedOrder(t, buyer.ID, deliveryOffer.ID)

	_, err = env.orders.GetPickupQR(ctx, buyer.ID, deliveryOrder.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotPickup))
}

func TestOrderService_OrderViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	buyerOrders, err := env.orders.GetOrdersByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, buyerOrders, 1)
	assert.Equal(t, order.ID, buyerOrders[0].ID)

	sellerOrders, err := env.orders.GetOrdersBySeller(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, sellerOrders, 1)
	assert.Equal(t, order.ID, sellerOrders[0].ID)

	none, err := env.orders.GetOrdersByBuyer(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderService_GetRatingsForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	buyer := env.seedBuyer(t, "maria")
	seller := env.seedSeller(t, "tienda-a", "Tienda A")
	list := env.seedList(t, buyer.ID, entity.DeliveryTypeDelivery)
	offer := env.seedOffer(t, list.ID, seller.ID, 100)
	order := env.acceptedOrder(t, buyer.ID, offer.ID)

	_, err := env.orders.AdvanceOrder(ctx, seller.ID, order.ID, entity.OrderStatusEnviado)
	require.NoError(t, err)
	_, err = env.orders.AdvanceOrder(ctx, buyer.ID, order.ID, entity.OrderStatusCompleted)
	require.NoError(t, err)

	_, err = env.orders.SubmitRating(ctx, buyer.ID, order.ID, 5)
	require.NoError(t, err)

	received, err := env.orders.GetRatingsForUser(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 5, received[0].Value)
	assert.Equal(t, buyer.ID, received[0].RaterID)

	// The buyer has not been rated yet.
	none, err := env.orders.GetRatingsForUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
