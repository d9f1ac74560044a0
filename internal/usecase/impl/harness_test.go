package impl

import (
	"context"
	"testing"
	"time"

	"coti/internal/domain/entity"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service onto one shared in-memory store.
type testEnv struct {
	store     *memStore
	tx        *fakeTxManager
	publisher *fakePublisher
	tokens    *fakeTokenService

	users   usecase.UserUsecase
	lists   usecase.ListUsecase
	offers  usecase.OfferUsecase
	orders  usecase.OrderUsecase
	devices usecase.DeviceUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	tx := &fakeTxManager{store: store}
	publisher := &fakePublisher{}
	tokens := newFakeTokenService()
	logger := newDiscardLogger()
	cfg := newTestConfig()

	env := &testEnv{
		store:     store,
		tx:        tx,
		publisher: publisher,
		tokens:    tokens,
	}

	env.users = NewUserService(UserServiceParams{
		TxManager:        tx,
		UserRepo:         &fakeUserRepo{store: store},
		AuthRepo:         &fakeAuthRepo{store: store},
		RefreshTokenRepo: &fakeRefreshTokenRepo{store: store},
		Hasher:           fakeHasher{},
		TokenService:     tokens,
		Config:           cfg,
		Logger:           logger,
	})
	env.lists = NewListService(ListServiceParams{
		ListRepo: &fakeListRepo{store: store},
		Config:   cfg,
		Logger:   logger,
	})
	env.offers = NewOfferService(OfferServiceParams{
		TxManager: tx,
		OfferRepo: &fakeOfferRepo{store: store},
		ListRepo:  &fakeListRepo{store: store},
		Publisher: publisher,
		Logger:    logger,
	})
	env.orders = NewOrderService(OrderServiceParams{
		TxManager:  tx,
		OrderRepo:  &fakeOrderRepo{store: store},
		OfferRepo:  &fakeOfferRepo{store: store},
		ListRepo:   &fakeListRepo{store: store},
		UserRepo:   &fakeUserRepo{store: store},
		RatingRepo: &fakeRatingRepo{store: store},
		QRService:  fakeQRService{},
		Publisher:  publisher,
		Logger:     logger,
	})
	env.devices = NewDeviceService(&fakeDeviceRepo{store: store})

	return env
}

func (env *testEnv) seedBuyer(t *testing.T, name string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		BuyerProfile: &entity.BuyerProfile{DeliveryAddress: "Av. Siempre Viva 742"},
	}
	user.BuyerProfile.UserID = user.ID
	env.store.users[user.ID] = cloneUser(user)

	return user
}

func (env *testEnv) seedSeller(t *testing.T, name, storeName string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:            uuid.New(),
		Name:          name,
		Email:         name + "@example.com",
		SellerProfile: &entity.SellerProfile{StoreName: storeName},
	}
	user.SellerProfile.UserID = user.ID
	env.store.users[user.ID] = cloneUser(user)

	return user
}

func (env *testEnv) seedList(t *testing.T, buyerID uuid.UUID, deliveryType entity.DeliveryType) *entity.ShoppingList {
	t.Helper()
	list, err := entity.NewShoppingList(buyerID, &entity.ListDraft{
		Title:        "Compras de la semana",
		Items:        []entity.ListItem{{Name: "Arroz", Quantity: 2, Unit: "kg"}},
		DeliveryType: deliveryType,
	}, 7*24*time.Hour)
	require.NoError(t, err)
	env.store.lists[list.ID] = list

	return list
}

func (env *testEnv) seedOffer(t *testing.T, listID, sellerID uuid.UUID, price float64) *entity.Offer {
	t.Helper()
	offer, err := entity.NewOffer(listID, sellerID, price, "", uuid.NewString())
	require.NoError(t, err)
	env.store.offers[offer.ID] = offer

	return offer
}

func (env *testEnv) acceptedOrder(t *testing.T, buyerID uuid.UUID, offerID uuid.UUID) *entity.Order {
	t.Helper()
	order, err := env.orders.AcceptOffer(context.Background(), buyerID, offerID)
	require.NoError(t, err)

	return order
}
