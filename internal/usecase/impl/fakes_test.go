package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"coti/config"
	"coti/internal/domain/entity"
	"coti/internal/domain/repository"
	"coti/internal/domain/service"

	"github.com/google/uuid"
)

// The tests in this package run the services against an in-memory store that
// mimics the postgres layer's semantics: compare-and-set status updates,
// unique constraints, insert-if-absent, and transactional rollback. The
// transaction manager snapshots the store before each Execute and restores it
// when the callback fails, so atomicity behavior is observable.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth:        &config.AuthConfig{BcryptCost: 12, MaxActiveSessions: 5},
		Marketplace: &config.MarketplaceConfig{ListTTL: 7 * 24 * time.Hour},
	}

	return cfg
}

type memStore struct {
	mu sync.Mutex

	lists         map[uuid.UUID]*entity.ShoppingList
	offers        map[uuid.UUID]*entity.Offer
	orders        map[uuid.UUID]*entity.Order
	ratings       map[uuid.UUID]*entity.Rating
	users         map[uuid.UUID]*entity.User
	auths         map[uuid.UUID]*entity.Authentication
	refreshTokens map[uuid.UUID]*entity.RefreshToken
	devices       map[uuid.UUID]*entity.UserDevice

	// Failure injection hooks.
	createOrderErr error
	beforeAdvance  func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{
		lists:         make(map[uuid.UUID]*entity.ShoppingList),
		offers:        make(map[uuid.UUID]*entity.Offer),
		orders:        make(map[uuid.UUID]*entity.Order),
		ratings:       make(map[uuid.UUID]*entity.Rating),
		users:         make(map[uuid.UUID]*entity.User),
		auths:         make(map[uuid.UUID]*entity.Authentication),
		refreshTokens: make(map[uuid.UUID]*entity.RefreshToken),
		devices:       make(map[uuid.UUID]*entity.UserDevice),
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.lists {
		c := *v
		snap.lists[k] = &c
	}
	for k, v := range s.offers {
		c := *v
		snap.offers[k] = &c
	}
	for k, v := range s.orders {
		c := *v
		snap.orders[k] = &c
	}
	for k, v := range s.ratings {
		c := *v
		snap.ratings[k] = &c
	}
	for k, v := range s.users {
		c := cloneUser(v)
		snap.users[k] = c
	}
	for k, v := range s.auths {
		c := *v
		snap.auths[k] = &c
	}
	for k, v := range s.refreshTokens {
		c := *v
		snap.refreshTokens[k] = &c
	}
	for k, v := range s.devices {
		c := *v
		snap.devices[k] = &c
	}

	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.lists = snap.lists
	s.offers = snap.offers
	s.orders = snap.orders
	s.ratings = snap.ratings
	s.users = snap.users
	s.auths = snap.auths
	s.refreshTokens = snap.refreshTokens
	s.devices = snap.devices
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.BuyerProfile != nil {
		bp := *u.BuyerProfile
		c.BuyerProfile = &bp
	}
	if u.SellerProfile != nil {
		sp := *u.SellerProfile
		c.SellerProfile = &sp
	}

	return &c
}

// fakeTxManager restores the store to its pre-transaction state when the
// callback fails, matching real rollback behavior.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(&fakeFactory{store: m.store}); err != nil {
		m.store.restore(snap)

		return err
	}

	return nil
}

type fakeFactory struct {
	store *memStore
}

func (f *fakeFactory) ShoppingListRepo() repository.ShoppingListRepository {
	return &fakeListRepo{store: f.store}
}
func (f *fakeFactory) OfferRepo() repository.OfferRepository   { return &fakeOfferRepo{store: f.store} }
func (f *fakeFactory) OrderRepo() repository.OrderRepository   { return &fakeOrderRepo{store: f.store} }
func (f *fakeFactory) RatingRepo() repository.RatingRepository { return &fakeRatingRepo{store: f.store} }
func (f *fakeFactory) UserRepo() repository.UserRepository     { return &fakeUserRepo{store: f.store} }
func (f *fakeFactory) AuthRepo() repository.AuthRepository     { return &fakeAuthRepo{store: f.store} }
func (f *fakeFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{store: f.store}
}

type fakeListRepo struct {
	store *memStore
}

func (r *fakeListRepo) CreateList(_ context.Context, list *entity.ShoppingList) error {
	c := *list
	r.store.lists[list.ID] = &c

	return nil
}

func (r *fakeListRepo) FindListByID(_ context.Context, id uuid.UUID) (*entity.ShoppingList, error) {
	list, ok := r.store.lists[id]
	if !ok {
		return nil, repository.ErrListNotFound
	}
	c := *list

	return &c, nil
}

func (r *fakeListRepo) FindListByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.ShoppingList, error) {
	return r.FindListByID(ctx, id)
}

func (r *fakeListRepo) FindActiveLists(_ context.Context) ([]*entity.ShoppingList, error) {
	now := time.Now()
	var out []*entity.ShoppingList
	for _, list := range r.store.lists {
		if list.Status == entity.ListStatusActive && !list.IsExpired(now) {
			c := *list
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeListRepo) FindListsByBuyer(_ context.Context, buyerID uuid.UUID) ([]*entity.ShoppingList, error) {
	var out []*entity.ShoppingList
	for _, list := range r.store.lists {
		if list.BuyerID == buyerID {
			c := *list
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeListRepo) UpdateListStatus(_ context.Context, id uuid.UUID, from, to entity.ListStatus) error {
	list, ok := r.store.lists[id]
	if !ok {
		return repository.ErrListNotFound
	}
	if list.Status != from {
		return repository.ErrListStatusConflict
	}
	list.Status = to

	return nil
}

type fakeOfferRepo struct {
	store *memStore
}

func (r *fakeOfferRepo) CreateOffer(_ context.Context, offer *entity.Offer) error {
	if offer.IdempotencyKey != "" {
		for _, existing := range r.store.offers {
			if existing.SellerID == offer.SellerID && existing.IdempotencyKey == offer.IdempotencyKey {
				return repository.ErrDuplicateOffer
			}
		}
	}
	c := *offer
	r.store.offers[offer.ID] = &c

	return nil
}

func (r *fakeOfferRepo) FindOfferByID(_ context.Context, id uuid.UUID) (*entity.Offer, error) {
	offer, ok := r.store.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	c := *offer

	return &c, nil
}

func (r *fakeOfferRepo) FindOfferByIdempotencyKey(_ context.Context, sellerID uuid.UUID, key string) (*entity.Offer, error) {
	for _, offer := range r.store.offers {
		if offer.SellerID == sellerID && offer.IdempotencyKey == key {
			c := *offer

			return &c, nil
		}
	}

	return nil, repository.ErrOfferNotFound
}

func (r *fakeOfferRepo) FindOffersByList(_ context.Context, listID uuid.UUID) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, offer := range r.store.offers {
		if offer.ShoppingListID == listID {
			c := *offer
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })

	return out, nil
}

func (r *fakeOfferRepo) FindOffersBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, offer := range r.store.offers {
		if offer.SellerID == sellerID {
			c := *offer
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeOfferRepo) UpdateOfferStatus(_ context.Context, id uuid.UUID, from, to entity.OfferStatus) error {
	offer, ok := r.store.offers[id]
	if !ok {
		return repository.ErrOfferNotFound
	}
	if offer.Status != from {
		return repository.ErrOfferStatusConflict
	}
	offer.Status = to

	return nil
}

func (r *fakeOfferRepo) RejectSiblingOffers(_ context.Context, listID, acceptedOfferID uuid.UUID) ([]uuid.UUID, error) {
	var rejected []uuid.UUID
	for _, offer := range r.store.offers {
		if offer.ShoppingListID == listID && offer.ID != acceptedOfferID && offer.Status == entity.OfferStatusPending {
			offer.Status = entity.OfferStatusRejected
			rejected = append(rejected, offer.SellerID)
		}
	}

	return rejected, nil
}

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *entity.Order) error {
	if r.store.createOrderErr != nil {
		return r.store.createOrderErr
	}
	c := *order
	r.store.orders[order.ID] = &c

	return nil
}

func (r *fakeOrderRepo) FindOrderByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	c := *order

	return &c, nil
}

func (r *fakeOrderRepo) FindOrdersByBuyer(_ context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.store.orders {
		if order.BuyerID == buyerID {
			c := *order
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeOrderRepo) FindOrdersBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.store.orders {
		if order.SellerID == sellerID {
			c := *order
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeOrderRepo) AdvanceOrderStatus(_ context.Context, id uuid.UUID, from, to entity.OrderStatus, at time.Time) error {
	if r.store.beforeAdvance != nil {
		hook := r.store.beforeAdvance
		r.store.beforeAdvance = nil
		hook(r.store)
	}

	order, ok := r.store.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrOrderStatusConflict
	}
	order.Status = to
	switch to {
	case entity.OrderStatusEnviado:
		order.ShippedAt = &at
	case entity.OrderStatusCompleted:
		order.CompletedAt = &at
	}

	return nil
}

type fakeRatingRepo struct {
	store *memStore
}

func (r *fakeRatingRepo) InsertRatingIfAbsent(_ context.Context, rating *entity.Rating) (*entity.Rating, bool, error) {
	for _, existing := range r.store.ratings {
		if existing.OrderID == rating.OrderID && existing.RaterID == rating.RaterID {
			c := *existing

			return &c, false, nil
		}
	}
	c := *rating
	r.store.ratings[rating.ID] = &c
	out := *rating

	return &out, true, nil
}

func (r *fakeRatingRepo) FindRatingByOrderAndRater(_ context.Context, orderID, raterID uuid.UUID) (*entity.Rating, error) {
	for _, rating := range r.store.ratings {
		if rating.OrderID == orderID && rating.RaterID == raterID {
			c := *rating

			return &c, nil
		}
	}

	return nil, repository.ErrRatingNotFound
}

func (r *fakeRatingRepo) FindRatingsForUser(_ context.Context, rateeID uuid.UUID) ([]*entity.Rating, error) {
	var out []*entity.Rating
	for _, rating := range r.store.ratings {
		if rating.RateeID == rateeID {
			c := *rating
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.BuyerProfile != nil {
		user.BuyerProfile.UserID = user.ID
	}
	if user.SellerProfile != nil {
		user.SellerProfile.UserID = user.ID
	}
	user.CreatedAt = time.Now()
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	if user.BuyerProfile != nil {
		user.BuyerProfile.UserID = user.ID
	}
	if user.SellerProfile != nil {
		user.SellerProfile.UserID = user.ID
	}
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

func (r *fakeUserRepo) ApplyRating(_ context.Context, rateeID uuid.UUID, role entity.Role, value int) error {
	user, ok := r.store.users[rateeID]
	if !ok {
		return repository.ErrUserNotFound
	}
	switch role {
	case entity.RoleBuyer:
		if user.BuyerProfile == nil {
			return repository.ErrUserNotFound
		}
		p := user.BuyerProfile
		p.Rating = (p.Rating*float64(p.RatingCount) + float64(value)) / float64(p.RatingCount+1)
		p.RatingCount++
	case entity.RoleSeller:
		if user.SellerProfile == nil {
			return repository.ErrUserNotFound
		}
		p := user.SellerProfile
		p.Rating = (p.Rating*float64(p.RatingCount) + float64(value)) / float64(p.RatingCount+1)
		p.RatingCount++
	}

	return nil
}

type fakeAuthRepo struct {
	store *memStore
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	c := *auth
	r.store.auths[auth.ID] = &c

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	for _, auth := range r.store.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			c := *auth

			return &c, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

type fakeRefreshTokenRepo struct {
	store *memStore
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	c := *token
	r.store.refreshTokens[token.ID] = &c

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	for _, token := range r.store.refreshTokens {
		if token.TokenHash == tokenHash {
			c := *token

			return &c, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) FindRefreshTokensByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var out []*entity.RefreshToken
	for _, token := range r.store.refreshTokens {
		if token.UserID == userID {
			c := *token
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshToken(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.refreshTokens[id]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.store.refreshTokens, id)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	for id, token := range r.store.refreshTokens {
		if token.UserID == userID {
			delete(r.store.refreshTokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteOldestRefreshTokens(ctx context.Context, userID uuid.UUID, keep int) error {
	tokens, _ := r.FindRefreshTokensByUserID(ctx, userID)
	for i, token := range tokens {
		if i >= keep {
			delete(r.store.refreshTokens, token.ID)
		}
	}

	return nil
}

type fakeDeviceRepo struct {
	store *memStore
}

func (r *fakeDeviceRepo) CreateDevice(_ context.Context, device *entity.UserDevice) error {
	c := *device
	r.store.devices[device.ID] = &c

	return nil
}

func (r *fakeDeviceRepo) FindDeviceByID(_ context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	device, ok := r.store.devices[id]
	if !ok {
		return nil, repository.ErrDeviceNotFound
	}
	c := *device

	return &c, nil
}

func (r *fakeDeviceRepo) FindDevicesByUser(_ context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var out []*entity.UserDevice
	for _, device := range r.store.devices {
		if device.UserID == userID {
			c := *device
			out = append(out, &c)
		}
	}

	return out, nil
}

func (r *fakeDeviceRepo) FindActiveDevicesForUsers(_ context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error) {
	wanted := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []*entity.UserDevice
	for _, device := range r.store.devices {
		if device.IsActive && wanted[device.UserID] {
			c := *device
			out = append(out, &c)
		}
	}

	return out, nil
}

func (r *fakeDeviceRepo) UpdateFCMToken(_ context.Context, id uuid.UUID, fcmToken string) error {
	device, ok := r.store.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.FCMToken = fcmToken
	device.UpdatedAt = time.Now()

	return nil
}

func (r *fakeDeviceRepo) DeactivateDevice(_ context.Context, id uuid.UUID) error {
	device, ok := r.store.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.IsActive = false

	return nil
}

// fakePublisher records published events for assertions.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.NotificationEvent
}

func (p *fakePublisher) PublishNotificationEvent(_ context.Context, event *service.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) eventsOfKind(kind string) []*service.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*service.NotificationEvent
	for _, event := range p.events {
		if event.Kind == kind {
			out = append(out, event)
		}
	}

	return out
}

// fakeTokenService issues deterministic tokens and tracks claims per token.
type fakeTokenService struct {
	mu     sync.Mutex
	claims map[string]*service.Claims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{claims: make(map[string]*service.Claims)}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	access := "access-" + uuid.NewString()
	refresh := "refresh-" + uuid.NewString()
	s.claims[access] = &service.Claims{UserID: userID, Roles: roles, Type: "access"}
	s.claims[refresh] = &service.Claims{UserID: userID, Roles: roles, Type: "refresh"}

	return access, refresh, nil
}

func (s *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.claims[tokenString]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return claims, nil
}

func (s *fakeTokenService) HashToken(tokenString string) string {
	return "hash:" + tokenString
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 24 * time.Hour
}

// fakeHasher is a transparent stand-in for bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return "hashed:"+password == hash }

// fakeQRService returns a fixed payload.
type fakeQRService struct{}

func (fakeQRService) GeneratePickupQR(orderID uuid.UUID) ([]byte, error) {
	return []byte("qr:" + orderID.String()), nil
}

func (fakeQRService) ParsePickupQR(qrData string) (uuid.UUID, error) {
	return uuid.Parse(qrData[len("qr:"):])
}
