package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coti/internal/domain/entity"
	"coti/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeviceRepo struct {
	devices       []*entity.UserDevice
	findErr       error
	deactivatedID uuid.UUID
}

func (f *fakeDeviceRepo) CreateDevice(ctx context.Context, device *entity.UserDevice) error {
	return nil
}

func (f *fakeDeviceRepo) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) FindDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) FindActiveDevicesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	return f.devices, nil
}

func (f *fakeDeviceRepo) UpdateFCMToken(ctx context.Context, id uuid.UUID, fcmToken string) error {
	return nil
}

func (f *fakeDeviceRepo) DeactivateDevice(ctx context.Context, id uuid.UUID) error {
	f.deactivatedID = id

	return nil
}

type fakeNotificationSvc struct {
	sentTokens    []string
	sentTitle     string
	sentData      map[string]string
	invalidTokens []string
	sendErr       error
}

func (f *fakeNotificationSvc) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	if f.sendErr != nil {
		return 0, 0, nil, f.sendErr
	}
	f.sentTokens = append(f.sentTokens, tokens...)
	f.sentTitle = title
	f.sentData = data

	return len(tokens) - len(f.invalidTokens), len(f.invalidTokens), f.invalidTokens, nil
}

func (f *fakeNotificationSvc) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}

func newTestPushHandler(repo *fakeDeviceRepo, svc *fakeNotificationSvc) *PushHandler {
	return &PushHandler{
		logger:          slog.Default(),
		notificationSvc: svc,
		deviceRepo:      repo,
	}
}

func pushRequestBody(t *testing.T, event *service.NotificationEvent) string {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	msg.Message.MessageID = uuid.NewString()
	msg.Subscription = "projects/test/subscriptions/notifier"

	body, err := json.Marshal(&msg)
	require.NoError(t, err)

	return string(body)
}

func doPush(t *testing.T, h *PushHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandlePush(c))

	return rec
}

func TestHandlePush_SendsToActiveDevices(t *testing.T) {
	buyerID := uuid.New()
	device := &entity.UserDevice{
		ID:       uuid.New(),
		UserID:   buyerID,
		FCMToken: "token-1",
		IsActive: true,
	}
	repo := &fakeDeviceRepo{devices: []*entity.UserDevice{device}}
	svc := &fakeNotificationSvc{}
	h := newTestPushHandler(repo, svc)

	event := &service.NotificationEvent{
		Kind:         service.EventOfferReceived,
		RecipientIDs: []string{buyerID.String()},
		Title:        "Nueva oferta",
		Body:         "Un vendedor hizo una oferta en tu lista",
		Data:         map[string]string{"offer_id": uuid.NewString()},
	}

	rec := doPush(t, h, pushRequestBody(t, event))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"token-1"}, svc.sentTokens)
	assert.Equal(t, "Nueva oferta", svc.sentTitle)
	assert.Equal(t, service.EventOfferReceived, svc.sentData["kind"])
	assert.Contains(t, svc.sentData, "offer_id")
}

func TestHandlePush_DeviceLookupFailureIsRetryable(t *testing.T) {
	repo := &fakeDeviceRepo{findErr: errors.New("connection refused")}
	svc := &fakeNotificationSvc{}
	h := newTestPushHandler(repo, svc)

	event := &service.NotificationEvent{
		Kind:         service.EventOrderShipped,
		RecipientIDs: []string{uuid.NewString()},
		Title:        "Pedido enviado",
		Body:         "Tu pedido va en camino",
	}

	rec := doPush(t, h, pushRequestBody(t, event))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, svc.sentTokens)
}

func TestHandlePush_DeactivatesInvalidTokens(t *testing.T) {
	sellerID := uuid.New()
	stale := &entity.UserDevice{
		ID:       uuid.New(),
		UserID:   sellerID,
		FCMToken: "stale-token",
		IsActive: true,
	}
	repo := &fakeDeviceRepo{devices: []*entity.UserDevice{stale}}
	svc := &fakeNotificationSvc{invalidTokens: []string{"stale-token"}}
	h := newTestPushHandler(repo, svc)

	event := &service.NotificationEvent{
		Kind:         service.EventOfferAccepted,
		RecipientIDs: []string{sellerID.String()},
		Title:        "Oferta aceptada",
		Body:         "El comprador aceptó tu oferta",
	}

	rec := doPush(t, h, pushRequestBody(t, event))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stale.ID, repo.deactivatedID)
}

func TestHandlePush_MalformedPayloadIsNotRetried(t *testing.T) {
	repo := &fakeDeviceRepo{}
	svc := &fakeNotificationSvc{}
	h := newTestPushHandler(repo, svc)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString([]byte("not json"))
	body, err := json.Marshal(&msg)
	require.NoError(t, err)

	rec := doPush(t, h, string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.sentTokens)
}

func TestHandlePush_SkipsMalformedRecipientIDs(t *testing.T) {
	buyerID := uuid.New()
	device := &entity.UserDevice{
		ID:       uuid.New(),
		UserID:   buyerID,
		FCMToken: "token-1",
		IsActive: true,
	}
	repo := &fakeDeviceRepo{devices: []*entity.UserDevice{device}}
	svc := &fakeNotificationSvc{}
	h := newTestPushHandler(repo, svc)

	event := &service.NotificationEvent{
		Kind:         service.EventOrderCompleted,
		RecipientIDs: []string{"not-a-uuid", buyerID.String()},
		Title:        "Pedido completado",
		Body:         "Ya puedes calificar",
	}

	rec := doPush(t, h, pushRequestBody(t, event))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"token-1"}, svc.sentTokens)
}
