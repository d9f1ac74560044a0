package usecase

import (
	"context"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo carries the client-supplied device registration fields.
type DeviceInfo struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	DeviceID string `json:"device_id" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// DeviceUsecase governs push-device registration.
type DeviceUsecase interface {
	// RegisterDevice registers a new device or refreshes the FCM token of an
	// existing one (matched by the client device ID).
	RegisterDevice(ctx context.Context, userID uuid.UUID, info *DeviceInfo) (*entity.UserDevice, error)

	// GetUserDevices retrieves all active devices for a user.
	GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// DeactivateDevice deactivates a device owned by the user.
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}
