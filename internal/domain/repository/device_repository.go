package repository

import (
	"context"

	"coti/internal/domain/entity"
	"coti/internal/errors"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when a device is not found.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository defines the interface for push-device database operations.
type DeviceRepository interface {
	// CreateDevice persists a new device registration.
	CreateDevice(ctx context.Context, device *entity.UserDevice) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error)

	// FindDevicesByUser retrieves all devices registered by a user.
	FindDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// FindActiveDevicesForUsers retrieves all active devices for a list of
	// user IDs. Used for batch fetching before notification sending.
	FindActiveDevicesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.UserDevice, error)

	// UpdateFCMToken updates the FCM token for a device.
	UpdateFCMToken(ctx context.Context, id uuid.UUID, fcmToken string) error

	// DeactivateDevice marks a device inactive (soft delete). Also used to
	// retire devices whose tokens FCM reports as invalid.
	DeactivateDevice(ctx context.Context, id uuid.UUID) error
}
