package impl

import (
	"context"
	"testing"

	domainerrors "coti/internal/domain/errors"
	"coti/internal/errors"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceService_RegisterDevice_CreatesAndRefreshes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.seedBuyer(t, "maria")

	info := &usecase.DeviceInfo{
		FCMToken: "fcm-token-1",
		DeviceID: "pixel-8",
		Platform: "android",
	}

	device, err := env.devices.RegisterDevice(ctx, buyer.ID, info)
	require.NoError(t, err)
	assert.True(t, device.IsActive)
	assert.Equal(t, "fcm-token-1", device.FCMToken)

	// Registering the same physical device again only refreshes the token.
	info.FCMToken = "fcm-token-2"
	updated, err := env.devices.RegisterDevice(ctx, buyer.ID, info)
	require.NoError(t, err)
	assert.Equal(t, device.ID, updated.ID)
	assert.Equal(t, "fcm-token-2", updated.FCMToken)
	assert.Len(t, env.store.devices, 1)
}

func TestDeviceService_GetUserDevices_ActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.seedBuyer(t, "maria")

	first, err := env.devices.RegisterDevice(ctx, buyer.ID, &usecase.DeviceInfo{
		FCMToken: "t1", DeviceID: "d1", Platform: "ios",
	})
	require.NoError(t, err)
	_, err = env.devices.RegisterDevice(ctx, buyer.ID, &usecase.DeviceInfo{
		FCMToken: "t2", DeviceID: "d2", Platform: "android",
	})
	require.NoError(t, err)

	require.NoError(t, env.devices.DeactivateDevice(ctx, buyer.ID, first.ID))

	devices, err := env.devices.GetUserDevices(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "d2", devices[0].DeviceID)
}

func TestDeviceService_DeactivateDevice_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.seedBuyer(t, "maria")
	other := env.seedBuyer(t, "jose")

	device, err := env.devices.RegisterDevice(ctx, buyer.ID, &usecase.DeviceInfo{
		FCMToken: "t1", DeviceID: "d1", Platform: "ios",
	})
	require.NoError(t, err)

	err = env.devices.DeactivateDevice(ctx, other.ID, device.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = env.devices.DeactivateDevice(ctx, buyer.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
