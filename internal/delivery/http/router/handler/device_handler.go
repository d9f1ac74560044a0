package handler

import (
	"log/slog"
	"net/http"

	"coti/internal/delivery/http/response"
	"coti/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DeviceHandler holds dependencies for push-device handlers.
type DeviceHandler struct {
	uc     usecase.DeviceUsecase
	logger *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler, injected by Fx.
func NewDeviceHandler(uc usecase.DeviceUsecase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		uc:     uc,
		logger: logger,
	}
}

// RegisterDevice handles registering a device or refreshing its FCM token.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	var info usecase.DeviceInfo
	if err := c.Bind(&info); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de dispositivo inválidos")
	}
	if err := c.Validate(&info); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de dispositivo inválidos")
	}

	device, err := h.uc.RegisterDevice(c.Request().Context(), userID, &info)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, device, "Dispositivo registrado")
}

// GetMyDevices handles listing the user's active devices.
func (h *DeviceHandler) GetMyDevices(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	devices, err := h.uc.GetUserDevices(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, devices, "Mis dispositivos")
}

// DeactivateDevice handles retiring one of the user's devices.
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	deviceID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de dispositivo inválido")
	}

	if err := h.uc.DeactivateDevice(c.Request().Context(), userID, deviceID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Dispositivo desactivado"}, "Dispositivo desactivado")
}
