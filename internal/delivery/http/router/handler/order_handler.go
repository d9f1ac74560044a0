package handler

import (
	"log/slog"
	"net/http"

	"coti/internal/delivery/http/response"
	"coti/internal/domain/entity"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order lifecycle handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

type acceptOfferRequest struct {
	OfferID uuid.UUID `json:"offer_id" validate:"required"`
}

type ratingRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// AcceptOffer handles the buyer's accept decision. One offer wins, its
// siblings are rejected and a confirmed order comes back, all atomically.
func (h *OrderHandler) AcceptOffer(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	var req acceptOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Identificador de oferta requerido")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Identificador de oferta requerido")
	}

	order, err := h.uc.AcceptOffer(c.Request().Context(), userID, req.OfferID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Oferta aceptada")
}

// ShipOrder handles the seller marking the order as enviado.
func (h *OrderHandler) ShipOrder(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de pedido inválido")
	}

	order, err := h.uc.AdvanceOrder(c.Request().Context(), userID, orderID, entity.OrderStatusEnviado)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Pedido enviado")
}

// CompleteOrder handles the buyer confirming delivery.
func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de pedido inválido")
	}

	order, err := h.uc.AdvanceOrder(c.Request().Context(), userID, orderID, entity.OrderStatusCompleted)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Pedido completado")
}

// SubmitRating handles either party rating the other on a completed order.
func (h *OrderHandler) SubmitRating(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de pedido inválido")
	}

	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Calificación inválida")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Calificación inválida")
	}

	rating, err := h.uc.SubmitRating(c.Request().Context(), userID, orderID, req.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, rating, "Calificación registrada")
}

// GetMyRatings handles the user's received-ratings view.
func (h *OrderHandler) GetMyRatings(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	ratings, err := h.uc.GetRatingsForUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ratings, "Mis calificaciones")
}

// GetMyPurchases handles the buyer's order history view.
func (h *OrderHandler) GetMyPurchases(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orders, err := h.uc.GetOrdersByBuyer(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Mis compras")
}

// GetMySales handles the seller's order history view.
func (h *OrderHandler) GetMySales(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orders, err := h.uc.GetOrdersBySeller(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Mis ventas")
}

// GetOrderDetails handles the request for a single order. Only the order's
// parties may see it.
func (h *OrderHandler) GetOrderDetails(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de pedido inválido")
	}

	details, err := h.uc.GetOrderDetails(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, details, "Detalle de pedido")
}

// GetPickupQR returns the PNG QR code the buyer presents at pickup.
func (h *OrderHandler) GetPickupQR(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de pedido inválido")
	}

	png, err := h.uc.GetPickupQR(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
