package handler

import (
	"log/slog"
	"net/http"

	"coti/internal/delivery/http/response"
	"coti/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OfferHandler holds dependencies for offer handlers.
type OfferHandler struct {
	uc     usecase.OfferUsecase
	logger *slog.Logger
}

// NewOfferHandler is the constructor for OfferHandler, injected by Fx.
func NewOfferHandler(uc usecase.OfferUsecase, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		uc:     uc,
		logger: logger,
	}
}

type submitOfferRequest struct {
	ShoppingListID uuid.UUID `json:"shopping_list_id" validate:"required"`
	Price          float64   `json:"price" validate:"required,gt=0"`
	Notes          string    `json:"notes"`
	IdempotencyKey string    `json:"idempotency_key" validate:"required"`
}

// SubmitOffer handles the seller's request to bid on a shopping list.
func (h *OfferHandler) SubmitOffer(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	var req submitOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de oferta inválidos")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de oferta inválidos")
	}

	offer, err := h.uc.SubmitOffer(c.Request().Context(), userID, &usecase.OfferInput{
		ShoppingListID: req.ShoppingListID,
		Price:          req.Price,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, offer, "Oferta enviada")
}

// GetOffersForList handles the buyer's view of a list's offers, cheapest first.
func (h *OfferHandler) GetOffersForList(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	listID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de lista inválido")
	}

	offers, err := h.uc.GetOffersForList(c.Request().Context(), userID, listID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, offers, "Ofertas de la lista")
}

// GetMyOffers handles the seller's view of their own offers.
func (h *OfferHandler) GetMyOffers(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	offers, err := h.uc.GetOffersBySeller(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, offers, "Mis ofertas")
}

// GetOfferDetails handles the request for a single offer.
func (h *OfferHandler) GetOfferDetails(c echo.Context) error {
	offerID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de oferta inválido")
	}

	offer, err := h.uc.GetOfferDetails(c.Request().Context(), offerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, offer, "Detalle de oferta")
}
