package handler

import (
	"log/slog"
	"net/http"
	"time"

	"coti/internal/delivery/http/response"
	"coti/internal/domain/entity"
	"coti/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ListHandler holds dependencies for shopping-list handlers.
type ListHandler struct {
	uc     usecase.ListUsecase
	logger *slog.Logger
}

// NewListHandler is the constructor for ListHandler, injected by Fx.
func NewListHandler(uc usecase.ListUsecase, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		uc:     uc,
		logger: logger,
	}
}

type listItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Unit     string  `json:"unit"`
	Brand    string  `json:"brand"`
	Notes    string  `json:"notes"`
}

type createListRequest struct {
	Title        string            `json:"title" validate:"required"`
	Items        []listItemRequest `json:"items" validate:"required,min=1,dive"`
	MinBudget    *float64          `json:"min_budget"`
	MaxBudget    *float64          `json:"max_budget"`
	DeliveryType string            `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	DeliveryDate *time.Time        `json:"delivery_date"`
}

// CreateList handles the buyer's request to post a new shopping list.
func (h *ListHandler) CreateList(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de lista inválidos")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Datos de lista inválidos")
	}

	items := make([]entity.ListItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.ListItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Brand:    item.Brand,
			Notes:    item.Notes,
		})
	}

	list, err := h.uc.CreateList(c.Request().Context(), userID, &entity.ListDraft{
		Title:        req.Title,
		Items:        items,
		MinBudget:    req.MinBudget,
		MaxBudget:    req.MaxBudget,
		DeliveryType: entity.DeliveryType(req.DeliveryType),
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, list, "Lista creada")
}

// GetActiveLists handles the seller-facing marketplace view of open lists.
func (h *ListHandler) GetActiveLists(c echo.Context) error {
	lists, err := h.uc.GetActiveLists(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, lists, "Listas activas")
}

// GetMyLists handles the buyer's view of their own lists.
func (h *ListHandler) GetMyLists(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Token inválido")
	}

	lists, err := h.uc.GetListsByBuyer(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, lists, "Mis listas")
}

// GetListDetails handles the request for a single list.
func (h *ListHandler) GetListDetails(c echo.Context) error {
	listID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Identificador de lista inválido")
	}

	list, err := h.uc.GetListDetails(c.Request().Context(), listID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, list, "Detalle de lista")
}
