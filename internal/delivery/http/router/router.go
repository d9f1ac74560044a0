// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"coti/internal/delivery/http/middleware"
	"coti/internal/delivery/http/router/handler"
	"coti/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ListHandler    *handler.ListHandler
	OfferHandler   *handler.OfferHandler
	OrderHandler   *handler.OrderHandler
	DeviceHandler  *handler.DeviceHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	listHandler    *handler.ListHandler
	offerHandler   *handler.OfferHandler
	orderHandler   *handler.OrderHandler
	deviceHandler  *handler.DeviceHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		listHandler:    params.ListHandler,
		offerHandler:   params.OfferHandler,
		orderHandler:   params.OrderHandler,
		deviceHandler:  params.DeviceHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.Refresh)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.PATCH("/profile", r.userHandler.UpdateProfile)
		userGroup.GET("/ratings", r.orderHandler.GetMyRatings)
		userGroup.POST("/devices", r.deviceHandler.RegisterDevice)
		userGroup.GET("/devices", r.deviceHandler.GetMyDevices)
		userGroup.DELETE("/devices/:id", r.deviceHandler.DeactivateDevice)
	}

	// Shopping list routes
	listGroup := e.Group("/lists")
	listGroup.Use(r.authMiddleware.Authenticate)
	{
		// The marketplace view is for sellers; creation and the "mine"
		// view are for buyers.
		listGroup.GET("/active", r.sellerGuard(r.listHandler.GetActiveLists))
		listGroup.POST("", r.buyerGuard(r.listHandler.CreateList))
		listGroup.GET("/mine", r.buyerGuard(r.listHandler.GetMyLists))
		listGroup.GET("/:id", r.listHandler.GetListDetails)
		listGroup.GET("/:id/offers", r.buyerGuard(r.offerHandler.GetOffersForList))
	}

	// Offer routes
	offerGroup := e.Group("/offers")
	offerGroup.Use(r.authMiddleware.Authenticate)
	{
		offerGroup.POST("", r.sellerGuard(r.offerHandler.SubmitOffer))
		offerGroup.GET("/mine", r.sellerGuard(r.offerHandler.GetMyOffers))
		offerGroup.GET("/:id", r.offerHandler.GetOfferDetails)
	}

	// Order lifecycle routes
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("/accept", r.buyerGuard(r.orderHandler.AcceptOffer))
		orderGroup.POST("/:id/ship", r.sellerGuard(r.orderHandler.ShipOrder))
		orderGroup.POST("/:id/complete", r.buyerGuard(r.orderHandler.CompleteOrder))
		orderGroup.POST("/:id/rating", r.orderHandler.SubmitRating)
		orderGroup.GET("/purchases", r.buyerGuard(r.orderHandler.GetMyPurchases))
		orderGroup.GET("/sales", r.sellerGuard(r.orderHandler.GetMySales))
		orderGroup.GET("/:id", r.orderHandler.GetOrderDetails)
		orderGroup.GET("/:id/pickup-qr", r.orderHandler.GetPickupQR)
	}
}

// buyerGuard wraps a handler with the buyer role requirement.
func (r *router) buyerGuard(h echo.HandlerFunc) echo.HandlerFunc {
	return r.authMiddleware.RequireRole(entity.RoleBuyer.String())(h)
}

// sellerGuard wraps a handler with the seller role requirement.
func (r *router) sellerGuard(h echo.HandlerFunc) echo.HandlerFunc {
	return r.authMiddleware.RequireRole(entity.RoleSeller.String())(h)
}
