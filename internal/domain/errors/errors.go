package errors

import (
	"net/http"

	"coti/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is reports whether target is the same error class. Two BaseErrors match
// when their business codes are equal, so detail-enriched copies made by
// WithDetails still satisfy errors.Is against their sentinel.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && e.errorCode == t.errorCode
}

// Predefined error types. User-facing messages are Spanish, matching the
// product locale.
var (
	// User and auth errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"No se encontró el usuario",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"Este correo ya está registrado",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Correo o contraseña incorrectos",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Sesión inválida o expirada",
		"",
	)

	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"Se alcanzó el número máximo de sesiones activas",
		"",
	)

	// Validation errors: the caller's fault, shown to the user, never retried.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Los datos ingresados no son válidos",
		"",
	)

	// Marketplace lifecycle errors
	ErrListNotFound = NewBaseError(
		http.StatusNotFound,
		"LIST_NOT_FOUND",
		"No se encontró la lista de compras",
		"",
	)

	ErrListNotActive = NewBaseError(
		http.StatusConflict,
		"LIST_NOT_ACTIVE",
		"Esta lista ya no está disponible, otra oferta fue aceptada",
		"",
	)

	ErrListExpired = NewBaseError(
		http.StatusConflict,
		"LIST_EXPIRED",
		"Esta lista de compras ya expiró",
		"",
	)

	ErrNotListBuyer = NewBaseError(
		http.StatusForbidden,
		"NOT_LIST_BUYER",
		"Solo el comprador dueño de la lista puede hacer esto",
		"",
	)

	ErrOfferNotFound = NewBaseError(
		http.StatusNotFound,
		"OFFER_NOT_FOUND",
		"No se encontró la oferta",
		"",
	)

	ErrOfferNotPending = NewBaseError(
		http.StatusConflict,
		"OFFER_NOT_PENDING",
		"Esta oferta ya fue decidida",
		"",
	)

	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"No se encontró el pedido",
		"",
	)

	ErrOrderInvalidTransition = NewBaseError(
		http.StatusConflict,
		"ORDER_INVALID_TRANSITION",
		"El pedido no puede cambiar a ese estado",
		"",
	)

	ErrNotOrderSeller = NewBaseError(
		http.StatusForbidden,
		"NOT_ORDER_SELLER",
		"Solo el vendedor del pedido puede marcarlo como enviado",
		"",
	)

	ErrNotOrderBuyer = NewBaseError(
		http.StatusForbidden,
		"NOT_ORDER_BUYER",
		"Solo el comprador del pedido puede confirmar la entrega",
		"",
	)

	ErrNotOrderParty = NewBaseError(
		http.StatusForbidden,
		"NOT_ORDER_PARTY",
		"No participas en este pedido",
		"",
	)

	ErrOrderNotCompleted = NewBaseError(
		http.StatusConflict,
		"ORDER_NOT_COMPLETED",
		"Solo se pueden calificar pedidos completados",
		"",
	)

	ErrOrderNotPickup = NewBaseError(
		http.StatusConflict,
		"ORDER_NOT_PICKUP",
		"Este pedido no es para retiro en tienda",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"La operación no pudo completarse",
		"",
	)

	// Transient backend failures: safe to retry reads, re-query before
	// retrying mutations.
	ErrServiceUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"SERVICE_UNAVAILABLE",
		"Servicio no disponible, intenta de nuevo",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Error interno del sistema",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"No tienes permiso para hacer esto",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"No se encontró el recurso",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Conflicto con el estado actual del recurso",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Error al acceder a la base de datos"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
