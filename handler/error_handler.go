package handler

import (
	"errors"
	"fmt"
	"go-shop-api/client"
	"go-shop-api/common"
	"go-shop-api/repository"
	"go-shop-api/service"
	"net/http"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// serviceError translates service-layer sentinel errors into HTTP responses.
// Anything unmatched is an infrastructure fault: surfaced opaquely with the
// underlying error attached for logging only.
func serviceError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return common.NewAppError(http.StatusUnauthorized, "Invalid credentials or token", nil)
	case errors.Is(err, service.ErrPermissionDenied):
		return common.NewAppError(http.StatusForbidden, "Insufficient permissions", nil)
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrOrderNotFound):
		return common.NewAppError(http.StatusNotFound, "Order not found", nil)
	case errors.Is(err, client.ErrProductNotFound):
		return common.NewAppError(http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, repository.ErrDuplicateUsername):
		return common.NewAppError(http.StatusConflict, "A user with this username already exists", nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return common.NewAppError(http.StatusConflict, "A user with this email already exists", nil)
	case errors.Is(err, client.ErrUpstream):
		return common.NewAppError(http.StatusBadGateway, "Failed to fetch products", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", fmt.Errorf("unhandled service error: %w", err))
	}
}
