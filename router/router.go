package router

import (
	"go-shop-api/common"
	"go-shop-api/handler"
	"go-shop-api/model"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-shop-api/docs"
)

// NewRouter assembles all routes. Every protected endpoint is wrapped in the
// authentication middleware plus its own role allow-list; handlers returning
// *common.AppError are adapted by ErrorHandlingMiddleware.
func NewRouter(
	auth *handler.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
) http.Handler {
	mux := http.NewServeMux()

	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError, roles ...model.Role) http.Handler {
		var next http.Handler = handler.ErrorHandlingMiddleware(h)
		if len(roles) > 0 {
			next = handler.RequireRole(roles...)(next)
		}
		return auth.Authenticate(next)
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Auth
	mux.Handle("POST /api/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/auth/logout", protected(authHandler.Logout))
	mux.Handle("POST /api/auth/forgot-password", handler.ErrorHandlingMiddleware(authHandler.ForgotPassword))
	mux.Handle("POST /api/auth/reset-password", handler.ErrorHandlingMiddleware(authHandler.ResetPassword))

	// Users
	mux.Handle("GET /api/users", protected(userHandler.ListUsers, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("POST /api/users", protected(userHandler.CreateUser, model.RoleAdmin))
	mux.Handle("PUT /api/users/{id}", protected(userHandler.UpdateUser, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("DELETE /api/users/{id}", protected(userHandler.DeleteUser, model.RoleAdmin, model.RoleCustomer))

	// Orders
	mux.Handle("GET /api/orders", protected(orderHandler.ListOrders, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("POST /api/orders", protected(orderHandler.CreateOrder, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("PUT /api/orders/{id}", protected(orderHandler.UpdateOrder, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("DELETE /api/orders/{id}", protected(orderHandler.DeleteOrder, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("GET /api/orders/{username}/csv", protected(orderHandler.ExportCSV, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("GET /api/orders/{username}/excel", protected(orderHandler.ExportExcel, model.RoleAdmin, model.RoleCustomer))
	mux.Handle("GET /api/orders/{username}/pdf", protected(orderHandler.ExportPDF, model.RoleAdmin, model.RoleCustomer))

	// Products (public pass-through, as in the catalog's own API)
	mux.Handle("GET /api/products", handler.ErrorHandlingMiddleware(productHandler.ListProducts))
	mux.Handle("GET /api/products/{name}", handler.ErrorHandlingMiddleware(productHandler.GetProductByName))

	mux.Handle("/swagger/", httpSwagger.Handler())

	return handler.RequestLoggingMiddleware(mux)
}
