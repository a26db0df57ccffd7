package handler

import (
	"encoding/json"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/repository"
	"go-shop-api/service"
	"net/http"
	"strconv"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// parsePaging reads skip/limit query parameters with the API's defaults.
func parsePaging(r *http.Request) (int, int) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

// ListUsers godoc
// @Summary      List users
// @Description  Lists users with optional id/username/email filters. Customers only see themselves.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id query int false "Filter by ID"
// @Param        username query string false "Filter by username"
// @Param        email query string false "Filter by email"
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200  {array}   model.User
// @Failure      404  {object}  common.AppError
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	skip, limit := parsePaging(r)
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	filter := repository.UserFilter{
		ID:       id,
		Username: r.URL.Query().Get("username"),
		Email:    r.URL.Query().Get("email"),
		Skip:     skip,
		Limit:    limit,
	}

	users, err := h.userService.ListUsers(current, filter)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
	return nil
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Admin-only creation of a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.RegisterRequest true "User payload"
// @Success      201  {object}  model.User
// @Failure      409  {object}  common.AppError
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Partial update. Customers may only update themselves and never their role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body model.UpdateUserRequest true "Update payload"
// @Success      200  {object}  model.User
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.UpdateUser(current, id, req)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Customers may only delete themselves.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID", nil)
	}

	if err := h.userService.DeleteUser(current, id); err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"detail": "User deleted successfully"})
	return nil
}
