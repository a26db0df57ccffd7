package handler

import (
	"encoding/json"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account with a hashed password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  model.User
// @Failure      409  {object}  common.AppError
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.authService.Register(req)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Rotate the access token
// @Description  Mints a new access token for a valid refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest true "Refresh payload"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	accessToken, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
	return nil
}

// Logout godoc
// @Summary      Log out the current session
// @Description  Clears the refresh association and revokes the presented access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	subject, ok := r.Context().Value(SubjectKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid subject in token", nil)
	}
	accessToken, ok := r.Context().Value(AccessTokenKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid token in context", nil)
	}

	if err := h.authService.Logout(r.Context(), subject, accessToken); err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Successfully logged out"})
	return nil
}

// ForgotPassword godoc
// @Summary      Request a password reset token
// @Description  Issues a reset-scoped token for the account behind the email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.ForgotPasswordRequest true "Forgot password payload"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ForgotPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	token, err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		return serviceError(err)
	}

	// Demonstration-grade: a production deployment would email the token
	// instead of returning it.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Use this token to reset your password",
		"token":   token,
	})
	return nil
}

// ResetPassword godoc
// @Summary      Complete a password reset
// @Description  Verifies the reset token and replaces the stored password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.ResetPasswordRequest true "Reset password payload"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password reset successfully"})
	return nil
}
