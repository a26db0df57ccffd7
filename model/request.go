// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin customer"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token presented to mint a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow for an email address.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateUserRequest defines the payload for partially updating a user.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin customer"`
}

// CreateOrderRequest defines the payload for placing an order. The product is
// referenced by its catalog title and resolved through the catalog client.
type CreateOrderRequest struct {
	CustomerUsername string `json:"customer_username" validate:"required"`
	Product          string `json:"product" validate:"required"`
	Quantity         int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderRequest defines the payload for changing an order's quantity.
type UpdateOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
