package model

import "time"

// Role is the closed set of capability labels a user can hold. The role is
// embedded in every access token at issuance time, so authorization decisions
// reflect the role the user had when the token was minted.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	// RoleReset is a token-only scope used by the password reset flow.
	// It is never stored on a user record.
	RoleReset Role = "reset"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never exposed
	Role     Role   `json:"role"`
	// RefreshToken is the single live refresh token associated with this
	// user. Login overwrites it, logout clears it.
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
