package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the claim set carried by every token this API issues. Subject
// holds the username for regular tokens and the email for reset tokens.
type AppClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
