// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"go-shop-api/config"
	"go-shop-api/logger"
	"go-shop-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token verification failure: bad
// signature, wrong algorithm, expired, malformed or revoked. Callers never
// learn which, to avoid giving an oracle to attackers.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService signs and verifies access and refresh tokens. Access and
// refresh tokens are signed with distinct keys so a leaked refresh-signing
// capability cannot forge access tokens and vice versa.
type TokenService struct {
	revocations *RevocationStore
}

func NewTokenService(revocations *RevocationStore) *TokenService {
	return &TokenService{revocations: revocations}
}

func getAccessKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func getRefreshKey() []byte {
	return []byte(config.AppConfig.JWT.RefreshSecretKey)
}

func signingMethod() jwt.SigningMethod {
	alg := config.AppConfig.JWT.Algorithm
	if alg == "" {
		alg = "HS256"
	}
	return jwt.GetSigningMethod(alg)
}

// AccessTokenTTL returns the configured access-token lifetime. The revocation
// fast path reuses it so entries expire once the token would be dead anyway.
func AccessTokenTTL() time.Duration {
	return time.Duration(config.AppConfig.JWT.AccessTokenExpireMinutes) * time.Minute
}

// IssueAccessToken signs an access token for subject carrying the role and an
// absolute expiry. The optional ttl overrides the configured lifetime; the
// password-reset flow uses it for its 15-minute reset-scoped token.
func (s *TokenService) IssueAccessToken(subject string, role model.Role, ttl ...time.Duration) (string, error) {
	lifetime := AccessTokenTTL()
	if len(ttl) > 0 {
		lifetime = ttl[0]
	}

	now := time.Now().UTC()
	claims := &model.AppClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(signingMethod(), claims)
	tokenString, err := token.SignedString(getAccessKey())
	if err != nil {
		logger.Log.WithError(err).WithField("subject", subject).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// IssueRefreshToken signs a refresh token for subject with the configured
// lifetime in days, using the refresh signing key.
func (s *TokenService) IssueRefreshToken(subject string) (string, error) {
	now := time.Now().UTC()
	lifetime := time.Duration(config.AppConfig.JWT.RefreshTokenExpireDays) * 24 * time.Hour

	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(signingMethod(), claims)
	tokenString, err := token.SignedString(getRefreshKey())
	if err != nil {
		logger.Log.WithError(err).WithField("subject", subject).Error("Failed to sign refresh token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// VerifyAccessToken checks the durable revocation set, the signature and the
// expiry. Any failure yields ErrInvalidToken, never a partial result.
func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	if s.revocations != nil && s.revocations.IsRevoked(tokenString) {
		return nil, ErrInvalidToken
	}
	claims := &model.AppClaims{}
	if err := parseInto(tokenString, claims, getAccessKey()); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry only. Refresh tokens are not
// subject to the revocation registry; they are invalidated structurally by
// overwriting or clearing the stored association on the user record.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	if err := parseInto(tokenString, claims, getRefreshKey()); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenString string, claims jwt.Claims, key []byte) error {
	expected := signingMethod()
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != expected.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
