package handler

import (
	"context"
	"go-shop-api/common"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	SubjectKey     contextKey = "subject"
	UserRoleKey    contextKey = "userRole"
	AccessTokenKey contextKey = "accessToken"
)

// AuthMiddleware resolves the caller's identity from a bearer token and
// enforces per-route role allow-lists. It is constructed once with its
// dependencies and shared across routes; it holds no mutable state.
type AuthMiddleware struct {
	tokens      *service.TokenService
	revocations *service.RevocationStore
}

func NewAuthMiddleware(tokens *service.TokenService, revocations *service.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Authenticate verifies the bearer token's signature, expiry and revocation
// state, then stores the subject, role and raw token in the request context.
// The durable revocation check inside VerifyAccessToken is authoritative; the
// fast-path probe is an optimization whose failure degrades to durable-only.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
			return
		}
		tokenString := headerParts[1]

		claims, err := m.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(w)
			return
		}

		revoked, err := m.revocations.IsRevokedFast(r.Context(), tokenString)
		if err != nil {
			logger.Log.WithError(err).Warn("Fast-path revocation check unavailable, relying on durable registry")
		} else if revoked {
			common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
		ctx = context.WithValue(ctx, AccessTokenKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole enforces that the authenticated caller's role is in the
// allow-list the route declares. A present but disallowed role yields 403,
// distinct from the 401 authentication failures.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(UserRoleKey).(model.Role)
			if !ok || !allowed[role] {
				common.NewAppError(http.StatusForbidden, "Insufficient permissions", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentClaims rebuilds the caller's identity from the request context.
func currentClaims(r *http.Request) (*model.AppClaims, bool) {
	subject, ok := r.Context().Value(SubjectKey).(string)
	if !ok {
		return nil, false
	}
	role, ok := r.Context().Value(UserRoleKey).(model.Role)
	if !ok {
		return nil, false
	}
	claims := &model.AppClaims{Role: role}
	claims.Subject = subject
	return claims, true
}
