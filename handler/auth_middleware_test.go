// handler/auth_middleware_test.go
package handler

import (
	"context"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *service.TokenService, *service.RevocationStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revoked_tokens.txt")
	store, err := service.NewRevocationStore(path, nil, 30*time.Minute)
	if err != nil {
		t.Fatalf("could not create revocation store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	tokens := service.NewTokenService(store)
	return NewAuthMiddleware(tokens, store), tokens, store
}

// echoIdentity reports the identity the middleware injected.
func echoIdentity(t *testing.T, wantSubject string, wantRole model.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentClaims(r)
		assert.True(t, ok)
		assert.Equal(t, wantSubject, claims.Subject)
		assert.Equal(t, wantRole, claims.Role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token passes identity to the handler", func(t *testing.T) {
		middleware, tokens, _ := newTestAuthMiddleware(t)

		token, err := tokens.IssueAccessToken("alice", model.RoleCustomer)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware.Authenticate(echoIdentity(t, "alice", model.RoleCustomer)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		middleware, _, _ := newTestAuthMiddleware(t)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()

		middleware.Authenticate(forbidReach(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		middleware, _, _ := newTestAuthMiddleware(t)

		for _, header := range []string{"Bearer", "Basic abc", "garbage"} {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			middleware.Authenticate(forbidReach(t)).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		middleware, tokens, _ := newTestAuthMiddleware(t)

		token, err := tokens.IssueAccessToken("alice", model.RoleCustomer, -1*time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware.Authenticate(forbidReach(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		middleware, tokens, store := newTestAuthMiddleware(t)

		token, err := tokens.IssueAccessToken("alice", model.RoleCustomer)
		assert.NoError(t, err)
		assert.NoError(t, store.MarkRevoked(context.Background(), token))

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		middleware.Authenticate(forbidReach(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// forbidReach fails the test if the protected handler is ever invoked.
func forbidReach(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})
}

func TestRequireRole(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withRole := func(req *http.Request, role model.Role) *http.Request {
		ctx := context.WithValue(req.Context(), SubjectKey, "alice")
		ctx = context.WithValue(ctx, UserRoleKey, role)
		return req.WithContext(ctx)
	}

	t.Run("allowed role", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/api/orders", nil), model.RoleCustomer)
		rec := httptest.NewRecorder()

		RequireRole(model.RoleAdmin, model.RoleCustomer)(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodPost, "/api/users", nil), model.RoleCustomer)
		rec := httptest.NewRecorder()

		RequireRole(model.RoleAdmin)(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("reset-scoped token cannot reach protected routes", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/api/orders", nil), model.RoleReset)
		rec := httptest.NewRecorder()

		RequireRole(model.RoleAdmin, model.RoleCustomer)(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no identity in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		RequireRole(model.RoleAdmin)(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
