// service/auth_service_test.go
package service

import (
	"context"
	"database/sql"
	"go-shop-api/model"
	"go-shop-api/repository"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByRefreshToken(token string) (*model.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) ListUsers(filter repository.UserFilter) ([]*model.User, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) UpdateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) UpdatePassword(userID int, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}
func (m *mockUserRepo) SetRefreshToken(userID int, token *string) error {
	args := m.Called(userID, token)
	return args.Error(0)
}
func (m *mockUserRepo) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func newTestAuthService(t *testing.T, repo repository.IUserRepository) (*AuthService, *RevocationStore) {
	t.Helper()
	store := newTestRevocationStore(t)
	tokens := NewTokenService(store)
	return NewAuthService(repo, tokens, store), store
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and verification work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService, _ := newTestAuthService(t, nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, authService.CheckPasswordHash(password, hashedPassword))
	assert.False(t, authService.CheckPasswordHash("notMyPassword", hashedPassword))

	// A malformed digest is a mismatch, never a panic or error.
	assert.False(t, authService.CheckPasswordHash(password, "not-a-bcrypt-digest"))
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success with default role", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "alice" &&
				u.Role == model.RoleCustomer &&
				authService.CheckPasswordHash("password123", u.Password)
		})).Return(nil).Once()

		user, err := authService.Register(model.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		assert.NoError(t, err)
		assert.NotNil(t, user)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate username surfaces as conflict", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("CreateUser", mock.Anything).Return(repository.ErrDuplicateUsername).Once()

		_, err := authService.Register(model.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := (&AuthService{}).HashPassword("password123")
	user := &model.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: hashed, Role: model.RoleCustomer}

	t.Run("success issues pair and stores refresh association", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		var storedRefresh string
		mockRepo.On("GetUserByUsername", "alice").Return(user, nil).Once()
		mockRepo.On("SetRefreshToken", 1, mock.MatchedBy(func(token *string) bool {
			storedRefresh = *token
			return token != nil && *token != ""
		})).Return(nil).Once()

		pair, err := authService.Login("alice", "password123")
		assert.NoError(t, err)
		assert.Equal(t, "bearer", pair.TokenType)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, pair.RefreshToken, storedRefresh)

		// The access token embeds the role held at issuance time.
		claims, err := authService.tokens.VerifyAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, model.RoleCustomer, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user and bad password are indistinguishable", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("GetUserByUsername", "ghost").Return(nil, sql.ErrNoRows).Once()
		_, errUnknown := authService.Login("ghost", "password123")

		mockRepo.On("GetUserByUsername", "alice").Return(user, nil).Once()
		_, errBadPassword := authService.Login("alice", "wrongpassword")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errBadPassword, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", Role: model.RoleCustomer}

	t.Run("mints a new access token for the stored association", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		refreshToken, err := authService.tokens.IssueRefreshToken("alice")
		assert.NoError(t, err)

		mockRepo.On("GetUserByRefreshToken", refreshToken).Return(user, nil).Once()

		accessToken, err := authService.Refresh(refreshToken)
		assert.NoError(t, err)

		claims, err := authService.tokens.VerifyAccessToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, model.RoleCustomer, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stale token matching no stored association is rejected", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		refreshToken, err := authService.tokens.IssueRefreshToken("alice")
		assert.NoError(t, err)

		mockRepo.On("GetUserByRefreshToken", refreshToken).Return(nil, sql.ErrNoRows).Once()

		_, err = authService.Refresh(refreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("garbage token never reaches the repository", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		_, err := authService.Refresh("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockRepo.AssertNotCalled(t, "GetUserByRefreshToken")
	})

	t.Run("concurrent refreshes with the same token both succeed", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		refreshToken, err := authService.tokens.IssueRefreshToken("alice")
		assert.NoError(t, err)

		mockRepo.On("GetUserByRefreshToken", refreshToken).Return(user, nil).Twice()

		var wg sync.WaitGroup
		results := make([]string, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				token, err := authService.Refresh(refreshToken)
				assert.NoError(t, err)
				results[i] = token
			}(i)
		}
		wg.Wait()

		for _, token := range results {
			claims, err := authService.tokens.VerifyAccessToken(token)
			assert.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
		}
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", Role: model.RoleCustomer}

	t.Run("clears association and revokes the access token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, store := newTestAuthService(t, mockRepo)

		accessToken, err := authService.tokens.IssueAccessToken("alice", model.RoleCustomer)
		assert.NoError(t, err)

		mockRepo.On("GetUserByUsername", "alice").Return(user, nil).Once()
		mockRepo.On("SetRefreshToken", 1, (*string)(nil)).Return(nil).Once()

		assert.NoError(t, authService.Logout(context.Background(), "alice", accessToken))
		assert.True(t, store.IsRevoked(accessToken))

		_, err = authService.tokens.VerifyAccessToken(accessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-existent user", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("GetUserByUsername", "ghost").Return(nil, sql.ErrNoRows).Once()

		err := authService.Logout(context.Background(), "ghost", "whatever")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("durable revocation failure aborts the logout", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, store := newTestAuthService(t, mockRepo)

		accessToken, err := authService.tokens.IssueAccessToken("alice", model.RoleCustomer)
		assert.NoError(t, err)

		mockRepo.On("GetUserByUsername", "alice").Return(user, nil).Once()
		mockRepo.On("SetRefreshToken", 1, (*string)(nil)).Return(nil).Once()

		// Closing the store makes the durable append fail.
		assert.NoError(t, store.Close())

		err = authService.Logout(context.Background(), "alice", accessToken)
		assert.Error(t, err, "logout must not report success when the durable write failed")
	})
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", Email: "a@x.com", Role: model.RoleCustomer}

	t.Run("forgot password issues a reset-scoped token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("GetUserByEmail", "a@x.com").Return(user, nil).Once()

		token, err := authService.ForgotPassword("a@x.com")
		assert.NoError(t, err)

		claims, err := authService.tokens.VerifyAccessToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.Equal(t, model.RoleReset, claims.Role)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		mockRepo.On("GetUserByEmail", "ghost@x.com").Return(nil, sql.ErrNoRows).Once()

		_, err := authService.ForgotPassword("ghost@x.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("reset replaces the hash and burns the token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, store := newTestAuthService(t, mockRepo)

		mockRepo.On("GetUserByEmail", "a@x.com").Return(user, nil).Twice()
		mockRepo.On("UpdatePassword", 1, mock.MatchedBy(func(hash string) bool {
			return authService.CheckPasswordHash("newPassword123", hash)
		})).Return(nil).Once()

		token, err := authService.ForgotPassword("a@x.com")
		assert.NoError(t, err)

		assert.NoError(t, authService.ResetPassword(context.Background(), token, "newPassword123"))
		assert.True(t, store.IsRevoked(token), "reset token should be single-use")

		// Replaying the same token fails.
		err = authService.ResetPassword(context.Background(), token, "anotherPassword1")
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("a regular access token cannot reset passwords", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService, _ := newTestAuthService(t, mockRepo)

		token, err := authService.tokens.IssueAccessToken("alice", model.RoleCustomer)
		assert.NoError(t, err)

		err = authService.ResetPassword(context.Background(), token, "newPassword123")
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockRepo.AssertNotCalled(t, "UpdatePassword")
	})
}
