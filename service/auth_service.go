// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both unknown-user and bad-password
	// logins, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ResetTokenTTL bounds the lifetime of the reset-scoped token issued by the
// forgot-password flow.
const ResetTokenTTL = 15 * time.Minute

// TokenPair is the login response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService orchestrates registration, login, token refresh, logout and the
// password reset flow.
type AuthService struct {
	userRepo    repository.IUserRepository
	tokens      *TokenService
	revocations *RevocationStore
}

func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService, revocations *RevocationStore) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a password against its bcrypt digest. A
// malformed digest is reported as a mismatch, never as an error.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new user with a hashed credential. Duplicate usernames
// and emails surface as repository.ErrDuplicateUsername / ErrDuplicateEmail.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("username", user.Username).Info("User registered")
	return user, nil
}

// Login verifies the credential and, on success, issues an access token with
// the user's role embedded plus a refresh token, persisting the refresh token
// as the user's single live session association.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("username", username).Warn("Failed login attempt")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.CheckPasswordHash(password, user.Password) {
		logger.Log.WithField("username", username).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetRefreshToken(user.ID, &refreshToken); err != nil {
		return nil, err
	}

	logger.Log.WithField("username", user.Username).Info("User logged in successfully")
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Refresh mints a new access token for the holder of a valid refresh token.
// The user is looked up by the stored refresh-token association rather than
// by the token's embedded subject, which binds rotation to the single live
// session: a stale or foreign token matches no user and is rejected. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	return s.tokens.IssueAccessToken(user.Username, user.Role)
}

// Logout clears the user's refresh-token association and revokes the
// presented access token in both revocation tiers. A durable revocation
// failure aborts the logout: success is never reported unless the
// authoritative registry recorded the token.
func (s *AuthService) Logout(ctx context.Context, username, accessToken string) error {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("username", username).Warn("Logout attempt for non-existent user")
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.SetRefreshToken(user.ID, nil); err != nil {
		return err
	}
	if err := s.revocations.MarkRevoked(ctx, accessToken); err != nil {
		return err
	}

	logger.Log.WithField("username", user.Username).Info("User logged out successfully")
	return nil
}

// ForgotPassword issues a narrowly scoped reset token for the account behind
// email: role "reset", 15-minute lifetime, subject set to the email itself.
// Delivery is out of scope; the token is handed back to the caller.
func (s *AuthService) ForgotPassword(email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("email", email).Warn("Password reset requested for non-existent email")
			return "", ErrUserNotFound
		}
		return "", err
	}

	token, err := s.tokens.IssueAccessToken(user.Email, model.RoleReset, ResetTokenTTL)
	if err != nil {
		return "", err
	}

	logger.Log.WithField("email", email).Info("Password reset token generated")
	return token, nil
}

// ResetPassword verifies the reset token, requires its scope to be "reset",
// locates the user by the token's subject email and replaces the credential
// hash. The token is revoked afterwards so it cannot be replayed within its
// 15-minute window.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil || claims.Role != model.RoleReset {
		logger.Log.Warn("Invalid or expired password reset token used")
		return ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("email", claims.Subject).Warn("Password reset attempt for non-existent email")
			return ErrUserNotFound
		}
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		return err
	}

	// Single-use: the credential is already replaced, so a failed revocation
	// only leaves the token to die at its natural expiry.
	if err := s.revocations.MarkRevoked(ctx, token); err != nil {
		logger.Log.WithError(err).Warn("Failed to revoke used password reset token")
	}

	logger.Log.WithField("email", user.Email).Info("Password reset successfully")
	return nil
}
