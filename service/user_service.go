// file: service/user_service.go

package service

import (
	"database/sql"
	"errors"
	"go-shop-api/model"
	"go-shop-api/repository"
)

// ErrPermissionDenied is returned when a valid identity attempts an action on
// a resource it does not own. Distinct from authentication failure.
var ErrPermissionDenied = errors.New("insufficient permissions")

// UserService handles user-related business logic. Role scoping rules: admins
// operate on any user, customers only on themselves.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
}

func NewUserService(userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// ListUsers retrieves users matching the filter. Customers are constrained to
// their own record regardless of the filter they supply.
func (s *UserService) ListUsers(current *model.AppClaims, filter repository.UserFilter) ([]*model.User, error) {
	if current.Role == model.RoleCustomer {
		filter.Username = current.Subject
		filter.Email = ""
	}

	users, err := s.userRepo.ListUsers(filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users, nil
}

// CreateUser registers a user on behalf of an administrator. Route-level
// authorization restricts this to admins.
func (s *UserService) CreateUser(req model.RegisterRequest) (*model.User, error) {
	return s.auth.Register(req)
}

// UpdateUser applies a partial update. Customers may only update themselves
// and may not change roles.
func (s *UserService) UpdateUser(current *model.AppClaims, id int, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if current.Role != model.RoleAdmin && current.Subject != user.Username {
		return nil, ErrPermissionDenied
	}
	if req.Role != nil && current.Role != model.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Customers may only delete themselves.
func (s *UserService) DeleteUser(current *model.AppClaims, id int) error {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if current.Role != model.RoleAdmin && current.Subject != user.Username {
		return ErrPermissionDenied
	}

	return s.userRepo.DeleteUser(user.ID)
}
