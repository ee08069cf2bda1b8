package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/query"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/utils"
)

// UserService owns the admin-facing user management operations.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// List executes a query-string read plan against users. Password
// hashes and refresh tokens never appear in the output: they are not
// part of the user query schema.
func (s *UserService) List(ctx context.Context, values url.Values) ([]map[string]any, error) {
	plan, err := query.Parse(values, repository.UserSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	users, err := s.users.FindMany(ctx, plan)
	if err != nil {
		return nil, err
	}

	return plan.Project(users)
}

// Update applies a partial update. Passwords are not updatable here;
// there is deliberately no password field on the request.
func (s *UserService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != "" {
		if !utils.ValidateEmail(*req.Email) {
			return nil, fmt.Errorf("%w: email is invalid", ErrValidation)
		}
		user.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		if *req.Role != domain.RoleCustomer && *req.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
