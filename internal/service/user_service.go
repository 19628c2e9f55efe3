package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UserService exposes the admin user directory.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserListParams carries user listing parameters.
type UserListParams struct {
	Filter    query.UserFilter
	SortBy    string
	SortOrder string
}

// List returns users visible to an admin. The caller is always excluded
// from the result set.
func (s *UserService) List(ctx context.Context, caller *domain.User, params UserListParams) ([]domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	pred := query.BuildUserPredicate(query.Caller{ID: caller.ID, Role: caller.Role}, params.Filter)
	sort := query.UserSort(params.SortBy, params.SortOrder)
	users, err := s.users.ListWithPredicate(ctx, pred, sort)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateRole changes a user's role. Only admins may do this, and never
// on themselves: the listable set already excludes the caller, and the
// mutation re-checks the target so a crafted request cannot self-promote
// or self-demote.
func (s *UserService) UpdateRole(ctx context.Context, caller *domain.User, targetID string, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if targetID == "" {
		return nil, apperrors.NewValidationError("user id is required", nil)
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", nil)
	}
	if targetID == caller.ID {
		return nil, apperrors.NewForbidden("cannot change own role")
	}

	user, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
