package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CategoryService manages ticket categories. All mutations are
// admin-only and checked before the store is touched.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func requireAdmin(caller *domain.User) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if caller.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < 3 || len(name) > 50 {
		return "", apperrors.NewValidationError("category name must be 3-50 characters", nil)
	}
	return name, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, caller *domain.User, name string) (*domain.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, caller *domain.User, id, name string) (*domain.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.NewValidationError("category id is required", nil)
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if id == "" {
		return apperrors.NewValidationError("category id is required", nil)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all categories for any authenticated caller.
func (s *CategoryService) List(ctx context.Context, caller *domain.User) ([]domain.Category, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Category, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if id == "" {
		return nil, apperrors.NewValidationError("category id is required", nil)
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}
