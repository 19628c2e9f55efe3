package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// IdentityService maps externally authenticated sessions to local user
// records.
type IdentityService struct {
	users repository.UserRepository
}

// NewIdentityService constructs the service.
func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Sync upserts the local record for an identity: created on first sight,
// name and avatar refreshed on every later one.
func (s *IdentityService) Sync(ctx context.Context, identity auth.Identity) (*domain.User, error) {
	if strings.TrimSpace(identity.ExternalID) == "" {
		return nil, apperrors.NewUnauthorized("missing external identity")
	}

	user := &domain.User{
		ExternalID: identity.ExternalID,
		Name:       strings.TrimSpace(identity.Name),
		Email:      identity.Email,
		AvatarURL:  identity.AvatarURL,
	}
	if err := s.users.UpsertByExternalID(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Current returns the local record for an identity, without creating it.
func (s *IdentityService) Current(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
