package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. User is nil when the
// identity provider has asserted the session but no local record exists
// yet; the gate lets such requests through and the identity resolver
// materializes the record on the /me path.
type Principal struct {
	Identity Identity
	User     *domain.User
}

// Middleware resolves bearer tokens into principals. Requests without a
// valid token simply carry no principal; the route gate decides what
// that means for the requested path.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle loads the principal for the request, if any.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	identity, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return c.Next()
	}

	principal := &Principal{Identity: identity}

	user, err := m.users.GetByExternalID(c.Context(), identity.ExternalID)
	switch {
	case err == nil:
		principal.User = user
	case errors.Is(err, pgx.ErrNoRows):
		// First contact: authenticated upstream but not yet synced locally.
	default:
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SetPrincipal stores a principal on the request. Exposed for tests that
// exercise gate and handler behavior without minting tokens.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// RequireUser returns the caller's local user record or an
// authentication error when there is none.
func RequireUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if principal.User == nil {
		return nil, apperrors.NewUnauthorized("user record not yet provisioned")
	}
	return principal.User, nil
}
