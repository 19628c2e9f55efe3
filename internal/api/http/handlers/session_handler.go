package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SessionHandler exposes the current caller's local record.
type SessionHandler struct {
	identity *service.IdentityService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(identity *service.IdentityService) *SessionHandler {
	return &SessionHandler{identity: identity}
}

// Me GET /me. Runs the identity resolver so the local record is created
// on first authenticated contact and refreshed on every later one.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.identity.Sync(c.Context(), principal.Identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User is found", userResponse(user))
}
