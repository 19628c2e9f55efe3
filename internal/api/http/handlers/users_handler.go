package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UsersHandler manages the admin user directory.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	filter := query.UserFilter{}
	if v := c.Query("role"); v != "" {
		role := domain.Role(v)
		filter.Role = &role
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	users, err := h.service.List(c.Context(), caller, service.UserListParams{
		Filter:    filter,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return respond(c, http.StatusOK, "Success", items)
}

// UpdateRole PATCH /admin/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.UpdateRole(c.Context(), caller, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", userResponse(user))
}
