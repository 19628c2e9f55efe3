package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CategoriesHandler manages category endpoints.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// List GET /{area}/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	categories, err := h.service.List(c.Context(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return respond(c, http.StatusOK, "Success", items)
}

// Get GET /{area}/categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	category, err := h.service.Get(c.Context(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Success", categoryResponse(category))
}

// Create POST /admin/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.service.Create(c.Context(), caller, req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Category created successfully", categoryResponse(category))
}

// Update PATCH /admin/categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.service.Update(c.Context(), caller, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Category has been updated", categoryResponse(category))
}

// Delete DELETE /admin/categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), caller, c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Category has been deleted.", nil)
}
