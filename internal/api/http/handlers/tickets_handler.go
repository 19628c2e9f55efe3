package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints across all role areas.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /{area}/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	params := parseTicketQuery(c)
	rows, pagination, err := h.service.List(c.Context(), caller, params)
	if err != nil {
		return err
	}

	items := make([]dto.TicketRowResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ticketRowResponse(&rows[i]))
	}
	return respond(c, http.StatusOK, "Success", dto.TicketListResponse{
		Tickets: items,
		Pagination: dto.PaginationResponse{
			Total:      pagination.Total,
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			TotalPages: pagination.TotalPages,
		},
	})
}

// Dashboard GET /{area}/dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	counts, err := h.service.Stats(c.Context(), caller)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Success", dto.StatsResponse{
		Total:      counts.Total,
		Open:       counts.Open,
		InProgress: counts.InProgress,
		Resolved:   counts.Resolved,
		Closed:     counts.Closed,
		Archived:   counts.Archived,
	})
}

// Get GET /{area}/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Context(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Success", ticketDetailResponse(detail))
}

// Create POST /{area}/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.Context(), caller, service.TicketCreateInput{
		Subject:      req.Subject,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Ticket has been created successfully.", ticketResponse(ticket))
}

// Update PATCH /{area}/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.Context(), caller, c.Params("id"), service.TicketUpdateInput{
		Subject:      req.Subject,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket updated successfully", ticketResponse(ticket))
}

// Delete DELETE /{area}/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), caller, c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ticket has been deleted.", nil)
}

// AddComment POST /{area}/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	caller, err := auth.RequireUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.AddComment(c.Context(), caller, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Comment added", commentResponse(comment))
}

func parseTicketQuery(c *fiber.Ctx) service.ListParams {
	filter := query.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if v := c.Query("assigned_to"); v != "" {
		filter.AssignedToID = &v
	}
	if v := c.Query("category"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("created_by"); v != "" {
		filter.CreatedByID = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	if from := parseTime(c.Query("date_from")); from != nil {
		filter.DateFrom = from
	}
	if to := parseTime(c.Query("date_to")); to != nil {
		filter.DateTo = to
	}

	return service.ListParams{
		Filter:    filter,
		Page:      parseInt(c.Query("page"), service.DefaultPage),
		Limit:     parseInt(c.Query("limit"), service.DefaultLimit),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           ticket.ID,
		Subject:      ticket.Subject,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatedByID:  ticket.CreatedByID,
		AssignedToID: ticket.AssignedToID,
		CategoryID:   ticket.CategoryID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketRowResponse(row *domain.TicketRow) dto.TicketRowResponse {
	resp := dto.TicketRowResponse{
		ID:          row.ID,
		Subject:     row.Subject,
		Description: row.Description,
		Status:      row.Status,
		Priority:    row.Priority,
		CreatedBy:   userSummaryResponse(row.CreatedBy),
		Category: dto.CategorySummaryResponse{
			ID:   row.Category.ID,
			Name: row.Category.Name,
		},
		CommentCount:    row.CommentCount,
		AttachmentCount: row.AttachmentCount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.AssignedTo != nil {
		summary := userSummaryResponse(*row.AssignedTo)
		resp.AssignedTo = &summary
	}
	return resp
}

func ticketDetailResponse(detail *domain.TicketDetail) dto.TicketDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(detail.Comments))
	for i := range detail.Comments {
		comments = append(comments, commentResponse(&detail.Comments[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(detail.Attachments))
	for _, att := range detail.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			FileURL:   att.FileURL,
			CreatedAt: att.CreatedAt,
		})
	}

	resp := dto.TicketDetailResponse{
		ID:          detail.ID,
		Subject:     detail.Subject,
		Description: detail.Description,
		Status:      detail.Status,
		Priority:    detail.Priority,
		CreatedBy:   userResponse(&detail.CreatedBy),
		Category: dto.CategorySummaryResponse{
			ID:   detail.Category.ID,
			Name: detail.Category.Name,
		},
		Comments:    comments,
		Attachments: attachments,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,
	}
	if detail.AssignedTo != nil {
		assignee := userResponse(detail.AssignedTo)
		resp.AssignedTo = &assignee
	}
	if detail.AssignedBy != nil {
		assigner := userResponse(detail.AssignedBy)
		resp.AssignedBy = &assigner
	}
	return resp
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		Author:    userSummaryResponse(comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}
