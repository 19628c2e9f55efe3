package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/query"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Listing defaults mirroring the dashboard tables.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TicketService coordinates scoped ticket reads and guarded mutations.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	CategoryRepo   repository.CategoryRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Pagination describes a result page.
type Pagination struct {
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ListParams carries listing parameters alongside the filter set.
type ListParams struct {
	Filter    query.TicketFilter
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Subject      string
	Description  string
	CategoryID   string
	Priority     domain.TicketPriority
	AssignedToID *string
}

// TicketUpdateInput describes the ticket update payload.
type TicketUpdateInput struct {
	Subject      string
	Description  string
	CategoryID   string
	Priority     domain.TicketPriority
	Status       *domain.TicketStatus
	AssignedToID *string
}

// List returns a paginated, sorted page of tickets visible to the
// caller. The total is counted under the same predicate as the rows, so
// totalPages is exact and pages past the end come back empty with an
// unchanged total.
func (s *TicketService) List(ctx context.Context, caller *domain.User, params ListParams) ([]domain.TicketRow, Pagination, error) {
	if caller == nil {
		return nil, Pagination{}, apperrors.NewUnauthorized("authentication required")
	}

	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	pred := query.BuildTicketPredicate(callerOf(caller), params.Filter)
	sort := query.TicketSort(params.SortBy, params.SortOrder)
	offset := (page - 1) * limit

	rows, err := s.tickets.ListWithPredicate(ctx, pred, sort, limit, offset)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	total, err := s.tickets.CountWithPredicate(ctx, pred)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}

	return rows, Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Stats aggregates ticket counts per status within the caller's scope.
func (s *TicketService) Stats(ctx context.Context, caller *domain.User) (domain.StatusCounts, error) {
	if caller == nil {
		return domain.StatusCounts{}, apperrors.NewUnauthorized("authentication required")
	}
	pred := query.BuildTicketPredicate(callerOf(caller), query.TicketFilter{})
	counts, err := s.tickets.CountByStatus(ctx, pred)
	if err != nil {
		return domain.StatusCounts{}, apperrors.MapError(err)
	}
	return counts, nil
}

// Get fetches a single ticket with nested relations, enforcing the
// caller's scope on the fetched record.
func (s *TicketService) Get(ctx context.Context, caller *domain.User, ticketID string) (*domain.TicketDetail, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticket id is required", nil)
	}

	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !callerCanSee(caller, &detail.Ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, detail.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, detail.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail.Comments = comments
	detail.Attachments = attachments
	return detail, nil
}

// Create opens a new ticket. Any authenticated caller may create;
// AssignedToID is persisted only when the caller is an admin and is
// silently dropped otherwise.
func (s *TicketService) Create(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if err := validateTicketFields(input.Subject, input.Description, input.CategoryID, input.Priority); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		CreatedByID: caller.ID,
		CategoryID:  input.CategoryID,
	}
	if caller.Role == domain.RoleAdmin && input.AssignedToID != nil {
		if err := s.ensureUserExists(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
		ticket.AssignedToID = input.AssignedToID
		assignedBy := caller.ID
		ticket.AssignedByID = &assignedBy
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			Subject:    ticket.Subject,
			Priority:   ticket.Priority,
			CategoryID: ticket.CategoryID,
			AssignedTo: ticket.AssignedToID,
		},
	})
	return ticket, nil
}

// Update edits a ticket the caller can reach through a scoped fetch.
// Subject, description, category and priority are open to any in-scope
// caller; assignment follows the same admin-only rule as Create, with
// non-admin values silently ignored and the existing assignment kept.
func (s *TicketService) Update(ctx context.Context, caller *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticket id is required", nil)
	}
	if err := validateTicketFields(input.Subject, input.Description, input.CategoryID, input.Priority); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !callerCanSee(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	wasAssignedTo := ticket.AssignedToID
	ticket.Subject = strings.TrimSpace(input.Subject)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.CategoryID = input.CategoryID
	ticket.Priority = input.Priority
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if caller.Role == domain.RoleAdmin {
		if input.AssignedToID != nil {
			if err := s.ensureUserExists(ctx, *input.AssignedToID); err != nil {
				return nil, err
			}
			assignedBy := caller.ID
			ticket.AssignedToID = input.AssignedToID
			ticket.AssignedByID = &assignedBy
		} else {
			ticket.AssignedToID = nil
			ticket.AssignedByID = nil
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketUpdatedPayload{
			Subject:  ticket.Subject,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	if ticket.AssignedToID != nil && (wasAssignedTo == nil || *wasAssignedTo != *ticket.AssignedToID) {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload: events.TicketAssignedPayload{
				AssignedTo: *ticket.AssignedToID,
				AssignedBy: caller.ID,
			},
		})
	}
	return ticket, nil
}

// Delete removes a ticket. Admins may delete any ticket, creators their
// own; nobody else.
func (s *TicketService) Delete(ctx context.Context, caller *domain.User, ticketID string) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id is required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return apperrors.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && ticket.CreatedByID != caller.ID {
		return apperrors.NewForbidden("access denied")
	}

	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		ActorID:  caller.ID,
	})
	return nil
}

// AddComment appends a comment to a ticket the caller can see.
func (s *TicketService) AddComment(ctx context.Context, caller *domain.User, ticketID, body string) (*domain.Comment, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !callerCanSee(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		UserID:   caller.ID,
		Body:     strings.TrimSpace(body),
		Author:   domain.UserSummary{ID: caller.ID, Name: caller.Name, Email: caller.Email},
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCommentAddedPayload{
			CommentID: comment.ID,
			AuthorID:  caller.ID,
		},
	})
	return comment, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *TicketService) ensureCategoryExists(ctx context.Context, categoryID string) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown category", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) ensureUserExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown assignee", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func validateTicketFields(subject, description, categoryID string, priority domain.TicketPriority) error {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(description) == "" || categoryID == "" || priority == "" {
		return apperrors.NewValidationError("subject, description, category and priority are required", nil)
	}
	if !priority.Valid() {
		return apperrors.NewValidationError("invalid priority", nil)
	}
	return nil
}

// callerOf adapts a user record to the predicate caller identity.
func callerOf(user *domain.User) query.Caller {
	return query.Caller{ID: user.ID, Role: user.Role}
}

// callerCanSee mirrors the predicate's role scope for a single record:
// users see tickets they created, agents tickets assigned to them,
// admins everything.
func callerCanSee(caller *domain.User, ticket *domain.Ticket) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return ticket.AssignedToID != nil && *ticket.AssignedToID == caller.ID
	default:
		return ticket.CreatedByID == caller.ID
	}
}
