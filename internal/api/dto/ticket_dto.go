package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	CategoryID   string                `json:"category_id"`
	Priority     domain.TicketPriority `json:"priority"`
	AssignedToID *string               `json:"assigned_to_id,omitempty"`
}

// UpdateTicketRequest is the ticket update payload.
type UpdateTicketRequest struct {
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	CategoryID   string                `json:"category_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       *domain.TicketStatus  `json:"status,omitempty"`
	AssignedToID *string               `json:"assigned_to_id,omitempty"`
}

// CreateCommentRequest is the comment payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// UserSummaryResponse embeds reduced user fields in listings.
type UserSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CategorySummaryResponse embeds reduced category fields in listings.
type CategorySummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TicketRowResponse is a single listing row.
type TicketRowResponse struct {
	ID              string                  `json:"id"`
	Subject         string                  `json:"subject"`
	Description     string                  `json:"description"`
	Status          domain.TicketStatus     `json:"status"`
	Priority        domain.TicketPriority   `json:"priority"`
	CreatedBy       UserSummaryResponse     `json:"created_by"`
	AssignedTo      *UserSummaryResponse    `json:"assigned_to,omitempty"`
	Category        CategorySummaryResponse `json:"category"`
	CommentCount    int                     `json:"comment_count"`
	AttachmentCount int                     `json:"attachment_count"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// PaginationResponse carries page metadata.
type PaginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// TicketListResponse is the data payload of a ticket listing.
type TicketListResponse struct {
	Tickets    []TicketRowResponse `json:"tickets"`
	Pagination PaginationResponse  `json:"pagination"`
}

// CommentResponse is a single comment on a ticket detail.
type CommentResponse struct {
	ID        string              `json:"id"`
	Body      string              `json:"body"`
	Author    UserSummaryResponse `json:"author"`
	CreatedAt time.Time           `json:"created_at"`
}

// AttachmentResponse is a single attachment on a ticket detail.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDetailResponse is a single ticket with nested relations.
type TicketDetailResponse struct {
	ID          string                  `json:"id"`
	Subject     string                  `json:"subject"`
	Description string                  `json:"description"`
	Status      domain.TicketStatus     `json:"status"`
	Priority    domain.TicketPriority   `json:"priority"`
	CreatedBy   UserResponse            `json:"created_by"`
	AssignedTo  *UserResponse           `json:"assigned_to,omitempty"`
	AssignedBy  *UserResponse           `json:"assigned_by,omitempty"`
	Category    CategorySummaryResponse `json:"category"`
	Comments    []CommentResponse       `json:"comments"`
	Attachments []AttachmentResponse    `json:"attachments"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// TicketResponse is the payload returned from ticket mutations.
type TicketResponse struct {
	ID           string                `json:"id"`
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatedByID  string                `json:"created_by_id"`
	AssignedToID *string               `json:"assigned_to_id,omitempty"`
	CategoryID   string                `json:"category_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// StatsResponse aggregates ticket totals per status.
type StatsResponse struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Archived   int `json:"archived"`
}
