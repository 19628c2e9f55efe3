package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusArchived   TicketStatus = "ARCHIVED"
)

// Valid reports whether the status is one of the known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusArchived:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether the priority is one of the known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. CreatedByID is immutable
// after creation; AssignedToID is set only through an admin caller.
type Ticket struct {
	ID           string
	Subject      string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	CreatedByID  string
	AssignedToID *string
	AssignedByID *string
	CategoryID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary carries the display fields embedded in ticket listings.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// CategorySummary carries the category fields embedded in ticket listings.
type CategorySummary struct {
	ID   string
	Name string
}

// TicketRow is a listing row enriched with relation summaries and
// comment/attachment counts.
type TicketRow struct {
	Ticket
	CreatedBy       UserSummary
	AssignedTo      *UserSummary
	Category        CategorySummary
	CommentCount    int
	AttachmentCount int
}

// TicketDetail is a single ticket with fully embedded relations.
type TicketDetail struct {
	Ticket
	CreatedBy   User
	AssignedTo  *User
	AssignedBy  *User
	Category    Category
	Comments    []Comment
	Attachments []Attachment
}

// StatusCounts aggregates ticket totals per status for dashboards.
type StatusCounts struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
	Closed     int
	Archived   int
}
