package domain

import "time"

// Comment is a reply attached to a ticket.
type Comment struct {
	ID        string
	TicketID  string
	UserID    string
	Body      string
	Author    UserSummary
	CreatedAt time.Time
}

// Attachment is an uploaded file linked to a ticket. This core only reads
// attachment rows; uploads happen outside of it.
type Attachment struct {
	ID        string
	TicketID  string
	FileName  string
	FileURL   string
	CreatedAt time.Time
}
