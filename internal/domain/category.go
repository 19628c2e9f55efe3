package domain

import "time"

// Category groups tickets by topic. Name is unique, 3-50 characters.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
