package query

import "strings"

// Sort is a whitelisted ORDER BY target. Unknown inputs fall back to
// the default so caller-supplied sort fields can never reach the SQL
// text unchecked.
type Sort struct {
	Column    string
	Direction string
}

var ticketSortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"priority":  "t.priority",
	"status":    "t.status",
}

var userSortColumns = map[string]string{
	"createdAt": "u.created_at",
	"updatedAt": "u.updated_at",
}

// TicketSort resolves a ticket sort request, defaulting to newest first.
func TicketSort(sortBy, sortOrder string) Sort {
	column, ok := ticketSortColumns[sortBy]
	if !ok {
		column = ticketSortColumns["createdAt"]
	}
	return Sort{Column: column, Direction: direction(sortOrder)}
}

// UserSort resolves a user sort request, defaulting to newest first.
func UserSort(sortBy, sortOrder string) Sort {
	column, ok := userSortColumns[sortBy]
	if !ok {
		column = userSortColumns["createdAt"]
	}
	return Sort{Column: column, Direction: direction(sortOrder)}
}

// OrderBy renders the ORDER BY fragment.
func (s Sort) OrderBy() string {
	return "ORDER BY " + s.Column + " " + s.Direction
}

func direction(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}
