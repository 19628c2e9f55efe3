package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Caller identifies the authenticated actor a predicate is scoped to.
type Caller struct {
	ID   string
	Role domain.Role
}

// TicketFilter captures the optional ticket listing parameters. Absent
// fields contribute nothing to the predicate.
type TicketFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	AssignedToID *string
	CategoryID   *string
	CreatedByID  *string
	Search       *string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// UserFilter captures the optional user listing parameters.
type UserFilter struct {
	Role   *domain.Role
	Search *string
}

// Predicate is an ordered conjunction of SQL clauses with positional
// arguments, ready to be appended to a SELECT over the aliased table.
// Building one performs no I/O; identical inputs yield identical output.
type Predicate struct {
	Clauses []string
	Args    []any
}

// Where renders the predicate as a WHERE fragment, or an empty string
// when nothing restricts the read.
func (p Predicate) Where() string {
	if len(p.Clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Clauses, " AND ")
}

func (p *Predicate) add(format string, args ...any) {
	placeholders := make([]any, 0, len(args))
	for _, arg := range args {
		p.Args = append(p.Args, arg)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(p.Args)))
	}
	p.Clauses = append(p.Clauses, fmt.Sprintf(format, placeholders...))
}

func (p *Predicate) addIn(column string, values []any) {
	placeholders := make([]string, len(values))
	for i, v := range values {
		p.Args = append(p.Args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(p.Args))
	}
	p.Clauses = append(p.Clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")))
}

// BuildTicketPredicate composes the scoped WHERE clause for ticket reads.
// The role clause comes first and cannot be widened by any filter: USER
// callers see only tickets they created, AGENT callers only tickets
// assigned to them, ADMIN callers see everything. Filter clauses are
// ANDed onto the role clause; multi-valued status/priority use IN
// semantics. The CreatedByID filter is honored only for ADMIN callers
// and silently ignored otherwise. Clauses reference the ticket table
// through alias "t".
func BuildTicketPredicate(caller Caller, filter TicketFilter) Predicate {
	var p Predicate

	switch caller.Role {
	case domain.RoleUser:
		p.add("t.created_by_id = %s", caller.ID)
	case domain.RoleAgent:
		p.add("t.assigned_to_id = %s", caller.ID)
	}

	if len(filter.Statuses) > 0 {
		values := make([]any, len(filter.Statuses))
		for i, s := range filter.Statuses {
			values[i] = s
		}
		p.addIn("t.status", values)
	}
	if len(filter.Priorities) > 0 {
		values := make([]any, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			values[i] = pr
		}
		p.addIn("t.priority", values)
	}
	if filter.AssignedToID != nil {
		p.add("t.assigned_to_id = %s", *filter.AssignedToID)
	}
	if filter.CategoryID != nil {
		p.add("t.category_id = %s", *filter.CategoryID)
	}
	if filter.CreatedByID != nil && caller.Role == domain.RoleAdmin {
		p.add("t.created_by_id = %s", *filter.CreatedByID)
	}
	if filter.DateFrom != nil {
		p.add("t.created_at >= %s", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		p.add("t.created_at <= %s", *filter.DateTo)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		p.Args = append(p.Args, search)
		placeholder := fmt.Sprintf("$%d", len(p.Args))
		p.Clauses = append(p.Clauses, fmt.Sprintf(
			"(LOWER(t.subject) LIKE %s OR LOWER(t.description) LIKE %s)", placeholder, placeholder))
	}

	return p
}

// BuildUserPredicate composes the WHERE clause for admin user listings.
// The caller is always excluded from the result set so the role editing
// screen can never offer self-promotion or self-demotion. Clauses
// reference the user table through alias "u".
func BuildUserPredicate(caller Caller, filter UserFilter) Predicate {
	var p Predicate

	p.add("u.id <> %s", caller.ID)

	if filter.Role != nil {
		p.add("u.role = %s", *filter.Role)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		p.Args = append(p.Args, search)
		placeholder := fmt.Sprintf("$%d", len(p.Args))
		p.Clauses = append(p.Clauses, fmt.Sprintf(
			"(LOWER(u.name) LIKE %s OR LOWER(u.email) LIKE %s)", placeholder, placeholder))
	}

	return p
}
