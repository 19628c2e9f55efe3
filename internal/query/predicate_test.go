package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildTicketPredicateRoleScoping(t *testing.T) {
	user := Caller{ID: "u-1", Role: domain.RoleUser}
	agent := Caller{ID: "a-1", Role: domain.RoleAgent}
	admin := Caller{ID: "adm-1", Role: domain.RoleAdmin}

	p := BuildTicketPredicate(user, TicketFilter{})
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, "t.created_by_id = $1", p.Clauses[0])
	assert.Equal(t, []any{"u-1"}, p.Args)

	p = BuildTicketPredicate(agent, TicketFilter{})
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, "t.assigned_to_id = $1", p.Clauses[0])
	assert.Equal(t, []any{"a-1"}, p.Args)

	p = BuildTicketPredicate(admin, TicketFilter{})
	assert.Empty(t, p.Clauses)
	assert.Empty(t, p.Args)
	assert.Equal(t, "", p.Where())
}

func TestBuildTicketPredicateScopeNotOverridable(t *testing.T) {
	// A forged assignee filter narrows a USER's scope, never widens it:
	// the role clause stays first and is always ANDed in.
	caller := Caller{ID: "u-1", Role: domain.RoleUser}
	p := BuildTicketPredicate(caller, TicketFilter{AssignedToID: strPtr("someone-else")})

	require.Len(t, p.Clauses, 2)
	assert.Equal(t, "t.created_by_id = $1", p.Clauses[0])
	assert.Equal(t, "WHERE t.created_by_id = $1 AND t.assigned_to_id = $2", p.Where())
}

func TestBuildTicketPredicateCreatedByAdminOnly(t *testing.T) {
	filter := TicketFilter{CreatedByID: strPtr("target-user")}

	admin := BuildTicketPredicate(Caller{ID: "adm-1", Role: domain.RoleAdmin}, filter)
	require.Len(t, admin.Clauses, 1)
	assert.Equal(t, "t.created_by_id = $1", admin.Clauses[0])
	assert.Equal(t, []any{"target-user"}, admin.Args)

	// Silently ignored for non-admin callers, not an error.
	user := BuildTicketPredicate(Caller{ID: "u-1", Role: domain.RoleUser}, filter)
	require.Len(t, user.Clauses, 1)
	assert.Equal(t, []any{"u-1"}, user.Args)

	agent := BuildTicketPredicate(Caller{ID: "a-1", Role: domain.RoleAgent}, filter)
	require.Len(t, agent.Clauses, 1)
	assert.Equal(t, []any{"a-1"}, agent.Args)
}

func TestBuildTicketPredicateMultiValuedFilters(t *testing.T) {
	caller := Caller{ID: "adm-1", Role: domain.RoleAdmin}
	p := BuildTicketPredicate(caller, TicketFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		Priorities: []domain.TicketPriority{domain.TicketPriorityHigh},
	})

	require.Len(t, p.Clauses, 2)
	assert.Equal(t, "t.status IN ($1,$2)", p.Clauses[0])
	assert.Equal(t, "t.priority IN ($3)", p.Clauses[1])
	assert.Equal(t, []any{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketPriorityHigh,
	}, p.Args)
}

func TestBuildTicketPredicateSearch(t *testing.T) {
	caller := Caller{ID: "adm-1", Role: domain.RoleAdmin}

	p := BuildTicketPredicate(caller, TicketFilter{Search: strPtr("LOGIN")})
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, "(LOWER(t.subject) LIKE $1 OR LOWER(t.description) LIKE $1)", p.Clauses[0])
	assert.Equal(t, []any{"%login%"}, p.Args)

	// Lowercase and padded input produce the same pattern.
	p = BuildTicketPredicate(caller, TicketFilter{Search: strPtr("  login ")})
	assert.Equal(t, []any{"%login%"}, p.Args)

	// Blank search is dropped.
	p = BuildTicketPredicate(caller, TicketFilter{Search: strPtr("   ")})
	assert.Empty(t, p.Clauses)
}

func TestBuildTicketPredicateDateRange(t *testing.T) {
	caller := Caller{ID: "adm-1", Role: domain.RoleAdmin}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	p := BuildTicketPredicate(caller, TicketFilter{DateFrom: &from, DateTo: &to})
	require.Len(t, p.Clauses, 2)
	assert.Equal(t, "t.created_at >= $1", p.Clauses[0])
	assert.Equal(t, "t.created_at <= $2", p.Clauses[1])
	assert.Equal(t, []any{from, to}, p.Args)

	p = BuildTicketPredicate(caller, TicketFilter{DateFrom: &from})
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, "t.created_at >= $1", p.Clauses[0])
}

func TestBuildTicketPredicateDeterministic(t *testing.T) {
	caller := Caller{ID: "u-9", Role: domain.RoleUser}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	filter := TicketFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen},
		CategoryID: strPtr("cat-1"),
		Search:     strPtr("printer"),
		DateFrom:   &from,
	}

	first := BuildTicketPredicate(caller, filter)
	second := BuildTicketPredicate(caller, filter)
	assert.Equal(t, first, second)
}

func TestBuildTicketPredicateComposition(t *testing.T) {
	caller := Caller{ID: "a-2", Role: domain.RoleAgent}
	p := BuildTicketPredicate(caller, TicketFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen},
		CategoryID: strPtr("cat-7"),
		Search:     strPtr("vpn"),
	})

	assert.Equal(t,
		"WHERE t.assigned_to_id = $1 AND t.status IN ($2) AND t.category_id = $3"+
			" AND (LOWER(t.subject) LIKE $4 OR LOWER(t.description) LIKE $4)",
		p.Where())
	assert.Equal(t, []any{"a-2", domain.TicketStatusOpen, "cat-7", "%vpn%"}, p.Args)
}

func TestBuildUserPredicateExcludesCaller(t *testing.T) {
	caller := Caller{ID: "adm-1", Role: domain.RoleAdmin}

	p := BuildUserPredicate(caller, UserFilter{})
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, "u.id <> $1", p.Clauses[0])
	assert.Equal(t, []any{"adm-1"}, p.Args)

	role := domain.RoleAgent
	p = BuildUserPredicate(caller, UserFilter{Role: &role, Search: strPtr("Smith")})
	require.Len(t, p.Clauses, 3)
	assert.Equal(t, "u.role = $2", p.Clauses[1])
	assert.Equal(t, "(LOWER(u.name) LIKE $3 OR LOWER(u.email) LIKE $3)", p.Clauses[2])
	assert.Equal(t, []any{"adm-1", domain.RoleAgent, "%smith%"}, p.Args)
}

func TestSortWhitelist(t *testing.T) {
	assert.Equal(t, "ORDER BY t.created_at DESC", TicketSort("createdAt", "desc").OrderBy())
	assert.Equal(t, "ORDER BY t.priority ASC", TicketSort("priority", "asc").OrderBy())
	assert.Equal(t, "ORDER BY t.status DESC", TicketSort("status", "").OrderBy())

	// Unknown fields and directions fall back to created_at DESC.
	assert.Equal(t, "ORDER BY t.created_at DESC", TicketSort("id; DROP TABLE tickets", "sideways").OrderBy())
	assert.Equal(t, "ORDER BY u.created_at DESC", UserSort("role", "desc").OrderBy())
}
