package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
)

// TicketRepository encapsulates ticket persistence. Scoped reads take a
// prebuilt predicate; the repository never widens or narrows it.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error)
	ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort, limit, offset int) ([]domain.TicketRow, error)
	CountWithPredicate(ctx context.Context, pred query.Predicate) (int, error)
	CountByStatus(ctx context.Context, pred query.Predicate) (domain.StatusCounts, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const stmt = `
        INSERT INTO tickets (subject, description, status, priority, created_by_id, assigned_to_id, assigned_by_id, category_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, stmt,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedByID,
		ticket.AssignedToID,
		ticket.AssignedByID,
		ticket.CategoryID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update never touches created_by_id or created_at.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const stmt = `
        UPDATE tickets SET subject=$1, description=$2, status=$3, priority=$4,
            assigned_to_id=$5, assigned_by_id=$6, category_id=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, stmt,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToID,
		ticket.AssignedByID,
		ticket.CategoryID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const stmt = `
        SELECT id, subject, description, status, priority, created_by_id,
               assigned_to_id, assigned_by_id, category_id, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.AssignedByID,
		&ticket.CategoryID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetDetail loads a ticket with its creator, assignee, assigner and
// category embedded. Comments and attachments are loaded by their own
// repositories.
func (r *ticketRepository) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	const stmt = `
        SELECT t.id, t.subject, t.description, t.status, t.priority, t.created_by_id,
               t.assigned_to_id, t.assigned_by_id, t.category_id, t.created_at, t.updated_at,
               cu.id, cu.external_id, cu.name, cu.email, cu.avatar_url, cu.role, cu.created_at, cu.updated_at,
               au.id, au.external_id, au.name, au.email, au.avatar_url, au.role, au.created_at, au.updated_at,
               bu.id, bu.external_id, bu.name, bu.email, bu.avatar_url, bu.role, bu.created_at, bu.updated_at,
               c.id, c.name, c.created_at, c.updated_at
        FROM tickets t
        JOIN users cu ON cu.id = t.created_by_id
        LEFT JOIN users au ON au.id = t.assigned_to_id
        LEFT JOIN users bu ON bu.id = t.assigned_by_id
        JOIN categories c ON c.id = t.category_id
        WHERE t.id = $1`

	var detail domain.TicketDetail
	var assignee, assigner nullableUser
	if err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&detail.ID,
		&detail.Subject,
		&detail.Description,
		&detail.Status,
		&detail.Priority,
		&detail.CreatedByID,
		&detail.AssignedToID,
		&detail.AssignedByID,
		&detail.CategoryID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.CreatedBy.ID,
		&detail.CreatedBy.ExternalID,
		&detail.CreatedBy.Name,
		&detail.CreatedBy.Email,
		&detail.CreatedBy.AvatarURL,
		&detail.CreatedBy.Role,
		&detail.CreatedBy.CreatedAt,
		&detail.CreatedBy.UpdatedAt,
		&assignee.ID,
		&assignee.ExternalID,
		&assignee.Name,
		&assignee.Email,
		&assignee.AvatarURL,
		&assignee.Role,
		&assignee.CreatedAt,
		&assignee.UpdatedAt,
		&assigner.ID,
		&assigner.ExternalID,
		&assigner.Name,
		&assigner.Email,
		&assigner.AvatarURL,
		&assigner.Role,
		&assigner.CreatedAt,
		&assigner.UpdatedAt,
		&detail.Category.ID,
		&detail.Category.Name,
		&detail.Category.CreatedAt,
		&detail.Category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	detail.AssignedTo = assignee.toUser()
	detail.AssignedBy = assigner.toUser()
	return &detail, nil
}

func (r *ticketRepository) ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort, limit, offset int) ([]domain.TicketRow, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	stmt := fmt.Sprintf(`
        SELECT t.id, t.subject, t.description, t.status, t.priority, t.created_by_id,
               t.assigned_to_id, t.assigned_by_id, t.category_id, t.created_at, t.updated_at,
               cu.id, cu.name, cu.email,
               au.id, au.name, au.email,
               c.id, c.name,
               (SELECT COUNT(*) FROM comments cm WHERE cm.ticket_id = t.id),
               (SELECT COUNT(*) FROM attachments a WHERE a.ticket_id = t.id)
        FROM tickets t
        JOIN users cu ON cu.id = t.created_by_id
        LEFT JOIN users au ON au.id = t.assigned_to_id
        JOIN categories c ON c.id = t.category_id
        %s %s LIMIT %d OFFSET %d`, pred.Where(), sort.OrderBy(), limit, offset)

	rows, err := r.pool.Query(ctx, stmt, pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketRow
	for rows.Next() {
		var row domain.TicketRow
		var assigneeID, assigneeName, assigneeEmail *string
		if err := rows.Scan(
			&row.ID,
			&row.Subject,
			&row.Description,
			&row.Status,
			&row.Priority,
			&row.CreatedByID,
			&row.AssignedToID,
			&row.AssignedByID,
			&row.CategoryID,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.CreatedBy.ID,
			&row.CreatedBy.Name,
			&row.CreatedBy.Email,
			&assigneeID,
			&assigneeName,
			&assigneeEmail,
			&row.Category.ID,
			&row.Category.Name,
			&row.CommentCount,
			&row.AttachmentCount,
		); err != nil {
			return nil, err
		}
		if assigneeID != nil {
			row.AssignedTo = &domain.UserSummary{ID: *assigneeID}
			if assigneeName != nil {
				row.AssignedTo.Name = *assigneeName
			}
			if assigneeEmail != nil {
				row.AssignedTo.Email = *assigneeEmail
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CountWithPredicate counts under the same predicate as the listing so
// pagination totals are exact.
func (r *ticketRepository) CountWithPredicate(ctx context.Context, pred query.Predicate) (int, error) {
	stmt := fmt.Sprintf(`SELECT COUNT(*) FROM tickets t %s`, pred.Where())
	var total int
	if err := r.pool.QueryRow(ctx, stmt, pred.Args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, pred query.Predicate) (domain.StatusCounts, error) {
	stmt := fmt.Sprintf(`SELECT t.status, COUNT(*) FROM tickets t %s GROUP BY t.status`, pred.Where())

	rows, err := r.pool.Query(ctx, stmt, pred.Args...)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status domain.TicketStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, err
		}
		counts.Total += n
		switch status {
		case domain.TicketStatusOpen:
			counts.Open = n
		case domain.TicketStatusInProgress:
			counts.InProgress = n
		case domain.TicketStatusResolved:
			counts.Resolved = n
		case domain.TicketStatusClosed:
			counts.Closed = n
		case domain.TicketStatusArchived:
			counts.Archived = n
		}
	}
	return counts, rows.Err()
}

// nullableUser scans the columns of a LEFT JOINed user row.
type nullableUser struct {
	ID         *string
	ExternalID *string
	Name       *string
	Email      *string
	AvatarURL  *string
	Role       *domain.Role
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

func (n nullableUser) toUser() *domain.User {
	if n.ID == nil {
		return nil
	}
	user := &domain.User{ID: *n.ID}
	if n.ExternalID != nil {
		user.ExternalID = *n.ExternalID
	}
	if n.Name != nil {
		user.Name = *n.Name
	}
	if n.Email != nil {
		user.Email = *n.Email
	}
	if n.AvatarURL != nil {
		user.AvatarURL = *n.AvatarURL
	}
	if n.Role != nil {
		user.Role = *n.Role
	}
	if n.CreatedAt != nil {
		user.CreatedAt = *n.CreatedAt
	}
	if n.UpdatedAt != nil {
		user.UpdatedAt = *n.UpdatedAt
	}
	return user
}
