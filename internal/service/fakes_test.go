package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
)

// In-memory repository fakes. They honor limit/offset so pagination
// math can be exercised without a store; predicate scoping itself is
// covered by the query package tests, and the fakes record the last
// predicate so service tests can assert it was built and passed along.

type fakeTicketRepo struct {
	rows     []domain.TicketRow
	byID     map[string]*domain.Ticket
	created  []*domain.Ticket
	updated  []*domain.Ticket
	deleted  []string
	lastPred query.Predicate
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.ID = "t-created"
	f.created = append(f.created, ticket)
	f.byID[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := f.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updated = append(f.updated, ticket)
	f.byID[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	ticket, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.TicketDetail{Ticket: *ticket}, nil
}

func (f *fakeTicketRepo) ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort, limit, offset int) ([]domain.TicketRow, error) {
	f.lastPred = pred
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeTicketRepo) CountWithPredicate(ctx context.Context, pred query.Predicate) (int, error) {
	f.lastPred = pred
	return len(f.rows), nil
}

func (f *fakeTicketRepo) CountByStatus(ctx context.Context, pred query.Predicate) (domain.StatusCounts, error) {
	f.lastPred = pred
	counts := domain.StatusCounts{}
	for _, row := range f.rows {
		counts.Total++
		if row.Status == domain.TicketStatusOpen {
			counts.Open++
		}
	}
	return counts, nil
}

type fakeCommentRepo struct {
	created []*domain.Comment
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = "cm-created"
	f.created = append(f.created, comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	return nil, nil
}

type fakeAttachmentRepo struct{}

func (f *fakeAttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	byID    map[string]*domain.Category
	created []*domain.Category
	updated []*domain.Category
	deleted []string
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{byID: map[string]*domain.Category{}}
	for _, category := range categories {
		repo.byID[category.ID] = category
	}
	return repo
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	category.ID = "cat-created"
	f.created = append(f.created, category)
	f.byID[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := f.byID[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updated = append(f.updated, category)
	f.byID[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range f.byID {
		result = append(result, *category)
	}
	return result, nil
}

type fakeUserRepo struct {
	byID        map[string]*domain.User
	byExternal  map[string]*domain.User
	roleUpdates map[string]domain.Role
	lastPred    query.Predicate
	listed      []domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		byID:        map[string]*domain.User{},
		byExternal:  map[string]*domain.User{},
		roleUpdates: map[string]domain.Role{},
	}
	for _, user := range users {
		repo.byID[user.ID] = user
		repo.byExternal[user.ExternalID] = user
	}
	return repo
}

func (f *fakeUserRepo) UpsertByExternalID(ctx context.Context, user *domain.User) error {
	if existing, ok := f.byExternal[user.ExternalID]; ok {
		existing.Name = user.Name
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	user.ID = "u-created"
	user.Role = domain.RoleUser
	f.byID[user.ID] = user
	f.byExternal[user.ExternalID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	user, ok := f.byExternal[externalID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort) ([]domain.User, error) {
	f.lastPred = pred
	return f.listed, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	f.roleUpdates[id] = role
	user.Role = role
	return user, nil
}
