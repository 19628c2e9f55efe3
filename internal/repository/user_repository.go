package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/query"
)

// UserRepository defines persistence access for user records.
type UserRepository interface {
	UpsertByExternalID(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, external_id, name, email, avatar_url, role, created_at, updated_at`

// UpsertByExternalID creates the record on first contact and refreshes
// name and avatar on every later one. external_id and email never change
// through this path.
func (r *userRepository) UpsertByExternalID(ctx context.Context, user *domain.User) error {
	const stmt = `
        INSERT INTO users (external_id, name, email, avatar_url)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (external_id) DO UPDATE
            SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
        RETURNING id, email, role, created_at, updated_at`

	return r.pool.QueryRow(ctx, stmt,
		user.ExternalID,
		user.Name,
		user.Email,
		user.AvatarURL,
	).Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE external_id=$1`, externalID)
}

func (r *userRepository) fetchSingle(ctx context.Context, sql string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, sql, arg).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListWithPredicate(ctx context.Context, pred query.Predicate, sort query.Sort) ([]domain.User, error) {
	sql := fmt.Sprintf(`
        SELECT u.id, u.external_id, u.name, u.email, u.avatar_url, u.role, u.created_at, u.updated_at
        FROM users u %s %s`, pred.Where(), sort.OrderBy())

	rows, err := r.pool.Query(ctx, sql, pred.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.ExternalID,
			&user.Name,
			&user.Email,
			&user.AvatarURL,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	const stmt = `
        UPDATE users SET role=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + userColumns

	var user domain.User
	if err := r.pool.QueryRow(ctx, stmt, role, id).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
