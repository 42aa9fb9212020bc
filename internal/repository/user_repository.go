package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// UserRepository handles user and role data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user and assigns the given role in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *model.User, roleSlug string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Email, u.FullName, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users_roles (user_id, role_id)
		 SELECT $1, id FROM roles WHERE slug = $2`,
		u.ID, roleSlug)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByEmail retrieves a user by email, including the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, avatar_url, password_hash, created_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by UUID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, avatar_url, password_hash, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RolesOf returns the roles assigned to a user.
func (r *UserRepository) RolesOf(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.slug
		 FROM roles r
		 JOIN users_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.slug`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Slug); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Update applies profile changes to a user.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fullName string, avatarURL *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET full_name = COALESCE(NULLIF($1, ''), full_name), avatar_url = COALESCE($2, avatar_url)
		 WHERE id = $3`,
		fullName, avatarURL, id)
	return err
}

// AssignRole grants a role to a user. Re-granting is a no-op.
func (r *UserRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleSlug string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users_roles (user_id, role_id)
		 SELECT $1, id FROM roles WHERE slug = $2
		 ON CONFLICT DO NOTHING`,
		userID, roleSlug)
	return err
}

// EmailExists reports whether an email is already registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}
