package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelectColumns = `u.id, u.public_id, u.username, u.email, u.name, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at`

// Create inserts a new user and fills in the generated internal ID.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (public_id, username, email, name, password_hash, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		u.PublicID,
		u.Username,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.RoleID,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("user", "username or email", u.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by exact username match.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.username = $1`

	return r.scanUser(ctx, query, username)
}

// GetByPublicID retrieves a user by their public identifier.
func (r *UserRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.public_id = $1`

	return r.scanUser(ctx, query, publicID)
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userSelectColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		ORDER BY u.created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.PublicID,
			&u.Username,
			&u.Email,
			&u.Name,
			&u.PasswordHash,
			&u.RoleID,
			&u.RoleName,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// Delete removes a user by their public identifier.
func (r *UserRepository) Delete(ctx context.Context, publicID string) error {
	query := `DELETE FROM users WHERE public_id = $1`

	ct, err := r.db.Exec(ctx, query, publicID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", publicID)
	}

	return nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.PublicID,
		&u.Username,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.RoleID,
		&u.RoleName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
