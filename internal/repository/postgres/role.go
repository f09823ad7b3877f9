package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

// RoleRepository implements repository.RoleRepository using PostgreSQL.
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new PostgreSQL-backed role repository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByName retrieves a role by exact name match.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = $1`

	var role domain.Role
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	return &role, nil
}
