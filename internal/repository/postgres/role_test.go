package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

func TestRoleRepository_GetByName_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewRoleRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM roles WHERE name =").
		WithArgs(domain.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(1), domain.RoleAdmin))

	role, err := repo.GetByName(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), role.ID)
	assert.Equal(t, domain.RoleAdmin, role.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_GetByName_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewRoleRepository(mock)

	mock.ExpectQuery("SELECT id, name FROM roles WHERE name =").
		WithArgs("Superuser").
		WillReturnError(pgx.ErrNoRows)

	role, err := repo.GetByName(context.Background(), "Superuser")
	assert.Nil(t, role)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
