package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleStoredUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:           7,
		PublicID:     "0f8fad5bd9cb469fa1656e8eacf2b1a4",
		Username:     "alice",
		Email:        "alice@example.com",
		Name:         "Alice Smith",
		PasswordHash: "hash-abc",
		RoleID:       2,
		RoleName:     domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// userColumns returns the 10 columns scanned by scanUser.
func userColumns() []string {
	return []string{
		"id", "public_id", "username", "email", "name",
		"password_hash", "role_id", "role_name", "created_at", "updated_at",
	}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns()).AddRow(
		u.ID, u.PublicID, u.Username, u.Email, u.Name,
		u.PasswordHash, u.RoleID, u.RoleName, u.CreatedAt, u.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleStoredUser()
	u.ID = 0

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.PublicID, u.Username, u.Email, u.Name,
			u.PasswordHash, u.RoleID, u.CreatedAt, u.UpdatedAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID, "generated id must be filled in")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleStoredUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.PublicID, u.Username, u.Email, u.Name,
			u.PasswordHash, u.RoleID, u.CreatedAt, u.UpdatedAt,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "expected ErrConflict, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByUsername / GetByPublicID
// ---------------------------------------------------------------------------

func TestUserRepository_GetByUsername_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleStoredUser()

	mock.ExpectQuery("SELECT .+ FROM users u .+ WHERE u.username =").
		WithArgs(u.Username).
		WillReturnRows(userRow(u))

	got, err := repo.GetByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.PublicID, got.PublicID)
	assert.Equal(t, u.RoleName, got.RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users u .+ WHERE u.username =").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByUsername(context.Background(), "ghost")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByPublicID_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleStoredUser()

	mock.ExpectQuery("SELECT .+ FROM users u .+ WHERE u.public_id =").
		WithArgs(u.PublicID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByPublicID(context.Background(), u.PublicID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestUserRepository_List(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleStoredUser()
	b := sampleStoredUser()
	b.ID = 8
	b.PublicID = "ffffffffffffffffffffffffffffffff"
	b.Username = "bob"

	rows := pgxmock.NewRows(userColumns())
	for _, u := range []*domain.User{a, b} {
		rows.AddRow(
			u.ID, u.PublicID, u.Username, u.Email, u.Name,
			u.PasswordHash, u.RoleID, u.RoleName, u.CreatedAt, u.UpdatedAt,
		)
	}

	mock.ExpectQuery("SELECT .+ FROM users u").
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_Empty(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users u").
		WillReturnRows(pgxmock.NewRows(userColumns()))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestUserRepository_Delete_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM users WHERE public_id =").
		WithArgs("0f8fad5bd9cb469fa1656e8eacf2b1a4").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "0f8fad5bd9cb469fa1656e8eacf2b1a4")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM users WHERE public_id =").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
