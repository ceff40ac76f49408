package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
)

var userRowColumns = []string{"id", "email", "password_hash", "role", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@example.com", "hash", domain.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", now))

	user := &domain.User{Email: "a@example.com", PasswordHash: "hash", Role: domain.RoleAdmin}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`ORDER BY email LIMIT 10 OFFSET 0`).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "a@example.com", "h", domain.RoleAdmin, time.Now()).
			AddRow("u-2", "b@example.com", "h", domain.RoleCustomer, time.Now()))

	page, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	require.Len(t, page.Items, 2)
	assert.Equal(t, domain.RoleCustomer, page.Items[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateAndDeleteMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("a@example.com", "h", domain.RoleTechnician, "u-x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM users").WithArgs("u-x").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Update(context.Background(), &domain.User{ID: "u-x", Email: "a@example.com", PasswordHash: "h", Role: domain.RoleTechnician})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-x"), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
