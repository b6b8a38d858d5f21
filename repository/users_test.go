package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	return &database.DB{DB: bun.NewDB(sqldb, pgdialect.New())}, mock
}

var userColumns = []string{"id", "email", "name", "role", "password_hash", "last_login", "created_at"}

func TestUpsertGuestReusesRowForSameEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()
	created := time.Now()

	for range 2 {
		mock.ExpectQuery(`INSERT INTO "users".*ON CONFLICT \(email\) DO UPDATE.*RETURNING \*`).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "anna@example.com", "Anna Jansen", "GUEST", nil, nil, created))
	}

	first, err := repo.UpsertGuest(context.Background(), " Anna@Example.com ", "Anna Jansen")
	require.NoError(t, err)
	second, err := repo.UpsertGuest(context.Background(), "anna@example.com", "Anna J.")
	require.NoError(t, err)

	assert.Equal(t, id, first.Id)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, structs.RoleGuest, second.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "users".*'ghost@example.com'`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "Ghost@example.com")
	assert.ErrorIs(t, err, lib.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
