package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
)

func userRowColumns() []string {
	return []string{"id", "name", "email", "api_key_hash", "is_admin", "default_profile", "created_at", "updated_at"}
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("alice", "alice@example.com", "secret", false)
	user.DefaultProfile = "default"

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.APIKeyHash, user.IsAdmin,
			sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByAPIKeyHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	id := uuid.New()
	now := time.Now()
	hash := models.HashAPIKey("secret")

	mock.ExpectQuery("SELECT (.+) FROM users WHERE api_key_hash = \\$1").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow(id, "alice", "alice@example.com", hash, true, "strict", now, now))

	user, err := repo.GetByAPIKeyHash(context.Background(), hash)
	require.NoError(t, err)

	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "strict", user.DefaultProfile)
}

func TestUserRepository_GetByAPIKeyHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE api_key_hash = \\$1").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAPIKeyHash(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepository_GetByID_NullDefaultProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow(id, "bob", "bob@example.com", "hash", false, nil, now, now))

	user, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, user.DefaultProfile)
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY name").
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow(uuid.New(), "alice", "alice@example.com", "h1", true, "default", now, now).
			AddRow(uuid.New(), "bob", "bob@example.com", "h2", false, nil, now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Name)
	assert.Empty(t, users[1].DefaultProfile)
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("alice", "alice@example.com", "secret", false)

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, user.Name, user.Email, user.APIKeyHash, user.IsAdmin,
			sqlmock.AnyArg(), user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), user)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	id := uuid.New()
	mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
}
