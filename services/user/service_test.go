package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	args := m.Called(ctx, hash)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if users := args.Get(0); users != nil {
		return users.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService() (*UserService, *MockUserRepository) {
	repo := new(MockUserRepository)
	return NewUserService(repo, zap.NewNop()), repo
}

func TestCreateUser(t *testing.T) {
	svc, repo := newTestService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "alice" && u.DefaultProfile == "strict"
	})).Return(nil)

	user, apiKey, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "strict", true)
	require.NoError(t, err)

	assert.Len(t, apiKey, apiKeyBytes*2)
	assert.Equal(t, models.HashAPIKey(apiKey), user.APIKeyHash)
	assert.True(t, user.IsAdmin)
	repo.AssertExpectations(t)
}

func TestCreateUser_MissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.CreateUser(context.Background(), "", "alice@example.com", "", false)
	assert.True(t, services.IsValidationError(err))

	_, _, err = svc.CreateUser(context.Background(), "alice", "", "", false)
	assert.True(t, services.IsValidationError(err))
}

func TestAuthenticateAPIKey(t *testing.T) {
	svc, repo := newTestService()

	user := models.NewUser("alice", "alice@example.com", "the-key", false)
	repo.On("GetByAPIKeyHash", mock.Anything, models.HashAPIKey("the-key")).Return(user, nil)

	got, err := svc.AuthenticateAPIKey(context.Background(), "the-key")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticateAPIKey_Invalid(t *testing.T) {
	svc, repo := newTestService()

	repo.On("GetByAPIKeyHash", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := svc.AuthenticateAPIKey(context.Background(), "wrong-key")
	assert.True(t, services.IsUnauthorizedError(err))
}

func TestAuthenticateAPIKey_Empty(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AuthenticateAPIKey(context.Background(), "")
	assert.True(t, services.IsUnauthorizedError(err))
}

func TestUpdateUser(t *testing.T) {
	svc, repo := newTestService()

	existing := models.NewUser("alice", "alice@example.com", "key", false)
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newProfile := "lenient"
	updated, err := svc.UpdateUser(context.Background(), existing.ID, &newProfile, nil)
	require.NoError(t, err)
	assert.Equal(t, "lenient", updated.DefaultProfile)
	assert.False(t, updated.IsAdmin)
}

func TestRotateAPIKey(t *testing.T) {
	svc, repo := newTestService()

	existing := models.NewUser("alice", "alice@example.com", "old-key", false)
	oldHash := existing.APIKeyHash
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newKey, err := svc.RotateAPIKey(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, existing.APIKeyHash)
	assert.Equal(t, models.HashAPIKey(newKey), existing.APIKeyHash)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, repo := newTestService()

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(sql.ErrNoRows)

	err := svc.DeleteUser(context.Background(), id)
	assert.True(t, services.IsNotFoundError(err))
}
