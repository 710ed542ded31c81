package gormpersistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-platform/internal/domain"
	gormpersistence "voting-platform/internal/infra/persistence/gorm"
	"voting-platform/internal/repository"
)

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &domain.User{Username: "alice", Password: "hashed"}
	require.NoError(t, repo.Save(ctx, user))
	assert.NotZero(t, user.ID, "保存后应分配 ID")
	assert.False(t, user.CreatedAt.IsZero())

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.False(t, byName.HasVoted)
	assert.False(t, byName.IsAdmin)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestGormUserRepository_NotFound(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGormUserRepository_DuplicateUsername(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.User{Username: "bob", Password: "x"}))
	err := repo.Save(ctx, &domain.User{Username: "bob", Password: "y"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestGormUserRepository_ListAndCount(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.User{Username: "admin", Password: "x", IsAdmin: true}))
	require.NoError(t, repo.Save(ctx, &domain.User{Username: "v1", Password: "x"}))
	require.NoError(t, repo.Save(ctx, &domain.User{Username: "v2", Password: "x"}))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "v2", users[2].Username)

	total, admins, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(1), admins)
}

func TestNewGormUserRepository_NilDB(t *testing.T) {
	assert.Panics(t, func() { gormpersistence.NewGormUserRepository(nil) })
}
