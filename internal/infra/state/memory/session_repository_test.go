package memorystate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

func TestMemorySessionRepository_Lifecycle(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Find(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	principal := &domain.Principal{UserID: 2, Username: "jane"}
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", Principal: principal}, time.Minute))

	got, err := repo.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, principal, got.Principal)

	// 修改返回值不影响存储
	got.Principal.IsAdmin = true
	again, _ := repo.Find(ctx, "s1")
	assert.False(t, again.Principal.IsAdmin)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Find(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestMemorySessionRepository_Flashes(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.PushFlash(ctx, "anon", domain.Flash{Category: "success", Message: "a"}, time.Minute))
	require.NoError(t, repo.PushFlash(ctx, "anon", domain.Flash{Category: "error", Message: "b"}, time.Minute))

	anon, err := repo.Find(ctx, "anon")
	require.NoError(t, err)
	assert.False(t, anon.Authenticated())

	flashes, err := repo.PopFlashes(ctx, "anon")
	require.NoError(t, err)
	assert.Equal(t, []domain.Flash{{Category: "success", Message: "a"}, {Category: "error", Message: "b"}}, flashes)

	flashes, err = repo.PopFlashes(ctx, "anon")
	require.NoError(t, err)
	assert.Empty(t, flashes)

	// 登录后保存会话不丢弃未读消息
	require.NoError(t, repo.PushFlash(ctx, "anon", domain.Flash{Message: "c"}, time.Minute))
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "anon", Principal: &domain.Principal{UserID: 1}}, time.Minute))
	flashes, _ = repo.PopFlashes(ctx, "anon")
	assert.Len(t, flashes, 1)
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s"}, time.Minute))
	now = now.Add(2 * time.Minute)
	_, err := repo.Find(ctx, "s")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestMemorySessionRepository_RateLimit(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		limited, err := repo.CheckRateLimit(ctx, "ip", 2, time.Second)
		require.NoError(t, err)
		assert.False(t, limited)
	}
	limited, _ := repo.CheckRateLimit(ctx, "ip", 2, time.Second)
	assert.True(t, limited)

	limited, _ = repo.CheckRateLimit(ctx, "other", 2, time.Second)
	assert.False(t, limited, "不同 key 独立计数")

	now = now.Add(5 * time.Second)
	limited, _ = repo.CheckRateLimit(ctx, "ip", 2, time.Second)
	assert.False(t, limited, "窗口过期后重新计数")
}

func TestMemorySessionRepository_RateLimitWindowNotExtended(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	// 突发 3 次，超过每秒 2 次的限制
	for i := 0; i < 3; i++ {
		_, err := repo.CheckRateLimit(ctx, "ip", 2, time.Second)
		require.NoError(t, err)
	}

	// 之后每 0.9s 一次，远低于限制，第一个窗口结束后应恢复
	now = now.Add(900 * time.Millisecond)
	limited, _ := repo.CheckRateLimit(ctx, "ip", 2, time.Second)
	assert.True(t, limited, "仍在第一个窗口内")

	for i := 0; i < 10; i++ {
		now = now.Add(900 * time.Millisecond)
		limited, err := repo.CheckRateLimit(ctx, "ip", 2, time.Second)
		require.NoError(t, err)
		assert.False(t, limited, "request %d", i)
	}
}

func TestMemorySessionRepository_RateLimitEvictsExpiredCounters(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"a", "b", "c"} {
		_, err := repo.CheckRateLimit(ctx, ip, 2, time.Second)
		require.NoError(t, err)
	}
	assert.Len(t, repo.counters, 3)

	now = now.Add(2 * time.Second)
	_, err := repo.CheckRateLimit(ctx, "d", 2, time.Second)
	require.NoError(t, err)
	assert.Len(t, repo.counters, 1)
	assert.Contains(t, repo.counters, "d")
}
