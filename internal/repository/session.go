package repository

import (
	"context"
	"time"

	"voting-platform/internal/domain"
)

// SessionRepository 定义了服务端会话记录的存储，通常由 Redis 实现。
type SessionRepository interface {
	// Save 写入 (或覆盖) 会话记录并刷新过期时间。
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error

	// Find 读取会话记录，不存在或已过期时返回 ErrSessionNotFound。
	Find(ctx context.Context, id string) (*domain.Session, error)

	// Delete 删除会话记录及其未读的提示消息。
	Delete(ctx context.Context, id string) error

	// PushFlash 追加一条提示消息。
	PushFlash(ctx context.Context, id string, flash domain.Flash, ttl time.Duration) error

	// PopFlashes 取出并清除会话中全部提示消息，按写入顺序返回。
	PopFlashes(ctx context.Context, id string) ([]domain.Flash, error)
}

// RateLimiter 定义了固定窗口限流计数。
type RateLimiter interface {
	// CheckRateLimit 递增 key 的计数，返回 true 表示已超限。
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
