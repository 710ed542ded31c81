// Package memorystate 提供进程内的会话存储，用于开发环境 (未配置 REDIS_ADDR) 和测试。
// 数据不跨进程共享，重启即丢失。
package memorystate

import (
	"context"
	"sync"
	"time"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

type sessionEntry struct {
	principal *domain.Principal
	flashes   []domain.Flash
	expiresAt time.Time
}

type counterEntry struct {
	count     int64
	expiresAt time.Time
}

// MemorySessionRepository 是 SessionRepository 与 RateLimiter 的内存实现
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	counters map[string]*counterEntry
	now      func() time.Time

	nextSweep time.Time // 下一次清理过期计数器的时间
}

// NewMemorySessionRepository 创建内存会话存储
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*sessionEntry),
		counters: make(map[string]*counterEntry),
		now:      time.Now,
	}
}

// live 返回未过期的会话条目，过期条目顺带清除。调用方需持有锁。
func (r *MemorySessionRepository) live(id string) *sessionEntry {
	entry, ok := r.sessions[id]
	if !ok {
		return nil
	}
	if r.now().After(entry.expiresAt) {
		delete(r.sessions, id)
		return nil
	}
	return entry
}

func (r *MemorySessionRepository) Save(_ context.Context, session *domain.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.live(session.ID)
	if entry == nil {
		entry = &sessionEntry{}
		r.sessions[session.ID] = entry
	}
	entry.principal = nil
	if session.Principal != nil {
		p := *session.Principal
		entry.principal = &p
	}
	entry.expiresAt = r.now().Add(ttl)
	return nil
}

func (r *MemorySessionRepository) Find(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.live(id)
	if entry == nil {
		return nil, repository.ErrSessionNotFound
	}
	session := &domain.Session{ID: id}
	if entry.principal != nil {
		p := *entry.principal
		session.Principal = &p
	}
	return session, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// PushFlash 对不存在的会话会创建一个匿名条目，与 Redis 实现的行为一致
func (r *MemorySessionRepository) PushFlash(_ context.Context, id string, flash domain.Flash, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.live(id)
	if entry == nil {
		entry = &sessionEntry{expiresAt: r.now().Add(ttl)}
		r.sessions[id] = entry
	}
	entry.flashes = append(entry.flashes, flash)
	return nil
}

func (r *MemorySessionRepository) PopFlashes(_ context.Context, id string) ([]domain.Flash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.live(id)
	if entry == nil {
		return nil, nil
	}
	flashes := entry.flashes
	entry.flashes = nil
	return flashes, nil
}

// CheckRateLimit 固定窗口计数：窗口从 key 第一次出现时开始，期间不再延长。
func (r *MemorySessionRepository) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepCounters(now, window)

	c, ok := r.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counterEntry{expiresAt: now.Add(window)}
		r.counters[key] = c
	}
	c.count++
	return c.count > int64(limit), nil
}

// sweepCounters 每个窗口最多执行一次，删除已过期的计数器。调用方需持有锁。
func (r *MemorySessionRepository) sweepCounters(now time.Time, window time.Duration) {
	if now.Before(r.nextSweep) {
		return
	}
	for key, c := range r.counters {
		if !now.Before(c.expiresAt) {
			delete(r.counters, key)
		}
	}
	r.nextSweep = now.Add(window)
}
