package redisstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

// RedisSessionRepository 是 SessionRepository 与 RateLimiter 的 Redis 实现。
// 会话记录存放在 Hash 中，提示消息存放在 List 中。
type RedisSessionRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionRepository 创建 RedisSessionRepository 实例
func NewRedisSessionRepository(client *redis.Client, keyPrefix string) *RedisSessionRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisSessionRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "vote:"
	}
	return &RedisSessionRepository{client: client, keyPrefix: keyPrefix}
}

// --- Key Generation Helpers ---
func (r *RedisSessionRepository) sessionKey(id string) string {
	return fmt.Sprintf("%ssession:%s", r.keyPrefix, id)
}

func (r *RedisSessionRepository) flashKey(id string) string {
	return fmt.Sprintf("%ssession:%s:flashes", r.keyPrefix, id)
}

func (r *RedisSessionRepository) rateLimitKey(key string) string {
	return fmt.Sprintf("%sratelimit:%s", r.keyPrefix, key)
}

// sessionFields 把会话转换为 Hash 字段。匿名会话只写 user_id=0，保证 Hash 非空。
func sessionFields(session *domain.Session) map[string]interface{} {
	fields := map[string]interface{}{"user_id": "0"}
	if p := session.Principal; p != nil {
		fields["user_id"] = strconv.FormatUint(uint64(p.UserID), 10)
		fields["username"] = p.Username
		fields["is_admin"] = strconv.FormatBool(p.IsAdmin)
	}
	return fields
}

// decodeSession 把 HGETALL 的结果解码为会话记录
func decodeSession(id string, values map[string]string) (*domain.Session, error) {
	var principal domain.Principal
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &principal,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("redis: decode session %s: %w", id, err)
	}
	session := &domain.Session{ID: id}
	if principal.UserID != 0 {
		session.Principal = &principal
	}
	return session, nil
}

// Save 覆盖写入会话 Hash 并设置过期时间
func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	key := r.sessionKey(session.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, sessionFields(session))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save session %s: %w", session.ID, err)
	}
	return nil
}

// Find 读取会话 Hash，键不存在时返回 ErrSessionNotFound
func (r *RedisSessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	values, err := r.client.HGetAll(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get session %s: %w", id, err)
	}
	if len(values) == 0 {
		return nil, repository.ErrSessionNotFound
	}
	return decodeSession(id, values)
}

// Delete 删除会话及其提示消息
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.sessionKey(id), r.flashKey(id)).Err(); err != nil {
		return fmt.Errorf("redis: delete session %s: %w", id, err)
	}
	return nil
}

// PushFlash 将提示消息以 JSON 追加到列表尾部
func (r *RedisSessionRepository) PushFlash(ctx context.Context, id string, flash domain.Flash, ttl time.Duration) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("redis: marshal flash: %w", err)
	}
	key := r.flashKey(id)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: push flash for session %s: %w", id, err)
	}
	return nil
}

// PopFlashes 原子地读取并清空提示消息列表
func (r *RedisSessionRepository) PopFlashes(ctx context.Context, id string) ([]domain.Flash, error) {
	key := r.flashKey(id)
	var rangeCmd *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rangeCmd = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: pop flashes for session %s: %w", id, err)
	}
	raw := rangeCmd.Val()
	flashes := make([]domain.Flash, 0, len(raw))
	for _, item := range raw {
		var f domain.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue // 跳过损坏的条目
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

// rateLimitScript 递增计数，只在窗口开始 (或计数器缺少过期时间) 时设置过期，
// 窗口内的后续请求不会延长它。
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// CheckRateLimit 固定窗口计数
func (r *RedisSessionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.rateLimitKey(key)
	count, err := rateLimitScript.Run(ctx, r.client, []string{fullKey}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit script for %s: %w", fullKey, err)
	}
	return count > int64(limit), nil
}
