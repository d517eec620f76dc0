package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dpit-cms/internal/models"
	"github.com/dpit-cms/internal/repository"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable 会话存储不可用
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store 会话持久化接口
type Store interface {
	// Load 读取会话，不存在或已过期时返回 nil
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// RedisStore 基于 Redis 的会话存储
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "dpit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

// Load 读取会话
func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	if s.client == nil {
		return nil, ErrStoreUnavailable
	}
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Restore(id, payload)
}

// Save 写入会话
func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	if s.client == nil {
		return ErrStoreUnavailable
	}
	payload, err := sess.Encode()
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sess.ID()), payload, ttl).Err()
}

// Delete 删除会话
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if s.client == nil {
		return ErrStoreUnavailable
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

// DBStore 基于数据库的会话存储
type DBStore struct {
	repo repository.SessionRepository
	now  func() time.Time
}

// NewDBStore 创建数据库会话存储
func NewDBStore(repo repository.SessionRepository) *DBStore {
	return &DBStore{repo: repo, now: time.Now}
}

// Load 读取会话
func (s *DBStore) Load(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := s.repo.Get(id, s.now())
	if err != nil || row == nil {
		return nil, err
	}
	return Restore(row.ID, []byte(row.Data))
}

// Save 写入会话
func (s *DBStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := sess.Encode()
	if err != nil {
		return err
	}
	return s.repo.Save(&models.Session{
		ID:        sess.ID(),
		Data:      string(payload),
		ExpiresAt: s.now().Add(ttl),
	})
}

// Delete 删除会话
func (s *DBStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// PurgeExpired 清理过期会话
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.repo.DeleteExpired(s.now())
}

// MemoryStore 进程内会话存储（仅用于测试与单机调试）
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore 创建进程内会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load 读取会话
func (s *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	payload, ok := s.data[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return Restore(id, payload)
}

// Save 写入会话
func (s *MemoryStore) Save(_ context.Context, sess *Session, _ time.Duration) error {
	payload, err := sess.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[sess.ID()] = payload
	s.mu.Unlock()
	return nil
}

// Delete 删除会话
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
