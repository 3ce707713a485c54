package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

const redisKeyPrefix = "session:"

type redisSession struct {
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	Turns        []Turn    `json:"turns"`
}

// RedisStore keeps sessions in redis so they survive process restarts.
// Expiry is delegated to redis key TTLs, so Sweep is a no-op. Concurrent
// appends to the same session are read-modify-write and resolve
// last-write-wins.
type RedisStore struct {
	log     *logger.Logger
	rdb     *goredis.Client
	timeout time.Duration
}

func NewRedisStore(log *logger.Logger, addr string, timeout time.Duration) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log:     log.With("component", "RedisSessionStore"),
		rdb:     rdb,
		timeout: timeout,
	}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) load(ctx context.Context, id string) (*redisSession, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess redisSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("redis decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) save(ctx context.Context, id string, sess *redisSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+id, raw, s.timeout).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, id string) ([]Turn, error) {
	sess, err := s.load(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess.Turns, nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, id string, turn Turn) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	if sess == nil {
		sess = &redisSession{CreatedAt: now}
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}
	sess.Turns = append(sess.Turns, turn)
	sess.LastActivity = now
	return s.save(ctx, id, sess)
}

func (s *RedisStore) Info(ctx context.Context, id string) (*Info, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return &Info{
		ID:           id,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		TurnCount:    len(sess.Turns),
	}, nil
}

func (s *RedisStore) Reset(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Sweep is handled by redis TTLs.
func (s *RedisStore) Sweep(ctx context.Context) int {
	return 0
}
