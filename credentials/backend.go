package credentials

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manhhung3004/Gentsshop/config"
)

// Backend persists raw values by key.
type Backend interface {
	// Read returns ErrNotFound for absent keys.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write applies all values in one step; a nil value deletes its key.
	Write(ctx context.Context, values map[string][]byte) error
}

// Open builds the backend selected by cfg. The caller closes it when it
// implements io.Closer.
func Open(ctx context.Context, cfg config.CredentialsConfig) (Backend, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryBackend(), nil
	case config.BackendFile:
		return NewFileBackend(cfg.File.Dir)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + strconv.Itoa(cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect credential redis %s:%d: %w", cfg.Redis.Host, cfg.Redis.Port, err)
		}
		return NewRedisBackend(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Backend)
	}
}

// Close closes b if it holds resources.
func Close(b Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Write(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		if v == nil {
			delete(m.values, k)
			continue
		}
		m.values[k] = append([]byte(nil), v...)
	}
	return nil
}
