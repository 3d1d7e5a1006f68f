package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttl     map[string]time.Duration
	expires int
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memoryRedis) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, _ := json.Marshal(value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(encoded)
	m.ttl[key] = exp
	return nil
}

func (m *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	m.mu.Lock()
	if _, ok := m.data[key]; ok {
		m.mu.Unlock()
		return false, nil
	}
	m.mu.Unlock()
	return true, m.Set(ctx, key, value, exp)
}

func (m *memoryRedis) Expire(ctx context.Context, key string, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttl[key] = exp
	m.expires++
	return nil
}

func (m *memoryRedis) expireCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expires
}

func TestLockService(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRedis()
	locker := NewLockService(repo, zap.NewNop())

	acquired, token, err := locker.TryLock(ctx, "ecg:relabel:leader", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.NotEmpty(t, token)

	t.Run("Second Attempt Not Acquired", func(t *testing.T) {
		acquired, other, err := locker.TryLock(ctx, "ecg:relabel:leader", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, other)
	})

	t.Run("Refresh By Owner", func(t *testing.T) {
		require.NoError(t, locker.Refresh(ctx, "ecg:relabel:leader", token, 5*time.Minute))
		assert.Equal(t, 5*time.Minute, repo.ttl["ecg:relabel:leader"])
	})

	t.Run("Refresh By Stranger", func(t *testing.T) {
		err := locker.Refresh(ctx, "ecg:relabel:leader", "someone-else", time.Minute)
		assert.ErrorIs(t, err, ErrLockNotOwned)
	})

	t.Run("Unlock By Stranger Keeps Lock", func(t *testing.T) {
		require.NoError(t, locker.Unlock(ctx, "ecg:relabel:leader", "someone-else"))
		assert.NotEmpty(t, repo.data["ecg:relabel:leader"])
	})

	t.Run("Unlock By Owner", func(t *testing.T) {
		require.NoError(t, locker.Unlock(ctx, "ecg:relabel:leader", token))
		assert.Empty(t, repo.data["ecg:relabel:leader"])
	})
}

func TestKeepAlive(t *testing.T) {
	repo := newMemoryRedis()
	svc := NewLockService(repo, zap.NewNop())
	ctx := context.Background()

	ok, token, err := svc.TryLock(ctx, "lock:keepalive", 40*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	stop := KeepAlive(ctx, zap.NewNop(), svc, "lock:keepalive", token, 40*time.Millisecond)
	assert.Eventually(t, func() bool { return repo.expireCalls() >= 2 }, time.Second, 10*time.Millisecond)
	stop()

	calls := repo.expireCalls()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, calls, repo.expireCalls(), "no refresh after stop")
}
