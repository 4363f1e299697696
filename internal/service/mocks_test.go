package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"staffdir/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockListCache is a mock implementation of ListCache.
type MockListCache struct {
	mock.Mock
}

func (m *MockListCache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	args := m.Called(ctx, key, dst)
	return args.Bool(0)
}

func (m *MockListCache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	m.Called(ctx, key, v, ttl)
}

func (m *MockListCache) Counter(ctx context.Context, key string) (int64, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockListCache) Incr(ctx context.Context, key string) {
	m.Called(ctx, key)
}

// versionedCache is an in-memory ListCache.
type versionedCache struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]int64
}

func newVersionedCache() *versionedCache {
	return &versionedCache{values: map[string][]byte{}, counters: map[string]int64{}}
}

func (c *versionedCache) GetJSON(_ context.Context, key string, dst interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	return ok && json.Unmarshal(data, dst) == nil
}

func (c *versionedCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
}

func (c *versionedCache) Counter(_ context.Context, key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], true
}

func (c *versionedCache) Incr(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
}
