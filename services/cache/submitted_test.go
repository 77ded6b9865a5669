package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockCacheService is an in-memory CacheService for testing
type mockCacheService struct {
	data    map[string][]byte
	lastTTL time.Duration
}

var _ CacheService = (*mockCacheService)(nil)

func newMockCacheService() *mockCacheService {
	return &mockCacheService{data: make(map[string][]byte)}
}

func (m *mockCacheService) Get(key string) ([]byte, error) {
	if data, ok := m.data[key]; ok {
		return data, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCacheService) Set(key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *mockCacheService) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestSubmittedCacheMarkAndHas(t *testing.T) {
	svc := newMockCacheService()
	c := NewSubmittedCache(svc, 24*time.Hour)

	assert.False(t, c.Has("NEWCODE99"))

	c.Mark("NEWCODE99")
	assert.True(t, c.Has("NEWCODE99"))
	assert.False(t, c.Has("OTHER42CODE"))
	assert.Equal(t, 24*time.Hour, svc.lastTTL)
}

func TestSubmittedCacheKeyPrefix(t *testing.T) {
	svc := newMockCacheService()
	c := NewSubmittedCache(svc, time.Hour)

	c.Mark("NEWCODE99")

	_, ok := svc.data["submitted:NEWCODE99"]
	assert.True(t, ok, "entries must be namespaced under the submitted prefix")
	_, ok = svc.data["NEWCODE99"]
	assert.False(t, ok)
}

func TestSubmittedCacheNilSafe(t *testing.T) {
	var c *SubmittedCache

	assert.NotPanics(t, func() {
		c.Mark("NEWCODE99")
		assert.False(t, c.Has("NEWCODE99"))
	})

	c = NewSubmittedCache(nil, time.Hour)
	assert.NotPanics(t, func() {
		c.Mark("NEWCODE99")
		assert.False(t, c.Has("NEWCODE99"))
	})
}
