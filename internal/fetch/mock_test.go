package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/services/cache"
)

// mockCache implements an in-memory cache for tests
type mockCache struct {
	data map[string][]byte
}

var _ cache.CacheService = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, error) {
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(key string, value []byte, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(key string) error {
	delete(m.data, key)
	return nil
}

// fakeTokens serves tokens from a fixed queue, advancing on Invalidate
type fakeTokens struct {
	queue       []string
	idx         int
	invalidated int
}

var _ TokenSource = (*fakeTokens)(nil)

func (f *fakeTokens) Token(ctx context.Context) (string, error) {
	if len(f.queue) == 0 {
		return "", errors.New("no tokens")
	}
	return f.queue[f.idx], nil
}

func (f *fakeTokens) Invalidate() {
	f.invalidated++
	if f.idx < len(f.queue)-1 {
		f.idx++
	}
}

// fakeRenderer returns queued data layer payloads, one per call
type fakeRenderer struct {
	responses []string
	calls     []string
	err       error
}

var _ Renderer = (*fakeRenderer)(nil)

func (f *fakeRenderer) Evaluate(ctx context.Context, url, expression string) (json.RawMessage, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	i := len(f.calls) - 1
	if i >= len(f.responses) {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(f.responses[i]), nil
}
