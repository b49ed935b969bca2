package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anongap/anongap/internal/common"
)

type memItem struct {
	value     []byte
	expiresAt time.Time // zero = never
}

func (it memItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && !it.expiresAt.After(now)
}

// MemoryStore is an in-process Store for tests and development runs.
// Expired records are dropped lazily on access.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]memItem // namespace -> id -> item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]memItem)}
}

func (s *MemoryStore) Get(ctx context.Context, namespace, id string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[namespace][id]
	s.mu.RUnlock()

	if !ok || it.expired(time.Now()) {
		return nil, common.ErrNotFound
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, namespace, id string, value []byte, ttl time.Duration) error {
	it := memItem{value: make([]byte, len(value))}
	copy(it.value, value)
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.items[namespace]
	if !ok {
		ns = make(map[string]memItem)
		s.items[namespace] = ns
	}
	ns[id] = it
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, namespace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[namespace], id)
	return nil
}

func (s *MemoryStore) ListIDs(ctx context.Context, namespace, prefix string) ([]string, error) {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, it := range s.items[namespace] {
		if strings.HasPrefix(id, prefix) && !it.expired(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
