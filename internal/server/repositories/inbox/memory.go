package inbox

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process inbox for tests and development runs.
type MemoryRepository struct {
	mu     sync.Mutex
	queues map[int64][]Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{queues: make(map[int64][]Item)}
}

func (r *MemoryRepository) Append(ctx context.Context, userID int64, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues[userID] = append(r.queues[userID], item)
	return nil
}

func (r *MemoryRepository) Drain(ctx context.Context, userID int64) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.queues[userID]
	delete(r.queues, userID)
	return items, nil
}

func (r *MemoryRepository) Count(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queues[userID]), nil
}
