package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Model gives typed JSON access to one namespace of a Store.
type Model[T any] struct {
	store     Store
	namespace string
}

func NewModel[T any](store Store, namespace string) *Model[T] {
	return &Model[T]{store: store, namespace: namespace}
}

// Get loads and unmarshals the record, or common.ErrNotFound.
func (m *Model[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := m.store.Get(ctx, m.namespace, id)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("unmarshaling %s record: %w", m.namespace, err)
	}
	return v, nil
}

// Save marshals and stores the record without expiration.
func (m *Model[T]) Save(ctx context.Context, id string, v *T) error {
	return m.SaveTTL(ctx, id, v, 0)
}

// SaveTTL marshals and stores the record with an expiration.
func (m *Model[T]) SaveTTL(ctx context.Context, id string, v *T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s record: %w", m.namespace, err)
	}
	return m.store.Put(ctx, m.namespace, id, raw, ttl)
}

// Delete removes the record.
func (m *Model[T]) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, m.namespace, id)
}

// Count returns the number of records whose id begins with prefix.
func (m *Model[T]) Count(ctx context.Context, prefix string) (int, error) {
	ids, err := m.store.ListIDs(ctx, m.namespace, prefix)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ListIDs returns the ids in the namespace beginning with prefix.
func (m *Model[T]) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return m.store.ListIDs(ctx, m.namespace, prefix)
}
