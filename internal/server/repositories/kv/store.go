// Package kv provides the namespaced key-value store backing all relay
// state: users, link refs, block lists, conversation pointers, sealed
// conversation records and stat counters. Records live under "namespace:id"
// keys with optional TTL; the store contract is get/put/delete/list-by-prefix
// with last-writer-wins semantics per key.
package kv

import (
	"context"
	"time"
)

// Store is implemented by PostgresStore for deployments and MemoryStore for
// tests and single-process development runs.
type Store interface {
	// Get returns the stored value, or common.ErrNotFound when the record
	// is absent or expired.
	Get(ctx context.Context, namespace, id string) ([]byte, error)

	// Put saves or overwrites a record. A zero ttl means no expiration.
	Put(ctx context.Context, namespace, id string, value []byte, ttl time.Duration) error

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, namespace, id string) error

	// ListIDs returns the ids in a namespace beginning with prefix. An empty
	// prefix lists the whole namespace.
	ListIDs(ctx context.Context, namespace, prefix string) ([]string, error)
}
