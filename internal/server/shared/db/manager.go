// Package db selects and wires the storage backend: PostgreSQL when a DSN
// is configured, in-memory otherwise.
package db

import (
	"github.com/anongap/anongap/internal/server/repositories/inbox"
	"github.com/anongap/anongap/internal/server/repositories/kv"
)

type StorageManager interface {
	KV() kv.Store
	Inbox() inbox.Repository
	Close() error
}

// NewStorageManager picks the backend from the DSN. An empty DSN selects
// the in-memory backend, which loses all state on restart.
func NewStorageManager(dsn string) (StorageManager, error) {
	if dsn == "" {
		return NewInMemoryStorageManager(), nil
	}
	return NewPostgresStorageManager(dsn)
}
