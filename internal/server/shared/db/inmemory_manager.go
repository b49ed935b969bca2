package db

import (
	"github.com/anongap/anongap/internal/server/repositories/inbox"
	"github.com/anongap/anongap/internal/server/repositories/kv"
)

type InMemoryStorageManager struct {
	kv    *kv.MemoryStore
	inbox *inbox.MemoryRepository
}

func (m *InMemoryStorageManager) KV() kv.Store {
	return m.kv
}

func (m *InMemoryStorageManager) Inbox() inbox.Repository {
	return m.inbox
}

func (m *InMemoryStorageManager) Close() error {
	return nil
}

func NewInMemoryStorageManager() *InMemoryStorageManager {
	return &InMemoryStorageManager{
		kv:    kv.NewMemoryStore(),
		inbox: inbox.NewMemoryRepository(),
	}
}
