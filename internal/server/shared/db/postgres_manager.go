package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/anongap/anongap/internal/server/migrations"
	"github.com/anongap/anongap/internal/server/repositories/inbox"
	"github.com/anongap/anongap/internal/server/repositories/kv"
)

type PostgresStorageManager struct {
	db    *sql.DB
	kv    *kv.PostgresStore
	inbox *inbox.PostgresRepository
}

func (m *PostgresStorageManager) KV() kv.Store {
	return m.kv
}

func (m *PostgresStorageManager) Inbox() inbox.Repository {
	return m.inbox
}

func (m *PostgresStorageManager) Close() error {
	return m.db.Close()
}

func (m *PostgresStorageManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresStorageManager(dsn string) (*PostgresStorageManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresStorageManager{
		db:    db,
		kv:    kv.NewPostgresStore(db),
		inbox: inbox.NewPostgresRepository(db),
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
