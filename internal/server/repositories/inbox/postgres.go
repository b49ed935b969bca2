package inbox

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/anongap/anongap/internal/dbx"
)

// PostgresRepository stores inbox items in the inboxes table. It holds a
// *sql.DB rather than a DBTX because Drain opens its own transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID int64, item Item) error {
	query := `INSERT INTO inboxes (user_id, ts, ticket) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, userID, item.Timestamp, item.Ticket); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Drain(ctx context.Context, userID int64) ([]Item, error) {
	var items []Item

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// DELETE ... RETURNING keeps read-and-clear a single statement, so
		// two racing drains split the rows instead of both seeing them.
		query := `
			DELETE FROM inboxes
			WHERE user_id = $1
			RETURNING ts, ticket
		`
		rows, err := tx.QueryContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item Item
			if err := rows.Scan(&item.Timestamp, &item.Ticket); err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	// RETURNING order is unspecified
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.Before(items[j].Timestamp) })

	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM inboxes WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
