package inbox

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewPostgresRepository(db)
	ts := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO inboxes`)).
		WithArgs(int64(7), ts, "ticket-b64").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, r.Append(context.Background(), 7, Item{Timestamp: ts, Ticket: "ticket-b64"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DrainOrdersAndClears(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewPostgresRepository(db)
	older := time.Now().Add(-time.Minute)
	newer := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM inboxes`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"ts", "ticket"}).
			AddRow(newer, "t2").
			AddRow(older, "t1"))
	mock.ExpectCommit()

	items, err := r.Drain(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t1", items[0].Ticket, "oldest first")
	assert.Equal(t, "t2", items[1].Ticket)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM inboxes`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := r.Count(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
