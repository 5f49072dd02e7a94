package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// chatDB opens a private in-memory SQLite database with the message log
// tables the Postgres migrations create.
func chatDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE message_counter (id INTEGER PRIMARY KEY, last_id INTEGER NOT NULL);
		INSERT INTO message_counter (id, last_id) VALUES (1, 0);
		CREATE TABLE messages (
			id         INTEGER PRIMARY KEY,
			user_id    TEXT NOT NULL,
			username   TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`)
	require.NoError(t, err)
	return db
}

// appendMessage mirrors the message log append: bump the counter, insert
// under the new id.
func appendMessage(ctx context.Context, tx DBTX, username, body string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, `UPDATE message_counter SET last_id = last_id + 1 WHERE id = 1 RETURNING last_id`).Scan(&id); err != nil {
		return 0, err
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, user_id, username, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, "u-"+username, username, body, time.Now().UTC())
	return id, err
}

func logState(t *testing.T, db *sql.DB) (lastID int64, count int64) {
	t.Helper()
	require.NoError(t, db.QueryRow(`SELECT last_id FROM message_counter WHERE id = 1`).Scan(&lastID))
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM messages`).Scan(&count))
	return lastID, count
}

func TestWithTx_CommitAdvancesCounterAndLog(t *testing.T) {
	db := chatDB(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		var got int64
		err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
			var err error
			got, err = appendMessage(ctx, tx, "alice", "hi")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	lastID, count := logState(t, db)
	assert.Equal(t, int64(3), lastID)
	assert.Equal(t, int64(3), count)
}

func TestWithTx_FailedAppendLeavesNoGap(t *testing.T) {
	db := chatDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := appendMessage(ctx, tx, "alice", "lost"); err != nil {
			return err
		}
		return errors.New("author vanished")
	})
	require.EqualError(t, err, "author vanished")

	lastID, count := logState(t, db)
	assert.Zero(t, lastID, "counter bump must roll back with the insert")
	assert.Zero(t, count)

	var id int64
	require.NoError(t, WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		id, err = appendMessage(ctx, tx, "alice", "kept")
		return err
	}))
	assert.Equal(t, int64(1), id, "next append reuses the rolled back id")
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := chatDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, err := appendMessage(ctx, tx, "alice", "boom")
			require.NoError(t, err)
			panic("kaput")
		})
	})

	lastID, count := logState(t, db)
	assert.Zero(t, lastID)
	assert.Zero(t, count)
}

func TestWithTx_BeginError(t *testing.T) {
	db := chatDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}

func TestWithTx_CommitErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	commitErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO messages`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(commitErr)

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO messages (id, body) VALUES (1, 'hi')`)
		return err
	})
	require.ErrorIs(t, err, commitErr)
	assert.Contains(t, err.Error(), "commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackErrorIsJoined(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fnErr := errors.New("author vanished")
	rbErr := errors.New("rollback failed")
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(rbErr)

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return fnErr
	})
	assert.ErrorIs(t, err, fnErr)
	assert.ErrorIs(t, err, rbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
