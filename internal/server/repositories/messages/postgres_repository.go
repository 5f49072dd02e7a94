package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/dbx"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// PostgresRepository implements the message log over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append bumps the single counter row and inserts the message under the new
// ID. The counter row stays locked until the surrounding transaction ends, so
// concurrent appenders commit in ID order and a rollback leaves no gap. The
// acceptance time is read while the lock is held and overrides
// msg.Timestamp.
func (r *PostgresRepository) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	next :=
		`UPDATE message_counter SET last_id = last_id + 1
		 WHERE id = 1
		 RETURNING last_id, clock_timestamp()
		 `

	var (
		id int64
		at time.Time
	)
	if err := r.db.QueryRowContext(ctx, next).Scan(&id, &at); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	at = at.UTC()

	insert :=
		`INSERT INTO messages (id, user_id, username, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, insert, id, msg.UserID, msg.UserName, msg.Body, at); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	msg.ID = id
	msg.Timestamp = at
	return msg, nil
}

func (r *PostgresRepository) ReadSince(ctx context.Context, lastID int64, limit int) ([]models.Message, error) {
	query :=
		`SELECT id, user_id, username, body, created_at FROM messages
		 WHERE id > $1
		 ORDER BY id
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, lastID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	result := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.UserName, &m.Body, &m.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT count(*) FROM messages`

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
