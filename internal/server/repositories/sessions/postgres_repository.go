package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/dbx"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (user_id, token)
         VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	s := &models.Session{UserID: userID, Token: token, IsActive: true}
	err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	query :=
		`SELECT id, user_id, is_active, created_at FROM sessions
		 WHERE token = $1
		 `

	s := &models.Session{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.ID, &s.UserID, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) RevokeForUser(ctx context.Context, userID string) (int64, error) {
	query :=
		`UPDATE sessions SET is_active = FALSE
		 WHERE user_id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}
