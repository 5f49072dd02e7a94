package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/chatroom/internal/dbx"
	"github.com/dmitrijs2005/chatroom/internal/server/migrations"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var gooseUpContext = goose.UpContext

type PostgresRepositoryManager struct {
	db *sql.DB
}

// pgRepositories binds the repositories to a DB handle or an open transaction.
type pgRepositories struct {
	db dbx.DBTX
}

func (r pgRepositories) Users() users.Repository {
	return users.NewPostgresRepository(r.db)
}

func (r pgRepositories) Sessions() sessions.Repository {
	return sessions.NewPostgresRepository(r.db)
}

func (r pgRepositories) Messages() messages.Repository {
	return messages.NewPostgresRepository(r.db)
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return pgRepositories{db: m.db}.Users()
}

func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return pgRepositories{db: m.db}.Sessions()
}

func (m *PostgresRepositoryManager) Messages() messages.Repository {
	return pgRepositories{db: m.db}.Messages()
}

func (m *PostgresRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, pgRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager wraps an already opened pool.
func NewPostgresRepositoryManager(db *sql.DB) (*PostgresRepositoryManager, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	return &PostgresRepositoryManager{db: db}, nil
}

// OpenPostgres opens a pgx-backed pool for dsn and wraps it.
func OpenPostgres(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return NewPostgresRepositoryManager(db)
}
