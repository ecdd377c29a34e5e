package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// import the postgres driver to register it with the database/sql package.
	_ "github.com/lib/pq"

	"github.com/rocketscienceinc/droptoken-backend/internal/config"
)

var ErrEmptyDSN = errors.New("postgres dsn is empty")

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	version    BIGINT NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS games_status_idx ON games (status, created_at);
`

type PostgresStorage struct {
	Connection *sql.DB
}

func NewPostgresStorage(ctx context.Context, conf config.Postgres) (*PostgresStorage, error) {
	if conf.DSN == "" {
		return nil, ErrEmptyDSN
	}

	conn, err := sql.Open("postgres", conf.DSN)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	conn.SetMaxOpenConns(conf.MaxOpenConns)
	conn.SetMaxIdleConns(conf.MaxIdleConns)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &PostgresStorage{Connection: conn}, nil
}

// Init creates the games table if it does not exist yet.
func (that *PostgresStorage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() error {
	return that.Connection.Close()
}
