package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

type postgresGameRepository struct {
	conn *sql.DB
}

func NewPostgresGameRepository(conn *sql.DB) GameRepository {
	return &postgresGameRepository{
		conn: conn,
	}
}

func (that *postgresGameRepository) Create(ctx context.Context, game *entity.Game) error {
	query := `
	INSERT INTO games (id, status, version, data, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO NOTHING`

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	result, err := that.conn.ExecContext(ctx, query, game.ID, game.Status, game.Version, string(gameJSON), game.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't insert game: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't insert game: %w", err)
	}

	if inserted == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	return nil
}

func (that *postgresGameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	query := `SELECT data FROM games WHERE id = $1`

	var raw []byte

	err := that.conn.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	return decodeGame(string(raw))
}

func (that *postgresGameRepository) FindByStatus(ctx context.Context, status entity.Status) ([]*entity.Game, error) {
	query := `SELECT data FROM games WHERE status = $1 ORDER BY created_at, id`

	rows, err := that.conn.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("can't find games: %w", err)
	}
	defer rows.Close()

	var games []*entity.Game
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("can't scan game: %w", err)
		}

		game, err := decodeGame(string(raw))
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't find games: %w", err)
	}

	return games, nil
}

// UpdateIfVersion compares and swaps the version in a single UPDATE statement.
func (that *postgresGameRepository) UpdateIfVersion(ctx context.Context, game *entity.Game, expectedVersion int64) error {
	query := `
	UPDATE games
	SET status = $1, version = $2, data = $3
	WHERE id = $4 AND version = $5`

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	result, err := that.conn.ExecContext(ctx, query, game.Status, game.Version, string(gameJSON), game.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	if updated == 1 {
		return nil
	}

	var exists bool
	if err = that.conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1)`, game.ID).Scan(&exists); err != nil {
		return fmt.Errorf("can't update game: %w", err)
	}

	if !exists {
		return apperror.ErrGameNotFound
	}

	return fmt.Errorf("%w: expected version %d", apperror.ErrVersionMismatch, expectedVersion)
}
