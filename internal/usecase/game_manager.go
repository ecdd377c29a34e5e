package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/droptoken"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
	"github.com/rocketscienceinc/droptoken-backend/internal/metrics"
)

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByStatus(ctx context.Context, status entity.Status) ([]*entity.Game, error)
	UpdateIfVersion(ctx context.Context, game *entity.Game, expectedVersion int64) error
}

type gameMetrics interface {
	IncGamesCreated()
	IncGamesFinished(status string)
	ObserveMove(moveType, result string)
}

// GameManager coordinates a request against one game aggregate: load, apply the
// game rules to a copy, then persist the copy guarded by the version that was read.
// A lost race is reported as a conflict and never retried here.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	metrics  gameMetrics

	newGameID func() string
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, metrics gameMetrics) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game-manager"),
		gameRepo: gameRepo,
		metrics:  metrics,

		newGameID: uuid.NewString,
	}
}

func (that *GameManager) CreateGame(ctx context.Context, players []string, rows, columns int) (string, error) {
	if err := validateNewGame(players, rows, columns); err != nil {
		return "", err
	}

	game := entity.NewGame(that.newGameID(), [entity.PlayerCount]string{players[0], players[1]}, rows, columns)
	if err := that.gameRepo.Create(ctx, game); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.IncGamesCreated()
	that.logger.Info("game created", "gameID", game.ID, "players", game.Players, "rows", rows, "columns", columns)

	return game.ID, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	if err := validateRequired("game id", gameID); err != nil {
		return nil, err
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) ListActiveGames(ctx context.Context) ([]string, error) {
	games, err := that.gameRepo.FindByStatus(ctx, entity.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	ids := make([]string, 0, len(games))
	for _, game := range games {
		ids = append(ids, game.ID)
	}

	return ids, nil
}

func (that *GameManager) SubmitMove(ctx context.Context, gameID, playerID string, column int) (entity.MoveRef, error) {
	move, err := that.apply(ctx, gameID, playerID, entity.MoveTypeMove, func(game *entity.Game) (entity.Move, error) {
		return droptoken.MakeMove(game, playerID, column)
	})
	if err != nil {
		return entity.MoveRef{}, err
	}

	return entity.MoveRef{GameID: gameID, Seq: move.Seq}, nil
}

func (that *GameManager) Quit(ctx context.Context, gameID, playerID string) error {
	_, err := that.apply(ctx, gameID, playerID, entity.MoveTypeQuit, func(game *entity.Game) (entity.Move, error) {
		return droptoken.Quit(game, playerID)
	})

	return err
}

func (that *GameManager) ListMoves(ctx context.Context, gameID string, moveRange MoveRange) ([]entity.Move, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	from, to, err := validateMoveRange(moveRange, len(game.Moves))
	if err != nil {
		return nil, err
	}

	moves := make([]entity.Move, to-from)
	copy(moves, game.Moves[from:to])

	return moves, nil
}

func (that *GameManager) GetMove(ctx context.Context, gameID string, moveNumber int) (entity.Move, error) {
	if moveNumber < 0 {
		return entity.Move{}, apperror.Newf(apperror.ErrMalformedRequest, "move number must not be negative, got %d", moveNumber)
	}

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return entity.Move{}, err
	}

	if moveNumber >= len(game.Moves) {
		return entity.Move{}, apperror.ErrMoveNotFound
	}

	return game.Moves[moveNumber], nil
}

// apply runs one read-modify-write cycle for a move of the given type.
// Domain errors are returned as they are; only storage failures get context.
func (that *GameManager) apply(
	ctx context.Context,
	gameID, playerID string,
	moveType entity.MoveType,
	rule func(game *entity.Game) (entity.Move, error),
) (entity.Move, error) {
	log := that.logger.With("method", "apply", "gameID", gameID, "playerID", playerID, "type", moveType)

	if err := validateRequired("player id", playerID); err != nil {
		return entity.Move{}, err
	}

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return entity.Move{}, err
	}

	if err = validateMembership(game, playerID); err != nil {
		return entity.Move{}, err
	}

	updated := game.Clone()

	move, err := rule(updated)
	if err != nil {
		that.metrics.ObserveMove(string(moveType), metrics.ResultRejected)
		log.Debug("move rejected", "error", err)

		return entity.Move{}, err
	}

	if err = that.gameRepo.UpdateIfVersion(ctx, updated, game.Version); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			that.metrics.ObserveMove(string(moveType), metrics.ResultConflict)
			log.Info("move lost a race with another request", "version", game.Version)

			return entity.Move{}, err
		}

		if errors.Is(err, apperror.ErrNotFound) {
			return entity.Move{}, err
		}

		return entity.Move{}, fmt.Errorf("failed to save move: %w", err)
	}

	that.metrics.ObserveMove(string(moveType), metrics.ResultAccepted)

	if updated.IsFinished() {
		that.metrics.IncGamesFinished(string(updated.Status))
		log.Info("game finished", "status", updated.Status, "winner", updated.Winner, "moves", len(updated.Moves))
	}

	return move, nil
}
