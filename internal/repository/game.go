package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

const (
	gameKeyPrefix = "game:"
	scanBatchSize = 100
)

// GameRepository stores game aggregates. Writes to an existing game are
// conditioned on the version the caller read.
type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	FindByStatus(ctx context.Context, status entity.Status) ([]*entity.Game, error)
	UpdateIfVersion(ctx context.Context, game *entity.Game, expectedVersion int64) error
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type redisGameRepository struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &redisGameRepository{
		client: client,
	}
}

func (that *redisGameRepository) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKeyPrefix+game.ID, gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	return nil
}

func (that *redisGameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return getGame(ctx, that.client, gameKeyPrefix+id)
}

// FindByStatus scans every stored game and keeps those in the given status.
func (that *redisGameRepository) FindByStatus(ctx context.Context, status entity.Status) ([]*entity.Game, error) {
	var (
		games  []*entity.Game
		cursor uint64
	)

	for {
		keys, next, err := that.client.Scan(ctx, cursor, gameKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan games: %w", err)
		}

		batch, err := that.getMany(ctx, keys)
		if err != nil {
			return nil, err
		}

		for _, game := range batch {
			if game.Status == status {
				games = append(games, game)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	// SCAN may return a key more than once
	games = uniqueGames(games)

	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})

	return games, nil
}

// UpdateIfVersion replaces the stored game only when its version still equals expectedVersion.
// The read and the write run under WATCH, so a concurrent writer makes the transaction fail.
func (that *redisGameRepository) UpdateIfVersion(ctx context.Context, game *entity.Game, expectedVersion int64) error {
	gameKey := gameKeyPrefix + game.ID

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := getGame(ctx, tx, gameKey)
		if err != nil {
			return err
		}

		if stored.Version != expectedVersion {
			return fmt.Errorf("%w: expected version %d, stored %d", apperror.ErrVersionMismatch, expectedVersion, stored.Version)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, gameJSON, 0)
			return nil
		})

		return err
	}, gameKey)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s changed during update", apperror.ErrVersionMismatch, game.ID)
	}

	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *redisGameRepository) getMany(ctx context.Context, keys []string) ([]*entity.Game, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*entity.Game, 0, len(values))
	for i, value := range values {
		// deleted between SCAN and MGET
		if value == nil {
			continue
		}

		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type %T for %s", value, keys[i])
		}

		game, err := decodeGame(raw)
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}

func getGame(ctx context.Context, client stringGetter, gameKey string) (*entity.Game, error) {
	response, err := client.Get(ctx, gameKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return decodeGame(response)
}

func decodeGame(raw string) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal([]byte(raw), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if game.Moves == nil {
		game.Moves = []entity.Move{}
	}

	return &game, nil
}

func uniqueGames(games []*entity.Game) []*entity.Game {
	seen := make(map[string]struct{}, len(games))
	unique := games[:0]

	for _, game := range games {
		if _, ok := seen[game.ID]; ok {
			continue
		}

		seen[game.ID] = struct{}{}
		unique = append(unique, game)
	}

	return unique
}
