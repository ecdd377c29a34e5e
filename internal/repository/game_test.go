package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
	"github.com/rocketscienceinc/droptoken-backend/testing/suite"
)

func TestRedisGameRepository(t *testing.T) {
	ctx, st := suite.New(t)

	testGameRepository(ctx, t, NewGameRepository(st.Storage))
}

func newStoredGame(ctx context.Context, t *testing.T, gameRepo GameRepository) *entity.Game {
	t.Helper()

	game := entity.NewGame(uuid.NewString(), [2]string{"A", "B"}, 4, 4)
	require.NoError(t, gameRepo.Create(ctx, game))

	return game
}

func gameIDs(games []*entity.Game) []string {
	ids := make([]string, 0, len(games))
	for _, game := range games {
		ids = append(ids, game.ID)
	}

	return ids
}

// testGameRepository runs the store contract against any GameRepository.
func testGameRepository(ctx context.Context, t *testing.T, gameRepo GameRepository) {
	t.Run("Create_and_GetByID", func(t *testing.T) {
		// Given: a stored game
		game := newStoredGame(ctx, t, gameRepo)

		// When: GetByID is called with its ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game matches the saved one
		require.NoError(t, err)
		assert.Equal(t, game.ID, retrievedGame.ID)
		assert.Equal(t, game.Players, retrievedGame.Players)
		assert.Equal(t, game.Rows, retrievedGame.Rows)
		assert.Equal(t, game.Columns, retrievedGame.Columns)
		assert.Equal(t, entity.StatusActive, retrievedGame.Status)
		assert.Empty(t, retrievedGame.Moves)
		assert.NotNil(t, retrievedGame.Moves)
		assert.True(t, game.CreatedAt.Equal(retrievedGame.CreatedAt))
	})

	t.Run("Create_AlreadyExists", func(t *testing.T) {
		// Given: a stored game
		game := newStoredGame(ctx, t, gameRepo)

		// When: a game with the same ID is created again
		err := gameRepo.Create(ctx, game)

		// Then: ErrGameAlreadyExists is returned
		require.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})

	t.Run("UpdateIfVersion_Success", func(t *testing.T) {
		// Given: a stored game and a move appended to a copy
		game := newStoredGame(ctx, t, gameRepo)
		updated := game.Clone()
		updated.Append(entity.Move{Type: entity.MoveTypeMove, Player: "A", Column: 2})

		// When: the copy is written against the version that was read
		err := gameRepo.UpdateIfVersion(ctx, updated, game.Version)

		// Then: the store holds the new move log and version
		require.NoError(t, err)

		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Moves, retrievedGame.Moves)
		assert.Equal(t, int64(1), retrievedGame.Version)
	})

	t.Run("UpdateIfVersion_Mismatch", func(t *testing.T) {
		// Given: a game that has already moved past version 0
		game := newStoredGame(ctx, t, gameRepo)
		first := game.Clone()
		first.Append(entity.Move{Type: entity.MoveTypeMove, Player: "A", Column: 0})
		require.NoError(t, gameRepo.UpdateIfVersion(ctx, first, game.Version))

		// When: a stale copy is written against version 0
		stale := game.Clone()
		stale.Append(entity.Move{Type: entity.MoveTypeMove, Player: "A", Column: 3})
		err := gameRepo.UpdateIfVersion(ctx, stale, game.Version)

		// Then: the write is rejected as a conflict and the store is unchanged
		require.ErrorIs(t, err, apperror.ErrVersionMismatch)
		assert.ErrorIs(t, err, apperror.ErrConflict)

		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Moves, retrievedGame.Moves)
	})

	t.Run("UpdateIfVersion_NotFound", func(t *testing.T) {
		game := entity.NewGame(uuid.NewString(), [2]string{"A", "B"}, 4, 4)

		err := gameRepo.UpdateIfVersion(ctx, game, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("UpdateIfVersion_ConcurrentWriters", func(t *testing.T) {
		// Given: two writers that read the same version
		game := newStoredGame(ctx, t, gameRepo)

		const writers = 2
		var (
			wg    sync.WaitGroup
			start = make(chan struct{})
			errs  = make([]error, writers)
		)

		for i := 0; i < writers; i++ {
			updated := game.Clone()
			updated.Append(entity.Move{Type: entity.MoveTypeMove, Player: "A", Column: i})

			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				errs[i] = gameRepo.UpdateIfVersion(ctx, updated, game.Version)
			}(i)
		}

		// When: both write at once
		close(start)
		wg.Wait()

		// Then: exactly one write wins and the other is a conflict
		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, apperror.ErrConflict)
		}
		assert.Equal(t, 1, succeeded)

		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Len(t, retrievedGame.Moves, 1)
	})

	t.Run("FindByStatus", func(t *testing.T) {
		// Given: one active and one abandoned game
		active := newStoredGame(ctx, t, gameRepo)
		abandoned := newStoredGame(ctx, t, gameRepo)

		quit := abandoned.Clone()
		quit.Append(entity.Move{Type: entity.MoveTypeQuit, Player: "B"})
		quit.Status = entity.StatusAbandoned
		quit.Winner = "A"
		require.NoError(t, gameRepo.UpdateIfVersion(ctx, quit, abandoned.Version))

		// When: active games are listed
		games, err := gameRepo.FindByStatus(ctx, entity.StatusActive)
		require.NoError(t, err)

		// Then: only the active game is returned
		ids := gameIDs(games)
		assert.Contains(t, ids, active.ID)
		assert.NotContains(t, ids, abandoned.ID)

		// And: the abandoned one is found under its own status
		games, err = gameRepo.FindByStatus(ctx, entity.StatusAbandoned)
		require.NoError(t, err)
		assert.Contains(t, gameIDs(games), abandoned.ID)
	})
}
