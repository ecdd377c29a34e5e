package droptoken

import (
	"testing"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(rows, columns int) *entity.Game {
	return entity.NewGame("123", [2]string{"A", "B"}, rows, columns)
}

func playMoves(t *testing.T, game *entity.Game, columns ...int) {
	t.Helper()

	for _, column := range columns {
		_, err := MakeMove(game, NextPlayer(game), column)
		require.NoError(t, err)
	}
}

func TestNextPlayer(t *testing.T) {
	t.Run("First seat moves on an empty log", func(t *testing.T) {
		game := newTestGame(4, 4)

		assert.Equal(t, "A", NextPlayer(game))
	})

	t.Run("Players alternate", func(t *testing.T) {
		game := newTestGame(4, 4)
		playMoves(t, game, 0)

		assert.Equal(t, "B", NextPlayer(game))

		playMoves(t, game, 1)

		assert.Equal(t, "A", NextPlayer(game))
	})
}

func TestMakeMove(t *testing.T) {
	t.Run("Successful move", func(t *testing.T) {
		// Given: a new game
		game := newTestGame(4, 4)

		// When: the first player drops into column 2
		move, err := MakeMove(game, "A", 2)
		require.NoError(t, err)

		// Then: the move is the first entry of the log and the game stays active
		expectedMove := entity.Move{Seq: 0, Type: entity.MoveTypeMove, Player: "A", Column: 2}
		assert.Equal(t, expectedMove, move)
		assert.Equal(t, []entity.Move{expectedMove}, game.Moves)
		assert.Equal(t, entity.StatusActive, game.Status)
		assert.Equal(t, int64(1), game.Version)
		assert.Empty(t, game.Winner)
	})

	t.Run("Vertical win completes the game", func(t *testing.T) {
		// Given: A and B alternate columns 0 and 1 on a 4x4 board
		game := newTestGame(4, 4)
		playMoves(t, game, 0, 1, 0, 1, 0, 1)

		// When: A drops the fourth token into column 0
		move, err := MakeMove(game, "A", 0)
		require.NoError(t, err)

		// Then: A wins and the game is complete
		assert.Equal(t, 6, move.Seq)
		assert.Equal(t, entity.StatusComplete, game.Status)
		assert.Equal(t, "A", game.Winner)

		board, err := Replay(game)
		require.NoError(t, err)
		for row := 0; row < 4; row++ {
			assert.Equal(t, FirstSeat, board.At(row, 0))
		}
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a 2x2 board, which can never hold four in a row
		game := newTestGame(2, 2)
		playMoves(t, game, 0, 0, 1)

		// When: the last cell is filled
		_, err := MakeMove(game, "B", 1)
		require.NoError(t, err)

		// Then: the game is complete with no winner
		assert.Equal(t, entity.StatusComplete, game.Status)
		assert.Empty(t, game.Winner)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new game where it's A's turn
		game := newTestGame(4, 4)

		// When: B tries to move
		_, err := MakeMove(game, "B", 1)

		// Then: ErrOutOfTurn is returned, which is a conflict
		require.ErrorIs(t, err, apperror.ErrOutOfTurn)
		assert.ErrorIs(t, err, apperror.ErrConflict)

		// And: the log is unchanged
		assert.Empty(t, game.Moves)
		assert.Equal(t, int64(0), game.Version)
	})

	t.Run("Error on the same player moving twice", func(t *testing.T) {
		game := newTestGame(4, 4)
		playMoves(t, game, 0)

		_, err := MakeMove(game, "A", 1)

		require.ErrorIs(t, err, apperror.ErrOutOfTurn)
		assert.Len(t, game.Moves, 1)
	})

	t.Run("Error on full column", func(t *testing.T) {
		// Given: column 0 holds rows tokens
		game := newTestGame(2, 4)
		playMoves(t, game, 0, 0)

		// When: A drops into column 0 again
		_, err := MakeMove(game, "A", 0)

		// Then: ErrColumnFull is returned and the log is unchanged
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Len(t, game.Moves, 2)
		assert.Equal(t, entity.StatusActive, game.Status)
	})

	t.Run("Error on invalid column", func(t *testing.T) {
		game := newTestGame(4, 4)

		_, err := MakeMove(game, "A", 4)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Empty(t, game.Moves)
	})

	t.Run("Error on player outside the game", func(t *testing.T) {
		game := newTestGame(4, 4)

		_, err := MakeMove(game, "C", 0)

		require.ErrorIs(t, err, apperror.ErrPlayerNotInGame)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Error on move after the game is won", func(t *testing.T) {
		// Given: A has already won
		game := newTestGame(4, 4)
		playMoves(t, game, 0, 1, 0, 1, 0, 1, 0)
		require.Equal(t, entity.StatusComplete, game.Status)

		// When: B tries to keep playing
		_, err := MakeMove(game, "B", 2)

		// Then: ErrGameFinished is returned and the log is unchanged
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Len(t, game.Moves, 7)
	})

	t.Run("Error on unknown status", func(t *testing.T) {
		game := newTestGame(4, 4)
		game.Status = "unknown"

		_, err := MakeMove(game, "A", 0)

		require.ErrorIs(t, err, entity.ErrUnknownGameStatus)
	})
}

func TestQuit(t *testing.T) {
	t.Run("Quit on an empty game abandons it", func(t *testing.T) {
		// Given: an active game with no moves
		game := newTestGame(4, 4)

		// When: B quits
		move, err := Quit(game, "B")
		require.NoError(t, err)

		// Then: the game is abandoned and A wins
		assert.Equal(t, entity.Move{Seq: 0, Type: entity.MoveTypeQuit, Player: "B"}, move)
		assert.Equal(t, entity.StatusAbandoned, game.Status)
		assert.Equal(t, "A", game.Winner)
	})

	t.Run("Quit out of turn is allowed", func(t *testing.T) {
		game := newTestGame(4, 4)
		playMoves(t, game, 0)

		_, err := Quit(game, "A")
		require.NoError(t, err)

		assert.Equal(t, entity.StatusAbandoned, game.Status)
		assert.Equal(t, "B", game.Winner)
	})

	t.Run("Error on quit after the game is abandoned", func(t *testing.T) {
		game := newTestGame(4, 4)
		_, err := Quit(game, "A")
		require.NoError(t, err)

		_, err = Quit(game, "B")
		require.ErrorIs(t, err, apperror.ErrGameFinished)

		_, err = MakeMove(game, "B", 0)
		require.ErrorIs(t, err, apperror.ErrGameFinished)

		assert.Len(t, game.Moves, 1)
	})

	t.Run("Error on player outside the game", func(t *testing.T) {
		game := newTestGame(4, 4)

		_, err := Quit(game, "C")

		require.ErrorIs(t, err, apperror.ErrPlayerNotInGame)
		assert.Empty(t, game.Moves)
	})
}
