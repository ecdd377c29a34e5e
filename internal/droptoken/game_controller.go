package droptoken

import (
	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

// NextPlayer returns the only player allowed to move: seat 0 on an empty log,
// otherwise whoever did not make the last move.
func NextPlayer(game *entity.Game) string {
	last, ok := game.LastMove()
	if !ok {
		return game.Players[0]
	}

	return game.Opponent(last.Player)
}

// MakeMove appends a MOVE by the player to the game and advances its lifecycle.
// On error the game is left untouched.
func MakeMove(game *entity.Game, playerID string, column int) (entity.Move, error) {
	seat, err := confirmMover(game, playerID)
	if err != nil {
		return entity.Move{}, err
	}

	if NextPlayer(game) != playerID {
		return entity.Move{}, apperror.ErrOutOfTurn
	}

	board, err := Replay(game)
	if err != nil {
		return entity.Move{}, err
	}

	token := TokenForSeat(seat)

	board, position, err := Apply(board, column, token)
	if err != nil {
		return entity.Move{}, err
	}

	move := game.Append(entity.Move{
		Type:   entity.MoveTypeMove,
		Player: playerID,
		Column: column,
	})

	updateGameStatus(game, board, position, token, playerID)

	return move, nil
}

// Quit appends a QUIT by the player; the opponent wins by abandonment.
// A player may quit regardless of whose turn it is.
func Quit(game *entity.Game, playerID string) (entity.Move, error) {
	if _, err := confirmMover(game, playerID); err != nil {
		return entity.Move{}, err
	}

	move := game.Append(entity.Move{
		Type:   entity.MoveTypeQuit,
		Player: playerID,
	})

	game.Status = entity.StatusAbandoned
	game.Winner = game.Opponent(playerID)

	return move, nil
}

func confirmMover(game *entity.Game, playerID string) (int, error) {
	if err := game.ConfirmActiveState(); err != nil {
		return -1, err
	}

	seat, ok := game.Seat(playerID)
	if !ok {
		return -1, apperror.ErrPlayerNotInGame
	}

	return seat, nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.Game, board Board, last Position, token Token, playerID string) {
	switch {
	case Wins(board, last, token):
		game.Status = entity.StatusComplete
		game.Winner = playerID
	case board.IsFull():
		// draw
		game.Status = entity.StatusComplete
		game.Winner = ""
	}
}
