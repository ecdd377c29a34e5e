package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusComplete  Status = "complete"
	StatusAbandoned Status = "abandoned"
)

type MoveType string

const (
	MoveTypeMove MoveType = "MOVE"
	MoveTypeQuit MoveType = "QUIT"
)

// PlayerCount is the number of seats at a drop token game.
const PlayerCount = 2

var ErrUnknownGameStatus = errors.New("unknown game status")

// Move is one entry of the append-only move log. Column is meaningful only for MoveTypeMove.
type Move struct {
	Seq    int      `json:"seq"`
	Type   MoveType `json:"type"`
	Player string   `json:"player"`
	Column int      `json:"column"`
}

// Game is the aggregate stored and versioned as a single unit.
type Game struct {
	ID        string              `json:"id"`
	Players   [PlayerCount]string `json:"players"`
	Rows      int                 `json:"rows"`
	Columns   int                 `json:"columns"`
	Moves     []Move              `json:"moves"`
	Status    Status              `json:"status"`
	Winner    string              `json:"winner,omitempty"`
	Version   int64               `json:"version"`
	CreatedAt time.Time           `json:"created_at"`
}

// MoveRef identifies a move by its position in a game's log.
type MoveRef struct {
	GameID string
	Seq    int
}

func (that MoveRef) String() string {
	return fmt.Sprintf("%s/moves/%d", that.GameID, that.Seq)
}

func NewGame(id string, players [PlayerCount]string, rows, columns int) *Game {
	return &Game{
		ID:        id,
		Players:   players,
		Rows:      rows,
		Columns:   columns,
		Moves:     []Move{},
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}
}

func (that *Game) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusComplete || that.Status == StatusAbandoned
}

// ConfirmActiveState reports whether the game still accepts moves.
func (that *Game) ConfirmActiveState() error {
	switch {
	case that.IsActive():
		return nil
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Seat returns the join-order index of the player, or false if the player is not in the game.
func (that *Game) Seat(playerID string) (int, bool) {
	for seat, id := range that.Players {
		if id == playerID {
			return seat, true
		}
	}

	return -1, false
}

func (that *Game) HasPlayer(playerID string) bool {
	_, ok := that.Seat(playerID)
	return ok
}

// Opponent returns the other participant. The caller must pass a participant.
func (that *Game) Opponent(playerID string) string {
	if that.Players[0] == playerID {
		return that.Players[1]
	}
	return that.Players[0]
}

func (that *Game) LastMove() (Move, bool) {
	if len(that.Moves) == 0 {
		return Move{}, false
	}

	return that.Moves[len(that.Moves)-1], true
}

// Append adds a move at the end of the log and bumps the version.
func (that *Game) Append(move Move) Move {
	move.Seq = len(that.Moves)
	that.Moves = append(that.Moves, move)
	that.Version++

	return move
}

// Clone returns a copy that can be mutated without touching the receiver's move log.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Moves = make([]Move, len(that.Moves))
	copy(clone.Moves, that.Moves)

	return &clone
}
