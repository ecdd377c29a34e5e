package droptoken

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

var ErrCorruptMoveLog = errors.New("move log does not replay")

// Token is the content of a single board cell.
type Token uint8

const (
	Empty Token = iota
	FirstSeat
	SecondSeat
)

// TokenForSeat maps a join-order seat (0 or 1) to its token.
func TokenForSeat(seat int) Token {
	return Token(seat + 1)
}

type Position struct {
	Row    int
	Column int
}

// Board is a rows x columns grid. Row 0 is the bottom row, so every column
// is a contiguous stack of tokens starting at row 0. Only occupied columns are
// stored, so memory grows with the number of tokens and not with the dimensions.
type Board struct {
	rows    int
	columns int
	count   int
	stacks  map[int][]Token
}

func NewBoard(rows, columns int) Board {
	return Board{rows: rows, columns: columns, stacks: make(map[int][]Token)}
}

func (that Board) Rows() int {
	return that.rows
}

func (that Board) Columns() int {
	return that.columns
}

// At returns the token at the given cell, Empty when the cell is outside the grid.
func (that Board) At(row, column int) Token {
	if !that.contains(row, column) {
		return Empty
	}

	stack := that.stacks[column]
	if row >= len(stack) {
		return Empty
	}

	return stack[row]
}

// Height returns the number of tokens stacked in the column.
func (that Board) Height(column int) int {
	return len(that.stacks[column])
}

// Count returns the number of tokens on the board.
func (that Board) Count() int {
	return that.count
}

// IsFull compares without multiplying, rows*columns may not fit in an int.
func (that Board) IsFull() bool {
	return that.rows > 0 && that.count/that.rows >= that.columns
}

// Apply drops the token into the column and returns the resulting board together
// with the cell the token landed in. The given board is never modified.
func Apply(board Board, column int, token Token) (Board, Position, error) {
	next := board.clone()

	position, err := next.drop(column, token)
	if err != nil {
		return board, Position{}, err
	}

	return next, position, nil
}

// Replay derives the board of a game from its move log. QUIT moves have no board effect.
func Replay(game *entity.Game) (Board, error) {
	board := NewBoard(game.Rows, game.Columns)

	for _, move := range game.Moves {
		if move.Type != entity.MoveTypeMove {
			continue
		}

		seat, ok := game.Seat(move.Player)
		if !ok {
			return Board{}, fmt.Errorf("%w: move %d by unknown player %q", ErrCorruptMoveLog, move.Seq, move.Player)
		}

		if _, err := board.drop(move.Column, TokenForSeat(seat)); err != nil {
			return Board{}, fmt.Errorf("%w: move %d: %v", ErrCorruptMoveLog, move.Seq, err)
		}
	}

	return board, nil
}

func (that *Board) drop(column int, token Token) (Position, error) {
	if column < 0 || column >= that.columns {
		return Position{}, fmt.Errorf("%w: column %d is outside [0, %d)", apperror.ErrIllegalMove, column, that.columns)
	}

	row := that.Height(column)
	if row >= that.rows {
		return Position{}, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	that.stacks[column] = append(that.stacks[column], token)
	that.count++

	return Position{Row: row, Column: column}, nil
}

func (that Board) contains(row, column int) bool {
	return row >= 0 && row < that.rows && column >= 0 && column < that.columns
}

func (that Board) clone() Board {
	next := NewBoard(that.rows, that.columns)
	next.count = that.count
	for column, stack := range that.stacks {
		next.stacks[column] = append([]Token(nil), stack...)
	}

	return next
}
