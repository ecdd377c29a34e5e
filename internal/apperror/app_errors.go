package apperror

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the game service reports to a caller matches one of these with errors.Is.
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrGameFinished     = errors.New("game is already finished")
)

var (
	ErrIllegalMove  = New(ErrMalformedRequest, "illegal move")
	ErrColumnFull   = New(ErrMalformedRequest, "column is full")
	ErrInvalidRange = New(ErrMalformedRequest, "invalid move range")

	ErrGameNotFound    = New(ErrNotFound, "game not found")
	ErrPlayerNotInGame = New(ErrNotFound, "player is not part of this game")
	ErrMoveNotFound    = New(ErrNotFound, "move not found")

	ErrOutOfTurn       = New(ErrConflict, "it's not your turn")
	ErrVersionMismatch = New(ErrConflict, "game was modified by another request")

	ErrGameAlreadyExists = errors.New("game already exists")
)

type kindError struct {
	kind    error
	message string
}

// New returns an error with its own message that still matches kind.
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Newf is New with a formatted message.
func Newf(kind error, format string, args ...any) error {
	return New(kind, fmt.Sprintf(format, args...))
}

func (that *kindError) Error() string {
	return that.message
}

func (that *kindError) Unwrap() error {
	return that.kind
}
