package usecase

import (
	"context"

	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

// GameUseCase is the request surface of the drop token service.
type GameUseCase interface {
	CreateGame(ctx context.Context, players []string, rows, columns int) (string, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	ListActiveGames(ctx context.Context) ([]string, error)

	SubmitMove(ctx context.Context, gameID, playerID string, column int) (entity.MoveRef, error)
	Quit(ctx context.Context, gameID, playerID string) error

	ListMoves(ctx context.Context, gameID string, moveRange MoveRange) ([]entity.Move, error)
	GetMove(ctx context.Context, gameID string, moveNumber int) (entity.Move, error)
}

// MoveRange selects the inclusive sub-range [Start, Until] of a move log. Nil bounds are open.
type MoveRange struct {
	Start *int
	Until *int
}

var _ GameUseCase = (*GameManager)(nil)
