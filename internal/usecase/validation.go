package usecase

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
)

func validateNewGame(players []string, rows, columns int) error {
	if len(players) != entity.PlayerCount {
		return apperror.Newf(apperror.ErrMalformedRequest, "exactly %d players are required, got %d", entity.PlayerCount, len(players))
	}

	for _, player := range players {
		if err := validateRequired("player id", player); err != nil {
			return err
		}
	}

	if players[0] == players[1] {
		return apperror.Newf(apperror.ErrMalformedRequest, "players must be distinct, got %q twice", players[0])
	}

	if rows <= 0 {
		return apperror.Newf(apperror.ErrMalformedRequest, "rows must be a positive integer, got %d", rows)
	}

	if columns <= 0 {
		return apperror.Newf(apperror.ErrMalformedRequest, "columns must be a positive integer, got %d", columns)
	}

	return nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Newf(apperror.ErrMalformedRequest, "%s is required", field)
	}

	return nil
}

func validateMembership(game *entity.Game, playerID string) error {
	if !game.HasPlayer(playerID) {
		return apperror.ErrPlayerNotInGame
	}

	return nil
}

// validateMoveRange resolves the inclusive [start, until] bounds to a half-open slice range.
// A missing start means the first move and a missing until means the last one.
func validateMoveRange(r MoveRange, length int) (int, int, error) {
	if r.Start == nil && r.Until == nil {
		return 0, length, nil
	}

	if (r.Start != nil && *r.Start < 0) || (r.Until != nil && *r.Until < 0) {
		return 0, 0, fmt.Errorf("%w: start and until must not be negative", apperror.ErrInvalidRange)
	}

	start, until := 0, length-1
	if r.Start != nil {
		start = *r.Start
	}
	if r.Until != nil {
		until = *r.Until
	}

	switch {
	case start >= length || until >= length:
		return 0, 0, fmt.Errorf("%w: the game has %d moves", apperror.ErrInvalidRange, length)
	case start > until:
		return 0, 0, fmt.Errorf("%w: start %d is after until %d", apperror.ErrInvalidRange, start, until)
	}

	return start, until + 1, nil
}
