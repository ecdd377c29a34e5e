package rest

import "github.com/rocketscienceinc/droptoken-backend/internal/entity"

type createGameRequest struct {
	Players []string `json:"players"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
}

type createGameResponse struct {
	GameID string `json:"gameId"`
}

type listGamesResponse struct {
	Games []string `json:"games"`
}

type gameResponse struct {
	Players []string `json:"players"`
	State   string   `json:"state"`
	Winner  string   `json:"winner,omitempty"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
}

type submitMoveRequest struct {
	Column *int `json:"column"`
}

type submitMoveResponse struct {
	Move string `json:"move"`
}

// moveResponse leaves column out for QUIT moves.
type moveResponse struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Column *int   `json:"column,omitempty"`
}

type listMovesResponse struct {
	Moves []moveResponse `json:"moves"`
}

type errorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func newGameResponse(game *entity.Game) gameResponse {
	return gameResponse{
		Players: game.Players[:],
		State:   string(game.Status),
		Winner:  game.Winner,
		Rows:    game.Rows,
		Columns: game.Columns,
	}
}

func newMoveResponse(move entity.Move) moveResponse {
	resp := moveResponse{
		Type:   string(move.Type),
		Player: move.Player,
	}

	if move.Type == entity.MoveTypeMove {
		column := move.Column
		resp.Column = &column
	}

	return resp
}
