package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
	"github.com/rocketscienceinc/droptoken-backend/internal/usecase"
)

func (that *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.uGame.ListActiveGames(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, listGamesResponse{Games: games})
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, apperror.Newf(apperror.ErrMalformedRequest, "invalid request body: %v", err))
		return
	}

	gameID, err := that.uGame.CreateGame(r.Context(), req.Players, req.Rows, req.Columns)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, createGameResponse{GameID: gameID})
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.GetGame(r.Context(), r.PathValue("gameId"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *Server) handleListMoves(w http.ResponseWriter, r *http.Request) {
	var (
		moveRange usecase.MoveRange
		err       error
	)

	query := r.URL.Query()
	if moveRange.Start, err = parseOptionalInt(query.Get("start"), "start"); err != nil {
		that.writeError(w, r, err)
		return
	}
	if moveRange.Until, err = parseOptionalInt(query.Get("until"), "until"); err != nil {
		that.writeError(w, r, err)
		return
	}

	moves, err := that.uGame.ListMoves(r.Context(), r.PathValue("gameId"), moveRange)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	resp := listMovesResponse{Moves: make([]moveResponse, 0, len(moves))}
	for _, move := range moves {
		resp.Moves = append(resp.Moves, newMoveResponse(move))
	}

	that.writeJSON(w, http.StatusOK, resp)
}

func (that *Server) handleGetMove(w http.ResponseWriter, r *http.Request) {
	moveNumber, err := strconv.Atoi(r.PathValue("moveNumber"))
	if err != nil {
		that.writeError(w, r, apperror.Newf(apperror.ErrMalformedRequest, "move number must be an integer, got %q", r.PathValue("moveNumber")))
		return
	}

	move, err := that.uGame.GetMove(r.Context(), r.PathValue("gameId"), moveNumber)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMoveResponse(move))
}

func (that *Server) handleSubmitMove(w http.ResponseWriter, r *http.Request) {
	var req submitMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, apperror.Newf(apperror.ErrMalformedRequest, "invalid request body: %v", err))
		return
	}

	if req.Column == nil {
		that.writeError(w, r, apperror.New(apperror.ErrMalformedRequest, "column is required"))
		return
	}

	ref, err := that.uGame.SubmitMove(r.Context(), r.PathValue("gameId"), r.PathValue("playerId"), *req.Column)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, submitMoveResponse{Move: ref.String()})
}

func (that *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.Quit(r.Context(), r.PathValue("gameId"), r.PathValue("playerId")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func parseOptionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.Newf(apperror.ErrMalformedRequest, "%s must be an integer, got %q", name, raw)
	}

	return &value, nil
}
