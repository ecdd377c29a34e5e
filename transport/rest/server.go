package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/droptoken-backend/internal/entity"
	"github.com/rocketscienceinc/droptoken-backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context, players []string, rows, columns int) (string, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	ListActiveGames(ctx context.Context) ([]string, error)

	SubmitMove(ctx context.Context, gameID, playerID string, column int) (entity.MoveRef, error)
	Quit(ctx context.Context, gameID, playerID string) error

	ListMoves(ctx context.Context, gameID string, moveRange usecase.MoveRange) ([]entity.Move, error)
	GetMove(ctx context.Context, gameID string, moveNumber int) (entity.Move, error)
}

type requestMetrics interface {
	ObserveRequest(route string, code int, duration time.Duration)
	Handler() http.Handler
}

type Server struct {
	logger  *slog.Logger
	uGame   gameUseCase
	metrics requestMetrics

	mux *http.ServeMux
}

func New(logger *slog.Logger, uGame gameUseCase, metrics requestMetrics) *Server {
	server := &Server{
		logger:  logger.With("component", "rest"),
		uGame:   uGame,
		metrics: metrics,

		mux: http.NewServeMux(),
	}

	server.handle("GET /ping", server.handlePing)
	server.mux.Handle("GET /metrics", metrics.Handler())

	server.handle("GET /drop_token", server.handleListGames)
	server.handle("POST /drop_token", server.handleCreateGame)
	server.handle("GET /drop_token/{gameId}", server.handleGetGame)
	server.handle("GET /drop_token/{gameId}/moves", server.handleListMoves)
	server.handle("GET /drop_token/{gameId}/moves/{moveNumber}", server.handleGetMove)
	server.handle("POST /drop_token/{gameId}/{playerId}", server.handleSubmitMove)
	server.handle("DELETE /drop_token/{gameId}/{playerId}", server.handleQuit)

	return server
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.mux.ServeHTTP(w, r)
}

// Start serves HTTP on the given port until ctx is canceled, then drains in-flight requests.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}
