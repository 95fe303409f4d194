package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
	"github.com/rocketscienceinc/matchroom-backend/internal/repository"
)

type statusProvider interface {
	Snapshot(ctx context.Context, roomID string) (*entity.Snapshot, error)
}

type historyReader interface {
	ListByRoom(ctx context.Context, roomID string) ([]repository.RoundRecord, error)
}

// Start - starts the read-only HTTP server: liveness ping, room status
// snapshots and the round history archive.
func Start(ctx context.Context, logger *slog.Logger, port string, status statusProvider, history historyReader) error {
	router := newRouter(&handler{
		logger:  logger,
		status:  status,
		history: history,
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func newRouter(h *handler) http.Handler {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	router.Get("/ping", h.ping)
	router.Get("/rooms/{roomID}", h.roomStatus)
	router.Get("/rooms/{roomID}/history", h.roomHistory)

	return router
}
