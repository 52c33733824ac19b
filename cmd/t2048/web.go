package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket server",
	Long: `Serve endless 2048 to browsers over WebSocket.

Endpoints:
  GET /                     - Browser client
  GET /ws                   - Play; each connection gets its own game
  GET /ws/watch/{session}   - Spectate a game
  GET /api/scores/{game}    - Top scores as JSON
  GET /api/sessions         - Running games
  GET /healthz              - Health check

Examples:
  t2048 web
  t2048 web --addr :9000 --difficulty easy`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger := newLogger("t2048-web")

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	opts := session.Options{
		Engine: appConfig.EngineConfig(),
		GameID: t2048.IDEndless,
		Seed:   flagSeed,
		Logger: logger,
	}
	var scores websocket.ScoreSource
	if store != nil {
		opts.Sink = store
		scores = store
	}

	sessions, err := session.NewManager(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              flagWebAddr,
		Handler:           websocket.NewServer(sessions, hub, scores, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "address", flagWebAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
