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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Vibesync/internal/adapters/auth"
	router "github.com/dkeye/Vibesync/internal/adapters/http"
	sockets "github.com/dkeye/Vibesync/internal/adapters/signal"
	"github.com/dkeye/Vibesync/internal/app"
	"github.com/dkeye/Vibesync/internal/app/orch"
	"github.com/dkeye/Vibesync/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer cancel()

	authCfg, err := auth.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("close store")
		}
	}()

	presence := app.NewPresence()
	group := app.NewGroup(app.SimplePolicy{})
	o := &orch.Orchestrator{
		Presence:  presence,
		Group:     group,
		Validator: auth.NewJWTValidator(authCfg, store),
		Directory: store,
		Dispatcher: &orch.Dispatcher{
			Group:    group,
			Limiter:  app.NewRateLimiter(cfg.RateLimit, cfg.RateInterval),
			Playback: store,
		},
		HeartbeatInterval: cfg.HeartbeatInterval,
	}

	g, gctx := errgroup.WithContext(ctx)
	ws := sockets.NewRoomWSController(o, router.SocketOptions(cfg))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRouter(gctx, cfg, o, store, ws),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("module", "main").Str("addr", addr).Msg("Vibesync server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("module", "main").Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		// Shutdown does not track hijacked sockets: drain them before the store closes.
		return ws.Wait(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Str("module", "main").Msg("Server exited gracefully")
	return nil
}
