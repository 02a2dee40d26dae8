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

	"github.com/desertthunder/soundtrack/internal/repositories"
	"github.com/desertthunder/soundtrack/internal/server"
	"github.com/desertthunder/soundtrack/internal/services"
	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/desertthunder/soundtrack/internal/store"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the relay and blocks until the context is cancelled or SIGINT/SIGTERM arrives.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"), true)
	if err != nil {
		return err
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}

	handler, cleanup, err := r.buildServer(config)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	r.logger.Info("relay listening", "addr", srv.Addr, "history", config.Database.Enabled())

	if cmd.Bool("open") {
		loginURL := fmt.Sprintf("http://%s/login", srv.Addr)
		if err := shared.OpenBrowser(loginURL); err != nil {
			r.logger.Warn("could not open browser", "url", loginURL, "error", err)
		}
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// buildServer wires the relay's dependencies from config. cleanup releases the history database.
func (r *Runner) buildServer(config *shared.Config) (http.Handler, func(), error) {
	auth, err := services.NewSpotifyAuth(config.Spotify, r.httpClient)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Spotify auth client: %w", err)
	}

	music := services.NewSpotifyService(config.Spotify.APIURL, r.httpClient)
	r.logger.Info("provider configured", "provider", music.Name(), "api", config.Spotify.APIURL)

	opts := server.Options{
		Sessions:         services.NewSessions(store.NewMemoryStore(), auth),
		Auth:             auth,
		Music:            music,
		FrontendRedirect: config.Spotify.FrontendRedirect,
		Logger:           shared.WithLogger(r.logger, "component", "http"),
	}

	cleanup := func() {}
	if config.Database.Enabled() {
		db, err := shared.OpenDatabase(config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		opts.History = repositories.NewPlaylistHistoryRepository(db)
		cleanup = func() { db.Close() }
	} else {
		r.logger.Debug("playlist history disabled")
	}

	return server.New(opts), cleanup, nil
}
