package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirwalterjones/sessionmailer2-sub000/api"
	"github.com/sirwalterjones/sessionmailer2-sub000/config"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/fetch"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SessionMailer HTTP API",
		Long: `Starts the HTTP API used by the web front end:

  POST /api/extract   extract sessions and compose the email
  POST /api/preview   re-compose extracted sessions with new branding
  POST /api/discover  list the session pages linked from a listing page
  POST /api/share     publish an email and get a share link
  GET  /share/{id}    view a shared email
  GET  /healthcheck`,
		Example: `  # Listen on the configured address (SESSIONMAILER_ADDR, default :8080)
  sessionmailer serve

  # Listen on a custom address
  sessionmailer serve --addr :3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), *cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	mode, err := fetch.ParseMode(cfg.FetchMode)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, mode, cfg.RulesFile)
	if err != nil {
		return err
	}

	handler := api.NewHandler(p, api.NewShareStore(), cfg.BaseURL)
	router := handler.Routes(api.NewLimiter(cfg.RateLimitPerHour, cfg.RateLimitBurst))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Extraction of several pages in a browser can take a while.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("SessionMailer API listening",
			"addr", cfg.Addr, "fetch_mode", mode, "allowed_domain", cfg.AllowedDomain)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
