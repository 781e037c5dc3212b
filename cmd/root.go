// Package cmd implements the SessionMailer CLI using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirwalterjones/sessionmailer2-sub000/config"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/discover"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/extract"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/fetch"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/normalize"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/pipeline"
	"github.com/sirwalterjones/sessionmailer2-sub000/logging"
)

// NewRootCmd builds the command tree. Configuration comes from the
// environment (SESSIONMAILER_*, optionally via .env) and is loaded once
// before any subcommand runs.
func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "sessionmailer",
		Short: "Turn photography booking pages into branded HTML emails",
		Long: `SessionMailer fetches one or more booking-session pages, extracts the
session details (title, description, price, dates, location, time slots
and images) and composes a responsive, email-safe HTML document.

Usage:
  sessionmailer compose <url>... [flags]
  sessionmailer serve [flags]`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			*cfg = loaded
			return setupLogging(*cfg)
		},
	}

	cmd.AddCommand(newComposeCmd(cfg))
	cmd.AddCommand(newServeCmd(cfg))
	return cmd
}

func setupLogging(cfg config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, logging.Format(cfg.LogFormat), level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// newPipeline wires fetch, discover, extract and normalize into a Pipeline.
func newPipeline(cfg config.Config, mode fetch.Mode, rulesFile string) (*pipeline.Pipeline, error) {
	rules, err := extract.LoadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	extractor, err := extract.New(rules)
	if err != nil {
		return nil, fmt.Errorf("building extractor: %w", err)
	}
	discoverer, err := discover.New(discover.Options{
		Domain:      cfg.AllowedDomain,
		PathPattern: cfg.SessionPathPattern,
		Limit:       cfg.MaxDiscovered,
	})
	if err != nil {
		return nil, err
	}
	provider := fetch.NewProvider(mode, cfg.FetchOptions())
	return pipeline.New(provider, extractor, normalize.New(), pipeline.Options{
		AllowedDomain: cfg.AllowedDomain,
		Concurrency:   cfg.Concurrency,
		Discoverer:    discoverer,
	}), nil
}
