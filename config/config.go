// Package config loads runtime settings from the environment. A .env file
// in the working directory, when present, is read first.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sirwalterjones/sessionmailer2-sub000/core/fetch"
	"github.com/sirwalterjones/sessionmailer2-sub000/logging"
)

// Prefix is prepended to every variable name.
const Prefix = "SESSIONMAILER_"

var (
	// ErrParsingConfig is returned when the environment cannot be decoded.
	ErrParsingConfig = errors.New("failed to parse environment into config")
	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds every tunable of the server and CLI.
type Config struct {
	Addr          string `env:"ADDR" envDefault:":8080"`
	BaseURL       string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	AllowedDomain string `env:"ALLOWED_DOMAIN" envDefault:"usesession.com"`

	FetchMode    string        `env:"FETCH_MODE" envDefault:"auto"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	SettleDelay  time.Duration `env:"SETTLE_DELAY" envDefault:"2s"`
	IdleWait     time.Duration `env:"IDLE_WAIT" envDefault:"10s"`
	Concurrency  int           `env:"CONCURRENCY" envDefault:"3"`
	UserAgent    string        `env:"USER_AGENT"`
	ChromePath   string        `env:"CHROME_PATH"`

	// RulesFile is an optional YAML overlay for the extraction heuristics.
	RulesFile string `env:"RULES_FILE"`
	// SessionPathPattern picks session links out of listing pages.
	SessionPathPattern string `env:"SESSION_PATH_PATTERN"`
	MaxDiscovered      int    `env:"MAX_DISCOVERED" envDefault:"20"`

	RateLimitPerHour int `env:"RATE_LIMIT_PER_HOUR" envDefault:"100"`
	RateLimitBurst   int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the optional dotenv files (default ".env") and parses the
// environment into a Config. The result is not validated.
func Load(dotenv ...string) (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load(dotenv...)

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if _, err := fetch.ParseMode(c.FetchMode); err != nil {
		errs = append(errs, err)
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.SettleDelay < 0 || c.IdleWait < 0 {
		errs = append(errs, errors.New("settle delay and idle wait must not be negative"))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.RateLimitPerHour <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit and burst must be positive"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatJSON, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// FetchOptions returns the fetcher settings.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:   c.UserAgent,
		Timeout:     c.FetchTimeout,
		SettleDelay: c.SettleDelay,
		IdleWait:    c.IdleWait,
		ChromePath:  c.ChromePath,
	}
}
