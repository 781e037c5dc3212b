package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// Mode selects the fetch strategy.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModeStatic, ModeDynamic:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q (want auto, static or dynamic)", s)
	}
}

// Provider hands out request-scoped fetchers.
type Provider struct {
	mode Mode
	opts Options
}

// NewProvider creates a Provider for the given strategy.
func NewProvider(mode Mode, opts Options) *Provider {
	return &Provider{mode: mode, opts: opts.withDefaults()}
}

// Open returns a fetcher for one request and the release func that frees
// it. release must always be called; it stops any browser the fetcher
// started, and is safe to call when none was.
func (p *Provider) Open(ctx context.Context) (core.Fetcher, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	switch p.mode {
	case ModeStatic:
		return New(p.opts), func() {}, nil
	case ModeDynamic:
		b := NewBrowser(p.opts)
		return b, closeFunc(b), nil
	case ModeAuto:
		b := NewBrowser(p.opts)
		return NewSmart(New(p.opts), b), closeFunc(b), nil
	default:
		return nil, nil, fmt.Errorf("unknown fetch mode %q", p.mode)
	}
}

func closeFunc(b *BrowserFetcher) func() {
	return func() {
		if err := b.Close(); err != nil {
			slog.Warn("browser did not shut down cleanly", "error", err)
		}
	}
}
