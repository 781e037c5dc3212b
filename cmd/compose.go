package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirwalterjones/sessionmailer2-sub000/config"
	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/fetch"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/normalize"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/output"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/pipeline"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/render"
)

type composeFlags struct {
	html, text, pdf, json bool

	mode      string
	rules     string
	outputDir string
	heroes    []string
	allowAny  bool
	all       bool

	branding core.BrandingOptions
}

func newComposeCmd(cfg *config.Config) *cobra.Command {
	f := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose <url>...",
		Short: "Compose an email from one or more booking pages",
		Long: `Compose fetches each booking page, extracts its session details and
writes the composed email (or its plain-text, PDF or JSON form).

Pages that fail to load are replaced by placeholder sessions; the
command only fails when a URL is rejected outright.`,
		Example: `  sessionmailer compose https://app.usesession.com/s/fall-minis --html
  sessionmailer compose https://app.usesession.com/s/a https://app.usesession.com/s/b --pdf --output_dir ./out
  sessionmailer compose https://app.usesession.com/p/jane-doe --all --html
  sessionmailer compose https://app.usesession.com/s/a --html --primary-color "#0a7d5a" \
      --hero https://app.usesession.com/s/a=https://cdn.example.com/hero.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, *cfg, f, args)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.html, "html", false, "Output the HTML email")
	fl.BoolVar(&f.text, "text", false, "Output the plain-text alternative")
	fl.BoolVar(&f.pdf, "pdf", false, "Output a PDF proof sheet of the sessions")
	fl.BoolVar(&f.json, "json", false, "Output sessions and email as JSON")

	fl.StringVar(&f.mode, "mode", "", "Fetch mode: auto, static or dynamic (default from SESSIONMAILER_FETCH_MODE)")
	fl.StringVar(&f.rules, "rules", "", "YAML file overriding the extraction heuristics")
	fl.StringVar(&f.outputDir, "output_dir", "", "Output directory (default: current directory)")
	fl.StringArrayVar(&f.heroes, "hero", nil, "Hero image override as <session-url>=<image-url> (repeatable)")
	fl.BoolVar(&f.allowAny, "any-domain", false, "Accept URLs outside the allowed booking domain")
	fl.BoolVar(&f.all, "all", false, "Treat each URL as a listing page and compose every session linked from it")

	fl.StringVar(&f.branding.PrimaryColor, "primary-color", "", "Primary brand color")
	fl.StringVar(&f.branding.SecondaryColor, "secondary-color", "", "Secondary brand color")
	fl.StringVar(&f.branding.HeadingTextColor, "heading-color", "", "Heading text color")
	fl.StringVar(&f.branding.ParagraphTextColor, "text-color", "", "Paragraph text color")
	fl.StringVar(&f.branding.HeadingFont, "heading-font", "", "Heading font family")
	fl.StringVar(&f.branding.ParagraphFont, "text-font", "", "Paragraph font family")
	fl.IntVar(&f.branding.HeadingFontSize, "heading-size", 0, "Heading font size in px")
	fl.IntVar(&f.branding.ParagraphFontSize, "text-size", 0, "Paragraph font size in px")

	return cmd
}

func runCompose(cmd *cobra.Command, cfg config.Config, f *composeFlags, urls []string) error {
	renderer, err := f.renderer()
	if err != nil {
		return err
	}
	heroes, err := parseHeroes(f.heroes)
	if err != nil {
		return err
	}

	modeName := cfg.FetchMode
	if f.mode != "" {
		modeName = f.mode
	}
	mode, err := fetch.ParseMode(modeName)
	if err != nil {
		return err
	}
	rulesFile := cfg.RulesFile
	if f.rules != "" {
		rulesFile = f.rules
	}
	if f.allowAny {
		cfg.AllowedDomain = ""
	}

	p, err := newPipeline(cfg, mode, rulesFile)
	if err != nil {
		return err
	}
	writer, err := output.New(f.outputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	if f.all {
		urls, err = discoverAll(cmd, p, urls)
		if err != nil {
			return err
		}
	}

	req := pipeline.Request{URLs: urls, BrandingOptions: f.branding}
	req.SessionHeroImages = heroes

	fmt.Fprintf(os.Stdout, "Composing %d session(s)...\n", len(urls))
	resp, err := p.Process(cmd.Context(), req)
	if err != nil {
		return err
	}

	failed := 0
	for _, s := range resp.Sessions {
		if s.Error != "" {
			failed++
			fmt.Fprintf(os.Stderr, "  ✗ %s: %s\n", s.URL, s.Error)
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d sessions used placeholder content\n", failed, len(resp.Sessions))
	}

	data, err := renderer.Render(resp.EmailHTML, resp.Sessions)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	path, err := writer.Write(urls, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// discoverAll expands listing pages into the session pages they link to.
func discoverAll(cmd *cobra.Command, p *pipeline.Pipeline, listings []string) ([]string, error) {
	var urls []string
	for _, listing := range listings {
		fmt.Fprintf(os.Stdout, "Discovering sessions from %s...\n", listing)
		links, err := p.Discover(cmd.Context(), listing)
		if err != nil {
			return nil, fmt.Errorf("discovering sessions: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Found %d sessions\n", len(links))
		urls = append(urls, links...)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no session links found")
	}
	return urls, nil
}

// renderer picks the output format; exactly one flag must be set.
func (f *composeFlags) renderer() (core.Renderer, error) {
	count := 0
	for _, set := range []bool{f.html, f.text, f.pdf, f.json} {
		if set {
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("exactly one output format is required: --html, --text, --pdf, or --json")
	}
	if count > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", count)
	}

	switch {
	case f.text:
		return render.NewTextRenderer(normalize.New()), nil
	case f.pdf:
		return render.NewPDFRenderer(), nil
	case f.json:
		return render.NewJSONRenderer(), nil
	default:
		return render.NewHTMLRenderer(), nil
	}
}

// parseHeroes turns url=image pairs into the override map. Either URL may
// carry a query string, so the split prefers the "=" that starts the
// image URL's scheme.
func parseHeroes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		i := strings.Index(p, "=http")
		if i < 0 {
			i = strings.Index(p, "=")
		}
		if i <= 0 || i == len(p)-1 {
			return nil, fmt.Errorf("invalid --hero %q (want <session-url>=<image-url>)", p)
		}
		out[p[:i]] = p[i+1:]
	}
	return out, nil
}
