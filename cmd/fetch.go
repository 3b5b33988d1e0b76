// Package cmd — fetch command.
// One-shot CLI mode: fetch one or more URLs through the browser pipeline and
// either print the text to stdout or render each page to a file.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/fetchpipe/core"
	"github.com/gaurav-prasanna/fetchpipe/core/output"
	"github.com/gaurav-prasanna/fetchpipe/core/render"
)

// Flag variables.
var (
	flagPDF      bool
	flagMarkdown bool
	flagJSON     bool

	flagTimeout           int
	flagWaitUntil         string
	flagNoExtract         bool
	flagMaxLength         int
	flagReturnHTML        bool
	flagKeepMedia         bool
	flagWaitForNavigation bool
	flagNavigationTimeout int

	flagOutputDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>...",
	Short: "Fetch one or more URLs through the browser pipeline",
	Long: `Fetch loads each URL in a headless browser, extracts the main content,
and normalizes it to Markdown. Without a format flag the result is printed
to stdout; with --markdown, --json, or --pdf each page is written to a file.

Examples:
  fetchpipe fetch https://example.com
  fetchpipe fetch https://example.com --markdown --output_dir ./out
  fetchpipe fetch https://a.com https://b.com --json
  fetchpipe fetch https://example.com --wait-until networkidle --max-length 5000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Output format flags (mutually exclusive, optional).
	fetchCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Write PDF files")
	fetchCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Write Markdown files")
	fetchCmd.Flags().BoolVar(&flagJSON, "json", false, "Write structured JSON files")

	// Fetch behavior flags.
	fetchCmd.Flags().IntVar(&flagTimeout, "timeout", 30000, "Navigation timeout in milliseconds")
	fetchCmd.Flags().StringVar(&flagWaitUntil, "wait-until", "load", "Navigation signal: load, domcontentloaded, networkidle, or commit")
	fetchCmd.Flags().BoolVar(&flagNoExtract, "no-extract", false, "Skip readability extraction and keep the full page")
	fetchCmd.Flags().IntVar(&flagMaxLength, "max-length", 0, "Maximum content length in characters (0 = unbounded)")
	fetchCmd.Flags().BoolVar(&flagReturnHTML, "return-html", false, "Return HTML instead of Markdown")
	fetchCmd.Flags().BoolVar(&flagKeepMedia, "keep-media", false, "Load images, stylesheets, fonts and media")
	fetchCmd.Flags().BoolVar(&flagWaitForNavigation, "wait-for-navigation", false, "Wait for a redirect or challenge navigation after the initial load")
	fetchCmd.Flags().IntVar(&flagNavigationTimeout, "navigation-timeout", 10000, "Timeout for the secondary-navigation wait in milliseconds")

	// Output directory.
	fetchCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	// --- Validate flags and URLs ---
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}
	for _, rawURL := range args {
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
		}
	}

	opts := buildFetchOptions()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager, orch := newStack()
	defer func() {
		if _, err := manager.Cleanup(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("browser cleanup failed")
		}
	}()

	// Text mode: print the delimited output and stop.
	if renderer == nil {
		var text string
		var err error
		if len(args) == 1 {
			text, err = orch.FetchOne(ctx, args[0], opts)
		} else {
			text, err = orch.FetchAll(ctx, args, opts)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, text)
		return nil
	}

	// Render mode: write one file per page.
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	results, err := orch.FetchDocuments(ctx, args, opts)
	if err != nil {
		return err
	}

	var errCount int
	for _, r := range results {
		pageURL := args[r.Index]
		if !r.Success {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", pageURL, r.Error)
			errCount++
			continue
		}

		data, err := renderer.Render(r.Body, buildMetadata(pageURL, r.Title))
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: render: %v\n", pageURL, err)
			errCount++
			continue
		}

		path, err := writer.Write(pageURL, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", pageURL, err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d pages failed", errCount, len(results))
	}
	return nil
}

// buildFetchOptions maps the command flags onto FetchOptions. Invalid
// wait-until values fall back to the default rather than failing.
func buildFetchOptions() core.FetchOptions {
	opts := core.FetchOptions{
		Timeout:           time.Duration(flagTimeout) * time.Millisecond,
		WaitUntil:         core.WaitUntilLoad,
		ExtractContent:    !flagNoExtract,
		MaxLength:         flagMaxLength,
		ReturnHTML:        flagReturnHTML,
		WaitForNavigation: flagWaitForNavigation,
		NavigationTimeout: time.Duration(flagNavigationTimeout) * time.Millisecond,
		DisableMedia:      !flagKeepMedia,
	}
	if w := core.WaitUntil(flagWaitUntil); w.Valid() {
		opts.WaitUntil = w
	}
	return opts
}

// buildMetadata constructs PageMetadata from the URL and the browser-reported
// title.
func buildMetadata(rawURL, title string) core.PageMetadata {
	parsed, _ := url.Parse(rawURL)

	return core.PageMetadata{
		URL:       rawURL,
		Domain:    parsed.Host,
		Path:      parsed.Path,
		Title:     title,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// selectRenderer creates the Renderer matching the format flags, or nil when
// no format flag is set (text mode).
func selectRenderer() (core.Renderer, error) {
	formatCount := 0
	if flagPDF {
		formatCount++
	}
	if flagMarkdown {
		formatCount++
	}
	if flagJSON {
		formatCount++
	}
	if formatCount > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, nil
	}
}
